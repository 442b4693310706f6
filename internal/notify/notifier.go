package notify

import (
	"context"
	"log/slog"

	"vestiga-portal/internal/payu"

	"github.com/redis/go-redis/v9"
)

const (
	ReconciliationStream = "reconciliation_stream"
	ReconciliationGroup  = "reconciliation_group"

	KindApplicationCreated = "application_created"
	KindPaymentUpdate      = "payment_update"
)

// QueueNotifier hands reconciliation work to the worker binary through a
// redis stream. Every method is best-effort: enqueue failures are logged and
// dropped, never surfaced to the caller.
type QueueNotifier struct {
	redisClient *redis.Client
}

func NewQueueNotifier(redisClient *redis.Client) *QueueNotifier {
	return &QueueNotifier{redisClient: redisClient}
}

func (n *QueueNotifier) NotifyTransition(ctx context.Context, result payu.TransitionResult) {
	n.enqueue(ctx, map[string]interface{}{
		"kind":          KindPaymentUpdate,
		"applicationId": result.ApplicationID,
		"oldStatus":     string(result.OldStatus),
		"newStatus":     string(result.NewStatus),
	})
}

func (n *QueueNotifier) ApplicationCreated(ctx context.Context, applicationID string) {
	n.enqueue(ctx, map[string]interface{}{
		"kind":          KindApplicationCreated,
		"applicationId": applicationID,
	})
}

func (n *QueueNotifier) enqueue(ctx context.Context, values map[string]interface{}) {
	err := n.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: ReconciliationStream,
		Values: values,
	}).Err()
	if err != nil {
		slog.Error("failed to enqueue reconciliation job", "values", values, "error", err)
	}
}
