package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"vestiga-portal/internal/applications/entities"

	"github.com/redis/go-redis/v9"
)

// ApplicationFinder is the read-only slice of the applicant repository the
// worker needs.
type ApplicationFinder interface {
	FindByID(ctx context.Context, id string) (entities.Application, bool)
}

// SheetSyncer mirrors the tabular record store client.
type SheetSyncer interface {
	AppendApplication(ctx context.Context, app entities.Application) error
	UpdateApplication(ctx context.Context, app entities.Application) error
}

// Messenger mirrors the messaging channel client.
type Messenger interface {
	SendApplicationConfirmation(ctx context.Context, app entities.Application) error
	SendPaymentConfirmation(ctx context.Context, app entities.Application) error
}

type Job struct {
	ID     string
	Values map[string]interface{}
}

// Consumer drains the reconciliation stream and drives the downstream
// collaborators. Failures are logged and the message stays pending for
// redelivery; they never flow back to the payment state.
type Consumer struct {
	redisClient *redis.Client
	finder      ApplicationFinder
	sheets      SheetSyncer
	messenger   Messenger
}

func NewConsumer(redisClient *redis.Client, finder ApplicationFinder, sheets SheetSyncer, messenger Messenger) *Consumer {
	return &Consumer{
		redisClient: redisClient,
		finder:      finder,
		sheets:      sheets,
		messenger:   messenger,
	}
}

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	_ = c.redisClient.XGroupCreateMkStream(ctx, ReconciliationStream, ReconciliationGroup, "$")

	numWorkers := runtime.NumCPU()
	slog.Info("starting reconciliation consumer", "workers", numWorkers)

	jobChan := make(chan Job, 1000)

	var wg sync.WaitGroup
	for i := 1; i <= numWorkers; i++ {
		wg.Add(1)
		go c.startWorker(ctx, jobChan, i, &wg)
	}

	hostname, _ := os.Hostname()
	c.readLoop(ctx, fmt.Sprintf("consumer-%s", hostname), jobChan)

	close(jobChan)
	wg.Wait()
}

func (c *Consumer) readLoop(ctx context.Context, consumerName string, jobChan chan<- Job) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		entries, err := c.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    ReconciliationGroup,
			Consumer: consumerName,
			Streams:  []string{ReconciliationStream, ">"},
			Block:    2 * time.Second,
			Count:    100,
		}).Result()
		if err != nil && err != redis.Nil {
			continue
		}

		for _, entry := range entries {
			for _, msg := range entry.Messages {
				jobChan <- Job{ID: msg.ID, Values: msg.Values}
			}
		}
	}
}

func (c *Consumer) startWorker(ctx context.Context, jobChan <-chan Job, id int, wg *sync.WaitGroup) {
	defer wg.Done()
	for job := range jobChan {
		if err := c.Process(ctx, job); err != nil {
			// Left unacked; the pending entry is picked up again.
			slog.Error("reconciliation job failed", "worker", id, "job", job.ID, "error", err)
			continue
		}
		c.redisClient.XAck(ctx, ReconciliationStream, ReconciliationGroup, job.ID)
	}
}

// Process executes one reconciliation job against the collaborators.
func (c *Consumer) Process(ctx context.Context, job Job) error {
	kind := stringValue(job.Values, "kind")
	applicationID := stringValue(job.Values, "applicationId")
	if applicationID == "" {
		slog.Warn("dropping reconciliation job without applicationId", "job", job.ID)
		return nil
	}

	app, exists := c.finder.FindByID(ctx, applicationID)
	if !exists {
		// The record may have been deleted since the job was enqueued.
		slog.Warn("reconciliation target no longer exists", "applicationId", applicationID)
		return nil
	}

	switch kind {
	case KindApplicationCreated:
		if err := c.sheets.AppendApplication(ctx, app); err != nil {
			return fmt.Errorf("sheets append: %w", err)
		}
		if err := c.messenger.SendApplicationConfirmation(ctx, app); err != nil {
			// The row landed; a lost message is not worth replaying the job.
			slog.Error("application confirmation message failed", "applicationId", applicationID, "error", err)
		}
		return nil

	case KindPaymentUpdate:
		if err := c.sheets.UpdateApplication(ctx, app); err != nil {
			return fmt.Errorf("sheets update: %w", err)
		}
		if app.PaymentStatus == entities.PaymentSuccess {
			if err := c.messenger.SendPaymentConfirmation(ctx, app); err != nil {
				slog.Error("payment confirmation message failed", "applicationId", applicationID, "error", err)
			}
		}
		return nil

	default:
		slog.Warn("unknown reconciliation job kind", "kind", kind, "job", job.ID)
		return nil
	}
}

func stringValue(values map[string]interface{}, key string) string {
	if v, ok := values[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}
