package payu

import (
	"context"
	"fmt"

	"vestiga-portal/internal/applications/entities"
)

// ApplicationStore is the slice of the applicant repository the state
// machine needs: load one record, write one status.
type ApplicationStore interface {
	FindByID(ctx context.Context, id string) (entities.Application, bool)
	UpdatePaymentStatus(ctx context.Context, id string, status entities.PaymentStatus) error
}

// TransitionResult reports what Apply did so the caller can decide whether
// downstream collaborators need to hear about it.
type TransitionResult struct {
	ApplicationID string
	OldStatus     entities.PaymentStatus
	NewStatus     entities.PaymentStatus
	// Changed is false on an idempotent redelivery; notifications for those
	// would be duplicates.
	Changed bool
	// Anomaly flags a FAILED outcome arriving after the record already
	// reached SUCCESS or DONE. The status is left untouched and the case is
	// handed to manual reconciliation.
	Anomaly bool
}

type StateMachine struct {
	store ApplicationStore
}

func NewStateMachine(store ApplicationStore) *StateMachine {
	return &StateMachine{store: store}
}

// Apply moves the application's payment status per a verified outcome.
// Verification must already have happened; Apply trusts its inputs.
func (m *StateMachine) Apply(ctx context.Context, applicationID string, outcome Outcome) (TransitionResult, error) {
	app, exists := m.store.FindByID(ctx, applicationID)
	if !exists {
		return TransitionResult{}, fmt.Errorf("%w: %s", ErrNotFound, applicationID)
	}

	target := entities.PaymentFailed
	if outcome == OutcomeSuccess {
		target = entities.PaymentSuccess
	}

	result := TransitionResult{
		ApplicationID: applicationID,
		OldStatus:     app.PaymentStatus,
		NewStatus:     target,
	}

	if app.PaymentStatus == target {
		// Gateway retry reporting what we already know.
		return result, nil
	}

	if target == entities.PaymentFailed &&
		(app.PaymentStatus == entities.PaymentSuccess || app.PaymentStatus == entities.PaymentDone) {
		result.NewStatus = app.PaymentStatus
		result.Anomaly = true
		return result, nil
	}

	if err := m.store.UpdatePaymentStatus(ctx, applicationID, target); err != nil {
		return TransitionResult{}, err
	}
	result.Changed = true
	return result, nil
}
