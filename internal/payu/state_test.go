package payu

import (
	"context"
	"testing"

	"vestiga-portal/internal/applications/entities"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	apps   map[string]entities.Application
	writes int
}

func newFakeStore(apps ...entities.Application) *fakeStore {
	store := &fakeStore{apps: make(map[string]entities.Application)}
	for _, app := range apps {
		store.apps[app.ID] = app
	}
	return store
}

func (s *fakeStore) FindByID(_ context.Context, id string) (entities.Application, bool) {
	app, exists := s.apps[id]
	return app, exists
}

func (s *fakeStore) UpdatePaymentStatus(_ context.Context, id string, status entities.PaymentStatus) error {
	app := s.apps[id]
	app.PaymentStatus = status
	s.apps[id] = app
	s.writes++
	return nil
}

func pendingApp(id string) entities.Application {
	return entities.Application{ID: id, Name: "Asha", PaymentStatus: entities.PaymentPending}
}

func TestApply_PendingToSuccess(t *testing.T) {
	store := newFakeStore(pendingApp("A1"))
	machine := NewStateMachine(store)

	result, err := machine.Apply(context.Background(), "A1", OutcomeSuccess)
	require.NoError(t, err)

	require.True(t, result.Changed)
	require.False(t, result.Anomaly)
	require.Equal(t, entities.PaymentPending, result.OldStatus)
	require.Equal(t, entities.PaymentSuccess, result.NewStatus)
	require.Equal(t, entities.PaymentSuccess, store.apps["A1"].PaymentStatus)
}

func TestApply_PendingToFailed(t *testing.T) {
	store := newFakeStore(pendingApp("A1"))
	machine := NewStateMachine(store)

	result, err := machine.Apply(context.Background(), "A1", OutcomeFailure)
	require.NoError(t, err)

	require.True(t, result.Changed)
	require.Equal(t, entities.PaymentFailed, result.NewStatus)
}

func TestApply_RedeliveryIsIdempotent(t *testing.T) {
	store := newFakeStore(pendingApp("A1"))
	machine := NewStateMachine(store)

	first, err := machine.Apply(context.Background(), "A1", OutcomeSuccess)
	require.NoError(t, err)
	second, err := machine.Apply(context.Background(), "A1", OutcomeSuccess)
	require.NoError(t, err)

	require.True(t, first.Changed)
	require.False(t, second.Changed)
	require.Equal(t, first.NewStatus, second.NewStatus)
	require.Equal(t, 1, store.writes)
	require.Equal(t, entities.PaymentSuccess, store.apps["A1"].PaymentStatus)
}

func TestApply_FailedAfterSuccessIsAnAnomaly(t *testing.T) {
	store := newFakeStore(pendingApp("A1"))
	machine := NewStateMachine(store)

	_, err := machine.Apply(context.Background(), "A1", OutcomeSuccess)
	require.NoError(t, err)

	result, err := machine.Apply(context.Background(), "A1", OutcomeFailure)
	require.NoError(t, err)

	require.True(t, result.Anomaly)
	require.False(t, result.Changed)
	require.Equal(t, entities.PaymentSuccess, result.NewStatus)
	require.Equal(t, entities.PaymentSuccess, store.apps["A1"].PaymentStatus)
	require.Equal(t, 1, store.writes)
}

func TestApply_FailedAfterDoneIsAnAnomaly(t *testing.T) {
	app := pendingApp("A1")
	app.PaymentStatus = entities.PaymentDone
	store := newFakeStore(app)
	machine := NewStateMachine(store)

	result, err := machine.Apply(context.Background(), "A1", OutcomeFailure)
	require.NoError(t, err)

	require.True(t, result.Anomaly)
	require.Equal(t, entities.PaymentDone, store.apps["A1"].PaymentStatus)
}

func TestApply_SuccessAfterFailedIsAllowed(t *testing.T) {
	store := newFakeStore(pendingApp("A1"))
	machine := NewStateMachine(store)

	_, err := machine.Apply(context.Background(), "A1", OutcomeFailure)
	require.NoError(t, err)

	// A retried payment that eventually went through.
	result, err := machine.Apply(context.Background(), "A1", OutcomeSuccess)
	require.NoError(t, err)

	require.True(t, result.Changed)
	require.False(t, result.Anomaly)
	require.Equal(t, entities.PaymentSuccess, store.apps["A1"].PaymentStatus)
}

func TestApply_UnknownApplication(t *testing.T) {
	store := newFakeStore()
	machine := NewStateMachine(store)

	_, err := machine.Apply(context.Background(), "missing", OutcomeSuccess)
	require.ErrorIs(t, err, ErrNotFound)
	require.Zero(t, store.writes)
}
