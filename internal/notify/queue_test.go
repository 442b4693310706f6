package notify

import (
	"context"
	"errors"
	"testing"

	"vestiga-portal/internal/applications/entities"

	"github.com/stretchr/testify/require"
)

type fakeFinder struct {
	apps map[string]entities.Application
}

func (f *fakeFinder) FindByID(_ context.Context, id string) (entities.Application, bool) {
	app, exists := f.apps[id]
	return app, exists
}

type fakeSheets struct {
	appended  []string
	updated   []string
	updateErr error
}

func (s *fakeSheets) AppendApplication(_ context.Context, app entities.Application) error {
	s.appended = append(s.appended, app.ID)
	return nil
}

func (s *fakeSheets) UpdateApplication(_ context.Context, app entities.Application) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, app.ID)
	return nil
}

type fakeMessenger struct {
	confirmations        []string
	paymentConfirmations []string
	sendErr              error
}

func (m *fakeMessenger) SendApplicationConfirmation(_ context.Context, app entities.Application) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.confirmations = append(m.confirmations, app.ID)
	return nil
}

func (m *fakeMessenger) SendPaymentConfirmation(_ context.Context, app entities.Application) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.paymentConfirmations = append(m.paymentConfirmations, app.ID)
	return nil
}

func testApp(id string, status entities.PaymentStatus) entities.Application {
	return entities.Application{ID: id, Name: "Asha", Mobile: "9999999999", PaymentStatus: status}
}

func TestProcess_ApplicationCreated(t *testing.T) {
	sheets := &fakeSheets{}
	messenger := &fakeMessenger{}
	finder := &fakeFinder{apps: map[string]entities.Application{
		"A1": testApp("A1", entities.PaymentPending),
	}}
	consumer := NewConsumer(nil, finder, sheets, messenger)

	err := consumer.Process(context.Background(), Job{
		ID:     "1-0",
		Values: map[string]interface{}{"kind": KindApplicationCreated, "applicationId": "A1"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A1"}, sheets.appended)
	require.Equal(t, []string{"A1"}, messenger.confirmations)
}

func TestProcess_PaymentUpdateOnSuccess(t *testing.T) {
	sheets := &fakeSheets{}
	messenger := &fakeMessenger{}
	finder := &fakeFinder{apps: map[string]entities.Application{
		"A1": testApp("A1", entities.PaymentSuccess),
	}}
	consumer := NewConsumer(nil, finder, sheets, messenger)

	err := consumer.Process(context.Background(), Job{
		ID:     "1-0",
		Values: map[string]interface{}{"kind": KindPaymentUpdate, "applicationId": "A1"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A1"}, sheets.updated)
	require.Equal(t, []string{"A1"}, messenger.paymentConfirmations)
}

func TestProcess_PaymentUpdateOnFailureSkipsMessage(t *testing.T) {
	sheets := &fakeSheets{}
	messenger := &fakeMessenger{}
	finder := &fakeFinder{apps: map[string]entities.Application{
		"A1": testApp("A1", entities.PaymentFailed),
	}}
	consumer := NewConsumer(nil, finder, sheets, messenger)

	err := consumer.Process(context.Background(), Job{
		ID:     "1-0",
		Values: map[string]interface{}{"kind": KindPaymentUpdate, "applicationId": "A1"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A1"}, sheets.updated)
	require.Empty(t, messenger.paymentConfirmations)
}

func TestProcess_SheetFailureIsRetriable(t *testing.T) {
	sheets := &fakeSheets{updateErr: errors.New("quota exceeded")}
	finder := &fakeFinder{apps: map[string]entities.Application{
		"A1": testApp("A1", entities.PaymentSuccess),
	}}
	consumer := NewConsumer(nil, finder, sheets, &fakeMessenger{})

	err := consumer.Process(context.Background(), Job{
		ID:     "1-0",
		Values: map[string]interface{}{"kind": KindPaymentUpdate, "applicationId": "A1"},
	})
	require.Error(t, err)
}

func TestProcess_MessageFailureIsNotRetriable(t *testing.T) {
	// The sheet row already landed; replaying the whole job would duplicate
	// it, so a lost message only gets logged.
	sheets := &fakeSheets{}
	messenger := &fakeMessenger{sendErr: errors.New("token expired")}
	finder := &fakeFinder{apps: map[string]entities.Application{
		"A1": testApp("A1", entities.PaymentSuccess),
	}}
	consumer := NewConsumer(nil, finder, sheets, messenger)

	err := consumer.Process(context.Background(), Job{
		ID:     "1-0",
		Values: map[string]interface{}{"kind": KindPaymentUpdate, "applicationId": "A1"},
	})
	require.NoError(t, err)
}

func TestProcess_MissingApplicationIsDropped(t *testing.T) {
	consumer := NewConsumer(nil, &fakeFinder{apps: map[string]entities.Application{}}, &fakeSheets{}, &fakeMessenger{})

	err := consumer.Process(context.Background(), Job{
		ID:     "1-0",
		Values: map[string]interface{}{"kind": KindPaymentUpdate, "applicationId": "ghost"},
	})
	require.NoError(t, err)
}

func TestProcess_UnknownKindIsDropped(t *testing.T) {
	finder := &fakeFinder{apps: map[string]entities.Application{
		"A1": testApp("A1", entities.PaymentPending),
	}}
	consumer := NewConsumer(nil, finder, &fakeSheets{}, &fakeMessenger{})

	err := consumer.Process(context.Background(), Job{
		ID:     "1-0",
		Values: map[string]interface{}{"kind": "telegram_update", "applicationId": "A1"},
	})
	require.NoError(t, err)
}
