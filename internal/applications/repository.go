package applications

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"vestiga-portal/internal/applications/entities"

	"github.com/google/uuid"
)

var ErrDuplicateIDNumber = errors.New("an application with this ID number already exists")

type Repository interface {
	Save(ctx context.Context, app entities.Application) (entities.Application, error)
	FindByID(ctx context.Context, id string) (entities.Application, bool)
	FindAll(ctx context.Context) []entities.Application
	Update(ctx context.Context, app entities.Application) (entities.Application, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	UpdatePaymentStatus(ctx context.Context, id string, status entities.PaymentStatus) error
}

type InMemoryRepository struct {
	data      map[string]entities.Application
	idNumbers map[string]string
	mu        sync.Mutex
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		data:      make(map[string]entities.Application),
		idNumbers: make(map[string]string),
	}
}

func (r *InMemoryRepository) Save(_ context.Context, app entities.Application) (entities.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.idNumbers[app.IDNumber]; taken {
		return entities.Application{}, ErrDuplicateIDNumber
	}

	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	r.data[app.ID] = app
	r.idNumbers[app.IDNumber] = app.ID
	return app, nil
}

func (r *InMemoryRepository) FindByID(_ context.Context, id string) (entities.Application, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, exists := r.data[id]
	return app, exists
}

func (r *InMemoryRepository) FindAll(_ context.Context) []entities.Application {
	r.mu.Lock()
	defer r.mu.Unlock()

	apps := make([]entities.Application, 0, len(r.data))
	for _, app := range r.data {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
	return apps
}

func (r *InMemoryRepository) Update(_ context.Context, app entities.Application) (entities.Application, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.data[app.ID]
	if !exists {
		return entities.Application{}, false, nil
	}

	if owner, taken := r.idNumbers[app.IDNumber]; taken && owner != app.ID {
		return entities.Application{}, true, ErrDuplicateIDNumber
	}

	delete(r.idNumbers, current.IDNumber)
	app.CreatedAt = current.CreatedAt
	app.UpdatedAt = time.Now().UTC()
	r.data[app.ID] = app
	r.idNumbers[app.IDNumber] = app.ID
	return app, true, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, exists := r.data[id]
	if !exists {
		return false, nil
	}
	delete(r.data, id)
	delete(r.idNumbers, app.IDNumber)
	return true, nil
}

func (r *InMemoryRepository) DeleteMany(_ context.Context, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if app, exists := r.data[id]; exists {
			delete(r.data, id)
			delete(r.idNumbers, app.IDNumber)
			deleted++
		}
	}
	return deleted, nil
}

func (r *InMemoryRepository) UpdatePaymentStatus(_ context.Context, id string, status entities.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, exists := r.data[id]
	if !exists {
		return nil
	}
	app.PaymentStatus = status
	app.UpdatedAt = time.Now().UTC()
	r.data[id] = app
	return nil
}
