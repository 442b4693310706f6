package applications

import (
	"context"
	"strings"

	"vestiga-portal/internal/applications/entities"
)

// ValidationError carries per-field problems for the API error envelope.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

type Service struct {
	repository Repository
}

func NewService(repo Repository) *Service {
	return &Service{repository: repo}
}

func (s *Service) Create(ctx context.Context, app entities.Application) (entities.Application, error) {
	app.Normalize()
	if problems := app.Validate(); len(problems) > 0 {
		return entities.Application{}, &ValidationError{Details: problems}
	}
	app.PaymentStatus = entities.PaymentPending
	return s.repository.Save(ctx, app)
}

func (s *Service) GetAll(ctx context.Context) []entities.Application {
	return s.repository.FindAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, id string) (entities.Application, bool) {
	return s.repository.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, app entities.Application) (entities.Application, bool, error) {
	app.Normalize()
	if problems := app.Validate(); len(problems) > 0 {
		return entities.Application{}, false, &ValidationError{Details: problems}
	}
	return s.repository.Update(ctx, app)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.repository.Delete(ctx, id)
}

func (s *Service) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	return s.repository.DeleteMany(ctx, ids)
}
