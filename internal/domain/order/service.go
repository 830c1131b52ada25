package order

import (
	"context"
	"time"

	"librairie/internal/core/id"
)

// Service provides special-order management. Plain CRUD: orders have no
// stock or ledger side effects.
type Service struct {
	repo Repository
}

// NewService creates an order service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, o *Order) error {
	if o.Status == "" {
		o.Status = StatusNew
	}
	if err := o.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Create(ctx, o)
}

func (s *Service) Update(ctx context.Context, o *Order) error {
	if err := o.Validate(ctx); err != nil {
		return err
	}
	o.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, o)
}

func (s *Service) Delete(ctx context.Context, orderID id.ID) error {
	return s.repo.Delete(ctx, orderID)
}

func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Order, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}
