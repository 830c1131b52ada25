package order

import (
	"context"

	"librairie/internal/core/id"
)

// Repository defines persistence for special orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, orderID id.ID) error
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
}

// ListFilter narrows order listings.
type ListFilter struct {
	Status     *Status
	CustomerID *id.ID
	Limit      int
	Offset     int
}
