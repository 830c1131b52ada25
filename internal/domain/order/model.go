// Package order provides special-order (back-order) requests.
package order

import (
	"context"
	"time"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
)

// Status tracks a special order through its life.
type Status string

const (
	StatusNew         Status = "new"
	StatusReceived    Status = "received"
	StatusUnavailable Status = "unavailable"
	StatusCanceled    Status = "canceled"
	StatusDone        Status = "done"
	StatusOther       Status = "other"
)

// Order is a customer request for an item, possibly not yet cataloged.
type Order struct {
	ID id.ID `db:"id" json:"id"`

	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`
	ItemID     *id.ID `db:"item_id" json:"itemId,omitempty"`

	// Title covers items that have no catalog entry yet
	Title string `db:"title" json:"title"`

	Status   Status `db:"status" json:"status"`
	Notified bool   `db:"notified" json:"notified"`
	Paid     bool   `db:"paid" json:"paid"`

	Comment *string `db:"comment" json:"comment,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewOrder creates an order in the new state.
func NewOrder(title string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:        id.New(),
		Title:     title,
		Status:    StatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks order invariants.
func (o *Order) Validate(ctx context.Context) error {
	if o.Title == "" && o.ItemID == nil {
		return apperror.NewValidation("title or item reference is required").
			WithDetail("field", "title")
	}
	if !validStatus(o.Status) {
		return apperror.NewValidation("invalid order status").
			WithDetail("field", "status").
			WithDetail("value", string(o.Status))
	}
	return nil
}

func validStatus(s Status) bool {
	switch s {
	case StatusNew, StatusReceived, StatusUnavailable, StatusCanceled, StatusDone, StatusOther:
		return true
	}
	return false
}
