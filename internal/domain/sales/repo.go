package sales

import (
	"context"
	"time"

	"librairie/internal/core/id"
)

// Repository defines persistence for the sale ledger.
type Repository interface {
	// CreateBatch bulk-inserts the sales produced by one settlement.
	CreateBatch(ctx context.Context, rows []Sale) error

	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// MarkDeleted sets the soft-delete flag. There is no hard delete.
	MarkDeleted(ctx context.Context, saleID id.ID) error

	// ListByDay returns every sale (deleted included) whose created date
	// falls on day, ordered by created, cart_id, title so lines from one
	// settlement are contiguous.
	ListByDay(ctx context.Context, day time.Time) ([]Sale, error)

	// ListByMonth returns every sale in the calendar month, ordered by
	// created.
	ListByMonth(ctx context.Context, year int, month time.Month) ([]Sale, error)
}
