package catalog

import (
	"context"

	"librairie/internal/core/id"
)

// Repository defines persistence for catalog items and the stock ledger.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error

	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// GetByISBN retrieves the item carrying the given ISBN.
	GetByISBN(ctx context.Context, isbn string) (*Item, error)

	// GetByIDs batch-loads items, keyed by id. Missing ids are absent from
	// the map; callers decide whether that is an integrity violation.
	GetByIDs(ctx context.Context, itemIDs []id.ID) (map[id.ID]*Item, error)

	List(ctx context.Context, filter ListFilter) ([]*Item, error)

	// DecrementStock reduces amount by qty only if the result stays >= 0.
	// Implemented as a single conditional UPDATE (compare-and-set), never
	// read-then-write. A zero-row result means insufficient stock unless the
	// item does not exist at all.
	DecrementStock(ctx context.Context, itemID id.ID, qty int) (*Item, error)

	// IncrementStock unconditionally adds qty back (stock restoration).
	IncrementStock(ctx context.Context, itemID id.ID, qty int) error
}

// ListFilter narrows catalog listings.
type ListFilter struct {
	Type      *ItemType
	TitleLike string
	LowStock  bool // amount <= LowStockMax
	LowStockMax int
	Limit     int
	Offset    int
}
