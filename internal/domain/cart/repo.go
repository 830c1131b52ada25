package cart

import (
	"context"

	"librairie/internal/core/id"
)

// Repository defines persistence for cart lines.
type Repository interface {
	// UpsertLine inserts a catalog-item line, or merges its quantity into the
	// existing (user, slot, item) line. Must be a single atomic statement so
	// concurrent adds of the same item never produce two lines.
	UpsertLine(ctx context.Context, line *Line) error

	// InsertLine inserts an independent line (no item reference, no merge).
	InsertLine(ctx context.Context, line *Line) error

	GetLine(ctx context.Context, lineID id.ID) (*Line, error)

	DeleteLine(ctx context.Context, lineID id.ID) error

	// ListLines returns a user's lines for one slot, in insertion order.
	ListLines(ctx context.Context, userID id.ID, slot Slot) ([]Line, error)

	// DeleteLines bulk-clears a user's slot (used at settlement; no stock
	// restoration, the lines were consumed into sales).
	DeleteLines(ctx context.Context, userID id.ID, slot Slot) error

	// MoveLines moves every line from one slot to the other, merging
	// quantities where the target slot already holds the same item.
	MoveLines(ctx context.Context, userID id.ID, from, to Slot) error
}
