// Package cart provides the pending-cart stores: one active cart and one
// aside cart per user. A line snapshots the item's type, title, price and VAT
// at the time it was added, so later catalog edits never change a pending
// cart.
package cart

import (
	"time"

	"librairie/internal/core/id"
	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
)

// Slot identifies which of the two per-user carts a line belongs to.
type Slot string

const (
	// SlotActive is the cart currently being rung up.
	SlotActive Slot = "active"
	// SlotAside is the parked cart, kept while a second customer is served.
	SlotAside Slot = "aside"
)

// Line is one pending cart row.
// At most one line exists per (user, slot, item); repeat adds merge quantity.
type Line struct {
	ID     id.ID `db:"id" json:"id"`
	UserID id.ID `db:"user_id" json:"userId"`
	Slot   Slot  `db:"slot" json:"-"`

	// ItemID is nil for independent (non-catalog) sale lines
	ItemID *id.ID `db:"item_id" json:"itemId,omitempty"`

	ItemType catalog.ItemType `db:"item_type" json:"itemType"`
	Title    string           `db:"title" json:"title"`
	Price    types.Money      `db:"price" json:"price"`
	TVA      types.VATRate    `db:"tva" json:"tva"`

	Quantity int `db:"quantity" json:"quantity"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func nowUTC() time.Time { return time.Now().UTC() }

// NewLineFromItem snapshots a catalog item into a cart line.
func NewLineFromItem(userID id.ID, slot Slot, item *catalog.Item, qty int) *Line {
	itemID := item.ID
	return &Line{
		ID:        id.New(),
		UserID:    userID,
		Slot:      slot,
		ItemID:    &itemID,
		ItemType:  item.Type,
		Title:     item.Title,
		Price:     item.Price,
		TVA:       item.TVA,
		Quantity:  qty,
		CreatedAt: time.Now().UTC(),
	}
}

// View is a cart with its derived count and total.
type View struct {
	Lines []Line      `json:"items"`
	Count int         `json:"count"`
	Total types.Money `json:"total"`
}

// NewView computes count (sum of quantities) and total (sum of price×qty in
// integer cents) over the given lines.
func NewView(lines []Line) View {
	view := View{Lines: lines, Total: types.Zero()}
	amounts := make([]types.Money, 0, len(lines))
	for _, line := range lines {
		view.Count += line.Quantity
		amounts = append(amounts, types.LineTotal(line.Price, line.Quantity))
	}
	view.Total = types.SumCents(amounts...)
	return view
}
