// Package catalog provides the sellable-item catalog and the stock ledger.
// The item amount is the authoritative quantity on hand; it is mutated only
// through the guarded increment/decrement operations and never goes negative.
package catalog

import (
	"context"
	"time"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/core/types"
)

// ItemType defines the kind of catalog entry.
type ItemType string

const (
	TypeBook       ItemType = "book"
	TypeGame       ItemType = "game"
	TypePostcard   ItemType = "postcard"
	TypeStationery ItemType = "stationery"
	TypeDVD        ItemType = "dvd"
	TypeUnknown    ItemType = "unknown"
	TypeDeposit    ItemType = "deposit"
)

// Item represents a catalog entry (book or miscellaneous good).
type Item struct {
	ID id.ID `db:"id" json:"id"`

	Type ItemType `db:"type" json:"type"`

	Title  string  `db:"title" json:"title"`
	Author *string `db:"author" json:"author,omitempty"`

	// ISBN is set for books; empty for miscellaneous goods
	ISBN *string `db:"isbn" json:"isbn,omitempty"`

	Publisher *string `db:"publisher" json:"publisher,omitempty"`

	// Price is the unit selling price, 2-decimal precision
	Price types.Money `db:"price" json:"price"`

	// TVA is the VAT rate tag
	TVA types.VATRate `db:"tva" json:"tva"`

	// Amount is the quantity on hand. Never negative.
	Amount int `db:"amount" json:"amount"`

	Comment *string `db:"comment" json:"comment,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewItem creates a catalog item with required fields.
func NewItem(itemType ItemType, title string, price types.Money, tva types.VATRate) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:        id.New(),
		Type:      itemType,
		Title:     title,
		Price:     price,
		TVA:       tva,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks item invariants.
func (i *Item) Validate(ctx context.Context) error {
	if i.Title == "" {
		return apperror.NewValidation("title is required").
			WithDetail("field", "title")
	}

	if !isValidItemType(i.Type) {
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "type").
			WithDetail("value", string(i.Type))
	}

	if !types.ValidVATRate(i.TVA) {
		return apperror.NewValidation("invalid VAT rate").
			WithDetail("field", "tva").
			WithDetail("value", string(i.TVA))
	}

	if i.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	if i.Amount < 0 {
		return apperror.NewValidation("amount cannot be negative").
			WithDetail("field", "amount")
	}

	return nil
}

func isValidItemType(t ItemType) bool {
	switch t {
	case TypeBook, TypeGame, TypePostcard, TypeStationery, TypeDVD, TypeUnknown, TypeDeposit:
		return true
	}
	return false
}
