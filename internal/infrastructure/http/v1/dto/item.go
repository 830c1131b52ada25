package dto

import (
	"github.com/shopspring/decimal"

	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
)

// --- Request DTOs ---

// CreateItemRequest is the request body for creating a catalog item.
type CreateItemRequest struct {
	Type      catalog.ItemType `json:"type" binding:"required"`
	Title     string           `json:"title" binding:"required"`
	Author    *string          `json:"author"`
	ISBN      *string          `json:"isbn"`
	Publisher *string          `json:"publisher"`
	Price     decimal.Decimal  `json:"price"`
	TVA       types.VATRate    `json:"tva" binding:"required"`
	Amount    int              `json:"amount"`
	Comment   *string          `json:"comment"`
}

// ToEntity converts the request to a catalog item.
func (r *CreateItemRequest) ToEntity() *catalog.Item {
	item := catalog.NewItem(r.Type, r.Title, r.Price, r.TVA)
	item.Author = r.Author
	item.ISBN = r.ISBN
	item.Publisher = r.Publisher
	item.Amount = r.Amount
	item.Comment = r.Comment
	return item
}

// UpdateItemRequest is the request body for updating a catalog item. Stock
// amount is not part of it; stock moves only through the ledger operations.
type UpdateItemRequest struct {
	Type      catalog.ItemType `json:"type" binding:"required"`
	Title     string           `json:"title" binding:"required"`
	Author    *string          `json:"author"`
	ISBN      *string          `json:"isbn"`
	Publisher *string          `json:"publisher"`
	Price     decimal.Decimal  `json:"price"`
	TVA       types.VATRate    `json:"tva" binding:"required"`
	Comment   *string          `json:"comment"`
}

// Apply writes request fields onto an existing item.
func (r *UpdateItemRequest) Apply(item *catalog.Item) {
	item.Type = r.Type
	item.Title = r.Title
	item.Author = r.Author
	item.ISBN = r.ISBN
	item.Publisher = r.Publisher
	item.Price = r.Price
	item.TVA = r.TVA
	item.Comment = r.Comment
}

// ListItemsRequest narrows catalog listings.
type ListItemsRequest struct {
	Type        string `form:"type"`
	Title       string `form:"title"`
	LowStock    bool   `form:"lowStock"`
	LowStockMax int    `form:"lowStockMax"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}
