package dto

import (
	"github.com/shopspring/decimal"

	"librairie/internal/core/types"
	"librairie/internal/domain/cart"
	"librairie/internal/domain/catalog"
)

// --- Request DTOs ---

// AddItemRequest adds a catalog item to the active cart.
type AddItemRequest struct {
	ItemID   string `json:"itemId" binding:"required,uuid"`
	Quantity int    `json:"quantity"`
}

// AddISBNRequest adds a scanned ISBN to the active cart.
type AddISBNRequest struct {
	ISBN string `json:"isbn" binding:"required"`
}

// AddIndependentRequest adds a one-off line not tied to the catalog.
type AddIndependentRequest struct {
	ItemType catalog.ItemType `json:"itemType"`
	Title    string           `json:"title" binding:"required"`
	Price    decimal.Decimal  `json:"price"`
	TVA      types.VATRate    `json:"tva" binding:"required"`
	Quantity int              `json:"quantity"`
}

// ToIndependentLine converts to the domain input.
func (r *AddIndependentRequest) ToIndependentLine() cart.IndependentLine {
	return cart.IndependentLine{
		ItemType: r.ItemType,
		Title:    r.Title,
		Price:    r.Price,
		TVA:      r.TVA,
		Quantity: r.Quantity,
	}
}

// --- Response DTOs ---

// CartResponse mirrors the register cart view.
type CartResponse struct {
	Items []cart.Line `json:"items"`
	Count int         `json:"count"`
	Total string      `json:"total"`
}

// NewCartResponse builds the response from a cart view.
func NewCartResponse(view cart.View) CartResponse {
	items := view.Lines
	if items == nil {
		items = []cart.Line{}
	}
	return CartResponse{
		Items: items,
		Count: view.Count,
		Total: types.MoneyString(view.Total),
	}
}
