package dto

import (
	"librairie/internal/core/id"
	"librairie/internal/domain/order"
)

// --- Request DTOs ---

// CreateOrderRequest is the request body for creating a special order.
type CreateOrderRequest struct {
	CustomerID *string `json:"customerId" binding:"omitempty,uuid"`
	ItemID     *string `json:"itemId" binding:"omitempty,uuid"`
	Title      string  `json:"title"`
	Comment    *string `json:"comment"`
}

// ToEntity converts the request to an order.
func (r *CreateOrderRequest) ToEntity() (*order.Order, error) {
	o := order.NewOrder(r.Title)
	o.Comment = r.Comment

	if r.CustomerID != nil {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return nil, err
		}
		o.CustomerID = &customerID
	}
	if r.ItemID != nil {
		itemID, err := id.Parse(*r.ItemID)
		if err != nil {
			return nil, err
		}
		o.ItemID = &itemID
	}
	return o, nil
}

// UpdateOrderRequest is the request body for updating a special order.
type UpdateOrderRequest struct {
	Status   order.Status `json:"status" binding:"required"`
	Notified bool         `json:"notified"`
	Paid     bool         `json:"paid"`
	Title    string       `json:"title"`
	Comment  *string      `json:"comment"`
}

// Apply writes request fields onto an existing order.
func (r *UpdateOrderRequest) Apply(o *order.Order) {
	o.Status = r.Status
	o.Notified = r.Notified
	o.Paid = r.Paid
	if r.Title != "" {
		o.Title = r.Title
	}
	o.Comment = r.Comment
}

// ListOrdersRequest narrows order listings.
type ListOrdersRequest struct {
	Status     string `form:"status"`
	CustomerID string `form:"customerId"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}
