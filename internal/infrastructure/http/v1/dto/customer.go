package dto

import (
	"librairie/internal/domain/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Comment *string `json:"comment"`
}

// ToEntity converts the request to a customer.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.NewCustomer(r.Name)
	c.Email = r.Email
	c.Phone = r.Phone
	c.Comment = r.Comment
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Comment *string `json:"comment"`
}

// Apply writes request fields onto an existing customer.
func (r *UpdateCustomerRequest) Apply(c *customer.Customer) {
	c.Name = r.Name
	c.Email = r.Email
	c.Phone = r.Phone
	c.Comment = r.Comment
}

// SelectCustomerRequest links a customer to a register slot.
type SelectCustomerRequest struct {
	CustomerID string `json:"customerId" binding:"required,uuid"`
	AsideCart  bool   `json:"asideCart"`
}

// --- Response DTOs ---

// CustomerResponse carries a customer with loyalty status.
type CustomerResponse struct {
	*customer.Customer
	Loyalty LoyaltyResponse `json:"loyalty"`
}

// LoyaltyResponse exposes accumulated purchases and discount eligibility.
type LoyaltyResponse struct {
	Total    string `json:"total"`
	Count    int    `json:"count"`
	Eligible bool   `json:"eligible"`
}

// NewLoyaltyResponse builds the loyalty payload.
func NewLoyaltyResponse(status customer.LoyaltyStatus) LoyaltyResponse {
	return LoyaltyResponse{
		Total:    status.Total.StringFixed(2),
		Count:    status.Count,
		Eligible: status.Eligible,
	}
}
