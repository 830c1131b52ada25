// Package customer provides customers, their purchase history used by the
// loyalty scheme, and the selected-customer linkage to a user's carts.
package customer

import (
	"context"
	"time"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/core/types"
)

// Purchase is one loyalty-accounted purchase. Append-only: entries are never
// merged, even same-day; the list is only ever cleared as a whole when a
// discount is redeemed.
type Purchase struct {
	ID         id.ID       `db:"id" json:"id"`
	CustomerID id.ID       `db:"customer_id" json:"-"`
	Date       time.Time   `db:"date" json:"date"`
	Amount     types.Money `db:"amount" json:"amount"`
}

// Customer is a shop customer with loyalty history.
type Customer struct {
	ID id.ID `db:"id" json:"id"`

	Name string `db:"name" json:"name"`

	// SearchKey is the lowercased, diacritic-stripped name used for lookup.
	SearchKey string `db:"search_key" json:"-"`

	Email   *string `db:"email" json:"email,omitempty"`
	Phone   *string `db:"phone" json:"phone,omitempty"`
	Comment *string `db:"comment" json:"comment,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Purchases is loaded alongside the customer
	Purchases []Purchase `db:"-" json:"purchases"`
}

// NewCustomer creates a customer with the normalized search key derived.
func NewCustomer(name string) *Customer {
	now := time.Now().UTC()
	return &Customer{
		ID:        id.New(),
		Name:      name,
		SearchKey: NormalizeName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks customer invariants.
func (c *Customer) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}

// PurchaseTotal sums the purchase amounts in integer cents.
func (c *Customer) PurchaseTotal() types.Money {
	amounts := make([]types.Money, 0, len(c.Purchases))
	for _, p := range c.Purchases {
		amounts = append(amounts, p.Amount)
	}
	return types.SumCents(amounts...)
}

// SelectedCustomer links a user's cart slot to at most one customer.
// Unique per (user, asideCart) pair.
type SelectedCustomer struct {
	UserID     id.ID `db:"user_id" json:"userId"`
	AsideCart  bool  `db:"aside_cart" json:"asideCart"`
	CustomerID id.ID `db:"customer_id" json:"customerId"`
}
