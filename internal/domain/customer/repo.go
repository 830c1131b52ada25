package customer

import (
	"context"
	"time"

	"librairie/internal/core/id"
	"librairie/internal/core/types"
)

// Repository defines persistence for customers, purchases and the
// selected-customer linkage.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID id.ID) error

	// GetByID loads a customer with purchases.
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)

	// Search matches against the normalized search key.
	Search(ctx context.Context, query string, limit int) ([]*Customer, error)

	// AddPurchase appends one purchase record. Never merges.
	AddPurchase(ctx context.Context, customerID id.ID, date time.Time, amount types.Money) error

	// ClearPurchases removes every purchase for the customer.
	ClearPurchases(ctx context.Context, customerID id.ID) error

	// Selected-customer linkage, keyed by (userID, asideCart).

	SetSelected(ctx context.Context, userID id.ID, asideCart bool, customerID id.ID) error
	GetSelected(ctx context.Context, userID id.ID, asideCart bool) (*SelectedCustomer, error)
	ClearSelected(ctx context.Context, userID id.ID, asideCart bool) error

	// SwapSelectedSlots flips the asideCart flag on the user's linkage rows,
	// moving each selected customer to the other slot.
	SwapSelectedSlots(ctx context.Context, userID id.ID) error
}
