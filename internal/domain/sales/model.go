// Package sales provides the append-only sale ledger. Sales are created in
// bulk by the settlement engine; their financial fields never change
// afterwards, only the soft-delete flag may flip.
package sales

import (
	"time"

	"librairie/internal/core/id"
	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
)

// PaymentType enumerates accepted payment methods.
type PaymentType string

const (
	PaymentCash      PaymentType = "cash"
	PaymentCard      PaymentType = "card"
	PaymentCheck     PaymentType = "check"
	PaymentCheckLire PaymentType = "check-lire"
	PaymentTransfer  PaymentType = "transfer"
)

// ValidPaymentType reports whether p is an accepted method.
func ValidPaymentType(p PaymentType) bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentCheck, PaymentCheckLire, PaymentTransfer:
		return true
	}
	return false
}

// LoyaltyDiscountTitle is the reserved line title denoting a redeemed
// loyalty discount. A paid cart containing it consumes the attached
// customer's accumulated purchases instead of appending a new one.
const LoyaltyDiscountTitle = "Remise fidélité"

// Sale is one finalized ledger line.
type Sale struct {
	ID id.ID `db:"id" json:"id"`

	// ItemID is nil for independent sales
	ItemID *id.ID `db:"item_id" json:"itemId,omitempty"`

	ItemType catalog.ItemType `db:"item_type" json:"itemType"`
	Title    string           `db:"title" json:"title"`
	TVA      types.VATRate    `db:"tva" json:"tva"`

	// Price is the line total (unit price × quantity, cents-rounded)
	Price    types.Money `db:"price" json:"price"`
	Quantity int         `db:"quantity" json:"quantity"`

	// Created is the business date of the sale. For imported historical data
	// it is back-dated to the original recorded date.
	Created time.Time `db:"created" json:"created"`

	// CartID groups lines created by one settlement. A correlation tag, not
	// a foreign key: the originating cart rows are gone by the time anyone
	// reads it.
	CartID *id.ID `db:"cart_id" json:"cartId,omitempty"`

	// Deleted is the soft-delete flag; sales are never hard-deleted
	Deleted bool `db:"deleted" json:"deleted"`

	PaymentType      PaymentType `db:"payment_type" json:"paymentType"`
	LinkedToCustomer bool        `db:"linked_to_customer" json:"linkedToCustomer"`
}
