// Package settlement converts a user's cart into immutable sale records.
// The sale insert, cart clear, loyalty update and linkage clear run inside a
// single database transaction: a crash between them must never leave a cart
// that can be paid twice, or sales without their loyalty side effect.
package settlement

import (
	"context"
	"time"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/core/tx"
	"librairie/internal/core/types"
	"librairie/internal/domain/cart"
	"librairie/internal/domain/customer"
	"librairie/internal/domain/sales"
	"librairie/pkg/logger"
)

// Loyalty is the slice of the customer service the engine drives.
type Loyalty interface {
	GetSelected(ctx context.Context, userID id.ID, asideCart bool) (*customer.SelectedCustomer, error)
	AddPurchase(ctx context.Context, customerID id.ID, amount types.Money) error
	ResetPurchases(ctx context.Context, customerID id.ID) error
	ClearSelected(ctx context.Context, userID id.ID, asideCart bool) error
}

// Payment describes how a cart is settled. Amount is only meaningful for
// cash (it is the tendered amount, used to compute change).
type Payment struct {
	Date        time.Time
	PaymentType sales.PaymentType
	Amount      types.Money
}

// Result is the outcome of a successful settlement. Change is set for cash
// payments only; a negative change (insufficient cash) is not rejected here,
// that is the register UI's call.
type Result struct {
	Success bool         `json:"success"`
	Change  *types.Money `json:"change"`
}

// Engine is the settlement engine.
type Engine struct {
	carts     cart.Repository
	ledger    sales.Repository
	loyalty   Loyalty
	txManager tx.Manager
}

// NewEngine creates a settlement engine.
func NewEngine(carts cart.Repository, ledger sales.Repository, loyalty Loyalty, txManager tx.Manager) *Engine {
	return &Engine{
		carts:     carts,
		ledger:    ledger,
		loyalty:   loyalty,
		txManager: txManager,
	}
}

// Pay settles the user's active cart against the given payment.
// An empty cart is a benign no-op signal (EMPTY_CART), not a failure.
func (e *Engine) Pay(ctx context.Context, userID id.ID, payment Payment) (Result, error) {
	if !sales.ValidPaymentType(payment.PaymentType) {
		return Result{}, apperror.NewValidation("invalid payment type").
			WithDetail("paymentType", string(payment.PaymentType))
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC()
	}

	lines, err := e.carts.ListLines(ctx, userID, cart.SlotActive)
	if err != nil {
		return Result{}, err
	}
	if len(lines) == 0 {
		return Result{}, apperror.NewEmptyCart(userID)
	}

	// Grouping key for the whole settlement: the first line's id. Lines are
	// in insertion order, so the choice is arbitrary but stable.
	cartID := lines[0].ID

	selected, err := e.loyalty.GetSelected(ctx, userID, false)
	if err != nil && !apperror.IsNotFound(err) {
		return Result{}, err
	}

	rows, total, redeemsDiscount := buildSales(lines, cartID, payment, selected != nil)

	err = e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := e.ledger.CreateBatch(ctx, rows); err != nil {
			return err
		}
		if err := e.carts.DeleteLines(ctx, userID, cart.SlotActive); err != nil {
			return err
		}

		if selected == nil {
			return nil
		}
		if redeemsDiscount {
			// The discount line consumes the accumulated purchases.
			if err := e.loyalty.ResetPurchases(ctx, selected.CustomerID); err != nil {
				return err
			}
		} else {
			if err := e.loyalty.AddPurchase(ctx, selected.CustomerID, total); err != nil {
				return err
			}
		}
		return e.loyalty.ClearSelected(ctx, userID, false)
	})
	if err != nil {
		return Result{}, err
	}

	logger.Info(ctx, "cart settled",
		"user_id", userID,
		"cart_id", cartID,
		"lines", len(rows),
		"total", types.MoneyString(total),
		"payment_type", payment.PaymentType,
	)

	result := Result{Success: true}
	if payment.PaymentType == sales.PaymentCash {
		change := types.RoundCents(payment.Amount.Sub(total))
		result.Change = &change
	}
	return result, nil
}

// buildSales maps cart lines to sale rows and computes the cents-accurate
// total in one pass.
func buildSales(lines []cart.Line, cartID id.ID, payment Payment, linked bool) ([]sales.Sale, types.Money, bool) {
	rows := make([]sales.Sale, 0, len(lines))
	amounts := make([]types.Money, 0, len(lines))
	redeems := false

	for _, line := range lines {
		price := types.LineTotal(line.Price, line.Quantity)
		amounts = append(amounts, price)

		if line.Title == sales.LoyaltyDiscountTitle {
			redeems = true
		}

		groupID := cartID
		rows = append(rows, sales.Sale{
			ID:               id.New(),
			ItemID:           line.ItemID,
			ItemType:         line.ItemType,
			Title:            line.Title,
			TVA:              line.TVA,
			Price:            price,
			Quantity:         line.Quantity,
			Created:          payment.Date,
			CartID:           &groupID,
			Deleted:          false,
			PaymentType:      payment.PaymentType,
			LinkedToCustomer: linked,
		})
	}

	return rows, types.SumCents(amounts...), redeems
}
