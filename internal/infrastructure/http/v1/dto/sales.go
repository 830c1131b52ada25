package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"librairie/internal/domain/sales"
	"librairie/internal/domain/settlement"
)

// --- Request DTOs ---

// PayRequest settles the active cart.
type PayRequest struct {
	PaymentDate *time.Time        `json:"paymentDate"`
	PaymentType sales.PaymentType `json:"paymentType" binding:"required"`
	Amount      decimal.Decimal   `json:"amount"`
}

// ToPayment converts to the settlement input. A missing date means "now".
func (r *PayRequest) ToPayment() settlement.Payment {
	p := settlement.Payment{
		PaymentType: r.PaymentType,
		Amount:      r.Amount,
	}
	if r.PaymentDate != nil {
		p.Date = *r.PaymentDate
	}
	return p
}

// --- Response DTOs ---

// PayResponse is the settlement outcome. Change is null for non-cash
// payments.
type PayResponse struct {
	Success bool    `json:"success"`
	Change  *string `json:"change"`
}

// NewPayResponse builds the response from a settlement result.
func NewPayResponse(result settlement.Result) PayResponse {
	resp := PayResponse{Success: result.Success}
	if result.Change != nil {
		change := result.Change.StringFixed(2)
		resp.Change = &change
	}
	return resp
}
