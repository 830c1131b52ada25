package customer

import (
	"context"
	"time"

	"librairie/internal/core/id"
	"librairie/internal/core/types"
	"librairie/pkg/logger"
)

// Service provides customer management and the loyalty operations driven by
// the settlement engine.
type Service struct {
	repo Repository
	rule *LoyaltyRule
}

// NewService creates a customer service.
func NewService(repo Repository, rule *LoyaltyRule) *Service {
	if rule == nil {
		rule = MustLoyaltyRule(DefaultLoyaltyExpr)
	}
	return &Service{repo: repo, rule: rule}
}

// Create adds a customer, deriving the normalized search key.
func (s *Service) Create(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	c.SearchKey = NormalizeName(c.Name)
	return s.repo.Create(ctx, c)
}

// Update edits a customer. Purchases are not touched here.
func (s *Service) Update(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	c.SearchKey = NormalizeName(c.Name)
	c.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, c)
}

// Delete removes a customer and their history.
func (s *Service) Delete(ctx context.Context, customerID id.ID) error {
	return s.repo.Delete(ctx, customerID)
}

// GetByID loads a customer with purchases.
func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// Search finds customers on the diacritic-stripped key.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]*Customer, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.Search(ctx, NormalizeName(query), limit)
}

// LoyaltyStatus reports a customer's accumulated total and whether the
// configured rule grants the discount.
type LoyaltyStatus struct {
	Total    types.Money `json:"total"`
	Count    int         `json:"count"`
	Eligible bool        `json:"eligible"`
}

// Loyalty evaluates the discount rule against a customer's history.
func (s *Service) Loyalty(ctx context.Context, c *Customer) (LoyaltyStatus, error) {
	total := c.PurchaseTotal()
	totalF, _ := total.Float64()

	eligible, err := s.rule.Eligible(totalF, len(c.Purchases))
	if err != nil {
		return LoyaltyStatus{}, err
	}

	return LoyaltyStatus{
		Total:    total,
		Count:    len(c.Purchases),
		Eligible: eligible,
	}, nil
}

// AddPurchase appends one dated purchase to the customer's history.
// Called by the settlement engine after a successful payment.
func (s *Service) AddPurchase(ctx context.Context, customerID id.ID, amount types.Money) error {
	return s.repo.AddPurchase(ctx, customerID, time.Now().UTC(), types.RoundCents(amount))
}

// ResetPurchases atomically clears the history. Called exactly once per
// discount redemption, when the accumulated purchases are consumed.
func (s *Service) ResetPurchases(ctx context.Context, customerID id.ID) error {
	if err := s.repo.ClearPurchases(ctx, customerID); err != nil {
		return err
	}
	logger.Info(ctx, "loyalty purchases reset", "customer_id", customerID)
	return nil
}

// SetSelected links a customer to a user's cart slot (upsert on the
// composite (user, slot) key).
func (s *Service) SetSelected(ctx context.Context, userID id.ID, asideCart bool, customerID id.ID) error {
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return err
	}
	return s.repo.SetSelected(ctx, userID, asideCart, customerID)
}

// GetSelected returns the linkage for a slot, or a not-found error.
func (s *Service) GetSelected(ctx context.Context, userID id.ID, asideCart bool) (*SelectedCustomer, error) {
	return s.repo.GetSelected(ctx, userID, asideCart)
}

// ClearSelected removes the linkage for a slot.
func (s *Service) ClearSelected(ctx context.Context, userID id.ID, asideCart bool) error {
	return s.repo.ClearSelected(ctx, userID, asideCart)
}

// SwapSelectedSlots moves each selected customer to the other slot when the
// carts are switched.
func (s *Service) SwapSelectedSlots(ctx context.Context, userID id.ID) error {
	return s.repo.SwapSelectedSlots(ctx, userID)
}
