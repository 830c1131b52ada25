package cart

import (
	"context"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/core/tx"
	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
	"librairie/pkg/logger"
)

// StockLedger is the slice of the catalog service the cart needs.
type StockLedger interface {
	GetByISBN(ctx context.Context, isbn string) (*catalog.Item, error)
	DecrementStock(ctx context.Context, itemID id.ID, qty int) (*catalog.Item, error)
	IncrementStock(ctx context.Context, itemID id.ID, qty int) error
}

// CustomerLinkage is the slice of the customer service the cart needs when
// slots are swapped.
type CustomerLinkage interface {
	SwapSelectedSlots(ctx context.Context, userID id.ID) error
}

// AddResult is the typed outcome of an ISBN scan at the register.
// ErrorCode is empty on success, ITEM_NOT_FOUND for an unknown ISBN, or
// NO_STOCK (with title and id filled for display) when stock is exhausted.
type AddResult struct {
	ErrorCode string `json:"errorCode,omitempty"`
	Title     string `json:"title,omitempty"`
	ItemID    *id.ID `json:"id,omitempty"`
}

// IndependentLine describes a one-off walk-up sale not tied to the catalog.
type IndependentLine struct {
	ItemType catalog.ItemType
	Title    string
	Price    types.Money
	TVA      types.VATRate
	Quantity int
}

// Service provides the cart and aside-cart operations.
type Service struct {
	repo      Repository
	stock     StockLedger
	linkage   CustomerLinkage
	txManager tx.Manager
}

// NewService creates a cart service.
func NewService(repo Repository, stock StockLedger, linkage CustomerLinkage, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		linkage:   linkage,
		txManager: txManager,
	}
}

// AddItem reserves qty units of an item and merges them into the user's
// active cart. Every call decrements stock by the added quantity, including
// repeat adds that merge into an existing line; the decrement is conditional
// at the storage layer so stock can never go negative.
func (s *Service) AddItem(ctx context.Context, userID, itemID id.ID, qty int) error {
	if qty <= 0 {
		qty = 1
	}

	item, err := s.stock.DecrementStock(ctx, itemID, qty)
	if err != nil {
		return err
	}

	line := NewLineFromItem(userID, SlotActive, item, qty)
	if err := s.repo.UpsertLine(ctx, line); err != nil {
		// Line could not be written: hand the reserved stock back.
		if restoreErr := s.stock.IncrementStock(ctx, itemID, qty); restoreErr != nil {
			logger.Error(ctx, "stock restore after failed cart write",
				"item_id", itemID, "qty", qty, "error", restoreErr)
		}
		return err
	}

	return nil
}

// AddByISBN resolves an ISBN scan into a cart add, reserving one unit.
// Lookup and stock failures come back as a typed AddResult, not an error,
// so the register can display them inline.
func (s *Service) AddByISBN(ctx context.Context, userID id.ID, isbn string) (AddResult, error) {
	item, err := s.stock.GetByISBN(ctx, isbn)
	if err != nil {
		if apperror.IsNotFound(err) {
			return AddResult{ErrorCode: apperror.CodeItemNotFound}, nil
		}
		return AddResult{}, err
	}

	if err := s.AddItem(ctx, userID, item.ID, 1); err != nil {
		if apperror.IsInsufficientStock(err) {
			itemID := item.ID
			return AddResult{
				ErrorCode: apperror.CodeInsufficientStock,
				Title:     item.Title,
				ItemID:    &itemID,
			}, nil
		}
		return AddResult{}, err
	}

	return AddResult{}, nil
}

// AddIndependent records a one-off line with no item reference and no stock
// effect.
func (s *Service) AddIndependent(ctx context.Context, userID id.ID, data IndependentLine) (*Line, error) {
	if data.Title == "" {
		return nil, apperror.NewValidation("title is required").WithDetail("field", "title")
	}
	if !types.ValidVATRate(data.TVA) {
		return nil, apperror.NewValidation("invalid VAT rate").WithDetail("field", "tva")
	}
	if data.Quantity <= 0 {
		data.Quantity = 1
	}
	if data.ItemType == "" {
		data.ItemType = catalog.TypeUnknown
	}

	line := &Line{
		ID:        id.New(),
		UserID:    userID,
		Slot:      SlotActive,
		ItemType:  data.ItemType,
		Title:     data.Title,
		Price:     data.Price,
		TVA:       data.TVA,
		Quantity:  data.Quantity,
		CreatedAt: nowUTC(),
	}

	if err := s.repo.InsertLine(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveLine deletes one cart line and, if it referenced a catalog item,
// restores the line's quantity to stock (1 when the quantity is unset).
func (s *Service) RemoveLine(ctx context.Context, lineID id.ID) error {
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteLine(ctx, lineID); err != nil {
			return err
		}
		if line.ItemID != nil {
			qty := line.Quantity
			if qty <= 0 {
				qty = 1
			}
			return s.stock.IncrementStock(ctx, *line.ItemID, qty)
		}
		return nil
	})
}

// List returns a user's cart for one slot with derived count and total.
func (s *Service) List(ctx context.Context, userID id.ID, slot Slot) (View, error) {
	lines, err := s.repo.ListLines(ctx, userID, slot)
	if err != nil {
		return View{}, err
	}
	return NewView(lines), nil
}

// SwitchCarts moves all lines from one slot to the other and flips the
// selected-customer linkage with them, in one transaction. Used to park the
// active cart (or bring the parked one back) when a second customer steps up.
func (s *Service) SwitchCarts(ctx context.Context, userID id.ID, from, to Slot) error {
	if from == to {
		return apperror.NewValidation("source and target carts are the same")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.MoveLines(ctx, userID, from, to); err != nil {
			return err
		}
		return s.linkage.SwapSelectedSlots(ctx, userID)
	})
}
