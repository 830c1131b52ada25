package catalog

import (
	"context"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/pkg/logger"
)

// ISBNCache caches the immutable ISBN→item-id mapping. Only the mapping is
// cached, never the item row, so stale stock figures are impossible.
type ISBNCache interface {
	GetID(ctx context.Context, isbn string) (id.ID, bool, error)
	SetID(ctx context.Context, isbn string, itemID id.ID) error
}

// Service provides catalog management and the stock ledger operations.
type Service struct {
	repo      Repository
	isbnCache ISBNCache
}

// NewService creates a catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithISBNCache attaches a lookup cache for ISBN resolution.
func (s *Service) WithISBNCache(cache ISBNCache) *Service {
	s.isbnCache = cache
	return s
}

// Create adds a new item to the catalog.
func (s *Service) Create(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	if item.ISBN != nil && *item.ISBN != "" {
		if existing, err := s.repo.GetByISBN(ctx, *item.ISBN); err == nil {
			return apperror.NewConflict("item with this ISBN already exists").
				WithDetail("isbn", *item.ISBN).
				WithDetail("id", existing.ID)
		}
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return err
	}

	logger.Info(ctx, "item created", "id", item.ID, "title", item.Title)
	return nil
}

// Update edits an existing item. The amount field is ignored here: stock
// moves only through DecrementStock/IncrementStock.
func (s *Service) Update(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, item)
}

// GetByID retrieves a single item.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	return s.repo.GetByID(ctx, itemID)
}

// GetByISBN retrieves an item by ISBN, going through the lookup cache when
// one is attached. Cache failures degrade to a direct lookup.
func (s *Service) GetByISBN(ctx context.Context, isbn string) (*Item, error) {
	if s.isbnCache != nil {
		itemID, ok, err := s.isbnCache.GetID(ctx, isbn)
		if err != nil {
			logger.Warn(ctx, "isbn cache lookup failed", "isbn", isbn, "error", err)
		} else if ok {
			return s.repo.GetByID(ctx, itemID)
		}
	}

	item, err := s.repo.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	if s.isbnCache != nil {
		if err := s.isbnCache.SetID(ctx, isbn, item.ID); err != nil {
			logger.Warn(ctx, "isbn cache store failed", "isbn", isbn, "error", err)
		}
	}

	return item, nil
}

// List retrieves items with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	return s.repo.List(ctx, filter)
}

// DecrementStock atomically reserves qty units of an item.
// Returns the updated item, or a typed insufficient-stock / not-found error.
func (s *Service) DecrementStock(ctx context.Context, itemID id.ID, qty int) (*Item, error) {
	if qty <= 0 {
		qty = 1
	}
	return s.repo.DecrementStock(ctx, itemID, qty)
}

// IncrementStock restores qty units. Historical rows may carry a zero
// quantity; restoration then defaults to 1.
func (s *Service) IncrementStock(ctx context.Context, itemID id.ID, qty int) error {
	if qty <= 0 {
		qty = 1
	}
	return s.repo.IncrementStock(ctx, itemID, qty)
}
