package sales

import (
	"context"
	"time"

	"librairie/internal/core/id"
	"librairie/internal/core/tx"
	"librairie/internal/domain/catalog"
	"librairie/pkg/logger"
)

// ItemLoader is the slice of the catalog the ledger needs for day views and
// stock restoration.
type ItemLoader interface {
	GetByIDs(ctx context.Context, itemIDs []id.ID) (map[id.ID]*catalog.Item, error)
	IncrementStock(ctx context.Context, itemID id.ID, qty int) error
}

// Service provides the sale ledger queries and the soft-delete reversal.
type Service struct {
	repo      Repository
	items     ItemLoader
	txManager tx.Manager
}

// NewService creates a sales service.
func NewService(repo Repository, items ItemLoader, txManager tx.Manager) *Service {
	return &Service{repo: repo, items: items, txManager: txManager}
}

// GetSalesByDay builds the full report for one day. Items referenced by the
// day's lines are loaded once, up front, not per row.
func (s *Service) GetSalesByDay(ctx context.Context, day time.Time) (DayReport, error) {
	rows, err := s.repo.ListByDay(ctx, day)
	if err != nil {
		return DayReport{}, err
	}

	items, err := s.loadItems(ctx, rows)
	if err != nil {
		return DayReport{}, err
	}

	return BuildDayReport(rows, items)
}

// GetSalesByMonth builds the pre-aggregated month report.
func (s *Service) GetSalesByMonth(ctx context.Context, year int, month time.Month) (MonthReport, error) {
	rows, err := s.repo.ListByMonth(ctx, year, month)
	if err != nil {
		return MonthReport{}, err
	}
	return BuildMonthReport(rows), nil
}

// ListByDay returns the raw ordered rows for one day (export path).
func (s *Service) ListByDay(ctx context.Context, day time.Time) ([]Sale, error) {
	return s.repo.ListByDay(ctx, day)
}

// DeleteSale soft-deletes one sale and, when an item id is supplied,
// restores the sale's recorded quantity to stock (1 when the quantity is
// missing, as on some historical rows). Both steps run in one transaction.
func (s *Service) DeleteSale(ctx context.Context, saleID id.ID, itemID *id.ID) error {
	sale, err := s.repo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if sale.Deleted {
		// Repeating the delete must not restore stock a second time.
		return nil
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.MarkDeleted(ctx, saleID); err != nil {
			return err
		}
		if itemID != nil {
			qty := sale.Quantity
			if qty <= 0 {
				qty = 1
			}
			return s.items.IncrementStock(ctx, *itemID, qty)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "sale deleted", "sale_id", saleID, "item_id", itemID)
	return nil
}

func (s *Service) loadItems(ctx context.Context, rows []Sale) (map[id.ID]*catalog.Item, error) {
	seen := map[id.ID]struct{}{}
	itemIDs := make([]id.ID, 0, len(rows))
	for _, row := range rows {
		if row.ItemID == nil {
			continue
		}
		if _, ok := seen[*row.ItemID]; ok {
			continue
		}
		seen[*row.ItemID] = struct{}{}
		itemIDs = append(itemIDs, *row.ItemID)
	}
	if len(itemIDs) == 0 {
		return map[id.ID]*catalog.Item{}, nil
	}
	return s.items.GetByIDs(ctx, itemIDs)
}
