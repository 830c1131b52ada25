package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLedgerRepo struct {
	sales   map[id.ID]*Sale
	deleted []id.ID
	rows    []Sale

	markErr error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{sales: map[id.ID]*Sale{}}
}

func (r *fakeLedgerRepo) CreateBatch(ctx context.Context, rows []Sale) error {
	r.rows = append(r.rows, rows...)
	return nil
}

func (r *fakeLedgerRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	sale, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID)
	}
	return sale, nil
}

func (r *fakeLedgerRepo) MarkDeleted(ctx context.Context, saleID id.ID) error {
	if r.markErr != nil {
		return r.markErr
	}
	sale, ok := r.sales[saleID]
	if !ok || sale.Deleted {
		return apperror.NewNotFound("sale", saleID)
	}
	sale.Deleted = true
	r.deleted = append(r.deleted, saleID)
	return nil
}

func (r *fakeLedgerRepo) ListByDay(ctx context.Context, day time.Time) ([]Sale, error) {
	return r.rows, nil
}

func (r *fakeLedgerRepo) ListByMonth(ctx context.Context, year int, month time.Month) ([]Sale, error) {
	return r.rows, nil
}

type fakeItemLoader struct {
	items map[id.ID]*catalog.Item

	loadCalls  int
	increments map[id.ID]int
}

func newFakeItemLoader() *fakeItemLoader {
	return &fakeItemLoader{items: map[id.ID]*catalog.Item{}, increments: map[id.ID]int{}}
}

func (l *fakeItemLoader) GetByIDs(ctx context.Context, itemIDs []id.ID) (map[id.ID]*catalog.Item, error) {
	l.loadCalls++
	result := make(map[id.ID]*catalog.Item, len(itemIDs))
	for _, itemID := range itemIDs {
		if item, ok := l.items[itemID]; ok {
			result[itemID] = item
		}
	}
	return result, nil
}

func (l *fakeItemLoader) IncrementStock(ctx context.Context, itemID id.ID, qty int) error {
	l.increments[itemID] += qty
	return nil
}

func newLedgerService() (*Service, *fakeLedgerRepo, *fakeItemLoader) {
	repo := newFakeLedgerRepo()
	items := newFakeItemLoader()
	return NewService(repo, items, fakeTxManager{}), repo, items
}

func storedSale(qty int, itemID *id.ID) *Sale {
	return &Sale{
		ID:          id.New(),
		ItemID:      itemID,
		ItemType:    catalog.TypeBook,
		Title:       "Candide",
		TVA:         types.VAT5_5,
		Price:       types.MustMoney("4.50"),
		Quantity:    qty,
		Created:     time.Now().UTC(),
		PaymentType: PaymentCash,
	}
}

func TestDeleteSale_RestoresStock(t *testing.T) {
	svc, repo, items := newLedgerService()

	itemID := id.New()
	sale := storedSale(3, &itemID)
	repo.sales[sale.ID] = sale

	err := svc.DeleteSale(context.Background(), sale.ID, &itemID)

	require.NoError(t, err)
	assert.Equal(t, []id.ID{sale.ID}, repo.deleted)
	assert.Equal(t, 3, items.increments[itemID])
}

func TestDeleteSale_RepeatedDeleteRestoresStockOnce(t *testing.T) {
	svc, repo, items := newLedgerService()

	itemID := id.New()
	sale := storedSale(3, &itemID)
	repo.sales[sale.ID] = sale

	require.NoError(t, svc.DeleteSale(context.Background(), sale.ID, &itemID))
	require.NoError(t, svc.DeleteSale(context.Background(), sale.ID, &itemID))

	assert.Equal(t, []id.ID{sale.ID}, repo.deleted)
	assert.Equal(t, 3, items.increments[itemID])
}

func TestDeleteSale_MissingQuantityRestoresOne(t *testing.T) {
	svc, repo, items := newLedgerService()

	itemID := id.New()
	sale := storedSale(0, &itemID)
	repo.sales[sale.ID] = sale

	err := svc.DeleteSale(context.Background(), sale.ID, &itemID)

	require.NoError(t, err)
	assert.Equal(t, 1, items.increments[itemID])
}

func TestDeleteSale_IndependentSaleSkipsStock(t *testing.T) {
	svc, repo, items := newLedgerService()

	sale := storedSale(2, nil)
	repo.sales[sale.ID] = sale

	err := svc.DeleteSale(context.Background(), sale.ID, nil)

	require.NoError(t, err)
	assert.Equal(t, []id.ID{sale.ID}, repo.deleted)
	assert.Empty(t, items.increments)
}

func TestDeleteSale_UnknownSale(t *testing.T) {
	svc, _, items := newLedgerService()

	err := svc.DeleteSale(context.Background(), id.New(), nil)

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, items.increments)
}

func TestDeleteSale_MarkFailureSkipsStockRestore(t *testing.T) {
	svc, repo, items := newLedgerService()

	itemID := id.New()
	sale := storedSale(2, &itemID)
	repo.sales[sale.ID] = sale
	repo.markErr = errors.New("write failed")

	err := svc.DeleteSale(context.Background(), sale.ID, &itemID)

	require.Error(t, err)
	assert.Empty(t, items.increments)
}

func TestGetSalesByDay_LoadsItemsOnce(t *testing.T) {
	svc, repo, items := newLedgerService()

	item := catalog.NewItem(catalog.TypeBook, "Candide", types.MustMoney("4.50"), types.VAT5_5)
	items.items[item.ID] = item

	for i := 0; i < 3; i++ {
		sale := storedSale(1, &item.ID)
		repo.rows = append(repo.rows, *sale)
	}

	report, err := svc.GetSalesByDay(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 1, items.loadCalls)
	assert.Equal(t, 3, report.SalesCount)
}

func TestGetSalesByDay_NoItemsNoLoad(t *testing.T) {
	svc, repo, items := newLedgerService()

	sale := storedSale(1, nil)
	repo.rows = append(repo.rows, *sale)

	_, err := svc.GetSalesByDay(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, items.loadCalls)
}
