package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
)

// --- fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeStock is an in-memory stock ledger with the same conditional
// decrement semantics as the real one.
type fakeStock struct {
	items      map[id.ID]*catalog.Item
	byISBN     map[string]id.ID
	decrements int
	increments int
}

func newFakeStock() *fakeStock {
	return &fakeStock{
		items:  map[id.ID]*catalog.Item{},
		byISBN: map[string]id.ID{},
	}
}

func (f *fakeStock) add(title, isbn string, price string, amount int) *catalog.Item {
	item := catalog.NewItem(catalog.TypeBook, title, types.MustMoney(price), types.VAT5_5)
	item.Amount = amount
	if isbn != "" {
		item.ISBN = &isbn
		f.byISBN[isbn] = item.ID
	}
	f.items[item.ID] = item
	return item
}

func (f *fakeStock) GetByISBN(ctx context.Context, isbn string) (*catalog.Item, error) {
	itemID, ok := f.byISBN[isbn]
	if !ok {
		return nil, apperror.NewItemNotFound(isbn)
	}
	return f.items[itemID], nil
}

func (f *fakeStock) DecrementStock(ctx context.Context, itemID id.ID, qty int) (*catalog.Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return nil, apperror.NewItemNotFound(itemID.String())
	}
	if item.Amount < qty {
		return nil, apperror.NewInsufficientStock(itemID, item.Title)
	}
	item.Amount -= qty
	f.decrements++
	copied := *item
	return &copied, nil
}

func (f *fakeStock) IncrementStock(ctx context.Context, itemID id.ID, qty int) error {
	item, ok := f.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	item.Amount += qty
	f.increments++
	return nil
}

// fakeRepo is an in-memory cart store with merge-on-upsert.
type fakeRepo struct {
	lines     []Line
	upsertErr error
}

func (f *fakeRepo) UpsertLine(ctx context.Context, line *Line) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	for i := range f.lines {
		existing := &f.lines[i]
		if existing.UserID == line.UserID && existing.Slot == line.Slot &&
			existing.ItemID != nil && line.ItemID != nil && *existing.ItemID == *line.ItemID {
			existing.Quantity += line.Quantity
			return nil
		}
	}
	f.lines = append(f.lines, *line)
	return nil
}

func (f *fakeRepo) InsertLine(ctx context.Context, line *Line) error {
	f.lines = append(f.lines, *line)
	return nil
}

func (f *fakeRepo) GetLine(ctx context.Context, lineID id.ID) (*Line, error) {
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			line := f.lines[i]
			return &line, nil
		}
	}
	return nil, apperror.NewNotFound("cart line", lineID.String())
}

func (f *fakeRepo) DeleteLine(ctx context.Context, lineID id.ID) error {
	for i := range f.lines {
		if f.lines[i].ID == lineID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return apperror.NewNotFound("cart line", lineID.String())
}

func (f *fakeRepo) ListLines(ctx context.Context, userID id.ID, slot Slot) ([]Line, error) {
	var result []Line
	for _, line := range f.lines {
		if line.UserID == userID && line.Slot == slot {
			result = append(result, line)
		}
	}
	return result, nil
}

func (f *fakeRepo) DeleteLines(ctx context.Context, userID id.ID, slot Slot) error {
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.UserID != userID || line.Slot != slot {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	return nil
}

func (f *fakeRepo) MoveLines(ctx context.Context, userID id.ID, from, to Slot) error {
	var moved []Line
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.UserID == userID && line.Slot == from {
			moved = append(moved, line)
		} else {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	for i := range moved {
		moved[i].Slot = to
		if err := f.UpsertLine(ctx, &moved[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeLinkage struct {
	swaps int
}

func (f *fakeLinkage) SwapSelectedSlots(ctx context.Context, userID id.ID) error {
	f.swaps++
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakeStock, *fakeLinkage) {
	repo := &fakeRepo{}
	stock := newFakeStock()
	linkage := &fakeLinkage{}
	return NewService(repo, stock, linkage, fakeTxManager{}), repo, stock, linkage
}

// --- tests ---

func TestAddItem_ReservesStockAndMerges(t *testing.T) {
	svc, repo, stock, _ := newTestService()
	ctx := context.Background()
	userID := id.New()
	item := stock.add("L'Étranger", "9782070360024", "7.50", 5)

	require.NoError(t, svc.AddItem(ctx, userID, item.ID, 2))
	require.NoError(t, svc.AddItem(ctx, userID, item.ID, 1))

	// Repeat adds merge into one line; every add decremented stock.
	require.Len(t, repo.lines, 1)
	assert.Equal(t, 3, repo.lines[0].Quantity)
	assert.Equal(t, 2, stock.items[item.ID].Amount)
}

func TestAddItem_QuantityDefaultsToOne(t *testing.T) {
	svc, repo, stock, _ := newTestService()
	ctx := context.Background()
	item := stock.add("Carnet", "", "4.30", 3)

	require.NoError(t, svc.AddItem(ctx, id.New(), item.ID, 0))

	assert.Equal(t, 1, repo.lines[0].Quantity)
	assert.Equal(t, 2, stock.items[item.ID].Amount)
}

func TestAddItem_InsufficientStock(t *testing.T) {
	svc, repo, stock, _ := newTestService()
	ctx := context.Background()
	item := stock.add("Rare", "", "20.00", 1)

	err := svc.AddItem(ctx, id.New(), item.ID, 2)

	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Empty(t, repo.lines)
	assert.Equal(t, 1, stock.items[item.ID].Amount)
}

func TestAddItem_RestoresStockOnWriteFailure(t *testing.T) {
	svc, repo, stock, _ := newTestService()
	repo.upsertErr = errors.New("connection reset")
	ctx := context.Background()
	item := stock.add("Vendredi", "", "5.20", 4)

	err := svc.AddItem(ctx, id.New(), item.ID, 2)

	require.Error(t, err)
	assert.Equal(t, 4, stock.items[item.ID].Amount)
}

func TestAddByISBN_Scenarios(t *testing.T) {
	svc, repo, stock, _ := newTestService()
	ctx := context.Background()
	userID := id.New()
	item := stock.add("Le Petit Prince", "9782070612758", "6.90", 2)

	// Unknown ISBN: typed result, no error.
	result, err := svc.AddByISBN(ctx, userID, "0000000000000")
	require.NoError(t, err)
	assert.Equal(t, apperror.CodeItemNotFound, result.ErrorCode)

	// Two units in stock: two scans succeed.
	for i := 0; i < 2; i++ {
		result, err = svc.AddByISBN(ctx, userID, "9782070612758")
		require.NoError(t, err)
		assert.Empty(t, result.ErrorCode)
	}

	// Third scan: NO_STOCK with title and id for the register display,
	// cart untouched.
	result, err = svc.AddByISBN(ctx, userID, "9782070612758")
	require.NoError(t, err)
	assert.Equal(t, apperror.CodeInsufficientStock, result.ErrorCode)
	assert.Equal(t, "Le Petit Prince", result.Title)
	require.NotNil(t, result.ItemID)
	assert.Equal(t, item.ID, *result.ItemID)

	require.Len(t, repo.lines, 1)
	assert.Equal(t, 2, repo.lines[0].Quantity)
	assert.Equal(t, 0, stock.items[item.ID].Amount)
}

func TestAddIndependent(t *testing.T) {
	svc, repo, stock, _ := newTestService()
	ctx := context.Background()

	line, err := svc.AddIndependent(ctx, id.New(), IndependentLine{
		Title: "Affiche dédicace",
		Price: types.MustMoney("12.00"),
		TVA:   types.VAT20,
	})

	require.NoError(t, err)
	assert.Nil(t, line.ItemID)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, catalog.TypeUnknown, line.ItemType)
	assert.Len(t, repo.lines, 1)
	// No catalog item involved, so no stock movement.
	assert.Equal(t, 0, stock.decrements)
}

func TestAddIndependent_Validation(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.AddIndependent(ctx, id.New(), IndependentLine{TVA: types.VAT20})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = svc.AddIndependent(ctx, id.New(), IndependentLine{Title: "x", TVA: "19.6"})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestRemoveLine_RestoresStock(t *testing.T) {
	svc, repo, stock, _ := newTestService()
	ctx := context.Background()
	userID := id.New()
	item := stock.add("Jeu", "", "9.90", 5)

	require.NoError(t, svc.AddItem(ctx, userID, item.ID, 3))
	lineID := repo.lines[0].ID

	require.NoError(t, svc.RemoveLine(ctx, lineID))

	assert.Empty(t, repo.lines)
	assert.Equal(t, 5, stock.items[item.ID].Amount)
}

func TestRemoveLine_IndependentLineSkipsStock(t *testing.T) {
	svc, repo, stock, _ := newTestService()
	ctx := context.Background()

	line, err := svc.AddIndependent(ctx, id.New(), IndependentLine{
		Title: "Divers", Price: types.MustMoney("3.00"), TVA: types.VAT20,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveLine(ctx, line.ID))
	assert.Empty(t, repo.lines)
	assert.Equal(t, 0, stock.increments)
}

func TestList_CountAndTotal(t *testing.T) {
	svc, _, stock, _ := newTestService()
	ctx := context.Background()
	userID := id.New()
	a := stock.add("A", "", "6.90", 10)
	b := stock.add("B", "", "0.10", 10)

	require.NoError(t, svc.AddItem(ctx, userID, a.ID, 2))
	require.NoError(t, svc.AddItem(ctx, userID, b.ID, 3))

	view, err := svc.List(ctx, userID, SlotActive)
	require.NoError(t, err)

	assert.Equal(t, 5, view.Count)
	assert.Equal(t, "14.10", types.MoneyString(view.Total))
}

func TestSwitchCarts(t *testing.T) {
	svc, _, stock, linkage := newTestService()
	ctx := context.Background()
	userID := id.New()
	item := stock.add("A", "", "5.00", 10)

	require.NoError(t, svc.AddItem(ctx, userID, item.ID, 1))
	require.NoError(t, svc.SwitchCarts(ctx, userID, SlotActive, SlotAside))

	active, _ := svc.List(ctx, userID, SlotActive)
	aside, _ := svc.List(ctx, userID, SlotAside)
	assert.Equal(t, 0, active.Count)
	assert.Equal(t, 1, aside.Count)
	assert.Equal(t, 1, linkage.swaps)

	// Merging on reactivation: same item waiting in both slots.
	require.NoError(t, svc.AddItem(ctx, userID, item.ID, 2))
	require.NoError(t, svc.SwitchCarts(ctx, userID, SlotAside, SlotActive))

	active, _ = svc.List(ctx, userID, SlotActive)
	require.Len(t, active.Lines, 1)
	assert.Equal(t, 3, active.Lines[0].Quantity)
	assert.Equal(t, 2, linkage.swaps)
}

func TestSwitchCarts_SameSlot(t *testing.T) {
	svc, _, _, linkage := newTestService()

	err := svc.SwitchCarts(context.Background(), id.New(), SlotActive, SlotActive)

	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Equal(t, 0, linkage.swaps)
}
