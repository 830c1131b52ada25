package settlement

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
	"librairie/internal/domain/cart"
	"librairie/internal/domain/catalog"
	"librairie/internal/domain/customer"
	"librairie/internal/domain/sales"
)

// --- fakes ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeCartRepo struct {
	lines []cart.Line
}

func (f *fakeCartRepo) UpsertLine(ctx context.Context, line *cart.Line) error {
	f.lines = append(f.lines, *line)
	return nil
}

func (f *fakeCartRepo) InsertLine(ctx context.Context, line *cart.Line) error {
	f.lines = append(f.lines, *line)
	return nil
}

func (f *fakeCartRepo) GetLine(ctx context.Context, lineID id.ID) (*cart.Line, error) {
	return nil, apperror.NewNotFound("cart line", lineID.String())
}

func (f *fakeCartRepo) DeleteLine(ctx context.Context, lineID id.ID) error { return nil }

func (f *fakeCartRepo) ListLines(ctx context.Context, userID id.ID, slot cart.Slot) ([]cart.Line, error) {
	var result []cart.Line
	for _, line := range f.lines {
		if line.UserID == userID && line.Slot == slot {
			result = append(result, line)
		}
	}
	return result, nil
}

func (f *fakeCartRepo) DeleteLines(ctx context.Context, userID id.ID, slot cart.Slot) error {
	kept := f.lines[:0]
	for _, line := range f.lines {
		if line.UserID != userID || line.Slot != slot {
			kept = append(kept, line)
		}
	}
	f.lines = kept
	return nil
}

func (f *fakeCartRepo) MoveLines(ctx context.Context, userID id.ID, from, to cart.Slot) error {
	return nil
}

type fakeLedger struct {
	rows      []sales.Sale
	createErr error
}

func (f *fakeLedger) CreateBatch(ctx context.Context, rows []sales.Sale) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, rows...)
	return nil
}

func (f *fakeLedger) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	return nil, apperror.NewNotFound("sale", saleID.String())
}

func (f *fakeLedger) MarkDeleted(ctx context.Context, saleID id.ID) error { return nil }

func (f *fakeLedger) ListByDay(ctx context.Context, day time.Time) ([]sales.Sale, error) {
	return nil, nil
}

func (f *fakeLedger) ListByMonth(ctx context.Context, year int, month time.Month) ([]sales.Sale, error) {
	return nil, nil
}

type fakeLoyalty struct {
	selected       map[id.ID]id.ID // userID -> customerID, active slot only
	addedPurchases []types.Money
	resets         int
	clears         int
}

func newFakeLoyalty() *fakeLoyalty {
	return &fakeLoyalty{selected: map[id.ID]id.ID{}}
}

func (f *fakeLoyalty) GetSelected(ctx context.Context, userID id.ID, asideCart bool) (*customer.SelectedCustomer, error) {
	customerID, ok := f.selected[userID]
	if !ok {
		return nil, apperror.NewNotFound("selected customer", userID.String())
	}
	return &customer.SelectedCustomer{UserID: userID, AsideCart: asideCart, CustomerID: customerID}, nil
}

func (f *fakeLoyalty) AddPurchase(ctx context.Context, customerID id.ID, amount types.Money) error {
	f.addedPurchases = append(f.addedPurchases, amount)
	return nil
}

func (f *fakeLoyalty) ResetPurchases(ctx context.Context, customerID id.ID) error {
	f.resets++
	return nil
}

func (f *fakeLoyalty) ClearSelected(ctx context.Context, userID id.ID, asideCart bool) error {
	f.clears++
	delete(f.selected, userID)
	return nil
}

// --- helpers ---

func addLine(repo *fakeCartRepo, userID id.ID, title, price string, qty int, withItem bool) cart.Line {
	line := cart.Line{
		ID:       id.New(),
		UserID:   userID,
		Slot:     cart.SlotActive,
		ItemType: catalog.TypeBook,
		Title:    title,
		Price:    types.MustMoney(price),
		TVA:      types.VAT5_5,
		Quantity: qty,
	}
	if withItem {
		itemID := id.New()
		line.ItemID = &itemID
	}
	repo.lines = append(repo.lines, line)
	return line
}

func newTestEngine() (*Engine, *fakeCartRepo, *fakeLedger, *fakeLoyalty) {
	carts := &fakeCartRepo{}
	ledger := &fakeLedger{}
	loyalty := newFakeLoyalty()
	return NewEngine(carts, ledger, loyalty, fakeTxManager{}), carts, ledger, loyalty
}

// --- tests ---

func TestPay_CashWithChange(t *testing.T) {
	engine, carts, ledger, _ := newTestEngine()
	ctx := context.Background()
	userID := id.New()

	first := addLine(carts, userID, "Le Petit Prince", "6.90", 1, true)
	addLine(carts, userID, "L'Étranger", "7.50", 2, true)
	addLine(carts, userID, "Carte postale", "1.50", 1, false)

	result, err := engine.Pay(ctx, userID, Payment{
		PaymentType: sales.PaymentCash,
		Amount:      types.MustMoney("30.00"),
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.Change)
	// Total 6.90 + 15.00 + 1.50 = 23.40, change 6.60.
	assert.Equal(t, "6.60", types.MoneyString(*result.Change))

	// One ledger row per line, all tagged with the first line's id.
	require.Len(t, ledger.rows, 3)
	for _, row := range ledger.rows {
		require.NotNil(t, row.CartID)
		assert.Equal(t, first.ID, *row.CartID)
		assert.Equal(t, sales.PaymentCash, row.PaymentType)
		assert.False(t, row.Deleted)
	}

	// Line totals, not unit prices, land in the ledger.
	assert.Equal(t, "15.00", types.MoneyString(ledger.rows[1].Price))

	// Cart cleared.
	remaining, _ := carts.ListLines(ctx, userID, cart.SlotActive)
	assert.Empty(t, remaining)
}

func TestPay_NegativeChangeAllowed(t *testing.T) {
	engine, carts, _, _ := newTestEngine()
	userID := id.New()
	addLine(carts, userID, "A", "10.00", 1, true)

	result, err := engine.Pay(context.Background(), userID, Payment{
		PaymentType: sales.PaymentCash,
		Amount:      types.MustMoney("5.00"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Change)
	assert.Equal(t, "-5.00", types.MoneyString(*result.Change))
}

func TestPay_CardHasNoChange(t *testing.T) {
	engine, carts, _, _ := newTestEngine()
	userID := id.New()
	addLine(carts, userID, "A", "10.00", 1, true)

	result, err := engine.Pay(context.Background(), userID, Payment{
		PaymentType: sales.PaymentCard,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.Change)
}

func TestPay_EmptyCart(t *testing.T) {
	engine, _, ledger, _ := newTestEngine()

	_, err := engine.Pay(context.Background(), id.New(), Payment{
		PaymentType: sales.PaymentCash,
	})

	assert.True(t, apperror.IsEmptyCart(err))
	assert.Empty(t, ledger.rows)
}

func TestPay_InvalidPaymentType(t *testing.T) {
	engine, carts, _, _ := newTestEngine()
	userID := id.New()
	addLine(carts, userID, "A", "10.00", 1, true)

	_, err := engine.Pay(context.Background(), userID, Payment{
		PaymentType: "bitcoin",
	})

	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestPay_LinkedCustomerAccumulates(t *testing.T) {
	engine, carts, ledger, loyalty := newTestEngine()
	userID := id.New()
	customerID := id.New()
	loyalty.selected[userID] = customerID

	addLine(carts, userID, "A", "20.00", 2, true)

	_, err := engine.Pay(context.Background(), userID, Payment{
		PaymentType: sales.PaymentCard,
	})
	require.NoError(t, err)

	require.Len(t, loyalty.addedPurchases, 1)
	assert.Equal(t, "40.00", types.MoneyString(loyalty.addedPurchases[0]))
	assert.Equal(t, 0, loyalty.resets)
	assert.Equal(t, 1, loyalty.clears)

	for _, row := range ledger.rows {
		assert.True(t, row.LinkedToCustomer)
	}
}

func TestPay_DiscountRedemptionResetsPurchases(t *testing.T) {
	engine, carts, _, loyalty := newTestEngine()
	userID := id.New()
	loyalty.selected[userID] = id.New()

	addLine(carts, userID, "A", "20.00", 1, true)
	addLine(carts, userID, sales.LoyaltyDiscountTitle, "-10.00", 1, false)

	_, err := engine.Pay(context.Background(), userID, Payment{
		PaymentType: sales.PaymentCash,
		Amount:      types.MustMoney("10.00"),
	})
	require.NoError(t, err)

	// The discount consumes the balance instead of growing it.
	assert.Equal(t, 1, loyalty.resets)
	assert.Empty(t, loyalty.addedPurchases)
	assert.Equal(t, 1, loyalty.clears)
}

func TestPay_NoLinkedCustomer(t *testing.T) {
	engine, carts, ledger, loyalty := newTestEngine()
	userID := id.New()
	addLine(carts, userID, "A", "5.00", 1, true)

	_, err := engine.Pay(context.Background(), userID, Payment{
		PaymentType: sales.PaymentCheck,
	})
	require.NoError(t, err)

	assert.Empty(t, loyalty.addedPurchases)
	assert.Equal(t, 0, loyalty.clears)
	for _, row := range ledger.rows {
		assert.False(t, row.LinkedToCustomer)
	}
}

func TestPay_LedgerFailureKeepsCart(t *testing.T) {
	engine, carts, ledger, loyalty := newTestEngine()
	ledger.createErr = errors.New("disk full")
	userID := id.New()
	loyalty.selected[userID] = id.New()
	addLine(carts, userID, "A", "5.00", 1, true)

	_, err := engine.Pay(context.Background(), userID, Payment{
		PaymentType: sales.PaymentCash,
		Amount:      types.MustMoney("5.00"),
	})

	require.Error(t, err)
	// Nothing settled: cart intact, loyalty untouched.
	remaining, _ := carts.ListLines(context.Background(), userID, cart.SlotActive)
	assert.Len(t, remaining, 1)
	assert.Empty(t, loyalty.addedPurchases)
	assert.Equal(t, 0, loyalty.clears)
}
