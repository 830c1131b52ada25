package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
)

func saleRow(title, price string, qty int, cartID *id.ID, itemID *id.ID, payment PaymentType, tva types.VATRate, created time.Time) Sale {
	return Sale{
		ID:          id.New(),
		ItemID:      itemID,
		ItemType:    catalog.TypeBook,
		Title:       title,
		TVA:         tva,
		Price:       types.MustMoney(price),
		Quantity:    qty,
		Created:     created,
		CartID:      cartID,
		PaymentType: payment,
	}
}

func TestBuildDayReport_RunGrouping(t *testing.T) {
	day := time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)
	cartA := id.New()
	cartB := id.New()

	// Ordered as the repo returns them: created, cart_id, title.
	rows := []Sale{
		saleRow("A1", "10.00", 1, &cartA, nil, PaymentCash, types.VAT5_5, day),
		saleRow("A2", "5.00", 1, &cartA, nil, PaymentCash, types.VAT5_5, day),
		saleRow("B1", "3.00", 1, &cartB, nil, PaymentCard, types.VAT20, day.Add(time.Minute)),
		saleRow("solo1", "2.00", 1, nil, nil, PaymentCash, types.VAT20, day.Add(2*time.Minute)),
		saleRow("solo2", "2.00", 1, nil, nil, PaymentCash, types.VAT20, day.Add(3*time.Minute)),
	}

	report, err := BuildDayReport(rows, map[id.ID]*catalog.Item{})
	require.NoError(t, err)

	// Two settlements plus two independent sales: nil cartIds never
	// coalesce into one group.
	require.Len(t, report.Carts, 4)
	assert.Len(t, report.Carts[0].Lines, 2)
	assert.Len(t, report.Carts[1].Lines, 1)
	assert.Len(t, report.Carts[2].Lines, 1)
	assert.Len(t, report.Carts[3].Lines, 1)

	assert.Equal(t, 5, report.SalesCount)
	assert.Equal(t, "22.00", types.MoneyString(report.Total))
}

func TestBuildDayReport_SameCartIDSeparatedByAnotherRun(t *testing.T) {
	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	cartA := id.New()
	cartB := id.New()

	// A, B, A in sequence: the second A run must not merge with the first.
	rows := []Sale{
		saleRow("a", "1.00", 1, &cartA, nil, PaymentCash, types.VAT20, day),
		saleRow("b", "1.00", 1, &cartB, nil, PaymentCash, types.VAT20, day.Add(time.Minute)),
		saleRow("a2", "1.00", 1, &cartA, nil, PaymentCash, types.VAT20, day.Add(2*time.Minute)),
	}

	report, err := BuildDayReport(rows, map[id.ID]*catalog.Item{})
	require.NoError(t, err)
	assert.Len(t, report.Carts, 3)
}

func TestBuildDayReport_DeletedListedButExcluded(t *testing.T) {
	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	cartA := id.New()

	kept := saleRow("kept", "10.00", 1, &cartA, nil, PaymentCash, types.VAT5_5, day)
	deleted := saleRow("deleted", "99.00", 3, &cartA, nil, PaymentCash, types.VAT5_5, day)
	deleted.Deleted = true

	report, err := BuildDayReport([]Sale{kept, deleted}, map[id.ID]*catalog.Item{})
	require.NoError(t, err)

	// Both lines shown, only the live one counted.
	require.Len(t, report.Carts, 1)
	assert.Len(t, report.Carts[0].Lines, 2)
	assert.Equal(t, 1, report.SalesCount)
	assert.Equal(t, "10.00", types.MoneyString(report.Total))
	require.Len(t, report.PaymentMethods, 1)
	assert.Equal(t, "10.00", types.MoneyString(report.PaymentMethods[0].Total))
}

func TestBuildDayReport_ItemJoin(t *testing.T) {
	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	item := catalog.NewItem(catalog.TypeBook, "Le Petit Prince", types.MustMoney("6.90"), types.VAT5_5)
	itemID := item.ID

	rows := []Sale{saleRow("Le Petit Prince", "6.90", 1, nil, &itemID, PaymentCash, types.VAT5_5, day)}

	report, err := BuildDayReport(rows, map[id.ID]*catalog.Item{itemID: item})
	require.NoError(t, err)
	require.NotNil(t, report.Carts[0].Lines[0].Item)
	assert.Equal(t, "Le Petit Prince", report.Carts[0].Lines[0].Item.Title)
}

func TestBuildDayReport_MissingItemIsDataIntegrity(t *testing.T) {
	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	ghost := id.New()
	rows := []Sale{saleRow("vanished", "6.90", 1, nil, &ghost, PaymentCash, types.VAT5_5, day)}

	_, err := BuildDayReport(rows, map[id.ID]*catalog.Item{})

	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeDataIntegrity))
}

func TestBuildDayReport_VATAndPaymentStats(t *testing.T) {
	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)

	rows := []Sale{
		saleRow("a", "10.00", 1, nil, nil, PaymentCash, types.VAT5_5, day),
		saleRow("b", "5.00", 1, nil, nil, PaymentCash, types.VAT5_5, day),
		saleRow("c", "7.00", 1, nil, nil, PaymentCard, types.VAT5_5, day),
		saleRow("d", "2.00", 1, nil, nil, PaymentCash, types.VAT20, day),
	}

	report, err := BuildDayReport(rows, map[id.ID]*catalog.Item{})
	require.NoError(t, err)

	require.Len(t, report.TVA, 3)
	assert.Equal(t, "2.00", types.MoneyString(findVAT(t, report.TVA, types.VAT20, PaymentCash).Total))
	assert.Equal(t, "15.00", types.MoneyString(findVAT(t, report.TVA, types.VAT5_5, PaymentCash).Total))
	assert.Equal(t, "7.00", types.MoneyString(findVAT(t, report.TVA, types.VAT5_5, PaymentCard).Total))

	require.Len(t, report.PaymentMethods, 2)
	for _, stat := range report.PaymentMethods {
		switch stat.PaymentType {
		case PaymentCash:
			assert.Equal(t, "17.00", types.MoneyString(stat.Total))
		case PaymentCard:
			assert.Equal(t, "7.00", types.MoneyString(stat.Total))
		default:
			t.Fatalf("unexpected payment type %s", stat.PaymentType)
		}
	}
}

func findVAT(t *testing.T, stats []VATStat, tva types.VATRate, payment PaymentType) VATStat {
	t.Helper()
	for _, stat := range stats {
		if stat.TVA == tva && stat.PaymentType == payment {
			return stat
		}
	}
	t.Fatalf("no stat for %s/%s", tva, payment)
	return VATStat{}
}

func TestBuildDayReport_CentsAccuracy(t *testing.T) {
	day := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)

	// Amounts that drift under float64 accumulation.
	rows := make([]Sale, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, saleRow("x", "0.10", 1, nil, nil, PaymentCash, types.VAT20, day))
	}

	report, err := BuildDayReport(rows, map[id.ID]*catalog.Item{})
	require.NoError(t, err)
	assert.Equal(t, "1.00", types.MoneyString(report.Total))
}

func TestBuildMonthReport(t *testing.T) {
	day1 := time.Date(2026, 8, 3, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 15, 16, 0, 0, 0, time.UTC)

	deleted := saleRow("gone", "50.00", 1, nil, nil, PaymentCash, types.VAT20, day1)
	deleted.Deleted = true

	game := saleRow("jeu", "9.90", 1, nil, nil, PaymentCard, types.VAT20, day2)
	game.ItemType = catalog.TypeGame

	rows := []Sale{
		saleRow("a", "10.00", 2, nil, nil, PaymentCash, types.VAT5_5, day1),
		deleted,
		saleRow("b", "7.50", 1, nil, nil, PaymentCash, types.VAT5_5, day2),
		game,
	}

	report := BuildMonthReport(rows)

	// Most recent day first; deleted rows nowhere.
	require.Len(t, report.SalesByDay, 2)
	assert.Equal(t, 15, report.SalesByDay[0].Date.Day())
	assert.Equal(t, 3, report.SalesByDay[1].Date.Day())
	assert.Equal(t, "17.40", types.MoneyString(report.SalesByDay[0].Total))
	assert.Equal(t, "10.00", types.MoneyString(report.SalesByDay[1].Total))
	assert.Equal(t, 2, report.SalesByDay[1].Count)

	require.Len(t, report.ItemTypes, 2)
	for _, stat := range report.ItemTypes {
		switch stat.ItemType {
		case catalog.TypeBook:
			assert.Equal(t, "17.50", types.MoneyString(stat.Total))
		case catalog.TypeGame:
			assert.Equal(t, "9.90", types.MoneyString(stat.Total))
		default:
			t.Fatalf("unexpected item type %s", stat.ItemType)
		}
	}
}
