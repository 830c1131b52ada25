package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librairie/internal/core/id"
	"librairie/internal/core/types"
	"librairie/internal/domain/catalog"
	"librairie/internal/domain/sales"
)

type fakeLister struct {
	rows []sales.Sale
}

func (l *fakeLister) ListByDay(ctx context.Context, day time.Time) ([]sales.Sale, error) {
	return l.rows, nil
}

func exportDay() time.Time {
	return time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
}

func TestDayCSV(t *testing.T) {
	deleted := sales.Sale{
		ID:          id.New(),
		ItemType:    catalog.TypeBook,
		Title:       "Candide",
		TVA:         types.VAT5_5,
		Price:       types.MustMoney("4.50"),
		Quantity:    1,
		Created:     exportDay().Add(9 * time.Hour),
		PaymentType: sales.PaymentCash,
		Deleted:     true,
	}
	kept := sales.Sale{
		ID:          id.New(),
		ItemType:    catalog.TypeGame,
		Title:       "Sept familles",
		TVA:         types.VAT20,
		Price:       types.MustMoney("9.90"),
		Quantity:    1,
		Created:     exportDay().Add(10 * time.Hour),
		PaymentType: sales.PaymentCard,
	}

	exporter, err := NewExporter(&fakeLister{rows: []sales.Sale{deleted, kept}})
	require.NoError(t, err)

	raw, err := exporter.DayCSV(context.Background(), exportDay())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "Candide", records[1][3])
	assert.Equal(t, "true", records[1][9])
	assert.Equal(t, "9.90", records[2][6])
	assert.Equal(t, "false", records[2][9])
	assert.Equal(t, "2026-08-12T10:00:00Z", records[2][1])
}

func TestDayArchive_Roundtrip(t *testing.T) {
	row := sales.Sale{
		ID:          id.New(),
		ItemType:    catalog.TypeBook,
		Title:       "Candide",
		TVA:         types.VAT5_5,
		Price:       types.MustMoney("4.50"),
		Quantity:    1,
		Created:     exportDay(),
		PaymentType: sales.PaymentCash,
	}

	exporter, err := NewExporter(&fakeLister{rows: []sales.Sale{row}})
	require.NoError(t, err)

	archived, err := exporter.DayArchive(context.Background(), exportDay())
	require.NoError(t, err)

	decoder, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer decoder.Close()

	plain, err := decoder.DecodeAll(archived, nil)
	require.NoError(t, err)

	expected, err := exporter.DayCSV(context.Background(), exportDay())
	require.NoError(t, err)
	assert.Equal(t, expected, plain)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "ventes-2026-08-12.csv.zst", Filename(exportDay()))
}
