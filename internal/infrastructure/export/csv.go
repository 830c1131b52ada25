// Package export writes day ledgers as zstd-compressed CSV archives for
// the accountant.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"

	"librairie/internal/core/types"
	"librairie/internal/domain/sales"
)

var csvHeader = []string{
	"id", "created", "type", "title", "tva", "quantity",
	"total", "payment", "cart", "deleted",
}

// SaleLister is the slice of the sale ledger the exporter needs.
type SaleLister interface {
	ListByDay(ctx context.Context, day time.Time) ([]sales.Sale, error)
}

// Exporter produces compressed CSV archives of sale days.
type Exporter struct {
	ledger  SaleLister
	encoder *zstd.Encoder
}

// NewExporter creates a day exporter.
func NewExporter(ledger SaleLister) (*Exporter, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &Exporter{ledger: ledger, encoder: encoder}, nil
}

// DayCSV renders one day's ledger as CSV. Deleted rows are included and
// flagged, so the export matches the ledger rather than the totals.
func (e *Exporter) DayCSV(ctx context.Context, day time.Time) ([]byte, error) {
	rows, err := e.ledger.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, s := range rows {
		cartID := ""
		if s.CartID != nil {
			cartID = s.CartID.String()
		}
		record := []string{
			s.ID.String(),
			s.Created.UTC().Format(time.RFC3339),
			string(s.ItemType),
			s.Title,
			string(s.TVA),
			strconv.Itoa(s.Quantity),
			types.MoneyString(s.Price),
			string(s.PaymentType),
			cartID,
			strconv.FormatBool(s.Deleted),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// DayArchive renders one day's ledger as zstd-compressed CSV.
func (e *Exporter) DayArchive(ctx context.Context, day time.Time) ([]byte, error) {
	plain, err := e.DayCSV(ctx, day)
	if err != nil {
		return nil, err
	}
	return e.encoder.EncodeAll(plain, make([]byte, 0, len(plain)/2)), nil
}

// Filename returns the archive name for a day.
func Filename(day time.Time) string {
	return fmt.Sprintf("ventes-%s.csv.zst", day.Format("2006-01-02"))
}
