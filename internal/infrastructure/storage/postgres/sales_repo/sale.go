// Package sales_repo provides the PostgreSQL implementation of the sale
// ledger repository.
package sales_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/domain/sales"
	"librairie/internal/infrastructure/storage/postgres"
)

const salesTable = "sales"

var saleColumns = []string{
	"id", "item_id", "item_type", "title", "tva", "price", "quantity",
	"created", "cart_id", "deleted", "payment_type", "linked_to_customer",
}

// SaleRepo implements sales.Repository.
type SaleRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale ledger repository.
func NewSaleRepo(txManager *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ sales.Repository = (*SaleRepo)(nil)

// CreateBatch bulk-inserts settlement rows. Uses COPY when inside a
// transaction, which settlement always is.
func (r *SaleRepo) CreateBatch(ctx context.Context, rows []sales.Sale) error {
	if len(rows) == 0 {
		return nil
	}

	if r.txManager.GetTx(ctx) != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		values := make([][]any, 0, len(rows))
		for _, s := range rows {
			values = append(values, []any{
				s.ID, s.ItemID, s.ItemType, s.Title, s.TVA, s.Price, s.Quantity,
				s.Created, s.CartID, s.Deleted, s.PaymentType, s.LinkedToCustomer,
			})
		}
		if _, err := inserter.CopyFromRows(ctx, salesTable, saleColumns, values); err != nil {
			return fmt.Errorf("copy sales: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(salesTable).Columns(saleColumns...)
	for _, s := range rows {
		q = q.Values(
			s.ID, s.ItemID, s.ItemType, s.Title, s.TVA, s.Price, s.Quantity,
			s.Created, s.CartID, s.Deleted, s.PaymentType, s.LinkedToCustomer,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sales: %w", err)
	}
	return nil
}

// GetByID retrieves one sale row.
func (r *SaleRepo) GetByID(ctx context.Context, saleID id.ID) (*sales.Sale, error) {
	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sales.Sale
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("sale", saleID.String())
		}
		return nil, fmt.Errorf("select sale: %w", err)
	}
	return &s, nil
}

// MarkDeleted sets the soft-delete flag. Rows never leave the ledger.
// The deleted = false guard makes concurrent deletes of the same sale
// resolve to a single stock restoration.
func (r *SaleRepo) MarkDeleted(ctx context.Context, saleID id.ID) error {
	q := r.builder.Update(salesTable).
		Set("deleted", true).
		Where(squirrel.Eq{"id": saleID, "deleted": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark sale deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", saleID.String())
	}
	return nil
}

// ListByDay returns every sale of one calendar day, deleted included.
// The day is bracketed as a UTC range, the same convention ListByMonth
// uses, so day and month reports agree at midnight boundaries regardless
// of the session time zone. Ordering by created, cart_id, title keeps one
// settlement's lines contiguous for the day report grouping.
func (r *SaleRepo) ListByDay(ctx context.Context, day time.Time) ([]sales.Sale, error) {
	start, end := dayBounds(day)

	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.GtOrEq{"created": start}).
		Where(squirrel.Lt{"created": end}).
		OrderBy("created", "cart_id", "title")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []sales.Sale
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales by day: %w", err)
	}
	return rows, nil
}

// dayBounds converts a timestamp anywhere in a UTC calendar day into the
// half-open [midnight, next midnight) range for that day.
func dayBounds(day time.Time) (time.Time, time.Time) {
	year, month, dayOfMonth := day.UTC().Date()
	start := time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// ListByMonth returns every sale in the calendar month, ordered by created.
func (r *SaleRepo) ListByMonth(ctx context.Context, year int, month time.Month) ([]sales.Sale, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	q := r.builder.Select(saleColumns...).
		From(salesTable).
		Where(squirrel.GtOrEq{"created": start}).
		Where(squirrel.Lt{"created": end}).
		OrderBy("created")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []sales.Sale
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sales by month: %w", err)
	}
	return rows, nil
}
