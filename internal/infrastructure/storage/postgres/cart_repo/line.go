// Package cart_repo provides the PostgreSQL implementation of the cart
// repository. The two register slots share one table, discriminated by the
// slot column.
package cart_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/domain/cart"
	"librairie/internal/infrastructure/storage/postgres"
)

const cartLinesTable = "cart_lines"

var cartLineColumns = []string{
	"id", "user_id", "slot", "item_id", "item_type",
	"title", "price", "tva", "quantity", "created_at",
}

// LineRepo implements cart.Repository.
type LineRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewLineRepo creates a new cart line repository.
func NewLineRepo(txManager *postgres.TxManager) *LineRepo {
	return &LineRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ cart.Repository = (*LineRepo)(nil)

// UpsertLine inserts the line or merges its quantity into the existing
// (user, slot, item) line. ON CONFLICT keeps the merge atomic under
// concurrent adds.
func (r *LineRepo) UpsertLine(ctx context.Context, line *cart.Line) error {
	const sql = `INSERT INTO cart_lines
		(id, user_id, slot, item_id, item_type, title, price, tva, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, slot, item_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		line.ID, line.UserID, line.Slot, line.ItemID, line.ItemType,
		line.Title, line.Price, line.TVA, line.Quantity, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

// InsertLine inserts an independent line. No merge: each call makes a row.
func (r *LineRepo) InsertLine(ctx context.Context, line *cart.Line) error {
	q := r.builder.Insert(cartLinesTable).
		Columns(cartLineColumns...).
		Values(
			line.ID, line.UserID, line.Slot, line.ItemID, line.ItemType,
			line.Title, line.Price, line.TVA, line.Quantity, line.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert cart line: %w", err)
	}
	return nil
}

// GetLine retrieves one line by id.
func (r *LineRepo) GetLine(ctx context.Context, lineID id.ID) (*cart.Line, error) {
	q := r.builder.Select(cartLineColumns...).
		From(cartLinesTable).
		Where(squirrel.Eq{"id": lineID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var line cart.Line
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &line, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("cart line", lineID.String())
		}
		return nil, fmt.Errorf("select cart line: %w", err)
	}
	return &line, nil
}

// DeleteLine removes one line by id.
func (r *LineRepo) DeleteLine(ctx context.Context, lineID id.ID) error {
	q := r.builder.Delete(cartLinesTable).Where(squirrel.Eq{"id": lineID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("cart line", lineID.String())
	}
	return nil
}

// ListLines returns a user's lines for one slot in insertion order.
func (r *LineRepo) ListLines(ctx context.Context, userID id.ID, slot cart.Slot) ([]cart.Line, error) {
	q := r.builder.Select(cartLineColumns...).
		From(cartLinesTable).
		Where(squirrel.Eq{"user_id": userID, "slot": slot}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []cart.Line
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select cart lines: %w", err)
	}
	return lines, nil
}

// DeleteLines clears a user's slot.
func (r *LineRepo) DeleteLines(ctx context.Context, userID id.ID, slot cart.Slot) error {
	q := r.builder.Delete(cartLinesTable).
		Where(squirrel.Eq{"user_id": userID, "slot": slot})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete cart lines: %w", err)
	}
	return nil
}

// MoveLines moves every line from one slot to the other. Lines whose item
// already exists in the target slot merge their quantity into it; the rest
// just flip slots. Three statements, so callers run it inside a transaction.
func (r *LineRepo) MoveLines(ctx context.Context, userID id.ID, from, to cart.Slot) error {
	querier := r.txManager.GetQuerier(ctx)

	const mergeSQL = `UPDATE cart_lines dst
		SET quantity = dst.quantity + src.quantity
		FROM cart_lines src
		WHERE dst.user_id = $1 AND dst.slot = $3
		  AND src.user_id = $1 AND src.slot = $2
		  AND dst.item_id = src.item_id`
	if _, err := querier.Exec(ctx, mergeSQL, userID, from, to); err != nil {
		return fmt.Errorf("merge cart lines: %w", err)
	}

	const dropMergedSQL = `DELETE FROM cart_lines src
		WHERE src.user_id = $1 AND src.slot = $2
		  AND src.item_id IS NOT NULL
		  AND EXISTS (
			SELECT 1 FROM cart_lines dst
			WHERE dst.user_id = $1 AND dst.slot = $3
			  AND dst.item_id = src.item_id
		  )`
	if _, err := querier.Exec(ctx, dropMergedSQL, userID, from, to); err != nil {
		return fmt.Errorf("drop merged cart lines: %w", err)
	}

	const moveSQL = `UPDATE cart_lines
		SET slot = $3
		WHERE user_id = $1 AND slot = $2`
	if _, err := querier.Exec(ctx, moveSQL, userID, from, to); err != nil {
		return fmt.Errorf("move cart lines: %w", err)
	}

	return nil
}
