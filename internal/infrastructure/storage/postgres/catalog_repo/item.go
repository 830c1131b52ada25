// Package catalog_repo provides the PostgreSQL implementation of the
// catalog repository.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"librairie/internal/core/apperror"
	"librairie/internal/core/id"
	"librairie/internal/domain/catalog"
	"librairie/internal/infrastructure/storage/postgres"
)

const itemsTable = "items"

var itemColumns = []string{
	"id", "type", "title", "author", "isbn", "publisher",
	"price", "tva", "amount", "comment", "created_at", "updated_at",
}

// ItemRepo implements catalog.Repository.
type ItemRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ catalog.Repository = (*ItemRepo)(nil)

func (r *ItemRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.Select(itemColumns...).From(itemsTable)
}

// Create inserts a new item.
func (r *ItemRepo) Create(ctx context.Context, item *catalog.Item) error {
	q := r.builder.Insert(itemsTable).
		Columns(itemColumns...).
		Values(
			item.ID, item.Type, item.Title, item.Author, item.ISBN, item.Publisher,
			item.Price, item.TVA, item.Amount, item.Comment, item.CreatedAt, item.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// Update rewrites item fields. Stock amount is managed separately through
// DecrementStock and IncrementStock.
func (r *ItemRepo) Update(ctx context.Context, item *catalog.Item) error {
	q := r.builder.Update(itemsTable).
		Set("type", item.Type).
		Set("title", item.Title).
		Set("author", item.Author).
		Set("isbn", item.ISBN).
		Set("publisher", item.Publisher).
		Set("price", item.Price).
		Set("tva", item.TVA).
		Set("comment", item.Comment).
		Set("updated_at", item.UpdatedAt).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", item.ID.String())
	}

	return nil
}

// GetByID retrieves an item by id.
func (r *ItemRepo) GetByID(ctx context.Context, itemID id.ID) (*catalog.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": itemID}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item catalog.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &item, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("select item: %w", err)
	}

	return &item, nil
}

// GetByISBN retrieves an item by its ISBN.
func (r *ItemRepo) GetByISBN(ctx context.Context, isbn string) (*catalog.Item, error) {
	q := r.baseSelect().Where(squirrel.Eq{"isbn": isbn}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var item catalog.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &item, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewItemNotFound(isbn)
		}
		return nil, fmt.Errorf("select item by isbn: %w", err)
	}

	return &item, nil
}

// GetByIDs retrieves items as a map keyed by id. Missing ids are simply
// absent from the result.
func (r *ItemRepo) GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*catalog.Item, error) {
	result := make(map[id.ID]*catalog.Item, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := r.baseSelect().Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*catalog.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}

	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}

// List retrieves items matching the filter, ordered by title.
func (r *ItemRepo) List(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Item, error) {
	q := r.baseSelect().OrderBy("title", "id")

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.TitleLike != "" {
		q = q.Where(squirrel.ILike{"title": "%" + filter.TitleLike + "%"})
	}
	if filter.LowStock {
		q = q.Where(squirrel.LtOrEq{"amount": filter.LowStockMax})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*catalog.Item
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}

	return items, nil
}

// DecrementStock subtracts qty from the item's stock as a single guarded
// statement, so two registers can never oversell the same copy. Zero rows
// means either the item is gone or the stock is short; the follow-up read
// tells them apart.
func (r *ItemRepo) DecrementStock(ctx context.Context, itemID id.ID, qty int) (*catalog.Item, error) {
	const sql = `UPDATE items
		SET amount = amount - $2, updated_at = now()
		WHERE id = $1 AND amount >= $2
		RETURNING ` + "id, type, title, author, isbn, publisher, price, tva, amount, comment, created_at, updated_at"

	var item catalog.Item
	querier := r.txManager.GetQuerier(ctx)
	err := pgxscan.Get(ctx, querier, &item, sql, itemID, qty)
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}

	existing, getErr := r.GetByID(ctx, itemID)
	if getErr != nil {
		if apperror.IsNotFound(getErr) {
			return nil, apperror.NewItemNotFound(itemID.String())
		}
		return nil, getErr
	}
	return nil, apperror.NewInsufficientStock(itemID, existing.Title)
}

// IncrementStock adds qty back to the item's stock.
func (r *ItemRepo) IncrementStock(ctx context.Context, itemID id.ID, qty int) error {
	q := r.builder.Update(itemsTable).
		Set("amount", squirrel.Expr("amount + ?", qty)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", itemID.String())
	}

	return nil
}
