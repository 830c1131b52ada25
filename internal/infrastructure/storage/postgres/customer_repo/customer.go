// Package customer_repo provides the PostgreSQL implementation of the
// customer repository, including purchases and the selected-customer
// linkage.
package customer_repo

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
	"librairie/internal/core/types"
	"librairie/internal/domain/customer"
	"librairie/internal/infrastructure/storage/postgres"
)

const (
	customersTable = "customers"
	purchasesTable = "purchases"
	selectedTable  = "selected_customers"
)

var customerColumns = []string{
	"id", "name", "search_key", "email", "phone", "comment",
	"created_at", "updated_at",
}

// CustomerRepo implements customer.Repository.
type CustomerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txManager *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var _ customer.Repository = (*CustomerRepo)(nil)

// Create inserts a new customer.
func (r *CustomerRepo) Create(ctx context.Context, c *customer.Customer) error {
	q := r.builder.Insert(customersTable).
		Columns(customerColumns...).
		Values(c.ID, c.Name, c.SearchKey, c.Email, c.Phone, c.Comment, c.CreatedAt, c.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update rewrites customer fields.
func (r *CustomerRepo) Update(ctx context.Context, c *customer.Customer) error {
	q := r.builder.Update(customersTable).
		Set("name", c.Name).
		Set("search_key", c.SearchKey).
		Set("email", c.Email).
		Set("phone", c.Phone).
		Set("comment", c.Comment).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", c.ID.String())
	}
	return nil
}

// Delete removes a customer. Purchases and linkage rows cascade.
func (r *CustomerRepo) Delete(ctx context.Context, customerID id.ID) error {
	q := r.builder.Delete(customersTable).Where(squirrel.Eq{"id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", customerID.String())
	}
	return nil
}

// GetByID loads a customer with purchases, oldest purchase first.
func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	q := r.builder.Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Eq{"id": customerID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &c, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("customer", customerID.String())
		}
		return nil, fmt.Errorf("select customer: %w", err)
	}

	pq := r.builder.Select("id", "customer_id", "date", "amount").
		From(purchasesTable).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("date", "id")

	sql, args, err = pq.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &c.Purchases, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchases: %w", err)
	}

	return &c, nil
}

// Search matches the normalized search key by prefix or infix.
func (r *CustomerRepo) Search(ctx context.Context, query string, limit int) ([]*customer.Customer, error) {
	q := r.builder.Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Like{"search_key": "%" + query + "%"}).
		OrderBy("name", "id").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var customers []*customer.Customer
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &customers, sql, args...); err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return customers, nil
}

// AddPurchase appends one purchase record.
func (r *CustomerRepo) AddPurchase(ctx context.Context, customerID id.ID, date time.Time, amount types.Money) error {
	q := r.builder.Insert(purchasesTable).
		Columns("id", "customer_id", "date", "amount").
		Values(id.New(), customerID, date, amount)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ClearPurchases removes every purchase for the customer.
func (r *CustomerRepo) ClearPurchases(ctx context.Context, customerID id.ID) error {
	q := r.builder.Delete(purchasesTable).Where(squirrel.Eq{"customer_id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear purchases: %w", err)
	}
	return nil
}

// SetSelected links a customer to one register slot, replacing any previous
// selection for that slot.
func (r *CustomerRepo) SetSelected(ctx context.Context, userID id.ID, asideCart bool, customerID id.ID) error {
	const sql = `INSERT INTO selected_customers (user_id, aside_cart, customer_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, aside_cart)
		DO UPDATE SET customer_id = EXCLUDED.customer_id`

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, userID, asideCart, customerID); err != nil {
		return fmt.Errorf("set selected customer: %w", err)
	}
	return nil
}

// GetSelected returns the linkage row for one slot.
func (r *CustomerRepo) GetSelected(ctx context.Context, userID id.ID, asideCart bool) (*customer.SelectedCustomer, error) {
	q := r.builder.Select("user_id", "aside_cart", "customer_id").
		From(selectedTable).
		Where(squirrel.Eq{"user_id": userID, "aside_cart": asideCart}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var sc customer.SelectedCustomer
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &sc, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("selected customer", userID.String())
		}
		return nil, fmt.Errorf("select linkage: %w", err)
	}
	return &sc, nil
}

// ClearSelected drops the linkage for one slot. Clearing an empty slot is
// not an error.
func (r *CustomerRepo) ClearSelected(ctx context.Context, userID id.ID, asideCart bool) error {
	q := r.builder.Delete(selectedTable).
		Where(squirrel.Eq{"user_id": userID, "aside_cart": asideCart})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear selected customer: %w", err)
	}
	return nil
}

// SwapSelectedSlots flips the aside flag on the user's linkage rows. The
// rows are re-inserted flipped rather than updated in place, so the
// primary key never collides when both slots hold a selection. Callers run
// this inside a transaction.
func (r *CustomerRepo) SwapSelectedSlots(ctx context.Context, userID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	var rows []customer.SelectedCustomer
	q := r.builder.Select("user_id", "aside_cart", "customer_id").
		From(selectedTable).
		Where(squirrel.Eq{"user_id": userID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return fmt.Errorf("select linkage rows: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	del := r.builder.Delete(selectedTable).Where(squirrel.Eq{"user_id": userID})
	sql, args, err = del.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete linkage rows: %w", err)
	}

	ins := r.builder.Insert(selectedTable).Columns("user_id", "aside_cart", "customer_id")
	for _, row := range rows {
		ins = ins.Values(row.UserID, !row.AsideCart, row.CustomerID)
	}
	sql, args, err = ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert linkage rows: %w", err)
	}

	return nil
}
