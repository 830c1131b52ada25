package postgres

import (
	"context"
	"fmt"
)

// schemaStatements create the full store layout. Statements are idempotent
// so the seed command can run against an existing database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS items (
		id         UUID PRIMARY KEY,
		type       TEXT NOT NULL,
		title      TEXT NOT NULL,
		author     TEXT,
		isbn       TEXT,
		publisher  TEXT,
		price      NUMERIC(10,2) NOT NULL,
		tva        TEXT NOT NULL,
		amount     INTEGER NOT NULL DEFAULT 0,
		comment    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_items_isbn ON items (isbn) WHERE isbn IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_items_title ON items (title)`,

	`CREATE TABLE IF NOT EXISTS cart_lines (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL,
		slot       TEXT NOT NULL,
		item_id    UUID REFERENCES items (id),
		item_type  TEXT NOT NULL,
		title      TEXT NOT NULL,
		price      NUMERIC(10,2) NOT NULL,
		tva        TEXT NOT NULL,
		quantity   INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// Catalog lines merge per user and slot. NULL item ids stay distinct,
	// which keeps independent lines from merging with each other.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_lines_merge ON cart_lines (user_id, slot, item_id)`,

	`CREATE TABLE IF NOT EXISTS sales (
		id                 UUID PRIMARY KEY,
		item_id            UUID,
		item_type          TEXT NOT NULL,
		title              TEXT NOT NULL,
		tva                TEXT NOT NULL,
		price              NUMERIC(10,2) NOT NULL,
		quantity           INTEGER NOT NULL DEFAULT 1,
		created            TIMESTAMPTZ NOT NULL,
		cart_id            UUID,
		deleted            BOOLEAN NOT NULL DEFAULT FALSE,
		payment_type       TEXT NOT NULL,
		linked_to_customer BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created ON sales (created)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		search_key TEXT NOT NULL,
		email      TEXT,
		phone      TEXT,
		comment    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_search_key ON customers (search_key)`,

	`CREATE TABLE IF NOT EXISTS purchases (
		id          UUID PRIMARY KEY,
		customer_id UUID NOT NULL REFERENCES customers (id) ON DELETE CASCADE,
		date        TIMESTAMPTZ NOT NULL,
		amount      NUMERIC(10,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_customer ON purchases (customer_id)`,

	// One selected customer per register slot.
	`CREATE TABLE IF NOT EXISTS selected_customers (
		user_id     UUID NOT NULL,
		aside_cart  BOOLEAN NOT NULL,
		customer_id UUID NOT NULL REFERENCES customers (id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, aside_cart)
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id          UUID PRIMARY KEY,
		customer_id UUID REFERENCES customers (id) ON DELETE SET NULL,
		item_id     UUID REFERENCES items (id),
		title       TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL,
		notified    BOOLEAN NOT NULL DEFAULT FALSE,
		paid        BOOLEAN NOT NULL DEFAULT FALSE,
		comment     TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status)`,
}

// InitSchema creates all tables and indexes.
func InitSchema(ctx context.Context, pool *Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
