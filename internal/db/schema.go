package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id {{id}},
		name TEXT NOT NULL,
		company TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS materials (
		id {{id}},
		name TEXT NOT NULL,
		family TEXT NOT NULL,
		shape TEXT NOT NULL,
		grade TEXT NOT NULL DEFAULT '',
		density {{real}} NOT NULL DEFAULT 0,
		price_per_lb {{real}} NOT NULL DEFAULT 0 CHECK (price_per_lb >= 0),
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_materials_name ON materials (LOWER(name))`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id {{id}},
		quote_number TEXT NOT NULL UNIQUE,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft','sent','accepted','rejected','expired')),
		valid_until TIMESTAMP,
		markup_percent {{real}} NOT NULL DEFAULT 0,
		freight {{real}} NOT NULL DEFAULT 0,
		commission_percent {{real}} NOT NULL DEFAULT 0,
		tax_percent {{real}} NOT NULL DEFAULT 0,
		tax_exempt BOOLEAN NOT NULL DEFAULT FALSE,
		material_subtotal {{real}} NOT NULL DEFAULT 0,
		markup_amount {{real}} NOT NULL DEFAULT 0,
		commission_amount {{real}} NOT NULL DEFAULT 0,
		tax_amount {{real}} NOT NULL DEFAULT 0,
		total {{real}} NOT NULL DEFAULT 0,
		total_weight {{real}} NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_customer ON quotes (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_status ON quotes (status)`,
	`CREATE TABLE IF NOT EXISTS quote_bom (
		id {{id}},
		quote_id BIGINT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		line_no INTEGER NOT NULL,
		material_id BIGINT REFERENCES materials(id),
		description TEXT NOT NULL DEFAULT '',
		shape TEXT NOT NULL,
		family TEXT NOT NULL,
		grade TEXT NOT NULL DEFAULT '',
		thickness {{real}} NOT NULL DEFAULT 0,
		width {{real}} NOT NULL DEFAULT 0,
		height {{real}} NOT NULL DEFAULT 0,
		length {{real}} NOT NULL DEFAULT 0,
		diameter {{real}} NOT NULL DEFAULT 0,
		outside_diameter {{real}} NOT NULL DEFAULT 0,
		wall {{real}} NOT NULL DEFAULT 0,
		leg_a {{real}} NOT NULL DEFAULT 0,
		leg_b {{real}} NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price_per_lb {{real}} NOT NULL DEFAULT 0,
		extra_cost {{real}} NOT NULL DEFAULT 0,
		weight_each {{real}} NOT NULL DEFAULT 0,
		total_weight {{real}} NOT NULL DEFAULT 0,
		material_cost {{real}} NOT NULL DEFAULT 0,
		line_total {{real}} NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quote_bom_quote ON quote_bom (quote_id, line_no)`,
	`CREATE TABLE IF NOT EXISTS quote_events (
		id {{id}},
		quote_id BIGINT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		kind TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quote_events_quote ON quote_events (quote_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS attachments (
		id {{id}},
		quote_id BIGINT NOT NULL REFERENCES quotes(id) ON DELETE CASCADE,
		file_name TEXT NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		size_bytes BIGINT NOT NULL DEFAULT 0,
		url TEXT NOT NULL,
		storage_key TEXT NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales_orders (
		id {{id}},
		order_number TEXT NOT NULL UNIQUE,
		quote_id BIGINT UNIQUE REFERENCES quotes(id),
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open','in_progress','shipped','completed','cancelled')),
		po_number TEXT NOT NULL DEFAULT '',
		total {{real}} NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales_order_lines (
		id {{id}},
		sales_order_id BIGINT NOT NULL REFERENCES sales_orders(id) ON DELETE CASCADE,
		line_no INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 1,
		total_weight {{real}} NOT NULL DEFAULT 0,
		line_total {{real}} NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS api_keys (
		id {{id}},
		name TEXT NOT NULL,
		prefix TEXT NOT NULL UNIQUE,
		key_hash TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL,
		last_used_at TIMESTAMP,
		expires_at TIMESTAMP
	)`,
}

var dialects = map[string]*strings.Replacer{
	DriverSQLite:   strings.NewReplacer("{{id}}", "INTEGER PRIMARY KEY AUTOINCREMENT", "{{real}}", "REAL"),
	DriverPostgres: strings.NewReplacer("{{id}}", "BIGSERIAL PRIMARY KEY", "{{real}}", "DOUBLE PRECISION"),
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Statements returns the schema DDL for a dialect.
func Statements(dialect string) ([]string, error) {
	rep, ok := dialects[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	out := make([]string, len(schema))
	for i, stmt := range schema {
		out[i] = rep.Replace(stmt)
	}
	return out, nil
}

// EnsureSchema creates any missing tables and indexes. Every statement is
// idempotent.
func EnsureSchema(ctx context.Context, db execer, dialect string) error {
	stmts, err := Statements(dialect)
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
