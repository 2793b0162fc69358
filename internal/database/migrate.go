package database

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema statements in order. Every statement is
// idempotent, so running it on an already-migrated database is a no-op.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("applying migration %d: %w", i+1, err)
		}
	}

	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS catalog_nodes (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		parent_id UUID REFERENCES catalog_nodes(id),
		complexity_multiplier NUMERIC(18,4),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_catalog_nodes_parent ON catalog_nodes(parent_id)`,
	`CREATE TABLE IF NOT EXISTS budgets (
		id UUID PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		project_id UUID NOT NULL,
		contract_id UUID NOT NULL,
		unit_price NUMERIC(18,4) NOT NULL,
		issue_date DATE NOT NULL,
		status TEXT NOT NULL,
		version BIGINT NOT NULL,
		discount_percent NUMERIC(18,4) NOT NULL,
		total_gross NUMERIC(18,4) NOT NULL,
		total_discount NUMERIC(18,4) NOT NULL,
		total_net NUMERIC(18,4) NOT NULL,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_contract ON budgets(contract_id)`,
	`CREATE INDEX IF NOT EXISTS idx_budgets_project ON budgets(project_id)`,
	`CREATE TABLE IF NOT EXISTS budget_items (
		id UUID PRIMARY KEY,
		budget_id UUID NOT NULL REFERENCES budgets(id) ON DELETE CASCADE,
		activity_id UUID NOT NULL,
		hours_estimated NUMERIC(18,4) NOT NULL,
		complexity_snapshot NUMERIC(18,4) NOT NULL,
		sequence INT NOT NULL,
		subtotal_ust NUMERIC(18,4) NOT NULL,
		subtotal_gross NUMERIC(18,4) NOT NULL,
		notes TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_budget_items_budget ON budget_items(budget_id)`,
	// audit_entries deliberately has no foreign keys: the ledger outlives the
	// budgets it describes.
	`CREATE TABLE IF NOT EXISTS audit_entries (
		id UUID PRIMARY KEY,
		seq BIGSERIAL,
		change_kind TEXT NOT NULL,
		budget_id UUID NOT NULL,
		item_id UUID,
		actor_id UUID,
		previous_value NUMERIC(18,4) NOT NULL,
		new_value NUMERIC(18,4) NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		reason TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_entries_budget ON audit_entries(budget_id)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_entries_item ON audit_entries(item_id)`,
}
