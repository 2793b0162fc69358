package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dverissimo/ustbudget/internal/audit"
	"github.com/dverissimo/ustbudget/internal/budget"
)

// uniqueViolation is the postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectBudgetColumns = `
	b.id, b.number, b.project_id, b.contract_id, b.unit_price, b.issue_date,
	b.status, b.version, b.discount_percent, b.total_gross, b.total_discount,
	b.total_net, b.notes, b.created_at, b.updated_at
`

func scanBudget(s scanner) (*budget.Budget, error) {
	var b budget.Budget

	var statusStr string

	var notes sql.NullString

	if err := s.Scan(
		&b.ID, &b.Number, &b.ProjectID, &b.ContractID, &b.UnitPrice, &b.IssueDate,
		&statusStr, &b.Version, &b.DiscountPercent, &b.TotalGross, &b.TotalDiscount,
		&b.TotalNet, &notes, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.Status = budget.Status(statusStr)
	b.Notes = notes.String

	return &b, nil
}

func (s *Store) CreateBudget(ctx context.Context, b *budget.Budget) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO budgets (id, number, project_id, contract_id, unit_price, issue_date,
			status, version, discount_percent, total_gross, total_discount, total_net,
			notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = tx.ExecContext(ctx, query,
		b.ID, b.Number, b.ProjectID, b.ContractID, b.UnitPrice, b.IssueDate,
		string(b.Status), b.Version, b.DiscountPercent, b.TotalGross, b.TotalDiscount,
		b.TotalNet, nullString(b.Notes), b.CreatedAt,
	)
	if err != nil {
		// A concurrent Create for the same contract can race to the same
		// number; surface the unique violation as the retryable sentinel.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: number %s already taken", budget.ErrConflict, b.Number)
		}

		return fmt.Errorf("creating budget: %w", err)
	}

	if err := insertItems(ctx, tx, b); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing budget: %w", err)
	}

	return nil
}

func (s *Store) GetBudget(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets b WHERE b.id = $1`

	b, err := scanBudget(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, budget.ErrNotFound
		}

		return nil, fmt.Errorf("getting budget: %w", err)
	}

	if b.Items, err = s.itemsForBudget(ctx, id); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Store) ListBudgets(ctx context.Context, filter budget.ListFilter) ([]*budget.Budget, error) {
	query := `SELECT ` + selectBudgetColumns + ` FROM budgets b WHERE 1=1`

	var args []any

	argIdx := 1

	if filter.ProjectID != nil {
		query += fmt.Sprintf(" AND b.project_id = $%d", argIdx)

		args = append(args, *filter.ProjectID)
		argIdx++
	}

	if filter.ContractID != nil {
		query += fmt.Sprintf(" AND b.contract_id = $%d", argIdx)

		args = append(args, *filter.ContractID)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND b.status = $%d", argIdx)

		args = append(args, string(*filter.Status))
		argIdx++
	}

	query += " ORDER BY b.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget

	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget rows: %w", err)
	}

	for _, b := range budgets {
		if b.Items, err = s.itemsForBudget(ctx, b.ID); err != nil {
			return nil, err
		}
	}

	return budgets, nil
}

// UpdateBudget persists the aggregate, its items and any audit entries in one
// transaction. The version predicate is the optimistic check: a stale write
// touches nothing and reports budget.ErrConflict. A per-budget advisory lock
// serializes writers across processes for the duration of the transaction.
func (s *Store) UpdateBudget(ctx context.Context, b *budget.Budget, entries []audit.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", budgetLockKey(b.ID)); err != nil {
		return fmt.Errorf("acquiring budget lock: %w", err)
	}

	query := `
		UPDATE budgets
		SET status = $1, discount_percent = $2, total_gross = $3, total_discount = $4,
			total_net = $5, notes = $6, version = version + 1, updated_at = NOW()
		WHERE id = $7 AND version = $8
	`

	res, err := tx.ExecContext(ctx, query,
		string(b.Status), b.DiscountPercent, b.TotalGross, b.TotalDiscount,
		b.TotalNet, nullString(b.Notes), b.ID, b.Version,
	)
	if err != nil {
		return fmt.Errorf("updating budget: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}

	if affected == 0 {
		var current int64
		err := tx.QueryRowContext(ctx, "SELECT version FROM budgets WHERE id = $1", b.ID).Scan(&current)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			return budget.ErrNotFound
		case err != nil:
			return fmt.Errorf("checking budget version: %w", err)
		default:
			return fmt.Errorf("%w: expected version %d, found %d", budget.ErrConflict, b.Version, current)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM budget_items WHERE budget_id = $1", b.ID); err != nil {
		return fmt.Errorf("clearing budget items: %w", err)
	}

	if err := insertItems(ctx, tx, b); err != nil {
		return err
	}

	for _, e := range entries {
		if err := insertAuditEntry(ctx, tx, e); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing budget update: %w", err)
	}

	b.Version++

	return nil
}

// DeleteBudget removes a draft budget. The status predicate makes the
// DRAFT-only rule hold across processes: a budget approved on another
// connection after the service's own check survives the delete. Items go with
// the budget (ON DELETE CASCADE); audit entries stay.
func (s *Store) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = $1 AND status = $2", id, string(budget.StatusDraft))
	if err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}

	if affected == 0 {
		var status string
		err := s.db.QueryRowContext(ctx, "SELECT status FROM budgets WHERE id = $1", id).Scan(&status)

		switch {
		case errors.Is(err, sql.ErrNoRows):
			return budget.ErrNotFound
		case err != nil:
			return fmt.Errorf("checking budget status: %w", err)
		default:
			return fmt.Errorf("%w: budget is %s", budget.ErrInvalidState, status)
		}
	}

	return nil
}

func (s *Store) CountByContract(ctx context.Context, contractID uuid.UUID) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM budgets WHERE contract_id = $1", contractID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting contract budgets: %w", err)
	}

	return count, nil
}

func (s *Store) itemsForBudget(ctx context.Context, budgetID uuid.UUID) ([]budget.Item, error) {
	query := `
		SELECT id, activity_id, hours_estimated, complexity_snapshot, sequence,
			subtotal_ust, subtotal_gross, notes
		FROM budget_items
		WHERE budget_id = $1
		ORDER BY sequence ASC
	`

	rows, err := s.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("listing budget items: %w", err)
	}
	defer rows.Close()

	var items []budget.Item

	for rows.Next() {
		var item budget.Item

		var notes sql.NullString

		if err := rows.Scan(
			&item.ID, &item.ActivityID, &item.HoursEstimated, &item.ComplexitySnapshot,
			&item.Sequence, &item.SubtotalUst, &item.SubtotalGross, &notes,
		); err != nil {
			return nil, fmt.Errorf("scanning budget item: %w", err)
		}

		item.Notes = notes.String

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating budget item rows: %w", err)
	}

	return items, nil
}

func insertItems(ctx context.Context, tx *sql.Tx, b *budget.Budget) error {
	query := `
		INSERT INTO budget_items (id, budget_id, activity_id, hours_estimated,
			complexity_snapshot, sequence, subtotal_ust, subtotal_gross, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, item := range b.Items {
		_, err := tx.ExecContext(ctx, query,
			item.ID, b.ID, item.ActivityID, item.HoursEstimated,
			item.ComplexitySnapshot, item.Sequence, item.SubtotalUst, item.SubtotalGross,
			nullString(item.Notes),
		)
		if err != nil {
			return fmt.Errorf("creating budget item: %w", err)
		}
	}

	return nil
}

func insertAuditEntry(ctx context.Context, tx *sql.Tx, e audit.Entry) error {
	query := `
		INSERT INTO audit_entries (id, change_kind, budget_id, item_id, actor_id,
			previous_value, new_value, occurred_at, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := tx.ExecContext(ctx, query,
		e.ID, string(e.ChangeKind), e.BudgetID, e.ItemID, e.ActorID,
		e.PreviousValue, e.NewValue, e.Timestamp, nullString(e.Reason),
	)
	if err != nil {
		return fmt.Errorf("creating audit entry: %w", err)
	}

	return nil
}

func budgetLockKey(id uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(id[:])

	return int64(h.Sum64())
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
