package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/dverissimo/ustbudget/internal/audit"
)

// Store is the read side of the audit ledger. Entries are inserted by the
// budget store inside its mutation transaction; nothing here can write.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectEntryColumns = `
	id, change_kind, budget_id, item_id, actor_id, previous_value, new_value,
	occurred_at, reason
`

// Oldest first; seq breaks timestamp ties in insertion order.
const entryOrder = ` ORDER BY occurred_at ASC, seq ASC`

func (s *Store) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]*audit.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM audit_entries WHERE budget_id = $1` + entryOrder

	return s.list(ctx, query, budgetID)
}

func (s *Store) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*audit.Entry, error) {
	query := `SELECT ` + selectEntryColumns + ` FROM audit_entries WHERE item_id = $1` + entryOrder

	return s.list(ctx, query, itemID)
}

func (s *Store) list(ctx context.Context, query string, arg any) ([]*audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry

	for rows.Next() {
		var e audit.Entry

		var kindStr string

		var reason sql.NullString

		if err := rows.Scan(
			&e.ID, &kindStr, &e.BudgetID, &e.ItemID, &e.ActorID,
			&e.PreviousValue, &e.NewValue, &e.Timestamp, &reason,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		e.ChangeKind = audit.ChangeKind(kindStr)
		e.Reason = reason.String

		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit rows: %w", err)
	}

	return entries, nil
}
