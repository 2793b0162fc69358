package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChangeKind identifies what kind of value an audit entry records.
type ChangeKind string

const (
	ChangeItemHours      ChangeKind = "ITEM_HOURS"
	ChangeBudgetDiscount ChangeKind = "BUDGET_DISCOUNT"
)

// Entry is one immutable record of a hours or discount change on a budget.
// Entries reference the budget and item by id only; they survive the budget
// they describe and are never updated or deleted.
type Entry struct {
	ID            uuid.UUID
	ChangeKind    ChangeKind
	BudgetID      uuid.UUID
	ItemID        *uuid.UUID
	ActorID       *uuid.UUID
	PreviousValue decimal.Decimal
	NewValue      decimal.Decimal
	Timestamp     time.Time
	Reason        string
}
