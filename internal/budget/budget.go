package budget

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dverissimo/ustbudget/internal/costing"
)

// Status is the lifecycle state of a budget. Draft budgets are mutable;
// approval is one-way and freezes the whole aggregate.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
)

var maxDiscount = decimal.NewFromInt(100)

// Item is a costed line of a budget. ComplexitySnapshot is copied from the
// activity at insertion time and never re-read from the catalog, so later
// catalog edits cannot rewrite historical budgets. Sequence is the 1-based
// insertion order and survives deletions of other items unchanged.
type Item struct {
	ID                 uuid.UUID
	ActivityID         uuid.UUID
	HoursEstimated     decimal.Decimal
	ComplexitySnapshot decimal.Decimal
	Sequence           int
	SubtotalUst        decimal.Decimal
	SubtotalGross      decimal.Decimal
	Notes              string
}

// Budget is the quotation aggregate. It exclusively owns its items; UnitPrice
// is the contract's UST value snapshotted at creation. Version is the
// optimistic-lock counter the store bumps on every successful mutation.
type Budget struct {
	ID              uuid.UUID
	Number          string
	ProjectID       uuid.UUID
	ContractID      uuid.UUID
	UnitPrice       decimal.Decimal
	IssueDate       time.Time
	Status          Status
	Version         int64
	DiscountPercent decimal.Decimal
	TotalGross      decimal.Decimal
	TotalDiscount   decimal.Decimal
	TotalNet        decimal.Decimal
	Notes           string
	Items           []Item
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// AddItem appends a costed line and recomputes the totals block. The
// complexity is the caller-resolved catalog multiplier; it becomes the item's
// permanent snapshot.
func (b *Budget) AddItem(activityID uuid.UUID, complexity, hours decimal.Decimal, notes string) (*Item, error) {
	if b.Status != StatusDraft {
		return nil, fmt.Errorf("%w: budget is %s", ErrInvalidState, b.Status)
	}

	if hours.Sign() <= 0 {
		return nil, fmt.Errorf("%w: hours must be greater than zero", ErrInvalidInput)
	}

	if complexity.Sign() < 0 {
		return nil, fmt.Errorf("%w: complexity cannot be negative", ErrInvalidInput)
	}

	ust, gross := costing.ItemSubtotals(hours, complexity, b.UnitPrice)

	b.Items = append(b.Items, Item{
		ID:                 uuid.New(),
		ActivityID:         activityID,
		HoursEstimated:     hours,
		ComplexitySnapshot: complexity,
		Sequence:           b.nextSequence(),
		SubtotalUst:        ust,
		SubtotalGross:      gross,
		Notes:              notes,
	})

	b.recompute()

	return &b.Items[len(b.Items)-1], nil
}

// RemoveItem drops a line and recomputes the totals block. The last remaining
// item cannot be removed; remaining sequence numbers are never renumbered.
func (b *Budget) RemoveItem(itemID uuid.UUID) error {
	if b.Status != StatusDraft {
		return fmt.Errorf("%w: budget is %s", ErrInvalidState, b.Status)
	}

	idx := b.itemIndex(itemID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	if len(b.Items) == 1 {
		return fmt.Errorf("%w: budget must keep at least one item", ErrInvalidState)
	}

	b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
	b.recompute()

	return nil
}

// UpdateItemHours replaces an item's estimated hours, recosts it against the
// unchanged complexity snapshot and recomputes the totals block. The previous
// hours value is returned for the audit record.
func (b *Budget) UpdateItemHours(itemID uuid.UUID, hours decimal.Decimal) (decimal.Decimal, error) {
	if b.Status != StatusDraft {
		return decimal.Decimal{}, fmt.Errorf("%w: budget is %s", ErrInvalidState, b.Status)
	}

	if hours.Sign() <= 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: hours must be greater than zero", ErrInvalidInput)
	}

	idx := b.itemIndex(itemID)
	if idx < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	item := &b.Items[idx]
	previous := item.HoursEstimated

	item.HoursEstimated = hours
	item.SubtotalUst, item.SubtotalGross = costing.ItemSubtotals(hours, item.ComplexitySnapshot, b.UnitPrice)

	b.recompute()

	return previous, nil
}

// UpdateDiscount replaces the discount percentage and recomputes the totals
// block. The previous percentage is returned for the audit record.
func (b *Budget) UpdateDiscount(percent decimal.Decimal) (decimal.Decimal, error) {
	if b.Status != StatusDraft {
		return decimal.Decimal{}, fmt.Errorf("%w: budget is %s", ErrInvalidState, b.Status)
	}

	if percent.Sign() < 0 || percent.GreaterThan(maxDiscount) {
		return decimal.Decimal{}, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidInput)
	}

	previous := b.DiscountPercent
	b.DiscountPercent = percent
	b.recompute()

	return previous, nil
}

// Approve moves the budget to its terminal, immutable state. Only a draft with
// at least one item can be approved; there is no way back.
func (b *Budget) Approve() error {
	if b.Status != StatusDraft {
		return fmt.Errorf("%w: budget is already %s", ErrInvalidState, b.Status)
	}

	if len(b.Items) == 0 {
		return fmt.Errorf("%w: cannot approve an empty budget", ErrInvalidState)
	}

	b.Status = StatusApproved

	return nil
}

// Item returns the line with the given id, or ErrItemNotFound.
func (b *Budget) Item(itemID uuid.UUID) (*Item, error) {
	idx := b.itemIndex(itemID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	return &b.Items[idx], nil
}

// recompute rebuilds the whole totals block from current item state. Every
// mutation goes through here rather than patching totals incrementally, so
// stored totals can never drift from stored items.
func (b *Budget) recompute() {
	subtotals := make([]decimal.Decimal, len(b.Items))
	for i, item := range b.Items {
		subtotals[i] = item.SubtotalGross
	}

	totals := costing.BudgetTotals(subtotals, b.DiscountPercent)

	b.TotalGross = totals.Gross
	b.TotalDiscount = totals.Discount
	b.TotalNet = totals.Net
}

// nextSequence is one past the highest sequence ever assigned, so a deleted
// item's number is never reused.
func (b *Budget) nextSequence() int {
	max := 0
	for _, item := range b.Items {
		if item.Sequence > max {
			max = item.Sequence
		}
	}

	return max + 1
}

func (b *Budget) itemIndex(itemID uuid.UUID) int {
	for i, item := range b.Items {
		if item.ID == itemID {
			return i
		}
	}

	return -1
}
