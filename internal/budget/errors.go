package budget

import "errors"

var (
	// ErrNotFound indicates the budget id does not resolve.
	ErrNotFound = errors.New("budget not found")
	// ErrItemNotFound indicates the item id does not belong to the budget.
	ErrItemNotFound = errors.New("budget item not found")
	// ErrInvalidInput indicates a rejected value (hours <= 0, discount outside
	// [0,100], negative unit price).
	ErrInvalidInput = errors.New("invalid budget input")
	// ErrInvalidState indicates a mutation the lifecycle forbids: touching an
	// approved budget, approving twice, removing the last item, deleting an
	// approved budget.
	ErrInvalidState = errors.New("invalid budget state")
	// ErrConflict indicates a concurrent mutation won; the caller should
	// re-fetch and retry.
	ErrConflict = errors.New("budget version conflict")
)
