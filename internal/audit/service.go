package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the read side of the audit ledger. Entries are written only
// inside the budget store's mutation transaction, so no append call is exposed
// here.
//
//go:generate mockgen -source=service.go -destination=repository_mock.go -package=audit
type Repository interface {
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]*Entry, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EntriesForBudget returns every change recorded against the budget, oldest
// first, insertion order breaking timestamp ties.
func (s *Service) EntriesForBudget(ctx context.Context, budgetID uuid.UUID) ([]*Entry, error) {
	return s.repo.ListByBudget(ctx, budgetID)
}

// EntriesForItem returns every hours change recorded against the item, oldest
// first.
func (s *Service) EntriesForItem(ctx context.Context, itemID uuid.UUID) ([]*Entry, error) {
	return s.repo.ListByItem(ctx, itemID)
}
