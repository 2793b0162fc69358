package budget

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dverissimo/ustbudget/internal/audit"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=budget
type Repository interface {
	CreateBudget(ctx context.Context, b *Budget) error
	GetBudget(ctx context.Context, id uuid.UUID) (*Budget, error)
	ListBudgets(ctx context.Context, filter ListFilter) ([]*Budget, error)

	// UpdateBudget persists the aggregate and any audit entries as one atomic
	// unit, guarded by the budget's Version: a stale version fails with
	// ErrConflict and writes nothing. On success the implementation bumps
	// b.Version.
	UpdateBudget(ctx context.Context, b *Budget, entries []audit.Entry) error

	DeleteBudget(ctx context.Context, id uuid.UUID) error
	CountByContract(ctx context.Context, contractID uuid.UUID) (int, error)
}

// ComplexityResolver is the catalog capability the budget service consumes:
// activity id in, complexity multiplier out.
type ComplexityResolver interface {
	ResolveComplexity(ctx context.Context, activityID uuid.UUID) (decimal.Decimal, error)
}

type Service struct {
	repo    Repository
	catalog ComplexityResolver
	logger  *slog.Logger
	locks   *keyedMutex
}

func NewService(repo Repository, catalog ComplexityResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
		locks:   newKeyedMutex(),
	}
}

type ItemParams struct {
	ActivityID uuid.UUID
	Hours      decimal.Decimal
	Notes      string
}

type CreateParams struct {
	ProjectID       uuid.UUID
	ContractID      uuid.UUID
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	IssueDate       time.Time
	Notes           string
	Items           []ItemParams
}

type ListFilter struct {
	ProjectID  *uuid.UUID
	ContractID *uuid.UUID
	Status     *Status
}

// Create builds a new draft budget from an already-validated ACTIVE contract's
// unit price. Each item's complexity is snapshotted from the catalog now;
// creation itself writes no audit entries.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	if len(params.Items) == 0 {
		return nil, fmt.Errorf("%w: budget requires at least one item", ErrInvalidInput)
	}

	if params.UnitPrice.Sign() < 0 {
		return nil, fmt.Errorf("%w: unit price cannot be negative", ErrInvalidInput)
	}

	if params.DiscountPercent.Sign() < 0 || params.DiscountPercent.GreaterThan(maxDiscount) {
		return nil, fmt.Errorf("%w: discount must be between 0 and 100", ErrInvalidInput)
	}

	issueDate := params.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}

	number, err := s.nextNumber(ctx, params.ContractID, issueDate)
	if err != nil {
		return nil, err
	}

	b := &Budget{
		ID:              uuid.New(),
		Number:          number,
		ProjectID:       params.ProjectID,
		ContractID:      params.ContractID,
		UnitPrice:       params.UnitPrice,
		IssueDate:       issueDate,
		Status:          StatusDraft,
		Version:         1,
		DiscountPercent: params.DiscountPercent,
		Notes:           params.Notes,
		CreatedAt:       time.Now().UTC(),
	}

	for _, item := range params.Items {
		complexity, err := s.catalog.ResolveComplexity(ctx, item.ActivityID)
		if err != nil {
			return nil, fmt.Errorf("resolving activity %s: %w", item.ActivityID, err)
		}

		if _, err := b.AddItem(item.ActivityID, complexity, item.Hours, item.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("creating budget: %w", err)
	}

	s.logger.Info("budget created",
		slog.String("budget_id", b.ID.String()),
		slog.String("number", b.Number),
		slog.Int("items", len(b.Items)))

	return b, nil
}

// Get never locks; approved budgets keep answering with their frozen values.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Budget, error) {
	return s.repo.GetBudget(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Budget, error) {
	return s.repo.ListBudgets(ctx, filter)
}

// AddItem appends a line to a draft budget. Insertion is not an alteration, so
// no audit entry is written.
func (s *Service) AddItem(ctx context.Context, budgetID uuid.UUID, params ItemParams) (*Budget, error) {
	unlock := s.locks.lock(budgetID)
	defer unlock()

	b, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	complexity, err := s.catalog.ResolveComplexity(ctx, params.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("resolving activity %s: %w", params.ActivityID, err)
	}

	if _, err := b.AddItem(params.ActivityID, complexity, params.Hours, params.Notes); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBudget(ctx, b, nil); err != nil {
		return nil, err
	}

	return b, nil
}

// RemoveItem drops a line from a draft budget; the last item stays put.
func (s *Service) RemoveItem(ctx context.Context, budgetID, itemID uuid.UUID) (*Budget, error) {
	unlock := s.locks.lock(budgetID)
	defer unlock()

	b, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if err := b.RemoveItem(itemID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBudget(ctx, b, nil); err != nil {
		return nil, err
	}

	return b, nil
}

// UpdateItemHours changes an item's estimate and records the change in the
// audit ledger atomically with the mutation.
func (s *Service) UpdateItemHours(ctx context.Context, budgetID, itemID uuid.UUID, hours decimal.Decimal, actorID *uuid.UUID, reason string) (*Budget, error) {
	unlock := s.locks.lock(budgetID)
	defer unlock()

	b, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	previous, err := b.UpdateItemHours(itemID, hours)
	if err != nil {
		return nil, err
	}

	entry := audit.Entry{
		ID:            uuid.New(),
		ChangeKind:    audit.ChangeItemHours,
		BudgetID:      b.ID,
		ItemID:        &itemID,
		ActorID:       actorID,
		PreviousValue: previous,
		NewValue:      hours,
		Timestamp:     time.Now().UTC(),
		Reason:        reason,
	}

	if err := s.repo.UpdateBudget(ctx, b, []audit.Entry{entry}); err != nil {
		return nil, err
	}

	s.logger.Info("item hours updated",
		slog.String("budget_id", b.ID.String()),
		slog.String("item_id", itemID.String()),
		slog.String("previous", previous.String()),
		slog.String("new", hours.String()))

	return b, nil
}

// UpdateDiscount changes the budget's discount percentage and records the
// change in the audit ledger atomically with the mutation.
func (s *Service) UpdateDiscount(ctx context.Context, budgetID uuid.UUID, percent decimal.Decimal, actorID *uuid.UUID, reason string) (*Budget, error) {
	unlock := s.locks.lock(budgetID)
	defer unlock()

	b, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	previous, err := b.UpdateDiscount(percent)
	if err != nil {
		return nil, err
	}

	entry := audit.Entry{
		ID:            uuid.New(),
		ChangeKind:    audit.ChangeBudgetDiscount,
		BudgetID:      b.ID,
		ActorID:       actorID,
		PreviousValue: previous,
		NewValue:      percent,
		Timestamp:     time.Now().UTC(),
		Reason:        reason,
	}

	if err := s.repo.UpdateBudget(ctx, b, []audit.Entry{entry}); err != nil {
		return nil, err
	}

	s.logger.Info("discount updated",
		slog.String("budget_id", b.ID.String()),
		slog.String("previous", previous.String()),
		slog.String("new", percent.String()))

	return b, nil
}

// Approve freezes the budget. The actor's privilege to approve is the
// caller's concern; the id is only logged here.
func (s *Service) Approve(ctx context.Context, budgetID uuid.UUID, actorID *uuid.UUID) (*Budget, error) {
	unlock := s.locks.lock(budgetID)
	defer unlock()

	b, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	if err := b.Approve(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBudget(ctx, b, nil); err != nil {
		return nil, err
	}

	actor := ""
	if actorID != nil {
		actor = actorID.String()
	}

	s.logger.Info("budget approved",
		slog.String("budget_id", b.ID.String()),
		slog.String("number", b.Number),
		slog.String("actor_id", actor))

	return b, nil
}

// Delete removes a draft budget and its items. An approved budget is a
// financial record and cannot be deleted through this engine.
func (s *Service) Delete(ctx context.Context, budgetID uuid.UUID) error {
	unlock := s.locks.lock(budgetID)
	defer unlock()

	b, err := s.repo.GetBudget(ctx, budgetID)
	if err != nil {
		return err
	}

	if b.Status != StatusDraft {
		return fmt.Errorf("%w: cannot delete an approved budget", ErrInvalidState)
	}

	if err := s.repo.DeleteBudget(ctx, budgetID); err != nil {
		return fmt.Errorf("deleting budget: %w", err)
	}

	s.logger.Info("budget deleted", slog.String("budget_id", budgetID.String()))

	return nil
}

// nextNumber renders the ORC/{year}/{contract}/{seq} series, with the
// sequence scoped to the contract.
func (s *Service) nextNumber(ctx context.Context, contractID uuid.UUID, issueDate time.Time) (string, error) {
	count, err := s.repo.CountByContract(ctx, contractID)
	if err != nil {
		return "", fmt.Errorf("counting contract budgets: %w", err)
	}

	return fmt.Sprintf("ORC/%d/%s/%06d", issueDate.Year(), contractID, count+1), nil
}
