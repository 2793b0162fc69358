package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	CreateNode(ctx context.Context, n *Node) error
	GetNode(ctx context.Context, id uuid.UUID) (*Node, error)
	ListNodes(ctx context.Context, filter ListFilter) ([]*Node, error)
	UpdateNode(ctx context.Context, n *Node) error
	DeleteNode(ctx context.Context, id uuid.UUID) error
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
}

type ListFilter struct {
	Kind     *Kind
	ParentID *uuid.UUID
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name                 string
	Kind                 Kind
	ParentID             *uuid.UUID
	ComplexityMultiplier *decimal.Decimal
}

type UpdateParams struct {
	Name                 *string
	ParentID             *uuid.UUID
	ComplexityMultiplier *decimal.Decimal
}

// Create validates the hierarchy rules and stores a new catalog node.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Node, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	switch params.Kind {
	case KindCycle:
		if params.ParentID != nil {
			return nil, fmt.Errorf("%w: a cycle cannot have a parent", ErrInvalidParent)
		}

		if params.ComplexityMultiplier != nil {
			return nil, fmt.Errorf("%w: only activities carry a complexity multiplier", ErrInvalidInput)
		}
	case KindPhase, KindActivity:
		if params.ParentID == nil {
			return nil, fmt.Errorf("%w: a %s requires a parent", ErrInvalidParent, strings.ToLower(string(params.Kind)))
		}

		if err := s.checkParent(ctx, *params.ParentID, params.Kind); err != nil {
			return nil, err
		}

		if params.Kind == KindActivity {
			if params.ComplexityMultiplier == nil {
				return nil, fmt.Errorf("%w: an activity requires a complexity multiplier", ErrInvalidInput)
			}

			if params.ComplexityMultiplier.Sign() < 0 {
				return nil, fmt.Errorf("%w: complexity multiplier cannot be negative", ErrInvalidInput)
			}
		} else if params.ComplexityMultiplier != nil {
			return nil, fmt.Errorf("%w: only activities carry a complexity multiplier", ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, params.Kind)
	}

	node := &Node{
		ID:                   uuid.New(),
		Name:                 params.Name,
		Kind:                 params.Kind,
		ParentID:             params.ParentID,
		ComplexityMultiplier: params.ComplexityMultiplier,
		CreatedAt:            time.Now().UTC(),
	}

	if err := s.repo.CreateNode(ctx, node); err != nil {
		return nil, fmt.Errorf("creating catalog node: %w", err)
	}

	return node, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Node, error) {
	return s.repo.GetNode(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Node, error) {
	return s.repo.ListNodes(ctx, filter)
}

// Update applies partial changes to a node, re-validating hierarchy rules when
// the parent moves and restricting multiplier edits to activities.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Node, error) {
	node, err := s.repo.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if strings.TrimSpace(*params.Name) == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}

		node.Name = *params.Name
	}

	if params.ParentID != nil {
		if node.Kind == KindCycle {
			return nil, fmt.Errorf("%w: a cycle cannot have a parent", ErrInvalidParent)
		}

		if err := s.checkParent(ctx, *params.ParentID, node.Kind); err != nil {
			return nil, err
		}

		node.ParentID = params.ParentID
	}

	if params.ComplexityMultiplier != nil {
		if node.Kind != KindActivity {
			return nil, fmt.Errorf("%w: only activities carry a complexity multiplier", ErrInvalidInput)
		}

		if params.ComplexityMultiplier.Sign() < 0 {
			return nil, fmt.Errorf("%w: complexity multiplier cannot be negative", ErrInvalidInput)
		}

		node.ComplexityMultiplier = params.ComplexityMultiplier
	}

	now := time.Now().UTC()
	node.UpdatedAt = &now

	if err := s.repo.UpdateNode(ctx, node); err != nil {
		return nil, fmt.Errorf("updating catalog node: %w", err)
	}

	return node, nil
}

// Delete removes a node. Nodes that still have children cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetNode(ctx, id); err != nil {
		return err
	}

	deletable, err := s.CanDelete(ctx, id)
	if err != nil {
		return err
	}

	if !deletable {
		return ErrHasChildren
	}

	if err := s.repo.DeleteNode(ctx, id); err != nil {
		return fmt.Errorf("deleting catalog node: %w", err)
	}

	return nil
}

// CanDelete reports whether the node has no children.
func (s *Service) CanDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	hasChildren, err := s.repo.HasChildren(ctx, id)
	if err != nil {
		return false, fmt.Errorf("checking catalog children: %w", err)
	}

	return !hasChildren, nil
}

// ResolveComplexity returns the complexity multiplier of an activity. Ids that
// resolve to cycles or phases report ErrNotFound, the same as missing ids.
func (s *Service) ResolveComplexity(ctx context.Context, activityID uuid.UUID) (decimal.Decimal, error) {
	node, err := s.repo.GetNode(ctx, activityID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if node.Kind != KindActivity || node.ComplexityMultiplier == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is not an activity", ErrNotFound, activityID)
	}

	return *node.ComplexityMultiplier, nil
}

func (s *Service) checkParent(ctx context.Context, parentID uuid.UUID, childKind Kind) error {
	parent, err := s.repo.GetNode(ctx, parentID)
	if err != nil {
		return fmt.Errorf("resolving parent %s: %w", parentID, err)
	}

	if !CanAttachChild(parent.Kind, childKind) {
		return fmt.Errorf("%w: a %s cannot live under a %s",
			ErrInvalidParent, strings.ToLower(string(childKind)), strings.ToLower(string(parent.Kind)))
	}

	return nil
}
