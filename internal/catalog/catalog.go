package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies a node's level in the service catalog hierarchy.
type Kind string

const (
	KindCycle    Kind = "CYCLE"
	KindPhase    Kind = "PHASE"
	KindActivity Kind = "ACTIVITY"
)

// Node is an entry of the three-level service catalog. Cycles are roots,
// phases live under cycles and activities live under phases. Only activities
// carry a complexity multiplier.
type Node struct {
	ID                   uuid.UUID
	Name                 string
	Kind                 Kind
	ParentID             *uuid.UUID
	ComplexityMultiplier *decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}

// CanAttachChild reports whether a node of childKind may be placed under a
// parent of parentKind. Only CYCLE<-PHASE and PHASE<-ACTIVITY pairings exist.
func CanAttachChild(parentKind, childKind Kind) bool {
	switch childKind {
	case KindPhase:
		return parentKind == KindCycle
	case KindActivity:
		return parentKind == KindPhase
	default:
		return false
	}
}
