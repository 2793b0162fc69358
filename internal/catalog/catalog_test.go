package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dverissimo/ustbudget/internal/catalog"
)

func TestCanAttachChild(t *testing.T) {
	type testCase struct {
		name   string
		parent catalog.Kind
		child  catalog.Kind
		want   bool
	}

	tests := []testCase{
		{name: "PhaseUnderCycle", parent: catalog.KindCycle, child: catalog.KindPhase, want: true},
		{name: "ActivityUnderPhase", parent: catalog.KindPhase, child: catalog.KindActivity, want: true},
		{name: "ActivityUnderCycle", parent: catalog.KindCycle, child: catalog.KindActivity, want: false},
		{name: "PhaseUnderPhase", parent: catalog.KindPhase, child: catalog.KindPhase, want: false},
		{name: "CycleUnderAnything", parent: catalog.KindCycle, child: catalog.KindCycle, want: false},
		{name: "AnythingUnderActivity", parent: catalog.KindActivity, child: catalog.KindActivity, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.CanAttachChild(tt.parent, tt.child))
		})
	}
}
