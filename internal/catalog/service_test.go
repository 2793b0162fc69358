package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dverissimo/ustbudget/internal/catalog"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dptr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    catalog.CreateParams
		setupMock func(repo *catalog.MockRepository)
		wantErr   error
	}

	cycleID := uuid.New()
	phaseID := uuid.New()

	tests := []testCase{
		{
			name:   "Cycle",
			params: catalog.CreateParams{Name: "Discovery", Kind: catalog.KindCycle},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().CreateNode(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "PhaseUnderCycle",
			params: catalog.CreateParams{Name: "Requirements", Kind: catalog.KindPhase, ParentID: &cycleID},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().GetNode(gomock.Any(), cycleID).
					Return(&catalog.Node{ID: cycleID, Kind: catalog.KindCycle}, nil)
				repo.EXPECT().CreateNode(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "ActivityUnderPhase",
			params: catalog.CreateParams{
				Name:                 "Interface design",
				Kind:                 catalog.KindActivity,
				ParentID:             &phaseID,
				ComplexityMultiplier: dptr("2.0000"),
			},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().GetNode(gomock.Any(), phaseID).
					Return(&catalog.Node{ID: phaseID, Kind: catalog.KindPhase}, nil)
				repo.EXPECT().CreateNode(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:    "EmptyName",
			params:  catalog.CreateParams{Name: "  ", Kind: catalog.KindCycle},
			wantErr: catalog.ErrInvalidInput,
		},
		{
			name:    "CycleWithParent",
			params:  catalog.CreateParams{Name: "Discovery", Kind: catalog.KindCycle, ParentID: &phaseID},
			wantErr: catalog.ErrInvalidParent,
		},
		{
			name:    "PhaseWithoutParent",
			params:  catalog.CreateParams{Name: "Requirements", Kind: catalog.KindPhase},
			wantErr: catalog.ErrInvalidParent,
		},
		{
			name: "ActivityUnderCycle",
			params: catalog.CreateParams{
				Name:                 "Interface design",
				Kind:                 catalog.KindActivity,
				ParentID:             &cycleID,
				ComplexityMultiplier: dptr("1"),
			},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().GetNode(gomock.Any(), cycleID).
					Return(&catalog.Node{ID: cycleID, Kind: catalog.KindCycle}, nil)
			},
			wantErr: catalog.ErrInvalidParent,
		},
		{
			name: "ActivityWithoutMultiplier",
			params: catalog.CreateParams{
				Name:     "Interface design",
				Kind:     catalog.KindActivity,
				ParentID: &phaseID,
			},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().GetNode(gomock.Any(), phaseID).
					Return(&catalog.Node{ID: phaseID, Kind: catalog.KindPhase}, nil)
			},
			wantErr: catalog.ErrInvalidInput,
		},
		{
			name: "NegativeMultiplier",
			params: catalog.CreateParams{
				Name:                 "Interface design",
				Kind:                 catalog.KindActivity,
				ParentID:             &phaseID,
				ComplexityMultiplier: dptr("-0.5"),
			},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().GetNode(gomock.Any(), phaseID).
					Return(&catalog.Node{ID: phaseID, Kind: catalog.KindPhase}, nil)
			},
			wantErr: catalog.ErrInvalidInput,
		},
		{
			name: "PhaseWithMultiplier",
			params: catalog.CreateParams{
				Name:                 "Requirements",
				Kind:                 catalog.KindPhase,
				ParentID:             &cycleID,
				ComplexityMultiplier: dptr("1"),
			},
			setupMock: func(repo *catalog.MockRepository) {
				repo.EXPECT().GetNode(gomock.Any(), cycleID).
					Return(&catalog.Node{ID: cycleID, Kind: catalog.KindCycle}, nil)
			},
			wantErr: catalog.ErrInvalidInput,
		},
		{
			name:    "UnknownKind",
			params:  catalog.CreateParams{Name: "Anything", Kind: catalog.Kind("SPRINT")},
			wantErr: catalog.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := catalog.NewService(repo)

			got, err := svc.Create(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, tt.params.Name, got.Name)
			assert.Equal(t, tt.params.Kind, got.Kind)
		})
	}
}

func TestService_Update_MultiplierOnlyOnActivities(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := catalog.NewMockRepository(ctrl)
	svc := catalog.NewService(repo)

	phaseID := uuid.New()

	repo.EXPECT().GetNode(gomock.Any(), phaseID).
		Return(&catalog.Node{ID: phaseID, Name: "Requirements", Kind: catalog.KindPhase}, nil)

	_, err := svc.Update(context.Background(), phaseID, catalog.UpdateParams{
		ComplexityMultiplier: dptr("1.5"),
	})
	assert.ErrorIs(t, err, catalog.ErrInvalidInput)
}

func TestService_Delete(t *testing.T) {
	type testCase struct {
		name        string
		hasChildren bool
		wantErr     error
	}

	tests := []testCase{
		{name: "Leaf", hasChildren: false},
		{name: "WithChildren", hasChildren: true, wantErr: catalog.ErrHasChildren},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			svc := catalog.NewService(repo)

			id := uuid.New()

			repo.EXPECT().GetNode(gomock.Any(), id).
				Return(&catalog.Node{ID: id, Kind: catalog.KindPhase}, nil)
			repo.EXPECT().HasChildren(gomock.Any(), id).Return(tt.hasChildren, nil)

			if tt.wantErr == nil {
				repo.EXPECT().DeleteNode(gomock.Any(), id).Return(nil)
			}

			err := svc.Delete(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_ResolveComplexity(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(repo *catalog.MockRepository, id uuid.UUID)
		want      string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Activity",
			setupMock: func(repo *catalog.MockRepository, id uuid.UUID) {
				repo.EXPECT().GetNode(gomock.Any(), id).Return(&catalog.Node{
					ID:                   id,
					Kind:                 catalog.KindActivity,
					ComplexityMultiplier: dptr("2.0000"),
				}, nil)
			},
			want: "2.0000",
		},
		{
			name: "Phase",
			setupMock: func(repo *catalog.MockRepository, id uuid.UUID) {
				repo.EXPECT().GetNode(gomock.Any(), id).
					Return(&catalog.Node{ID: id, Kind: catalog.KindPhase}, nil)
			},
			wantErr: catalog.ErrNotFound,
		},
		{
			name: "Missing",
			setupMock: func(repo *catalog.MockRepository, id uuid.UUID) {
				repo.EXPECT().GetNode(gomock.Any(), id).Return(nil, catalog.ErrNotFound)
			},
			wantErr: catalog.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := catalog.NewMockRepository(ctrl)
			svc := catalog.NewService(repo)

			id := uuid.New()
			tt.setupMock(repo, id)

			got, err := svc.ResolveComplexity(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got))
		})
	}
}
