package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rulemine/rulemine-backend/internal/data/repos"
	types "github.com/rulemine/rulemine-backend/internal/domain"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
)

type fixedPopRepo struct {
	byFingerprint *types.CellPopulation
}

func (fp *fixedPopRepo) Create(_ context.Context, _ *gorm.DB, pop *types.CellPopulation) (*types.CellPopulation, error) {
	return pop, nil
}

func (fp *fixedPopRepo) GetByID(context.Context, *gorm.DB, uuid.UUID) (*types.CellPopulation, error) {
	return nil, nil
}

func (fp *fixedPopRepo) GetByFingerprint(context.Context, *gorm.DB, string) (*types.CellPopulation, error) {
	return fp.byFingerprint, nil
}

func (fp *fixedPopRepo) AdjustLikeCount(context.Context, *gorm.DB, uuid.UUID, int) error {
	return nil
}

func (fp *fixedPopRepo) AdjustBookmarkCount(context.Context, *gorm.DB, uuid.UUID, int) error {
	return nil
}

var _ repos.CellPopulationRepo = (*fixedPopRepo)(nil)

// capturingViewRepo records the last upserted view.
type capturingViewRepo struct {
	last *types.GenerationView
}

func (cv *capturingViewRepo) Upsert(_ context.Context, _ *gorm.DB, view *types.GenerationView) error {
	cv.last = view
	return nil
}

func (cv *capturingViewRepo) CountByUser(context.Context, *gorm.DB, uuid.UUID) (int64, error) {
	return 0, nil
}

func (cv *capturingViewRepo) CountByUserSince(context.Context, *gorm.DB, uuid.UUID, time.Time) (int64, error) {
	return 0, nil
}

var _ repos.ViewRepo = (*capturingViewRepo)(nil)

func newSaveServiceForTest(runRepo repos.GenerationRunRepo, popRepo repos.CellPopulationRepo, viewRepo repos.ViewRepo) SaveService {
	disc := newFakeDiscoveryRepo()
	users := newFakeUserRepo()
	claims := NewClaimService(testLogger(), disc, users)
	return NewSaveService(nil, testLogger(), runRepo, popRepo, viewRepo, disc, users, claims, NewNoopNotifier())
}

func TestSaveRunValidation(t *testing.T) {
	svc := newSaveServiceForTest(&fixedRunRepo{}, &fixedPopRepo{}, &capturingViewRepo{})
	ctx := context.Background()

	tests := []struct {
		name string
		run  types.GenerationRun
		want error
	}{
		{
			name: "missing user",
			run:  types.GenerationRun{Dimension: 2, RuleFamily: types.RuleFamilyConway, RuleDefinition: "B3/S23"},
			want: apperrors.ErrUnauthorized,
		},
		{
			name: "dimension out of range",
			run:  types.GenerationRun{UserID: uuid.New(), Dimension: 4, RuleFamily: types.RuleFamilyConway, RuleDefinition: "B3/S23"},
			want: apperrors.ErrInvalidArgument,
		},
		{
			name: "unknown rule family",
			run:  types.GenerationRun{UserID: uuid.New(), Dimension: 2, RuleFamily: "brians_brain", RuleDefinition: "B2/S"},
			want: apperrors.ErrInvalidArgument,
		},
		{
			name: "empty rule definition",
			run:  types.GenerationRun{UserID: uuid.New(), Dimension: 1, RuleFamily: types.RuleFamilyWolfram},
			want: apperrors.ErrInvalidArgument,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.SaveRun(ctx, &tc.run); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSavePopulationStabilityValidation(t *testing.T) {
	// Every fingerprint resolves to an existing snapshot, so inputs that
	// clear validation stop at the duplicate check instead of the insert.
	existing := &fixedPopRepo{byFingerprint: &types.CellPopulation{ID: uuid.New(), Title: "glider soup"}}
	svc := newSaveServiceForTest(&fixedRunRepo{}, existing, &capturingViewRepo{})
	ctx := context.Background()
	period := 3

	tests := []struct {
		name      string
		stability string
		period    *int
		wantErr   bool
	}{
		{"stable without period", types.StabilityStable, nil, false},
		{"periodic with period", types.StabilityPeriodic, &period, false},
		{"periodic without period", types.StabilityPeriodic, nil, true},
		{"stable with period", types.StabilityStable, &period, true},
		{"unknown stability", "chaotic", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pop := &types.CellPopulation{
				UserID:         uuid.New(),
				Dimension:      2,
				RuleFamily:     types.RuleFamilyConway,
				RuleDefinition: "B3/S23",
				Stability:      tc.stability,
				StablePeriod:   tc.period,
			}
			_, err := svc.SavePopulation(ctx, pop)
			if tc.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if _, ok := apperrors.AsDuplicateConfiguration(err); !ok {
				t.Fatalf("expected duplicate short-circuit past validation, got %v", err)
			}
		})
	}
}

func TestSaveRunDuplicateShortCircuit(t *testing.T) {
	existing := &types.GenerationRun{
		ID:    uuid.New(),
		Title: "Rule 110 cascade",
	}
	svc := newSaveServiceForTest(&fixedRunRepo{byFingerprint: existing}, &fixedPopRepo{}, &capturingViewRepo{})

	_, err := svc.SaveRun(context.Background(), &types.GenerationRun{
		UserID:         uuid.New(),
		Dimension:      1,
		RuleFamily:     types.RuleFamilyWolfram,
		RuleDefinition: "110",
	})
	dup, ok := apperrors.AsDuplicateConfiguration(err)
	if !ok {
		t.Fatalf("expected DuplicateConfigurationError, got %v", err)
	}
	if dup.EntityID != existing.ID || dup.EntityKind != types.EntityKindGenerationRun {
		t.Fatalf("duplicate points at %+v, want existing run", dup)
	}
	if dup.Title != "Rule 110 cascade" {
		t.Fatalf("duplicate title = %q", dup.Title)
	}
}

func TestRecordViewNormalization(t *testing.T) {
	views := &capturingViewRepo{}
	svc := newSaveServiceForTest(&fixedRunRepo{}, &fixedPopRepo{}, views)
	ctx := context.Background()
	userID := uuid.New()

	// Explicit default lattice collapses to empty, zero radius to one.
	err := svc.RecordView(ctx, &types.GenerationView{
		UserID:         userID,
		Dimension:      2,
		RuleDefinition: "B3/S23",
		LatticeType:    "square",
	})
	if err != nil {
		t.Fatalf("record view: %v", err)
	}
	if views.last.LatticeType != "" {
		t.Fatalf("default lattice must normalize to empty, got %q", views.last.LatticeType)
	}
	if views.last.NeighborhoodRadius != 1 {
		t.Fatalf("radius = %d, want 1", views.last.NeighborhoodRadius)
	}

	// A genuinely exotic lattice survives.
	err = svc.RecordView(ctx, &types.GenerationView{
		UserID:         userID,
		Dimension:      2,
		RuleDefinition: "B3/S23",
		LatticeType:    "hex",
	})
	if err != nil {
		t.Fatalf("record hex view: %v", err)
	}
	if views.last.LatticeType != "hex" {
		t.Fatalf("lattice = %q, want hex", views.last.LatticeType)
	}

	if err := svc.RecordView(ctx, &types.GenerationView{UserID: userID}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty view, got %v", err)
	}
}
