package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rulemine/rulemine-backend/internal/data/db"
	"github.com/rulemine/rulemine-backend/internal/data/repos"
	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/fingerprint"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

// errLostSaveRace marks a unique violation on the entity insert: another
// request committed the same fingerprint between the pre-check and the
// insert. The caller re-reads the winner and reports a duplicate.
var errLostSaveRace = errors.New("lost save race")

// SaveRunResult is a saved run plus its claim outcome.
type SaveRunResult struct {
	Run            *types.GenerationRun `json:"run"`
	Discovery      *types.Discovery     `json:"discovery"`
	IsNewDiscovery bool                 `json:"is_new_discovery"`
}

// SavePopulationResult is a saved population plus its claim outcome.
type SavePopulationResult struct {
	Population     *types.CellPopulation `json:"population"`
	Discovery      *types.Discovery      `json:"discovery"`
	IsNewDiscovery bool                  `json:"is_new_discovery"`
}

// RunDetail decorates a run with its discovery attribution, when claimed.
type RunDetail struct {
	Run       *types.GenerationRun `json:"run"`
	Discovery *DiscoveryDetail     `json:"discovery,omitempty"`
}

// PopulationDetail decorates a population with its discovery attribution.
type PopulationDetail struct {
	Population *types.CellPopulation `json:"population"`
	Discovery  *DiscoveryDetail      `json:"discovery,omitempty"`
}

// SaveService persists runs and population snapshots. Every save is also a
// claim attempt: the entity insert and the discovery insert share one
// transaction, so a committed entity either holds the claim or lost it to a
// row that already existed.
type SaveService interface {
	SaveRun(ctx context.Context, run *types.GenerationRun) (*SaveRunResult, error)
	SavePopulation(ctx context.Context, pop *types.CellPopulation) (*SavePopulationResult, error)
	GetRun(ctx context.Context, id uuid.UUID) (*RunDetail, error)
	GetPopulation(ctx context.Context, id uuid.UUID) (*PopulationDetail, error)
	ListRuns(ctx context.Context, params repos.ListParams) ([]*types.GenerationRun, error)
	DeleteRun(ctx context.Context, userID, runID uuid.UUID) error
	// RecordView upserts the (user, configuration) view row. Repeat views
	// refresh the timestamp, which feeds the trailing-week statistics.
	RecordView(ctx context.Context, view *types.GenerationView) error
}

type saveService struct {
	db            *gorm.DB
	log           *logger.Logger
	runRepo       repos.GenerationRunRepo
	popRepo       repos.CellPopulationRepo
	viewRepo      repos.ViewRepo
	claims        ClaimService
	notifier      Notifier
	discoveryRepo repos.DiscoveryRepo
	userRepo      repos.UserRepo
}

func NewSaveService(
	theDB *gorm.DB,
	log *logger.Logger,
	runRepo repos.GenerationRunRepo,
	popRepo repos.CellPopulationRepo,
	viewRepo repos.ViewRepo,
	discoveryRepo repos.DiscoveryRepo,
	userRepo repos.UserRepo,
	claims ClaimService,
	notifier Notifier,
) SaveService {
	return &saveService{
		db:            theDB,
		log:           log.With("service", "SaveService"),
		runRepo:       runRepo,
		popRepo:       popRepo,
		viewRepo:      viewRepo,
		discoveryRepo: discoveryRepo,
		userRepo:      userRepo,
		claims:        claims,
		notifier:      notifier,
	}
}

func (ss *saveService) SaveRun(ctx context.Context, run *types.GenerationRun) (*SaveRunResult, error) {
	if run.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	if err := validateConfiguration(run.Dimension, run.RuleFamily, run.RuleDefinition); err != nil {
		return nil, err
	}
	if run.NeighborhoodRadius <= 0 {
		run.NeighborhoodRadius = 1
	}

	run.Fingerprint = fingerprint.Run(fingerprint.RunConfig{
		Dimension:          run.Dimension,
		RuleFamily:         run.RuleFamily,
		RuleDefinition:     run.RuleDefinition,
		NeighborhoodRadius: run.NeighborhoodRadius,
		LatticeType:        derefLattice(run.LatticeType),
	})

	if dup, err := ss.runDuplicate(ctx, run.Fingerprint); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, dup
	}

	var result SaveRunResult
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run.ID = uuid.New()
		if _, err := ss.runRepo.Create(ctx, tx, run); err != nil {
			if db.IsUniqueViolation(err) {
				return errLostSaveRace
			}
			return fmt.Errorf("create run: %w", err)
		}
		claim, err := ss.claims.Claim(ctx, tx, &types.Discovery{
			Fingerprint:        run.Fingerprint,
			EntityKind:         types.EntityKindGenerationRun,
			EntityID:           run.ID,
			DiscoveredByUserID: run.UserID,
			DiscoveredAt:       time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		result = SaveRunResult{Run: run, Discovery: claim.Discovery, IsNewDiscovery: claim.IsNewDiscovery}
		return nil
	})
	if errors.Is(err, errLostSaveRace) {
		if dup, dupErr := ss.runDuplicate(ctx, run.Fingerprint); dupErr == nil && dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("save run: %w", err)
	}
	if err != nil {
		return nil, err
	}

	if result.IsNewDiscovery {
		ss.notifier.DiscoveryClaimed(result.Discovery)
	}
	return &result, nil
}

func (ss *saveService) SavePopulation(ctx context.Context, pop *types.CellPopulation) (*SavePopulationResult, error) {
	if pop.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	if err := validateConfiguration(pop.Dimension, pop.RuleFamily, pop.RuleDefinition); err != nil {
		return nil, err
	}
	if err := validateStability(pop.Stability, pop.StablePeriod); err != nil {
		return nil, err
	}
	if pop.NeighborhoodRadius <= 0 {
		pop.NeighborhoodRadius = 1
	}

	pop.Fingerprint = fingerprint.Population(fingerprint.PopulationConfig{
		Dimension:          pop.Dimension,
		RuleFamily:         pop.RuleFamily,
		RuleDefinition:     pop.RuleDefinition,
		NeighborhoodRadius: pop.NeighborhoodRadius,
		LatticeType:        derefLattice(pop.LatticeType),
		Stability:          pop.Stability,
		StablePeriod:       pop.StablePeriod,
	})

	if dup, err := ss.populationDuplicate(ctx, pop.Fingerprint); err != nil {
		return nil, err
	} else if dup != nil {
		return nil, dup
	}

	var result SavePopulationResult
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pop.ID = uuid.New()
		if _, err := ss.popRepo.Create(ctx, tx, pop); err != nil {
			if db.IsUniqueViolation(err) {
				return errLostSaveRace
			}
			return fmt.Errorf("create population: %w", err)
		}
		claim, err := ss.claims.Claim(ctx, tx, &types.Discovery{
			Fingerprint:        pop.Fingerprint,
			EntityKind:         types.EntityKindCellPopulation,
			EntityID:           pop.ID,
			DiscoveredByUserID: pop.UserID,
			DiscoveredAt:       time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		result = SavePopulationResult{Population: pop, Discovery: claim.Discovery, IsNewDiscovery: claim.IsNewDiscovery}
		return nil
	})
	if errors.Is(err, errLostSaveRace) {
		if dup, dupErr := ss.populationDuplicate(ctx, pop.Fingerprint); dupErr == nil && dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("save population: %w", err)
	}
	if err != nil {
		return nil, err
	}

	if result.IsNewDiscovery {
		ss.notifier.DiscoveryClaimed(result.Discovery)
	}
	return &result, nil
}

func (ss *saveService) GetRun(ctx context.Context, id uuid.UUID) (*RunDetail, error) {
	run, err := ss.runRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return nil, apperrors.ErrNotFound
	}

	detail := &RunDetail{Run: run}
	discovery, err := ss.claims.Find(ctx, run.Fingerprint)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	detail.Discovery = discovery
	return detail, nil
}

func (ss *saveService) GetPopulation(ctx context.Context, id uuid.UUID) (*PopulationDetail, error) {
	pop, err := ss.popRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("get population: %w", err)
	}
	if pop == nil {
		return nil, apperrors.ErrNotFound
	}

	detail := &PopulationDetail{Population: pop}
	discovery, err := ss.claims.Find(ctx, pop.Fingerprint)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	detail.Discovery = discovery
	return detail, nil
}

func (ss *saveService) ListRuns(ctx context.Context, params repos.ListParams) ([]*types.GenerationRun, error) {
	return ss.runRepo.List(ctx, nil, params)
}

func (ss *saveService) DeleteRun(ctx context.Context, userID, runID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperrors.ErrUnauthorized
	}
	run, err := ss.runRepo.GetByID(ctx, nil, runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	if run == nil || run.UserID != userID {
		// A foreign run is reported as missing, not forbidden, so ids
		// cannot be probed for existence.
		return apperrors.ErrNotFound
	}
	return ss.runRepo.Delete(ctx, nil, runID, userID)
}

func (ss *saveService) RecordView(ctx context.Context, view *types.GenerationView) error {
	if view.UserID == uuid.Nil {
		return apperrors.ErrUnauthorized
	}
	if view.Dimension <= 0 || view.RuleDefinition == "" {
		return fmt.Errorf("record view: %w", apperrors.ErrInvalidArgument)
	}
	if view.NeighborhoodRadius <= 0 {
		view.NeighborhoodRadius = 1
	}
	// The default lattice is stored as empty so a view recorded before the
	// client sent lattices and one recorded after collapse into one row.
	if view.LatticeType == fingerprint.DefaultLattice(view.Dimension) {
		view.LatticeType = ""
	}
	return ss.viewRepo.Upsert(ctx, nil, view)
}

func (ss *saveService) runDuplicate(ctx context.Context, fp string) (*apperrors.DuplicateConfigurationError, error) {
	existing, err := ss.runRepo.GetByFingerprint(ctx, nil, fp)
	if err != nil {
		return nil, fmt.Errorf("check duplicate run: %w", err)
	}
	if existing == nil {
		return nil, nil
	}
	return &apperrors.DuplicateConfigurationError{
		Fingerprint: fp,
		EntityKind:  types.EntityKindGenerationRun,
		EntityID:    existing.ID,
		Title:       existing.Title,
	}, nil
}

func (ss *saveService) populationDuplicate(ctx context.Context, fp string) (*apperrors.DuplicateConfigurationError, error) {
	existing, err := ss.popRepo.GetByFingerprint(ctx, nil, fp)
	if err != nil {
		return nil, fmt.Errorf("check duplicate population: %w", err)
	}
	if existing == nil {
		return nil, nil
	}
	return &apperrors.DuplicateConfigurationError{
		Fingerprint: fp,
		EntityKind:  types.EntityKindCellPopulation,
		EntityID:    existing.ID,
		Title:       existing.Title,
	}, nil
}

func validateConfiguration(dimension int, family, definition string) error {
	if dimension < 1 || dimension > 3 {
		return fmt.Errorf("%w: dimension must be 1, 2 or 3", apperrors.ErrInvalidArgument)
	}
	switch family {
	case types.RuleFamilyWolfram, types.RuleFamilyConway:
	default:
		return fmt.Errorf("%w: unknown rule family %q", apperrors.ErrInvalidArgument, family)
	}
	if definition == "" {
		return fmt.Errorf("%w: empty rule definition", apperrors.ErrInvalidArgument)
	}
	return nil
}

func validateStability(stability string, period *int) error {
	switch stability {
	case types.StabilityEvolving, types.StabilityStable:
		if period != nil {
			return fmt.Errorf("%w: stable period only applies to periodic populations", apperrors.ErrInvalidArgument)
		}
	case types.StabilityPeriodic:
		if period == nil || *period < 1 {
			return fmt.Errorf("%w: periodic populations need a period >= 1", apperrors.ErrInvalidArgument)
		}
	default:
		return fmt.Errorf("%w: unknown stability %q", apperrors.ErrInvalidArgument, stability)
	}
	return nil
}

func derefLattice(lattice *string) string {
	if lattice == nil {
		return ""
	}
	return *lattice
}
