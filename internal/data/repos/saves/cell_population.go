package saves

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type CellPopulationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, pop *types.CellPopulation) (*types.CellPopulation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CellPopulation, error)
	// GetByFingerprint includes soft-deleted rows, matching the scope of
	// the fingerprint unique index.
	GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*types.CellPopulation, error)
	AdjustLikeCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
	AdjustBookmarkCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
}

type cellPopulationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCellPopulationRepo(db *gorm.DB, baseLog *logger.Logger) CellPopulationRepo {
	return &cellPopulationRepo{db: db, log: baseLog.With("repo", "CellPopulationRepo")}
}

func (pr *cellPopulationRepo) Create(ctx context.Context, tx *gorm.DB, pop *types.CellPopulation) (*types.CellPopulation, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(pop).Error; err != nil {
		return nil, err
	}
	return pop, nil
}

func (pr *cellPopulationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CellPopulation, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.CellPopulation
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *cellPopulationRepo) GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*types.CellPopulation, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.CellPopulation
	err := transaction.WithContext(ctx).
		Unscoped().
		Where("fingerprint = ?", fingerprint).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *cellPopulationRepo) AdjustLikeCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	return adjustCounter(ctx, tx, pr.db, &types.CellPopulation{}, "like_count", id, delta)
}

func (pr *cellPopulationRepo) AdjustBookmarkCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	return adjustCounter(ctx, tx, pr.db, &types.CellPopulation{}, "bookmark_count", id, delta)
}
