package saves

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

// ListParams narrows and orders a run listing. Cursor semantics follow the
// sort: created_at for newest, like_count for most_liked.
type ListParams struct {
	Dimension  int
	RuleFamily string
	Sort       string // "newest" (default) | "most_liked"
	Cursor     string
	Limit      int
}

const maxListLimit = 50

type GenerationRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.GenerationRun) (*types.GenerationRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationRun, error)
	// GetByFingerprint includes soft-deleted rows. The fingerprint unique
	// index covers them too, so a duplicate check that skipped them would
	// miss the row that still blocks the insert.
	GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*types.GenerationRun, error)
	List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.GenerationRun, error)
	// CountByUser counts every run the user ever saved, soft-deleted rows
	// included, so the work-ethic statistic never decreases.
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) error
	AdjustLikeCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
	AdjustBookmarkCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error
}

type generationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationRunRepo(db *gorm.DB, baseLog *logger.Logger) GenerationRunRepo {
	return &generationRunRepo{db: db, log: baseLog.With("repo", "GenerationRunRepo")}
}

func (rr *generationRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.GenerationRun) (*types.GenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (rr *generationRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.GenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.GenerationRun
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

func (rr *generationRunRepo) GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*types.GenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.GenerationRun
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

func (rr *generationRunRepo) List(ctx context.Context, tx *gorm.DB, params ListParams) ([]*types.GenerationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	limit := params.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	q := transaction.WithContext(ctx).Model(&types.GenerationRun{})
	if params.Dimension > 0 {
		q = q.Where("dimension = ?", params.Dimension)
	}
	if params.RuleFamily != "" {
		q = q.Where("rule_family = ?", params.RuleFamily)
	}

	switch params.Sort {
	case "most_liked":
		if params.Cursor != "" {
			q = q.Where("like_count <= ?", params.Cursor)
		}
		q = q.Order("like_count DESC").Order("created_at DESC")
	default:
		if params.Cursor != "" {
			q = q.Where("created_at < ?", params.Cursor)
		}
		q = q.Order("created_at DESC")
	}

	var results []*types.GenerationRun
	if err := q.Limit(limit).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *generationRunRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Unscoped().
		Model(&types.GenerationRun{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *generationRunRepo) Delete(ctx context.Context, tx *gorm.DB, id, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.GenerationRun{}).Error
}

func (rr *generationRunRepo) AdjustLikeCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	return adjustCounter(ctx, tx, rr.db, &types.GenerationRun{}, "like_count", id, delta)
}

func (rr *generationRunRepo) AdjustBookmarkCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, delta int) error {
	return adjustCounter(ctx, tx, rr.db, &types.GenerationRun{}, "bookmark_count", id, delta)
}
