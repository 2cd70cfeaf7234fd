package saves

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type LikeRepo interface {
	// InsertIfAbsent returns false when the user already liked the entity.
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, like *types.Like) (bool, error)
	DeleteForRun(ctx context.Context, tx *gorm.DB, userID, runID uuid.UUID) (bool, error)
	DeleteForPopulation(ctx context.Context, tx *gorm.DB, userID, popID uuid.UUID) (bool, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type likeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLikeRepo(db *gorm.DB, baseLog *logger.Logger) LikeRepo {
	return &likeRepo{db: db, log: baseLog.With("repo", "LikeRepo")}
}

func (lr *likeRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, like *types.Like) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	result := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (lr *likeRepo) DeleteForRun(ctx context.Context, tx *gorm.DB, userID, runID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND generation_run_id = ?", userID, runID).
		Delete(&types.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (lr *likeRepo) DeleteForPopulation(ctx context.Context, tx *gorm.DB, userID, popID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND cell_population_id = ?", userID, popID).
		Delete(&types.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (lr *likeRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Like{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
