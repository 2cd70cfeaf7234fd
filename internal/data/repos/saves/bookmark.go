package saves

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type BookmarkRepo interface {
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, bookmark *types.Bookmark) (bool, error)
	DeleteForRun(ctx context.Context, tx *gorm.DB, userID, runID uuid.UUID) (bool, error)
	DeleteForPopulation(ctx context.Context, tx *gorm.DB, userID, popID uuid.UUID) (bool, error)
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return &bookmarkRepo{db: db, log: baseLog.With("repo", "BookmarkRepo")}
}

func (br *bookmarkRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, bookmark *types.Bookmark) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	result := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(bookmark)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (br *bookmarkRepo) DeleteForRun(ctx context.Context, tx *gorm.DB, userID, runID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND generation_run_id = ?", userID, runID).
		Delete(&types.Bookmark{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (br *bookmarkRepo) DeleteForPopulation(ctx context.Context, tx *gorm.DB, userID, popID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND cell_population_id = ?", userID, popID).
		Delete(&types.Bookmark{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
