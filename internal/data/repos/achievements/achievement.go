package achievements

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type AchievementRepo interface {
	GetForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error)
	Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementID string) (*types.UserAchievement, error)
	// Earn inserts the earned row if absent; created=false means the badge
	// was already held, in which case the existing row is left untouched.
	Earn(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementID string, earnedAt time.Time) (bool, error)
	// Revoke deletes the earned row; deleted=false means it was not held.
	Revoke(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementID string) (bool, error)
	MarkSeen(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementIDs []string) error
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (ar *achievementRepo) GetForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.UserAchievement
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *achievementRepo) Get(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementID string) (*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var result types.UserAchievement
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ar *achievementRepo) Earn(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementID string, earnedAt time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	row := &types.UserAchievement{
		ID:            uuid.New(),
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      earnedAt,
		Seen:          false,
	}
	result := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (ar *achievementRepo) Revoke(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	result := transaction.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Delete(&types.UserAchievement{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (ar *achievementRepo) MarkSeen(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementIDs []string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(achievementIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.UserAchievement{}).
		Where("user_id = ? AND achievement_id IN ?", userID, achievementIDs).
		Update("seen", true).Error
}
