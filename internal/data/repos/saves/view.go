package saves

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type ViewRepo interface {
	// Upsert inserts the (user, configuration) view row or refreshes its
	// viewed_at timestamp when the user re-views the same configuration.
	Upsert(ctx context.Context, tx *gorm.DB, view *types.GenerationView) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CountByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
}

type viewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewViewRepo(db *gorm.DB, baseLog *logger.Logger) ViewRepo {
	return &viewRepo{db: db, log: baseLog.With("repo", "ViewRepo")}
}

func (vr *viewRepo) Upsert(ctx context.Context, tx *gorm.DB, view *types.GenerationView) error {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now().UTC()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "dimension"},
				{Name: "rule_definition"},
				{Name: "neighborhood_radius"},
				{Name: "lattice_type"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"viewed_at"}),
		}).
		Create(view).Error
}

func (vr *viewRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.GenerationView{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (vr *viewRepo) CountByUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = vr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.GenerationView{}).
		Where("user_id = ? AND viewed_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
