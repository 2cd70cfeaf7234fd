package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type DiscoveryRepo interface {
	// InsertIfAbsent attempts to create the discovery row. When the
	// fingerprint is already claimed it returns the existing row with
	// created=false. The insert runs as ON CONFLICT DO NOTHING against the
	// fingerprint primary key, so concurrent claimants race safely and an
	// enclosing transaction is never poisoned by a unique violation.
	InsertIfAbsent(ctx context.Context, tx *gorm.DB, d *types.Discovery) (*types.Discovery, bool, error)
	GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*types.Discovery, error)
	ClaimCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	ClaimCountSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error)
	ClaimCountsPerUser(ctx context.Context, tx *gorm.DB) ([]UserClaimCount, error)
}

// UserClaimCount is one row of the claim-count distribution.
type UserClaimCount struct {
	UserID uuid.UUID `gorm:"column:user_id"`
	Count  int64     `gorm:"column:count"`
}

type discoveryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiscoveryRepo(db *gorm.DB, baseLog *logger.Logger) DiscoveryRepo {
	return &discoveryRepo{db: db, log: baseLog.With("repo", "DiscoveryRepo")}
}

func (dr *discoveryRepo) InsertIfAbsent(ctx context.Context, tx *gorm.DB, d *types.Discovery) (*types.Discovery, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	result := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			DoNothing: true,
		}).
		Create(d)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return d, true, nil
	}

	// Lost the race: somebody else holds the fingerprint. Rows are never
	// deleted, so the read after a conflict always finds the winner.
	existing, err := dr.GetByFingerprint(ctx, tx, d.Fingerprint)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("discovery %s vanished after conflicting insert", d.Fingerprint)
	}
	return existing, false, nil
}

func (dr *discoveryRepo) GetByFingerprint(ctx context.Context, tx *gorm.DB, fingerprint string) (*types.Discovery, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var result types.Discovery
	err := transaction.WithContext(ctx).
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

func (dr *discoveryRepo) ClaimCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Discovery{}).
		Where("discovered_by_user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (dr *discoveryRepo) ClaimCountSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Discovery{}).
		Where("discovered_by_user_id = ? AND discovered_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (dr *discoveryRepo) ClaimCountsPerUser(ctx context.Context, tx *gorm.DB) ([]UserClaimCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []UserClaimCount
	if err := transaction.WithContext(ctx).
		Model(&types.Discovery{}).
		Select("discovered_by_user_id AS user_id, COUNT(*) AS count").
		Group("discovered_by_user_id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
