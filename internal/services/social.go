package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rulemine/rulemine-backend/internal/data/repos"
	types "github.com/rulemine/rulemine-backend/internal/domain"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

// SocialService manages likes and bookmarks. Both are idempotent per
// (user, entity); the denormalized counters on the entity row move only when
// the underlying marker row actually appears or disappears.
type SocialService interface {
	LikeRun(ctx context.Context, userID, runID uuid.UUID) (bool, error)
	UnlikeRun(ctx context.Context, userID, runID uuid.UUID) (bool, error)
	LikePopulation(ctx context.Context, userID, popID uuid.UUID) (bool, error)
	UnlikePopulation(ctx context.Context, userID, popID uuid.UUID) (bool, error)
	BookmarkRun(ctx context.Context, userID, runID uuid.UUID) (bool, error)
	UnbookmarkRun(ctx context.Context, userID, runID uuid.UUID) (bool, error)
	BookmarkPopulation(ctx context.Context, userID, popID uuid.UUID) (bool, error)
	UnbookmarkPopulation(ctx context.Context, userID, popID uuid.UUID) (bool, error)
}

type socialService struct {
	db           *gorm.DB
	log          *logger.Logger
	runRepo      repos.GenerationRunRepo
	popRepo      repos.CellPopulationRepo
	likeRepo     repos.LikeRepo
	bookmarkRepo repos.BookmarkRepo
}

func NewSocialService(
	theDB *gorm.DB,
	log *logger.Logger,
	runRepo repos.GenerationRunRepo,
	popRepo repos.CellPopulationRepo,
	likeRepo repos.LikeRepo,
	bookmarkRepo repos.BookmarkRepo,
) SocialService {
	return &socialService{
		db:           theDB,
		log:          log.With("service", "SocialService"),
		runRepo:      runRepo,
		popRepo:      popRepo,
		likeRepo:     likeRepo,
		bookmarkRepo: bookmarkRepo,
	}
}

func (ss *socialService) LikeRun(ctx context.Context, userID, runID uuid.UUID) (bool, error) {
	if err := ss.requireRun(ctx, runID); err != nil {
		return false, err
	}
	var created bool
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = ss.likeRepo.InsertIfAbsent(ctx, tx, &types.Like{
			ID:              uuid.New(),
			UserID:          userID,
			GenerationRunID: &runID,
		})
		if err != nil {
			return fmt.Errorf("insert like: %w", err)
		}
		if created {
			return ss.runRepo.AdjustLikeCount(ctx, tx, runID, 1)
		}
		return nil
	})
	return created, err
}

func (ss *socialService) UnlikeRun(ctx context.Context, userID, runID uuid.UUID) (bool, error) {
	var deleted bool
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = ss.likeRepo.DeleteForRun(ctx, tx, userID, runID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if deleted {
			return ss.runRepo.AdjustLikeCount(ctx, tx, runID, -1)
		}
		return nil
	})
	return deleted, err
}

func (ss *socialService) LikePopulation(ctx context.Context, userID, popID uuid.UUID) (bool, error) {
	if err := ss.requirePopulation(ctx, popID); err != nil {
		return false, err
	}
	var created bool
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = ss.likeRepo.InsertIfAbsent(ctx, tx, &types.Like{
			ID:               uuid.New(),
			UserID:           userID,
			CellPopulationID: &popID,
		})
		if err != nil {
			return fmt.Errorf("insert like: %w", err)
		}
		if created {
			return ss.popRepo.AdjustLikeCount(ctx, tx, popID, 1)
		}
		return nil
	})
	return created, err
}

func (ss *socialService) UnlikePopulation(ctx context.Context, userID, popID uuid.UUID) (bool, error) {
	var deleted bool
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = ss.likeRepo.DeleteForPopulation(ctx, tx, userID, popID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if deleted {
			return ss.popRepo.AdjustLikeCount(ctx, tx, popID, -1)
		}
		return nil
	})
	return deleted, err
}

func (ss *socialService) BookmarkRun(ctx context.Context, userID, runID uuid.UUID) (bool, error) {
	if err := ss.requireRun(ctx, runID); err != nil {
		return false, err
	}
	var created bool
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = ss.bookmarkRepo.InsertIfAbsent(ctx, tx, &types.Bookmark{
			ID:              uuid.New(),
			UserID:          userID,
			GenerationRunID: &runID,
		})
		if err != nil {
			return fmt.Errorf("insert bookmark: %w", err)
		}
		if created {
			return ss.runRepo.AdjustBookmarkCount(ctx, tx, runID, 1)
		}
		return nil
	})
	return created, err
}

func (ss *socialService) UnbookmarkRun(ctx context.Context, userID, runID uuid.UUID) (bool, error) {
	var deleted bool
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = ss.bookmarkRepo.DeleteForRun(ctx, tx, userID, runID)
		if err != nil {
			return fmt.Errorf("delete bookmark: %w", err)
		}
		if deleted {
			return ss.runRepo.AdjustBookmarkCount(ctx, tx, runID, -1)
		}
		return nil
	})
	return deleted, err
}

func (ss *socialService) BookmarkPopulation(ctx context.Context, userID, popID uuid.UUID) (bool, error) {
	if err := ss.requirePopulation(ctx, popID); err != nil {
		return false, err
	}
	var created bool
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = ss.bookmarkRepo.InsertIfAbsent(ctx, tx, &types.Bookmark{
			ID:               uuid.New(),
			UserID:           userID,
			CellPopulationID: &popID,
		})
		if err != nil {
			return fmt.Errorf("insert bookmark: %w", err)
		}
		if created {
			return ss.popRepo.AdjustBookmarkCount(ctx, tx, popID, 1)
		}
		return nil
	})
	return created, err
}

func (ss *socialService) UnbookmarkPopulation(ctx context.Context, userID, popID uuid.UUID) (bool, error) {
	var deleted bool
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = ss.bookmarkRepo.DeleteForPopulation(ctx, tx, userID, popID)
		if err != nil {
			return fmt.Errorf("delete bookmark: %w", err)
		}
		if deleted {
			return ss.popRepo.AdjustBookmarkCount(ctx, tx, popID, -1)
		}
		return nil
	})
	return deleted, err
}

func (ss *socialService) requireRun(ctx context.Context, runID uuid.UUID) error {
	run, err := ss.runRepo.GetByID(ctx, nil, runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	if run == nil {
		return apperrors.ErrNotFound
	}
	return nil
}

func (ss *socialService) requirePopulation(ctx context.Context, popID uuid.UUID) error {
	pop, err := ss.popRepo.GetByID(ctx, nil, popID)
	if err != nil {
		return fmt.Errorf("get population: %w", err)
	}
	if pop == nil {
		return apperrors.ErrNotFound
	}
	return nil
}
