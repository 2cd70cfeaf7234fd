package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rulemine/rulemine-backend/internal/data/repos"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

// trailingWeek is the window for the operator statistics.
const trailingWeek = 7 * 24 * time.Hour

// ClaimRatio is a user's trailing-week claims over views. The denominator is
// the larger of the two counts: every claim implies the user viewed the
// configuration, so recorded views can undercount but the ratio stays <= 1.
type ClaimRatio struct {
	Claims int64
	Views  int64
	Value  float64
}

// Qualifies reports whether recorded views reach the given floor. Claims do
// not substitute for views here: the floor measures browsing, not saving.
func (r ClaimRatio) Qualifies(minViews int64) bool {
	return r.Views >= minViews
}

// StatsProvider computes per-user statistics for the rule engine. Everything
// is derived from the source tables at call time; nothing here is cached.
type StatsProvider interface {
	ViewCount(ctx context.Context, userID uuid.UUID) (int64, error)
	LikeCount(ctx context.Context, userID uuid.UUID) (int64, error)
	// LikeRatio returns likes/views plus the lifetime view count the ratio
	// was computed over. A user with zero views has ratio 0.
	LikeRatio(ctx context.Context, userID uuid.UUID) (float64, int64, error)
	ClaimCount(ctx context.Context, userID uuid.UUID) (int64, error)
	// SavedRunCount includes soft-deleted runs, so it never decreases.
	SavedRunCount(ctx context.Context, userID uuid.UUID) (int64, error)
	// ClaimPercentileRank is the fraction of claim-holding users with
	// strictly fewer claims than this user. Users without a single claim
	// are outside the population and rank at 0.
	ClaimPercentileRank(ctx context.Context, userID uuid.UUID) (float64, error)
	TrailingWeekClaimRatio(ctx context.Context, userID uuid.UUID) (ClaimRatio, error)
}

type statsService struct {
	log           *logger.Logger
	runRepo       repos.GenerationRunRepo
	likeRepo      repos.LikeRepo
	viewRepo      repos.ViewRepo
	discoveryRepo repos.DiscoveryRepo
}

func NewStatsService(
	log *logger.Logger,
	runRepo repos.GenerationRunRepo,
	likeRepo repos.LikeRepo,
	viewRepo repos.ViewRepo,
	discoveryRepo repos.DiscoveryRepo,
) StatsProvider {
	return &statsService{
		log:           log.With("service", "StatsService"),
		runRepo:       runRepo,
		likeRepo:      likeRepo,
		viewRepo:      viewRepo,
		discoveryRepo: discoveryRepo,
	}
}

func (ss *statsService) ViewCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return ss.viewRepo.CountByUser(ctx, nil, userID)
}

func (ss *statsService) LikeCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return ss.likeRepo.CountByUser(ctx, nil, userID)
}

func (ss *statsService) LikeRatio(ctx context.Context, userID uuid.UUID) (float64, int64, error) {
	views, err := ss.viewRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("count views: %w", err)
	}
	if views == 0 {
		return 0, 0, nil
	}
	likes, err := ss.likeRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("count likes: %w", err)
	}
	return float64(likes) / float64(views), views, nil
}

func (ss *statsService) ClaimCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return ss.discoveryRepo.ClaimCount(ctx, nil, userID)
}

func (ss *statsService) SavedRunCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return ss.runRepo.CountByUser(ctx, nil, userID)
}

func (ss *statsService) ClaimPercentileRank(ctx context.Context, userID uuid.UUID) (float64, error) {
	counts, err := ss.discoveryRepo.ClaimCountsPerUser(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("claim distribution: %w", err)
	}

	var mine int64
	for _, row := range counts {
		if row.UserID == userID {
			mine = row.Count
			break
		}
	}
	if mine == 0 {
		return 0, nil
	}

	below := 0
	for _, row := range counts {
		if row.Count < mine {
			below++
		}
	}
	return float64(below) / float64(len(counts)), nil
}

func (ss *statsService) TrailingWeekClaimRatio(ctx context.Context, userID uuid.UUID) (ClaimRatio, error) {
	since := time.Now().UTC().Add(-trailingWeek)

	views, err := ss.viewRepo.CountByUserSince(ctx, nil, userID, since)
	if err != nil {
		return ClaimRatio{}, fmt.Errorf("count weekly views: %w", err)
	}
	claims, err := ss.discoveryRepo.ClaimCountSince(ctx, nil, userID, since)
	if err != nil {
		return ClaimRatio{}, fmt.Errorf("count weekly claims: %w", err)
	}

	ratio := ClaimRatio{Claims: claims, Views: views}
	denom := views
	if claims > denom {
		denom = claims
	}
	if denom > 0 {
		ratio.Value = float64(claims) / float64(denom)
	}
	return ratio, nil
}
