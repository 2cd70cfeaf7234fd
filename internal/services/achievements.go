package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rulemine/rulemine-backend/internal/achievements"
	"github.com/rulemine/rulemine-backend/internal/data/repos"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

// checkConcurrency bounds the sweep fan-out. Checks are read-heavy; a small
// limit keeps the connection pool available for request traffic.
const checkConcurrency = 4

// CheckResult is the post-evaluation state of one badge.
type CheckResult struct {
	AchievementID string     `json:"achievement_id"`
	Earned        bool       `json:"earned"`
	Changed       bool       `json:"changed"`
	EarnedAt      *time.Time `json:"earned_at,omitempty"`
}

// BadgeStatus merges a catalog definition with the user's earned state.
type BadgeStatus struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    achievements.Category `json:"category"`
	Icon        string                `json:"icon"`
	Revocable   bool                  `json:"revocable"`
	Earned      bool                  `json:"earned"`
	EarnedAt    *time.Time            `json:"earned_at,omitempty"`
	Seen        bool                  `json:"seen"`
}

// AchievementService evaluates the badge catalog against live statistics and
// converges stored state toward the evaluation. Earned badges are rows in the
// user_achievement table; revocable badges lose their row when the predicate
// stops holding, non-revocable ones are kept forever.
type AchievementService interface {
	Check(ctx context.Context, userID uuid.UUID, achievementID string) (*CheckResult, error)
	// CheckAll sweeps the whole catalog. Badges that fail to evaluate are
	// skipped, not fatal: the returned results cover every badge that did
	// evaluate, and the error joins the per-badge failures.
	CheckAll(ctx context.Context, userID uuid.UUID) ([]CheckResult, error)
	// List returns the full catalog in display order with earned state,
	// plus the count of earned-but-unseen badges.
	List(ctx context.Context, userID uuid.UUID) ([]BadgeStatus, int, error)
	// MarkSeen acknowledges badges; an empty id list acknowledges all.
	MarkSeen(ctx context.Context, userID uuid.UUID, achievementIDs []string) error
}

type achievementService struct {
	log             *logger.Logger
	stats           StatsProvider
	achievementRepo repos.AchievementRepo
	notifier        Notifier
}

func NewAchievementService(
	log *logger.Logger,
	stats StatsProvider,
	achievementRepo repos.AchievementRepo,
	notifier Notifier,
) AchievementService {
	return &achievementService{
		log:             log.With("service", "AchievementService"),
		stats:           stats,
		achievementRepo: achievementRepo,
		notifier:        notifier,
	}
}

func (as *achievementService) Check(ctx context.Context, userID uuid.UUID, achievementID string) (*CheckResult, error) {
	def, ok := achievements.ByID(achievementID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAchievement, achievementID)
	}
	return as.checkOne(ctx, userID, def)
}

func (as *achievementService) CheckAll(ctx context.Context, userID uuid.UUID) ([]CheckResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)

	results := make([]*CheckResult, len(achievements.Catalog))
	errs := make([]error, len(achievements.Catalog))
	for i, def := range achievements.Catalog {
		g.Go(func() error {
			res, err := as.checkOne(gctx, userID, def)
			if err != nil {
				errs[i] = fmt.Errorf("check %s: %w", def.ID, err)
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := make([]CheckResult, 0, len(results))
	for _, res := range results {
		if res != nil {
			out = append(out, *res)
		}
	}
	return out, errors.Join(errs...)
}

// checkOne evaluates one badge and applies the earn/revoke transition. The
// earn insert is idempotent, so concurrent checks of the same badge settle on
// a single row and a single earned notification.
func (as *achievementService) checkOne(ctx context.Context, userID uuid.UUID, def achievements.Definition) (*CheckResult, error) {
	qualifies, err := as.evaluate(ctx, userID, def)
	if err != nil {
		return nil, err
	}

	existing, err := as.achievementRepo.Get(ctx, nil, userID, def.ID)
	if err != nil {
		return nil, fmt.Errorf("load earned state: %w", err)
	}

	switch {
	case qualifies && existing == nil:
		earnedAt := time.Now().UTC()
		created, err := as.achievementRepo.Earn(ctx, nil, userID, def.ID, earnedAt)
		if err != nil {
			return nil, fmt.Errorf("earn: %w", err)
		}
		if created {
			as.log.Info("achievement earned", "achievement_id", def.ID, "user_id", userID.String())
			as.notifier.AchievementEarned(userID, def.ID)
		}
		return &CheckResult{AchievementID: def.ID, Earned: true, Changed: created, EarnedAt: &earnedAt}, nil

	case !qualifies && existing != nil && def.Revocable:
		deleted, err := as.achievementRepo.Revoke(ctx, nil, userID, def.ID)
		if err != nil {
			return nil, fmt.Errorf("revoke: %w", err)
		}
		if deleted {
			as.log.Info("achievement revoked", "achievement_id", def.ID, "user_id", userID.String())
			as.notifier.AchievementRevoked(userID, def.ID)
		}
		return &CheckResult{AchievementID: def.ID, Earned: false, Changed: deleted}, nil

	case existing != nil:
		return &CheckResult{AchievementID: def.ID, Earned: true, Changed: false, EarnedAt: &existing.EarnedAt}, nil

	default:
		return &CheckResult{AchievementID: def.ID, Earned: false, Changed: false}, nil
	}
}

// evaluate dispatches on the typed predicate parameters. The switch is
// exhaustive over the Params variants; an unknown variant is a programming
// error, not a data error.
func (as *achievementService) evaluate(ctx context.Context, userID uuid.UUID, def achievements.Definition) (bool, error) {
	switch p := def.Params.(type) {
	case achievements.TasteParams:
		ratio, views, err := as.stats.LikeRatio(ctx, userID)
		if err != nil {
			return false, err
		}
		return views >= p.MinViews && ratio < p.MaxLikeRatio, nil

	case achievements.MiningRankParams:
		rank, err := as.stats.ClaimPercentileRank(ctx, userID)
		if err != nil {
			return false, err
		}
		return rank >= p.Percentile, nil

	case achievements.WorkEthicParams:
		saved, err := as.stats.SavedRunCount(ctx, userID)
		if err != nil {
			return false, err
		}
		return saved >= p.MinSavedRuns, nil

	case achievements.OperatorParams:
		ratio, err := as.stats.TrailingWeekClaimRatio(ctx, userID)
		if err != nil {
			return false, err
		}
		return ratio.Qualifies(p.MinWeeklyViews) && ratio.Value < p.MaxClaimRatio, nil

	default:
		return false, fmt.Errorf("achievement %s: unhandled params type %T", def.ID, def.Params)
	}
}

func (as *achievementService) List(ctx context.Context, userID uuid.UUID) ([]BadgeStatus, int, error) {
	earned, err := as.achievementRepo.GetForUser(ctx, nil, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("load earned achievements: %w", err)
	}

	byID := make(map[string]struct {
		earnedAt time.Time
		seen     bool
	}, len(earned))
	for _, row := range earned {
		byID[row.AchievementID] = struct {
			earnedAt time.Time
			seen     bool
		}{row.EarnedAt, row.Seen}
	}

	statuses := make([]BadgeStatus, 0, len(achievements.Catalog))
	unseen := 0
	for _, def := range achievements.Catalog {
		status := BadgeStatus{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Icon:        def.Icon,
			Revocable:   def.Revocable,
		}
		if state, ok := byID[def.ID]; ok {
			earnedAt := state.earnedAt
			status.Earned = true
			status.EarnedAt = &earnedAt
			status.Seen = state.seen
			if !state.seen {
				unseen++
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, unseen, nil
}

func (as *achievementService) MarkSeen(ctx context.Context, userID uuid.UUID, achievementIDs []string) error {
	if len(achievementIDs) == 0 {
		achievementIDs = achievements.IDs()
	} else {
		for _, id := range achievementIDs {
			if _, ok := achievements.ByID(id); !ok {
				return fmt.Errorf("%w: %s", apperrors.ErrUnknownAchievement, id)
			}
		}
	}
	return as.achievementRepo.MarkSeen(ctx, nil, userID, achievementIDs)
}
