package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rulemine/rulemine-backend/internal/achievements"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
)

func newEngine(stats *fakeStats) (AchievementService, *fakeAchievementRepo, *recordingNotifier) {
	repo := newFakeAchievementRepo()
	notifier := &recordingNotifier{}
	svc := NewAchievementService(testLogger(), stats, repo, notifier)
	return svc, repo, notifier
}

func TestTasteEarnAndRevoke(t *testing.T) {
	stats := &fakeStats{views: 20, likes: 1} // ratio 0.05
	svc, _, notifier := newEngine(stats)
	ctx := context.Background()
	userID := uuid.New()

	res, err := svc.Check(ctx, userID, "miner_with_taste")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.Earned || !res.Changed {
		t.Fatalf("expected fresh earn, got %+v", res)
	}
	if got := notifier.earnedIDs(); len(got) != 1 || got[0] != "miner_with_taste" {
		t.Fatalf("expected earned notification, got %v", got)
	}

	// Liking freely pushes the ratio over the cap; the badge comes back off.
	stats.mu.Lock()
	stats.likes = 5
	stats.mu.Unlock()

	res, err = svc.Check(ctx, userID, "miner_with_taste")
	if err != nil {
		t.Fatalf("check after ratio change: %v", err)
	}
	if res.Earned || !res.Changed {
		t.Fatalf("expected revoke, got %+v", res)
	}
	if got := notifier.revokedIDs(); len(got) != 1 || got[0] != "miner_with_taste" {
		t.Fatalf("expected revoked notification, got %v", got)
	}
}

func TestTasteMinViewsGate(t *testing.T) {
	stats := &fakeStats{views: 5, likes: 0}
	svc, _, _ := newEngine(stats)

	res, err := svc.Check(context.Background(), uuid.New(), "miner_with_taste")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Earned {
		t.Fatal("zero like ratio must not earn the badge below the view floor")
	}
}

func TestMiningRankNeverRevoked(t *testing.T) {
	stats := &fakeStats{rank: 0.96}
	svc, _, notifier := newEngine(stats)
	ctx := context.Background()
	userID := uuid.New()

	res, err := svc.Check(ctx, userID, "expert_miner")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.Earned {
		t.Fatalf("rank 0.96 should earn expert_miner, got %+v", res)
	}

	// Rank collapses as other miners pass the user. The badge stays.
	stats.mu.Lock()
	stats.rank = 0
	stats.mu.Unlock()

	res, err = svc.Check(ctx, userID, "expert_miner")
	if err != nil {
		t.Fatalf("check after rank drop: %v", err)
	}
	if !res.Earned || res.Changed {
		t.Fatalf("non-revocable badge must persist, got %+v", res)
	}
	if got := notifier.revokedIDs(); len(got) != 0 {
		t.Fatalf("no revocation expected, got %v", got)
	}
}

func TestPercentileBoundaryInclusive(t *testing.T) {
	stats := &fakeStats{rank: 0.90}
	svc, _, _ := newEngine(stats)

	res, err := svc.Check(context.Background(), uuid.New(), "skilled_miner")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.Earned {
		t.Fatal("rank exactly at the percentile threshold must earn the badge")
	}
}

func TestOperatorViewFloor(t *testing.T) {
	stats := &fakeStats{weekly: ClaimRatio{Claims: 1, Views: 10, Value: 0.1}}
	svc, _, _ := newEngine(stats)
	ctx := context.Background()
	userID := uuid.New()

	res, err := svc.Check(ctx, userID, "smooth_operator")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.Earned {
		t.Fatalf("ratio 0.1 over 10 views should earn smooth_operator, got %+v", res)
	}

	// A quiet week below the view floor disqualifies and revokes.
	stats.mu.Lock()
	stats.weekly = ClaimRatio{Claims: 0, Views: 4, Value: 0}
	stats.mu.Unlock()

	res, err = svc.Check(ctx, userID, "smooth_operator")
	if err != nil {
		t.Fatalf("check after quiet week: %v", err)
	}
	if res.Earned {
		t.Fatalf("below the view floor the badge must be revoked, got %+v", res)
	}
}

func TestWorkEthicThreshold(t *testing.T) {
	stats := &fakeStats{savedRuns: 29}
	svc, _, _ := newEngine(stats)
	ctx := context.Background()
	userID := uuid.New()

	res, err := svc.Check(ctx, userID, "slow_and_steady")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Earned {
		t.Fatal("29 saved runs must not earn slow_and_steady")
	}

	stats.mu.Lock()
	stats.savedRuns = 30
	stats.mu.Unlock()

	res, err = svc.Check(ctx, userID, "slow_and_steady")
	if err != nil {
		t.Fatalf("check at threshold: %v", err)
	}
	if !res.Earned {
		t.Fatal("30 saved runs must earn slow_and_steady")
	}
}

func TestReCheckPreservesEarnedAt(t *testing.T) {
	stats := &fakeStats{savedRuns: 100}
	svc, repo, _ := newEngine(stats)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Check(ctx, userID, "workaholic")
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if !first.Changed {
		t.Fatalf("expected fresh earn, got %+v", first)
	}

	second, err := svc.Check(ctx, userID, "workaholic")
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if second.Changed {
		t.Fatalf("re-check must be a no-op, got %+v", second)
	}

	row, err := repo.Get(ctx, nil, userID, "workaholic")
	if err != nil || row == nil {
		t.Fatalf("expected stored row, got %v, %v", row, err)
	}
	if !row.EarnedAt.Equal(*first.EarnedAt) {
		t.Fatalf("earned_at moved from %v to %v", first.EarnedAt, row.EarnedAt)
	}
}

func TestCheckUnknownAchievement(t *testing.T) {
	svc, _, _ := newEngine(&fakeStats{})

	if _, err := svc.Check(context.Background(), uuid.New(), "time_traveler"); !errors.Is(err, apperrors.ErrUnknownAchievement) {
		t.Fatalf("expected ErrUnknownAchievement, got %v", err)
	}
	if err := svc.MarkSeen(context.Background(), uuid.New(), []string{"time_traveler"}); !errors.Is(err, apperrors.ErrUnknownAchievement) {
		t.Fatalf("expected ErrUnknownAchievement from MarkSeen, got %v", err)
	}
}

func TestCheckAllSweep(t *testing.T) {
	// Saved runs clear two work-ethic tiers; everything else stays unearned.
	stats := &fakeStats{savedRuns: 150}
	svc, _, _ := newEngine(stats)

	results, err := svc.CheckAll(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != len(achievements.Catalog) {
		t.Fatalf("expected %d results, got %d", len(achievements.Catalog), len(results))
	}

	earned := map[string]bool{}
	for _, res := range results {
		if res.Earned {
			earned[res.AchievementID] = true
		}
	}
	if !earned["slow_and_steady"] || !earned["workaholic"] {
		t.Fatalf("expected both lower work-ethic tiers, got %v", earned)
	}
	if earned["obsessive_employee"] {
		t.Fatal("150 runs must not clear the 1000-run tier")
	}
	if len(earned) != 2 {
		t.Fatalf("unexpected extra badges: %v", earned)
	}
}

func TestCheckAllPartialFailure(t *testing.T) {
	stats := &fakeStats{savedRuns: 30, rankErr: errors.New("distribution query timeout")}
	svc, _, _ := newEngine(stats)

	results, err := svc.CheckAll(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected joined error from failing rank checks")
	}

	// The five mining-rank badges fail; the other eight still evaluate.
	if want := len(achievements.Catalog) - 5; len(results) != want {
		t.Fatalf("expected %d surviving results, got %d", want, len(results))
	}
	var sawWorkEthic bool
	for _, res := range results {
		if res.AchievementID == "slow_and_steady" && res.Earned {
			sawWorkEthic = true
		}
	}
	if !sawWorkEthic {
		t.Fatal("unaffected badges must still earn during a partial failure")
	}
}

func TestListAndMarkSeen(t *testing.T) {
	stats := &fakeStats{savedRuns: 30, views: 20, likes: 0}
	svc, _, _ := newEngine(stats)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.CheckAll(ctx, userID); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	statuses, unseen, err := svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(statuses) != len(achievements.Catalog) {
		t.Fatalf("list must cover the whole catalog, got %d", len(statuses))
	}
	// slow_and_steady plus both taste badges.
	if unseen != 3 {
		t.Fatalf("expected 3 unseen badges, got %d", unseen)
	}

	if err := svc.MarkSeen(ctx, userID, []string{"slow_and_steady"}); err != nil {
		t.Fatalf("mark seen: %v", err)
	}
	_, unseen, err = svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list after mark: %v", err)
	}
	if unseen != 2 {
		t.Fatalf("expected 2 unseen after ack, got %d", unseen)
	}

	// Empty id list acknowledges everything.
	if err := svc.MarkSeen(ctx, userID, nil); err != nil {
		t.Fatalf("mark all seen: %v", err)
	}
	_, unseen, err = svc.List(ctx, userID)
	if err != nil {
		t.Fatalf("final list: %v", err)
	}
	if unseen != 0 {
		t.Fatalf("expected 0 unseen, got %d", unseen)
	}
}
