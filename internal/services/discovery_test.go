package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
)

func TestClaimFirstWriterWins(t *testing.T) {
	disc := newFakeDiscoveryRepo()
	users := newFakeUserRepo()
	svc := NewClaimService(testLogger(), disc, users)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()

	res, err := svc.Claim(ctx, nil, &types.Discovery{
		Fingerprint:        "aabbccdd00112233",
		EntityKind:         types.EntityKindGenerationRun,
		EntityID:           uuid.New(),
		DiscoveredByUserID: first,
		DiscoveredAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if !res.IsNewDiscovery {
		t.Fatal("first claim must win")
	}

	res, err = svc.Claim(ctx, nil, &types.Discovery{
		Fingerprint:        "aabbccdd00112233",
		EntityKind:         types.EntityKindCellPopulation,
		EntityID:           uuid.New(),
		DiscoveredByUserID: second,
		DiscoveredAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if res.IsNewDiscovery {
		t.Fatal("second claim must lose")
	}
	if res.Discovery.DiscoveredByUserID != first {
		t.Fatalf("winner = %s, want %s", res.Discovery.DiscoveredByUserID, first)
	}
	if res.Discovery.EntityKind != types.EntityKindGenerationRun {
		t.Fatalf("winner entity kind overwritten: %s", res.Discovery.EntityKind)
	}
}

func TestClaimValidation(t *testing.T) {
	svc := NewClaimService(testLogger(), newFakeDiscoveryRepo(), newFakeUserRepo())
	ctx := context.Background()

	if _, err := svc.Claim(ctx, nil, &types.Discovery{DiscoveredByUserID: uuid.New()}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("empty fingerprint: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := svc.Claim(ctx, nil, &types.Discovery{Fingerprint: "ff00ff00ff00ff00"}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("missing user: expected ErrInvalidArgument, got %v", err)
	}
}

func TestFindAttachesMinerProfile(t *testing.T) {
	disc := newFakeDiscoveryRepo()
	users := newFakeUserRepo()
	svc := NewClaimService(testLogger(), disc, users)
	ctx := context.Background()

	miner := &types.User{
		ID:          uuid.New(),
		Email:       "miner@example.com",
		DisplayName: "First Miner",
		AvatarColor: "#2a9d8f",
	}
	if _, err := users.Create(ctx, nil, []*types.User{miner}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := svc.Claim(ctx, nil, &types.Discovery{
		Fingerprint:        "0123456789abcdef",
		EntityKind:         types.EntityKindGenerationRun,
		EntityID:           uuid.New(),
		DiscoveredByUserID: miner.ID,
		DiscoveredAt:       time.Now().UTC(),
	}); err != nil {
		t.Fatalf("claim: %v", err)
	}

	detail, err := svc.Find(ctx, "0123456789abcdef")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if detail.MinerName != "First Miner" || detail.MinerAvatarColor != "#2a9d8f" {
		t.Fatalf("miner profile not attached: %+v", detail)
	}

	if _, err := svc.Find(ctx, "ffffffffffffffff"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unclaimed fingerprint: expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	disc := newFakeDiscoveryRepo()
	users := newFakeUserRepo()
	svc := NewMinerService(testLogger(), disc, users)
	ctx := context.Background()

	heavy := &types.User{ID: uuid.New(), Email: "heavy@example.com", DisplayName: "Heavy"}
	light := &types.User{ID: uuid.New(), Email: "light@example.com", DisplayName: "Light"}
	if _, err := users.Create(ctx, nil, []*types.User{heavy, light}); err != nil {
		t.Fatalf("seed users: %v", err)
	}
	now := time.Now().UTC()
	seedClaims(disc, heavy.ID, 5, now)
	seedClaims(disc, light.ID, 2, now)

	ranks, err := svc.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(ranks) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(ranks))
	}
	if ranks[0].UserID != heavy.ID || ranks[0].ClaimCount != 5 {
		t.Fatalf("top row = %+v, want heavy with 5", ranks[0])
	}
	if ranks[0].DisplayName != "Heavy" {
		t.Fatalf("profile not joined: %+v", ranks[0])
	}
	if ranks[1].UserID != light.ID {
		t.Fatalf("second row = %+v, want light", ranks[1])
	}

	// The limit truncates after sorting.
	ranks, err = svc.Leaderboard(ctx, 1)
	if err != nil {
		t.Fatalf("truncated leaderboard: %v", err)
	}
	if len(ranks) != 1 || ranks[0].UserID != heavy.ID {
		t.Fatalf("truncation must keep the top row, got %+v", ranks)
	}
}
