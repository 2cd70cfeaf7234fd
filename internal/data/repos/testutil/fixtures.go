package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/fingerprint"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    "pw",
		DisplayName: "Miner",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedRun saves a distinct wolfram run for the user; ruleDefinition varies the
// fingerprint so repeated calls never collide.
func SeedRun(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, ruleDefinition string) *types.GenerationRun {
	tb.Helper()
	run := &types.GenerationRun{
		ID:                 uuid.New(),
		UserID:             userID,
		Dimension:          1,
		RuleFamily:         types.RuleFamilyWolfram,
		RuleDefinition:     ruleDefinition,
		NeighborhoodRadius: 1,
		Fingerprint: fingerprint.Run(fingerprint.RunConfig{
			Dimension:          1,
			RuleFamily:         types.RuleFamilyWolfram,
			RuleDefinition:     ruleDefinition,
			NeighborhoodRadius: 1,
		}),
	}
	if err := tx.WithContext(ctx).Create(run).Error; err != nil {
		tb.Fatalf("seed run: %v", err)
	}
	return run
}

func SeedDiscovery(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, fp string, at time.Time) *types.Discovery {
	tb.Helper()
	d := &types.Discovery{
		Fingerprint:        fp,
		EntityKind:         types.EntityKindGenerationRun,
		EntityID:           uuid.New(),
		DiscoveredByUserID: userID,
		DiscoveredAt:       at,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed discovery: %v", err)
	}
	return d
}

// SeedDiscoveries creates n discoveries for the user at the given timestamp.
func SeedDiscoveries(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, n int, at time.Time) {
	tb.Helper()
	for i := 0; i < n; i++ {
		SeedDiscovery(tb, ctx, tx, userID, fmt.Sprintf("%s-%d", uuid.NewString()[:11], i), at)
	}
}

func SeedView(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, ruleDefinition string, at time.Time) *types.GenerationView {
	tb.Helper()
	v := &types.GenerationView{
		ID:                 uuid.New(),
		UserID:             userID,
		Dimension:          1,
		RuleDefinition:     ruleDefinition,
		NeighborhoodRadius: 1,
		ViewedAt:           at,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed view: %v", err)
	}
	return v
}

// SeedViews creates n distinct views for the user at the given timestamp.
func SeedViews(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, n int, at time.Time) {
	tb.Helper()
	for i := 0; i < n; i++ {
		SeedView(tb, ctx, tx, userID, fmt.Sprintf("rule-%s-%d", uuid.NewString()[:8], i), at)
	}
}
