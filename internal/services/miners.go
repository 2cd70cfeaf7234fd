package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/rulemine/rulemine-backend/internal/data/repos"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

const (
	defaultLeaderboardSize = 20
	maxLeaderboardSize     = 100
)

// MinerRank is one leaderboard row.
type MinerRank struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarColor string    `json:"avatar_color"`
	ClaimCount  int64     `json:"claim_count"`
}

// MinerService ranks users by total discovery claims.
type MinerService interface {
	Leaderboard(ctx context.Context, limit int) ([]MinerRank, error)
}

type minerService struct {
	log           *logger.Logger
	discoveryRepo repos.DiscoveryRepo
	userRepo      repos.UserRepo
}

func NewMinerService(log *logger.Logger, discoveryRepo repos.DiscoveryRepo, userRepo repos.UserRepo) MinerService {
	return &minerService{
		log:           log.With("service", "MinerService"),
		discoveryRepo: discoveryRepo,
		userRepo:      userRepo,
	}
}

func (ms *minerService) Leaderboard(ctx context.Context, limit int) ([]MinerRank, error) {
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	counts, err := ms.discoveryRepo.ClaimCountsPerUser(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("claim distribution: %w", err)
	}

	// Ties break on user id so pagination over repeated calls is stable.
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].UserID.String() < counts[j].UserID.String()
	})
	if len(counts) > limit {
		counts = counts[:limit]
	}

	ids := make([]uuid.UUID, 0, len(counts))
	for _, row := range counts {
		ids = append(ids, row.UserID)
	}
	users, err := ms.userRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("load miners: %w", err)
	}
	profiles := make(map[uuid.UUID]struct{ name, color string }, len(users))
	for _, u := range users {
		profiles[u.ID] = struct{ name, color string }{u.DisplayName, u.AvatarColor}
	}

	ranks := make([]MinerRank, 0, len(counts))
	for _, row := range counts {
		rank := MinerRank{UserID: row.UserID, ClaimCount: row.Count}
		if p, ok := profiles[row.UserID]; ok {
			rank.DisplayName = p.name
			rank.AvatarColor = p.color
		}
		ranks = append(ranks, rank)
	}
	return ranks, nil
}
