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

// ClaimResult reports the outcome of a claim attempt. Discovery always points
// at the authoritative row: the caller's own claim when IsNewDiscovery is
// true, the earlier winner's otherwise.
type ClaimResult struct {
	Discovery      *types.Discovery
	IsNewDiscovery bool
}

// DiscoveryDetail is a discovery joined with the miner's public profile.
type DiscoveryDetail struct {
	Discovery        *types.Discovery `json:"discovery"`
	MinerName        string           `json:"miner_name"`
	MinerAvatarColor string           `json:"miner_avatar_color"`
}

// ClaimService arbitrates first-discovery attribution. There is exactly one
// winner per fingerprint, decided by the discovery table's primary key; the
// service itself holds no locks and keeps no state.
type ClaimService interface {
	// Claim runs inside the caller's transaction when tx is non-nil, so an
	// entity insert and its claim commit or roll back together.
	Claim(ctx context.Context, tx *gorm.DB, d *types.Discovery) (*ClaimResult, error)
	// Find returns the claim for a fingerprint with the miner's profile
	// attached, or apperrors.ErrNotFound when nothing was claimed.
	Find(ctx context.Context, fingerprint string) (*DiscoveryDetail, error)
}

type claimService struct {
	log           *logger.Logger
	discoveryRepo repos.DiscoveryRepo
	userRepo      repos.UserRepo
}

func NewClaimService(log *logger.Logger, discoveryRepo repos.DiscoveryRepo, userRepo repos.UserRepo) ClaimService {
	return &claimService{
		log:           log.With("service", "ClaimService"),
		discoveryRepo: discoveryRepo,
		userRepo:      userRepo,
	}
}

func (cs *claimService) Claim(ctx context.Context, tx *gorm.DB, d *types.Discovery) (*ClaimResult, error) {
	if d == nil || d.Fingerprint == "" {
		return nil, fmt.Errorf("claim: %w: empty fingerprint", apperrors.ErrInvalidArgument)
	}
	if d.DiscoveredByUserID == uuid.Nil {
		return nil, fmt.Errorf("claim: %w: missing user", apperrors.ErrInvalidArgument)
	}

	winner, created, err := cs.discoveryRepo.InsertIfAbsent(ctx, tx, d)
	if err != nil {
		return nil, fmt.Errorf("insert discovery: %w", err)
	}
	if created {
		cs.log.Info("new discovery claimed",
			"fingerprint", winner.Fingerprint,
			"entity_kind", winner.EntityKind,
			"user_id", winner.DiscoveredByUserID.String())
	}
	return &ClaimResult{Discovery: winner, IsNewDiscovery: created}, nil
}

func (cs *claimService) Find(ctx context.Context, fingerprint string) (*DiscoveryDetail, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("find discovery: %w: empty fingerprint", apperrors.ErrInvalidArgument)
	}

	d, err := cs.discoveryRepo.GetByFingerprint(ctx, nil, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("get discovery: %w", err)
	}
	if d == nil {
		return nil, apperrors.ErrNotFound
	}

	detail := &DiscoveryDetail{Discovery: d}
	miners, err := cs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{d.DiscoveredByUserID})
	if err != nil {
		return nil, fmt.Errorf("load miner: %w", err)
	}
	if len(miners) > 0 {
		detail.MinerName = miners[0].DisplayName
		detail.MinerAvatarColor = miners[0].AvatarColor
	}
	return detail, nil
}
