package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rulemine/rulemine-backend/internal/data/repos"
	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		panic(err)
	}
	return log
}

// fakeStats satisfies StatsProvider with fixed values so engine transitions
// can be driven directly. Err, when set, fails every method.
type fakeStats struct {
	mu sync.Mutex

	views     int64
	likes     int64
	claims    int64
	savedRuns int64
	rank      float64
	weekly    ClaimRatio

	err     error
	rankErr error
}

func (fs *fakeStats) ViewCount(context.Context, uuid.UUID) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.views, fs.err
}

func (fs *fakeStats) LikeCount(context.Context, uuid.UUID) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.likes, fs.err
}

func (fs *fakeStats) LikeRatio(context.Context, uuid.UUID) (float64, int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.err != nil {
		return 0, 0, fs.err
	}
	if fs.views == 0 {
		return 0, 0, nil
	}
	return float64(fs.likes) / float64(fs.views), fs.views, nil
}

func (fs *fakeStats) ClaimCount(context.Context, uuid.UUID) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.claims, fs.err
}

func (fs *fakeStats) SavedRunCount(context.Context, uuid.UUID) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.savedRuns, fs.err
}

func (fs *fakeStats) ClaimPercentileRank(context.Context, uuid.UUID) (float64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.rankErr != nil {
		return 0, fs.rankErr
	}
	return fs.rank, fs.err
}

func (fs *fakeStats) TrailingWeekClaimRatio(context.Context, uuid.UUID) (ClaimRatio, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.weekly, fs.err
}

type earnedKey struct {
	userID        uuid.UUID
	achievementID string
}

// fakeAchievementRepo is an in-memory AchievementRepo. Safe for the
// concurrent sweep.
type fakeAchievementRepo struct {
	mu   sync.Mutex
	rows map[earnedKey]*types.UserAchievement
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{rows: map[earnedKey]*types.UserAchievement{}}
}

func (fr *fakeAchievementRepo) GetForUser(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var out []*types.UserAchievement
	for key, row := range fr.rows {
		if key.userID == userID {
			copied := *row
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (fr *fakeAchievementRepo) Get(_ context.Context, _ *gorm.DB, userID uuid.UUID, achievementID string) (*types.UserAchievement, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	row, ok := fr.rows[earnedKey{userID, achievementID}]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (fr *fakeAchievementRepo) Earn(_ context.Context, _ *gorm.DB, userID uuid.UUID, achievementID string, earnedAt time.Time) (bool, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	key := earnedKey{userID, achievementID}
	if _, ok := fr.rows[key]; ok {
		return false, nil
	}
	fr.rows[key] = &types.UserAchievement{
		ID:            uuid.New(),
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      earnedAt,
	}
	return true, nil
}

func (fr *fakeAchievementRepo) Revoke(_ context.Context, _ *gorm.DB, userID uuid.UUID, achievementID string) (bool, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	key := earnedKey{userID, achievementID}
	if _, ok := fr.rows[key]; !ok {
		return false, nil
	}
	delete(fr.rows, key)
	return true, nil
}

func (fr *fakeAchievementRepo) MarkSeen(_ context.Context, _ *gorm.DB, userID uuid.UUID, achievementIDs []string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	for _, id := range achievementIDs {
		if row, ok := fr.rows[earnedKey{userID, id}]; ok {
			row.Seen = true
		}
	}
	return nil
}

var _ repos.AchievementRepo = (*fakeAchievementRepo)(nil)

// recordingNotifier captures emitted events in order.
type recordingNotifier struct {
	mu      sync.Mutex
	earned  []string
	revoked []string
	claimed []string
}

func (rn *recordingNotifier) AchievementEarned(_ uuid.UUID, achievementID string) {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.earned = append(rn.earned, achievementID)
}

func (rn *recordingNotifier) AchievementRevoked(_ uuid.UUID, achievementID string) {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.revoked = append(rn.revoked, achievementID)
}

func (rn *recordingNotifier) DiscoveryClaimed(d *types.Discovery) {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	rn.claimed = append(rn.claimed, d.Fingerprint)
}

func (rn *recordingNotifier) Close() error { return nil }

func (rn *recordingNotifier) earnedIDs() []string {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	return append([]string(nil), rn.earned...)
}

func (rn *recordingNotifier) revokedIDs() []string {
	rn.mu.Lock()
	defer rn.mu.Unlock()
	return append([]string(nil), rn.revoked...)
}

// fakeDiscoveryRepo is an in-memory DiscoveryRepo keyed by fingerprint.
type fakeDiscoveryRepo struct {
	mu   sync.Mutex
	rows map[string]*types.Discovery
}

func newFakeDiscoveryRepo() *fakeDiscoveryRepo {
	return &fakeDiscoveryRepo{rows: map[string]*types.Discovery{}}
}

func (fr *fakeDiscoveryRepo) InsertIfAbsent(_ context.Context, _ *gorm.DB, d *types.Discovery) (*types.Discovery, bool, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if existing, ok := fr.rows[d.Fingerprint]; ok {
		copied := *existing
		return &copied, false, nil
	}
	copied := *d
	fr.rows[d.Fingerprint] = &copied
	return d, true, nil
}

func (fr *fakeDiscoveryRepo) GetByFingerprint(_ context.Context, _ *gorm.DB, fp string) (*types.Discovery, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	row, ok := fr.rows[fp]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (fr *fakeDiscoveryRepo) ClaimCount(_ context.Context, _ *gorm.DB, userID uuid.UUID) (int64, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var count int64
	for _, row := range fr.rows {
		if row.DiscoveredByUserID == userID {
			count++
		}
	}
	return count, nil
}

func (fr *fakeDiscoveryRepo) ClaimCountSince(_ context.Context, _ *gorm.DB, userID uuid.UUID, since time.Time) (int64, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var count int64
	for _, row := range fr.rows {
		if row.DiscoveredByUserID == userID && !row.DiscoveredAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (fr *fakeDiscoveryRepo) ClaimCountsPerUser(_ context.Context, _ *gorm.DB) ([]repos.UserClaimCount, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	counts := map[uuid.UUID]int64{}
	for _, row := range fr.rows {
		counts[row.DiscoveredByUserID]++
	}
	out := make([]repos.UserClaimCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, repos.UserClaimCount{UserID: id, Count: n})
	}
	return out, nil
}

var _ repos.DiscoveryRepo = (*fakeDiscoveryRepo)(nil)

// fakeUserRepo holds user profiles for lookups.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*types.User{}}
}

func (fr *fakeUserRepo) Create(_ context.Context, _ *gorm.DB, users []*types.User) ([]*types.User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	for _, u := range users {
		copied := *u
		fr.users[u.ID] = &copied
	}
	return users, nil
}

func (fr *fakeUserRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var out []*types.User
	for _, id := range ids {
		if u, ok := fr.users[id]; ok {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (fr *fakeUserRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*types.User, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	for _, u := range fr.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (fr *fakeUserRepo) EmailExists(_ context.Context, _ *gorm.DB, email string) (bool, error) {
	u, _ := fr.GetByEmail(context.Background(), nil, email)
	return u != nil, nil
}

func (fr *fakeUserRepo) UpdateDisplayName(_ context.Context, _ *gorm.DB, userID uuid.UUID, displayName string) error {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if u, ok := fr.users[userID]; ok {
		u.DisplayName = displayName
	}
	return nil
}

var _ repos.UserRepo = (*fakeUserRepo)(nil)
