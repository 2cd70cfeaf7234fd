package app

import (
	"gorm.io/gorm"

	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type Services struct {
	Notifier    services.Notifier
	Auth        services.AuthService
	Stats       services.StatsProvider
	Claim       services.ClaimService
	Save        services.SaveService
	Social      services.SocialService
	Achievement services.AchievementService
	Miner       services.MinerService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	notifier, err := services.NewRedisNotifier(log)
	if err != nil {
		log.Warn("redis notifier unavailable, events disabled", "error", err)
		notifier = services.NewNoopNotifier()
	}

	authSvc := services.NewAuthService(log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL)
	statsSvc := services.NewStatsService(log, reposet.Run, reposet.Like, reposet.View, reposet.Discovery)
	claimSvc := services.NewClaimService(log, reposet.Discovery, reposet.User)
	saveSvc := services.NewSaveService(db, log, reposet.Run, reposet.Population, reposet.View, reposet.Discovery, reposet.User, claimSvc, notifier)
	socialSvc := services.NewSocialService(db, log, reposet.Run, reposet.Population, reposet.Like, reposet.Bookmark)
	achievementSvc := services.NewAchievementService(log, statsSvc, reposet.Achievement, notifier)
	minerSvc := services.NewMinerService(log, reposet.Discovery, reposet.User)

	return Services{
		Notifier:    notifier,
		Auth:        authSvc,
		Stats:       statsSvc,
		Claim:       claimSvc,
		Save:        saveSvc,
		Social:      socialSvc,
		Achievement: achievementSvc,
		Miner:       minerSvc,
	}
}
