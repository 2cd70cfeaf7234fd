package app

import (
	"github.com/rulemine/rulemine-backend/internal/handlers"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	Run         *handlers.RunHandler
	Population  *handlers.PopulationHandler
	Discovery   *handlers.DiscoveryHandler
	View        *handlers.ViewHandler
	Achievement *handlers.AchievementHandler
	Social      *handlers.SocialHandler
	Miner       *handlers.MinerHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	return Handlers{
		Auth:        handlers.NewAuthHandler(log, serviceset.Auth),
		Run:         handlers.NewRunHandler(log, serviceset.Save),
		Population:  handlers.NewPopulationHandler(log, serviceset.Save),
		Discovery:   handlers.NewDiscoveryHandler(log, serviceset.Claim),
		View:        handlers.NewViewHandler(log, serviceset.Save),
		Achievement: handlers.NewAchievementHandler(log, serviceset.Achievement),
		Social:      handlers.NewSocialHandler(log, serviceset.Social),
		Miner:       handlers.NewMinerHandler(log, serviceset.Miner),
	}
}
