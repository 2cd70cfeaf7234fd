package app

import (
	"github.com/gin-gonic/gin"

	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:                log,
		AllowedOrigins:     cfg.AllowedOrigins,
		AuthHandler:        handlerset.Auth,
		AuthMiddleware:     middlewareset.Auth,
		RunHandler:         handlerset.Run,
		PopulationHandler:  handlerset.Population,
		DiscoveryHandler:   handlerset.Discovery,
		ViewHandler:        handlerset.View,
		AchievementHandler: handlerset.Achievement,
		SocialHandler:      handlerset.Social,
		MinerHandler:       handlerset.Miner,
	})
}
