package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/rulemine/rulemine-backend/internal/handlers"
	"github.com/rulemine/rulemine-backend/internal/middleware"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log                *logger.Logger
	AllowedOrigins     []string
	AuthHandler        *handlers.AuthHandler
	AuthMiddleware     *middleware.AuthMiddleware
	RunHandler         *handlers.RunHandler
	PopulationHandler  *handlers.PopulationHandler
	DiscoveryHandler   *handlers.DiscoveryHandler
	ViewHandler        *handlers.ViewHandler
	AchievementHandler *handlers.AchievementHandler
	SocialHandler      *handlers.SocialHandler
	MinerHandler       *handlers.MinerHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("rulemine"))
	router.Use(middleware.RequestLog(cfg.Log))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthz", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
		api.GET("/generation-runs", cfg.RunHandler.ListRuns)
		api.GET("/generation-runs/:id", cfg.RunHandler.GetRun)
		api.GET("/cell-populations/:id", cfg.PopulationHandler.GetPopulation)
		api.GET("/discovery", cfg.DiscoveryHandler.GetDiscoveryByConfig)
		api.GET("/discovery/:fingerprint", cfg.DiscoveryHandler.GetDiscovery)
		api.GET("/miners", cfg.MinerHandler.Leaderboard)
	}

	// Protected
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/generation-runs", cfg.RunHandler.CreateRun)
		protected.DELETE("/generation-runs/:id", cfg.RunHandler.DeleteRun)
		protected.POST("/generation-runs/:id/like", cfg.SocialHandler.LikeRun)
		protected.DELETE("/generation-runs/:id/like", cfg.SocialHandler.UnlikeRun)
		protected.POST("/generation-runs/:id/bookmark", cfg.SocialHandler.BookmarkRun)
		protected.DELETE("/generation-runs/:id/bookmark", cfg.SocialHandler.UnbookmarkRun)

		protected.POST("/cell-populations", cfg.PopulationHandler.CreatePopulation)
		protected.POST("/cell-populations/:id/like", cfg.SocialHandler.LikePopulation)
		protected.DELETE("/cell-populations/:id/like", cfg.SocialHandler.UnlikePopulation)
		protected.POST("/cell-populations/:id/bookmark", cfg.SocialHandler.BookmarkPopulation)
		protected.DELETE("/cell-populations/:id/bookmark", cfg.SocialHandler.UnbookmarkPopulation)

		protected.POST("/generation-views", cfg.ViewHandler.RecordView)

		protected.GET("/achievements", cfg.AchievementHandler.List)
		protected.POST("/achievements/check", cfg.AchievementHandler.CheckAll)
		protected.POST("/achievements/check/:id", cfg.AchievementHandler.Check)
		protected.POST("/achievements/seen", cfg.AchievementHandler.MarkSeen)
	}

	return router
}
