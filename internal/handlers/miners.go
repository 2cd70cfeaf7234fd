package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type MinerHandler struct {
	log      *logger.Logger
	minerSvc services.MinerService
}

func NewMinerHandler(log *logger.Logger, minerSvc services.MinerService) *MinerHandler {
	return &MinerHandler{
		log:      log.With("handler", "MinerHandler"),
		minerSvc: minerSvc,
	}
}

// GET /api/miners
// Leaderboard by claim count.
func (h *MinerHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	ranks, err := h.minerSvc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"miners": ranks})
}
