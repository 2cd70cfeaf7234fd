package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rulemine/rulemine-backend/internal/pkg/ctxutil"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type AchievementHandler struct {
	log            *logger.Logger
	achievementSvc services.AchievementService
}

func NewAchievementHandler(log *logger.Logger, achievementSvc services.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		log:            log.With("handler", "AchievementHandler"),
		achievementSvc: achievementSvc,
	}
}

// GET /api/achievements
// The full catalog with the caller's earned state and unseen count.
func (h *AchievementHandler) List(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	statuses, unseen, err := h.achievementSvc.List(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"achievements": statuses,
		"unseen_count": unseen,
	})
}

// POST /api/achievements/check/:id
func (h *AchievementHandler) Check(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	result, err := h.achievementSvc.Check(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

// POST /api/achievements/check
// Sweep the whole catalog. Partial failures still return the badges that
// evaluated; the skipped ones are reported alongside.
func (h *AchievementHandler) CheckAll(c *gin.Context) {
	userID := ctxutil.UserID(c.Request.Context())
	results, err := h.achievementSvc.CheckAll(c.Request.Context(), userID)
	if err != nil {
		if len(results) == 0 {
			RespondServiceError(c, err)
			return
		}
		h.log.Warn("partial achievement sweep", "user_id", userID.String(), "error", err)
		c.JSON(http.StatusOK, gin.H{
			"results": results,
			"partial": true,
		})
		return
	}
	RespondOK(c, gin.H{"results": results})
}

type markSeenRequest struct {
	AchievementIDs []string `json:"achievement_ids"`
}

// POST /api/achievements/seen
func (h *AchievementHandler) MarkSeen(c *gin.Context) {
	var req markSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	if err := h.achievementSvc.MarkSeen(c.Request.Context(), userID, req.AchievementIDs); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
