package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rulemine/rulemine-backend/internal/pkg/ctxutil"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type SocialHandler struct {
	log       *logger.Logger
	socialSvc services.SocialService
}

func NewSocialHandler(log *logger.Logger, socialSvc services.SocialService) *SocialHandler {
	return &SocialHandler{
		log:       log.With("handler", "SocialHandler"),
		socialSvc: socialSvc,
	}
}

type socialAction func(ctx *gin.Context, userID, entityID uuid.UUID) (bool, error)

func (h *SocialHandler) handle(c *gin.Context, field string, action socialAction) {
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondServiceError(c, fmt.Errorf("%w: bad entity id", apperrors.ErrInvalidArgument))
		return
	}
	userID := ctxutil.UserID(c.Request.Context())
	changed, err := action(c, userID, entityID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{field: changed})
}

// POST /api/generation-runs/:id/like
func (h *SocialHandler) LikeRun(c *gin.Context) {
	h.handle(c, "liked", func(c *gin.Context, userID, id uuid.UUID) (bool, error) {
		return h.socialSvc.LikeRun(c.Request.Context(), userID, id)
	})
}

// DELETE /api/generation-runs/:id/like
func (h *SocialHandler) UnlikeRun(c *gin.Context) {
	h.handle(c, "unliked", func(c *gin.Context, userID, id uuid.UUID) (bool, error) {
		return h.socialSvc.UnlikeRun(c.Request.Context(), userID, id)
	})
}

// POST /api/generation-runs/:id/bookmark
func (h *SocialHandler) BookmarkRun(c *gin.Context) {
	h.handle(c, "bookmarked", func(c *gin.Context, userID, id uuid.UUID) (bool, error) {
		return h.socialSvc.BookmarkRun(c.Request.Context(), userID, id)
	})
}

// DELETE /api/generation-runs/:id/bookmark
func (h *SocialHandler) UnbookmarkRun(c *gin.Context) {
	h.handle(c, "unbookmarked", func(c *gin.Context, userID, id uuid.UUID) (bool, error) {
		return h.socialSvc.UnbookmarkRun(c.Request.Context(), userID, id)
	})
}

// POST /api/cell-populations/:id/like
func (h *SocialHandler) LikePopulation(c *gin.Context) {
	h.handle(c, "liked", func(c *gin.Context, userID, id uuid.UUID) (bool, error) {
		return h.socialSvc.LikePopulation(c.Request.Context(), userID, id)
	})
}

// DELETE /api/cell-populations/:id/like
func (h *SocialHandler) UnlikePopulation(c *gin.Context) {
	h.handle(c, "unliked", func(c *gin.Context, userID, id uuid.UUID) (bool, error) {
		return h.socialSvc.UnlikePopulation(c.Request.Context(), userID, id)
	})
}

// POST /api/cell-populations/:id/bookmark
func (h *SocialHandler) BookmarkPopulation(c *gin.Context) {
	h.handle(c, "bookmarked", func(c *gin.Context, userID, id uuid.UUID) (bool, error) {
		return h.socialSvc.BookmarkPopulation(c.Request.Context(), userID, id)
	})
}

// DELETE /api/cell-populations/:id/bookmark
func (h *SocialHandler) UnbookmarkPopulation(c *gin.Context) {
	h.handle(c, "unbookmarked", func(c *gin.Context, userID, id uuid.UUID) (bool, error) {
		return h.socialSvc.UnbookmarkPopulation(c.Request.Context(), userID, id)
	})
}
