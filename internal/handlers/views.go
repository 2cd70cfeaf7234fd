package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/ctxutil"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type ViewHandler struct {
	log     *logger.Logger
	saveSvc services.SaveService
}

func NewViewHandler(log *logger.Logger, saveSvc services.SaveService) *ViewHandler {
	return &ViewHandler{
		log:     log.With("handler", "ViewHandler"),
		saveSvc: saveSvc,
	}
}

type recordViewRequest struct {
	Dimension          int    `json:"dimension"`
	RuleDefinition     string `json:"rule_definition"`
	NeighborhoodRadius int    `json:"neighborhood_radius"`
	LatticeType        string `json:"lattice_type"`
}

// POST /api/generation-views
func (h *ViewHandler) RecordView(c *gin.Context) {
	var req recordViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	view := &types.GenerationView{
		UserID:             ctxutil.UserID(c.Request.Context()),
		Dimension:          req.Dimension,
		RuleDefinition:     req.RuleDefinition,
		NeighborhoodRadius: req.NeighborhoodRadius,
		LatticeType:        req.LatticeType,
	}
	if err := h.saveSvc.RecordView(c.Request.Context(), view); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
