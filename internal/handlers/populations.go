package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/ctxutil"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type PopulationHandler struct {
	log     *logger.Logger
	saveSvc services.SaveService
}

func NewPopulationHandler(log *logger.Logger, saveSvc services.SaveService) *PopulationHandler {
	return &PopulationHandler{
		log:     log.With("handler", "PopulationHandler"),
		saveSvc: saveSvc,
	}
}

type createPopulationRequest struct {
	Dimension          int            `json:"dimension"`
	RuleFamily         string         `json:"rule_family"`
	RuleDefinition     string         `json:"rule_definition"`
	NeighborhoodRadius int            `json:"neighborhood_radius"`
	LatticeType        *string        `json:"lattice_type"`
	Stability          string         `json:"stability"`
	StablePeriod       *int           `json:"stable_period"`
	Cells              datatypes.JSON `json:"cells"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
}

// POST /api/cell-populations
func (h *PopulationHandler) CreatePopulation(c *gin.Context) {
	var req createPopulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	pop := &types.CellPopulation{
		UserID:             ctxutil.UserID(c.Request.Context()),
		Dimension:          req.Dimension,
		RuleFamily:         req.RuleFamily,
		RuleDefinition:     req.RuleDefinition,
		NeighborhoodRadius: req.NeighborhoodRadius,
		LatticeType:        req.LatticeType,
		Stability:          req.Stability,
		StablePeriod:       req.StablePeriod,
		Cells:              req.Cells,
		Title:              req.Title,
		Description:        req.Description,
	}
	result, err := h.saveSvc.SavePopulation(c.Request.Context(), pop)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GET /api/cell-populations/:id
func (h *PopulationHandler) GetPopulation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondServiceError(c, fmt.Errorf("%w: bad population id", apperrors.ErrInvalidArgument))
		return
	}
	detail, err := h.saveSvc.GetPopulation(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}
