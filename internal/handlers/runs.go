package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/rulemine/rulemine-backend/internal/data/repos"
	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/ctxutil"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type RunHandler struct {
	log     *logger.Logger
	saveSvc services.SaveService
}

func NewRunHandler(log *logger.Logger, saveSvc services.SaveService) *RunHandler {
	return &RunHandler{
		log:     log.With("handler", "RunHandler"),
		saveSvc: saveSvc,
	}
}

type createRunRequest struct {
	Dimension          int             `json:"dimension"`
	RuleFamily         string          `json:"rule_family"`
	RuleDefinition     string          `json:"rule_definition"`
	NeighborhoodRadius int             `json:"neighborhood_radius"`
	LatticeType        *string         `json:"lattice_type"`
	PopulationShape    datatypes.JSON  `json:"population_shape"`
	CellStates         datatypes.JSON  `json:"cell_states"`
	SeedPopulation     []byte          `json:"seed_population"`
	GenerationIndex    int             `json:"generation_index"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
}

// POST /api/generation-runs
func (h *RunHandler) CreateRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	run := &types.GenerationRun{
		UserID:             ctxutil.UserID(c.Request.Context()),
		Dimension:          req.Dimension,
		RuleFamily:         req.RuleFamily,
		RuleDefinition:     req.RuleDefinition,
		NeighborhoodRadius: req.NeighborhoodRadius,
		LatticeType:        req.LatticeType,
		PopulationShape:    req.PopulationShape,
		CellStates:         req.CellStates,
		SeedPopulation:     req.SeedPopulation,
		GenerationIndex:    req.GenerationIndex,
		Title:              req.Title,
		Description:        req.Description,
	}
	result, err := h.saveSvc.SaveRun(c.Request.Context(), run)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GET /api/generation-runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondServiceError(c, fmt.Errorf("%w: bad run id", apperrors.ErrInvalidArgument))
		return
	}
	detail, err := h.saveSvc.GetRun(c.Request.Context(), id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}

// GET /api/generation-runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	dimension, _ := strconv.Atoi(c.Query("dimension"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	params := repos.ListParams{
		Dimension:  dimension,
		RuleFamily: c.Query("rule_family"),
		Sort:       c.Query("sort"),
		Cursor:     c.Query("cursor"),
		Limit:      limit,
	}
	runs, err := h.saveSvc.ListRuns(c.Request.Context(), params)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"runs": runs})
}

// DELETE /api/generation-runs/:id
func (h *RunHandler) DeleteRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondServiceError(c, fmt.Errorf("%w: bad run id", apperrors.ErrInvalidArgument))
		return
	}
	if err := h.saveSvc.DeleteRun(c.Request.Context(), ctxutil.UserID(c.Request.Context()), id); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
