package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rulemine/rulemine-backend/internal/fingerprint"
	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type DiscoveryHandler struct {
	log      *logger.Logger
	claimSvc services.ClaimService
}

func NewDiscoveryHandler(log *logger.Logger, claimSvc services.ClaimService) *DiscoveryHandler {
	return &DiscoveryHandler{
		log:      log.With("handler", "DiscoveryHandler"),
		claimSvc: claimSvc,
	}
}

// GET /api/discovery/:fingerprint
// Who mined this configuration first, if anyone.
func (h *DiscoveryHandler) GetDiscovery(c *gin.Context) {
	detail, err := h.claimSvc.Find(c.Request.Context(), c.Param("fingerprint"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}

// GET /api/discovery?d=&rt=&rd=&nr=&lt=
// Lookup by raw configuration; the fingerprint is derived server side so
// clients never need to reimplement the canonicalization.
func (h *DiscoveryHandler) GetDiscoveryByConfig(c *gin.Context) {
	dimension, err := strconv.Atoi(c.Query("d"))
	if err != nil || dimension < 1 {
		RespondServiceError(c, fmt.Errorf("%w: bad dimension", apperrors.ErrInvalidArgument))
		return
	}
	family := c.Query("rt")
	definition := c.Query("rd")
	if family == "" || definition == "" {
		RespondServiceError(c, fmt.Errorf("%w: missing rule family or definition", apperrors.ErrInvalidArgument))
		return
	}
	radius, _ := strconv.Atoi(c.Query("nr"))

	fp := fingerprint.Run(fingerprint.RunConfig{
		Dimension:          dimension,
		RuleFamily:         family,
		RuleDefinition:     definition,
		NeighborhoodRadius: radius,
		LatticeType:        c.Query("lt"),
	})
	detail, err := h.claimSvc.Find(c.Request.Context(), fp)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, detail)
}
