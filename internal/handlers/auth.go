package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
	"github.com/rulemine/rulemine-backend/internal/services"
)

type AuthHandler struct {
	log     *logger.Logger
	authSvc services.AuthService
}

func NewAuthHandler(log *logger.Logger, authSvc services.AuthService) *AuthHandler {
	return &AuthHandler{
		log:     log.With("handler", "AuthHandler"),
		authSvc: authSvc,
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	user, token, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":         user,
		"access_token": token,
		"expires_in":   int(h.authSvc.AccessTTL().Seconds()),
	})
}

// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondServiceError(c, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	user, token, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"user":         user,
		"access_token": token,
		"expires_in":   int(h.authSvc.AccessTTL().Seconds()),
	})
}
