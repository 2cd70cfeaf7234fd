package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error    APIError       `json:"error"`
	Existing map[string]any `json:"existing,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps service errors onto HTTP statuses. A duplicate
// configuration is a 409 carrying a pointer at the entity that owns the
// fingerprint, so clients can link to the original instead of retrying.
func RespondServiceError(c *gin.Context, err error) {
	if dup, ok := apperrors.AsDuplicateConfiguration(err); ok {
		c.JSON(http.StatusConflict, ErrorEnvelope{
			Error: APIError{
				Message: dup.Error(),
				Code:    "duplicate_configuration",
			},
			Existing: map[string]any{
				"entity_kind": dup.EntityKind,
				"entity_id":   dup.EntityID,
				"fingerprint": dup.Fingerprint,
				"title":       dup.Title,
			},
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrUnknownAchievement):
		RespondError(c, http.StatusBadRequest, "unknown_achievement", err)
	case errors.Is(err, apperrors.ErrInvalidArgument):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, apperrors.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, apperrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
