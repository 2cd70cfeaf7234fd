package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/rulemine/rulemine-backend/internal/pkg/errors"
)

func TestRespondServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("get run: %w", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"invalid argument", fmt.Errorf("%w: dimension", apperrors.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"unknown achievement", fmt.Errorf("%w: time_traveler", apperrors.ErrUnknownAchievement), http.StatusBadRequest, "unknown_achievement"},
		{"plain failure", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			RespondServiceError(c, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var envelope ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if envelope.Error.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", envelope.Error.Code, tc.wantCode)
			}
		})
	}
}

func TestRespondServiceErrorDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	entityID := uuid.New()
	dup := &apperrors.DuplicateConfigurationError{
		Fingerprint: "a1b2c3d4e5f60718",
		EntityKind:  "generation_run",
		EntityID:    entityID,
		Title:       "Rule 30 triangle",
	}
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondServiceError(c, fmt.Errorf("save run: %w", dup))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	var envelope ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Code != "duplicate_configuration" {
		t.Fatalf("code = %q", envelope.Error.Code)
	}
	if envelope.Existing["entity_id"] != entityID.String() {
		t.Fatalf("existing entity = %v, want %s", envelope.Existing["entity_id"], entityID)
	}
	if envelope.Existing["title"] != "Rule 30 triangle" {
		t.Fatalf("existing title = %v", envelope.Existing["title"])
	}
}
