package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/freestyle/internal/advice"
	"github.com/jackzampolin/freestyle/internal/auth"
	"github.com/jackzampolin/freestyle/internal/catalog"
	"github.com/jackzampolin/freestyle/internal/store"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", &catalog.ValidationError{Msg: "label is required"}, http.StatusBadRequest, "label is required"},
		{"bad login", fmt.Errorf("lookup: %w", auth.ErrInvalidLogin), http.StatusUnauthorized, "invalid email or password"},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"not found", store.ErrNotFound, http.StatusNotFound, "not found"},
		{"advice not configured", advice.ErrNotConfigured, http.StatusServiceUnavailable, advice.ErrNotConfigured.Error()},
		{"upstream failure keeps its message", &advice.UpstreamError{Err: errors.New("quota exceeded")}, http.StatusInternalServerError, "quota exceeded"},
		{"internal error is hidden", fmt.Errorf("aggregate prompts: %w", errors.New("no such table: prompts")), http.StatusInternalServerError, internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			writeServiceError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}
