package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{InvalidInput("bad"), http.StatusBadRequest},
		{Unauthenticated("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{NotFound("gone"), http.StatusNotFound},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.Status(), tt.err.Message)
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("context: %w", NotFound("Post not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindServer, KindOf(errors.New("plain")))
}

func TestRespondErrorMasksUnknownErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		err     error
		status  int
		message string
		fields  []string
	}{
		{"validation", InvalidInput("Validation failed", "title: is required"), http.StatusBadRequest, "Validation failed", []string{"title: is required"}},
		{"plain error", errors.New("pq: connection refused"), http.StatusInternalServerError, "Internal server error", nil},
		{"forbidden", Forbidden("nope"), http.StatusForbidden, "nope", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/x", nil)

			RespondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.fields, body.Errors)
		})
	}
}
