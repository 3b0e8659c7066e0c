package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	sentinel := stderrors.New("db down")

	appErr := FromError(fmt.Errorf("lookup: %w", sentinel))
	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.NotContains(t, appErr.Message, "db down")
	assert.True(t, stderrors.Is(appErr, sentinel))

	nf := NewNotFoundError(CodeCompanyNotFound, "company not found")
	assert.Same(t, nf, FromError(fmt.Errorf("wrapped: %w", nf)))
	assert.True(t, Is(fmt.Errorf("wrapped: %w", nf), &AppError{Code: CodeCompanyNotFound}))

	assert.Nil(t, FromError(nil))
}

func TestErrorHandlerRendersEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/bad", func(c *gin.Context) {
		_ = c.Error(BadRequestWithDetails(CodeEmptyMessage, "message is required", map[string]string{"field": "message"}))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(stderrors.New("unexpected"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeEmptyMessage, body.Error.Code)
	assert.Equal(t, "message", body.Error.Details["field"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), CodeInternal)
}

func TestRecoveryWithLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RecoveryWithLogger())
	r.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "SERVER_ERROR")
}
