package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apispec "etegie-bot/backend/api"
	"etegie-bot/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledSchemaLoads(t *testing.T) {
	_, err := NewOpenAPIValidatorFromData(apispec.Schema)
	require.NoError(t, err)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v, err := NewOpenAPIValidatorFromData(apispec.Schema)
	require.NoError(t, err)

	r := gin.New()
	r.Use(errors.ErrorHandler(), v.Middleware())
	r.POST("/api/chat", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/unlisted", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"valid chat", http.MethodPost, "/api/chat", `{"message":"hi","companyId":"acme"}`, http.StatusOK},
		{"wrong type", http.MethodPost, "/api/chat", `{"message":42}`, http.StatusBadRequest},
		{"not in schema", http.MethodGet, "/unlisted", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body != "" {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusBadRequest {
				assert.Contains(t, w.Body.String(), errors.CodeInvalidRequest)
			}
		})
	}
}

func TestInvalidSchema(t *testing.T) {
	_, err := NewOpenAPIValidatorFromData([]byte("openapi: 3.0.3\ninfo: {}\n"))
	assert.Error(t, err)
}
