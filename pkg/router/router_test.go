package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"etegie-bot/backend/pkg/config"
	"etegie-bot/backend/pkg/di"
	"etegie-bot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("REDIS_URL", "")
	t.Setenv("VAULT_ENABLED", "false")
	t.Setenv("RESPONDER_MODE", "hosted")
	t.Setenv("KNOWLEDGE_BASE_PATH", "")
	t.Setenv("JWT_SECRET", "router-test-secret")
	t.Setenv("RATE_LIMIT", "1000")
	t.Setenv("RATE_LIMIT_BURST", "1000")
	t.Setenv("OPENAPI_SCHEMA_PATH", "")

	cfg := config.Load()
	container, err := di.New(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close(context.Background()) })

	r := New(container)
	require.NoError(t, r.SetupRoutes())
	r.Health.RunChecks(context.Background())
	return r
}

func serve(r *Router, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)
	return w
}

func TestHealthRoutes(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := serve(r, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
		components := body["components"].(map[string]any)
		assert.Contains(t, components, "database")
		assert.Contains(t, components, "sessions")
		assert.NotContains(t, components, "remote-api")
	}
}

func TestMetricsAfterChat(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodPost, "/api/chat", `{"message":"hello"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "chat_replies")
}

func TestCompanyFlow(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodPost, "/api/companies", `{"name":"Acme"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Company struct {
			ID string `json:"id"`
		} `json:"company"`
		APIKey string `json:"apiKey"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, strings.HasPrefix(created.APIKey, "etg_"))

	w = serve(r, http.MethodPost, "/api/auth/token", `{"companyId":"`+created.Company.ID+`","apiKey":"`+created.APIKey+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))

	faqs := `{"faqs":[{"question":"How long does delivery take?","answer":"Two to five business days.","keywords":["delivery"]}]}`
	w = serve(r, http.MethodPost, "/api/companies/"+created.Company.ID+"/faqs", faqs, tok.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodPost, "/api/chat", `{"message":"when is delivery","companyId":"`+created.Company.ID+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Two to five business days.")
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
}

func TestSchemaIsServed(t *testing.T) {
	r := newTestRouter(t)

	w := serve(r, http.MethodGet, "/api/docs/openapi.yaml", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}
