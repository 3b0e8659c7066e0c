package router

import (
	"os"

	apispec "etegie-bot/backend/api"
	"etegie-bot/backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// AddOpenAPIValidation rejects requests that do not match the schema at schemaPath
func (r *Router) AddOpenAPIValidation(schemaPath string) {
	if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
		r.Logger.Warn("OpenAPI schema file not found, skipping validation", "path", schemaPath)
		return
	}

	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		r.Logger.Error("Failed to initialize OpenAPI validator", "error", err)
		return
	}

	r.Engine.Use(v.Middleware())
	r.Logger.Info("OpenAPI validation enabled", "schema", schemaPath)
}

// serveSchema publishes the bundled OpenAPI document
func (r *Router) serveSchema() {
	r.Engine.GET("/api/docs/openapi.yaml", func(c *gin.Context) {
		c.Data(200, "application/yaml", apispec.Schema)
	})
}
