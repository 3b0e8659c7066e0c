package api

import (
	"fmt"
	"net/http"

	"etegie-bot/backend/internal/widget"
	"etegie-bot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// WidgetHandler serves the settings embedders feed into the chat widget
type WidgetHandler struct {
	config widget.Config
	logger *logger.Logger
}

// NewWidgetHandler validates cfg once at startup
func NewWidgetHandler(cfg widget.Config, logger *logger.Logger) (*WidgetHandler, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("widget settings: %w", err)
	}
	return &WidgetHandler{config: cfg, logger: logger}, nil
}

// Config returns the widget settings, scoped to ?companyId when given
func (h *WidgetHandler) Config(c *gin.Context) {
	cfg := h.config
	if companyID := c.Query("companyId"); companyID != "" {
		cfg.CompanyID = companyID
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, cfg)
}
