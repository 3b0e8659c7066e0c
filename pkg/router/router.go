package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"etegie-bot/backend/internal/api"
	"etegie-bot/backend/internal/ws"
	"etegie-bot/backend/pkg/di"
	"etegie-bot/backend/pkg/errors"
	"etegie-bot/backend/pkg/health"
	"etegie-bot/backend/pkg/logger"
	"etegie-bot/backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Track server start time for uptime calculations
var startTime = time.Now()

// Router is the main router for the application
type Router struct {
	Engine      *gin.Engine
	Container   *di.Container
	Logger      *logger.Logger
	Health      *health.Checker
	RateLimiter *middleware.RateLimiter
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)
	cfg := container.Config

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		container.Logger.Warn("Invalid trusted proxies, trusting none", "error", err.Error())
		_ = engine.SetTrustedProxies(nil)
	}

	// request id first so the logger middleware sees it
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())
	engine.Use(middleware.CORS(cfg.Security.AllowedOrigins))

	rateLimiter := middleware.NewRateLimiter(container.Logger, middleware.RateLimiterOptions{
		Limit:          rate.Limit(cfg.Security.RateLimit),
		Burst:          cfg.Security.RateLimitBurst,
		ExpiryDuration: time.Hour,
		KeyFunc:        middleware.CompanyOrClientKey,
	})

	return &Router{
		Engine:      engine,
		Container:   container,
		Logger:      container.Logger,
		Health:      newChecker(container),
		RateLimiter: rateLimiter,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() error {
	c := r.Container
	cfg := c.Config

	if cfg.Observability.OpenAPISchemaPath != "" {
		r.AddOpenAPIValidation(cfg.Observability.OpenAPISchemaPath)
	}
	r.serveSchema()

	chatHandler := api.NewChatHandler(c.ChatService, r.Logger)
	companyHandler := api.NewCompanyHandler(c.CompanyService, r.Logger, cfg.Security.MaxBodySize)
	widgetHandler, err := api.NewWidgetHandler(c.WidgetConfig(), r.Logger)
	if err != nil {
		return err
	}
	wsHandler := ws.NewHandler(c.ChatService, c.Hub, cfg.Security.AllowedOrigins, r.Logger)

	jwtAuth := middleware.JWTAuthMiddleware(c.JWTService, r.Logger)
	limited := r.RateLimiter.Middleware()

	r.setupHealthRoutes()
	r.Engine.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	apiGroup := r.Engine.Group("/api")
	{
		apiGroup.POST("/chat", limited, chatHandler.PostChat)
		apiGroup.GET("/widget/config", widgetHandler.Config)

		apiGroup.POST("/companies", limited, companyHandler.Create)
		apiGroup.POST("/auth/token", limited, companyHandler.Token)

		company := apiGroup.Group("/companies/:companyId")
		company.Use(jwtAuth, middleware.RequireCompanyAccess("companyId"), limited)
		{
			company.GET("", companyHandler.Get)
			company.POST("/faqs", companyHandler.AddFAQs)
			company.GET("/faqs", companyHandler.ListFAQs)
			company.GET("/sessions/:sessionId/messages", chatHandler.History)
		}
	}

	r.Engine.GET("/ws/chat", limited, wsHandler.Serve)

	r.Engine.NoRoute(func(ctx *gin.Context) {
		_ = ctx.Error(errors.NewNotFoundError("NOT_FOUND", fmt.Sprintf("No route for %s %s", ctx.Request.Method, ctx.Request.URL.Path)))
	})

	return nil
}

// Run starts the rate limiter eviction and periodic health checks
func (r *Router) Run(ctx context.Context) {
	go r.RateLimiter.Run(ctx)
	r.Health.Start(ctx)
}

// Server wraps the engine in an http.Server using the configured timeouts
func (r *Router) Server() *http.Server {
	cfg := r.Container.Config
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// websocket connections are hijacked, so this only bounds plain responses
		WriteTimeout: cfg.Server.Timeout + cfg.Bot.ThinkingDelay + cfg.Bot.RemoteTimeout,
		IdleTimeout:  120 * time.Second,
	}
}
