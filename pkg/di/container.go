package di

import (
	"context"
	"fmt"
	"time"

	"etegie-bot/backend/internal/faq"
	"etegie-bot/backend/internal/knowledge"
	"etegie-bot/backend/internal/responder"
	"etegie-bot/backend/internal/service"
	"etegie-bot/backend/internal/session"
	"etegie-bot/backend/internal/widget"
	"etegie-bot/backend/internal/ws"
	"etegie-bot/backend/pkg/config"
	"etegie-bot/backend/pkg/jwt"
	"etegie-bot/backend/pkg/logger"
	"etegie-bot/backend/pkg/secrets"
	"etegie-bot/backend/shared/observability"
	"etegie-bot/backend/shared/redis"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	Config         *config.Config
	DB             *gorm.DB
	Logger         *logger.Logger
	Secrets        *secrets.VaultManager
	Store          faq.Store
	Sessions       session.Store
	Redis          *redis.RedisClient
	KnowledgeBase  *knowledge.KnowledgeBase
	Matcher        *faq.Matcher
	Responder      responder.Responder
	JWTService     *jwt.Service
	ChatService    *service.ChatService
	CompanyService *service.CompanyService
	Metrics        *observability.Metrics
	Hub            *ws.Hub

	runners []func(context.Context)
}

// New creates a new dependency injection container. With DB_DRIVER=memory
// nothing outside the process is contacted.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.GetGlobal()
	}
	c := &Container{Config: cfg, Logger: log, Hub: ws.NewHub()}

	vault, err := secrets.NewVaultManager(secrets.ConfigFrom(cfg), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets: %w", err)
	}
	secrets.Apply(ctx, vault, cfg)
	c.Secrets = vault
	if cfg.Vault.Enabled {
		c.runners = append(c.runners, vault.Run)
	}

	if err := c.initStore(ctx); err != nil {
		return nil, err
	}
	if err := c.initSessions(ctx); err != nil {
		return nil, err
	}

	kb, err := knowledge.Load(cfg.Bot.KnowledgeBasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}
	c.KnowledgeBase = kb
	log.Info("Knowledge base loaded", "intents", len(kb.Intents), "path", cfg.Bot.KnowledgeBasePath)

	c.Matcher = faq.NewMatcher(c.Store, cfg.Bot.SimilarityThreshold)
	c.Responder, err = responder.New(responder.Config{
		Mode:             responder.Mode(cfg.Bot.Mode),
		RemoteURL:        cfg.Bot.RemoteURL,
		RemoteTimeout:    cfg.Bot.RemoteTimeout,
		FailurePolicy:    responder.FailurePolicy(cfg.Bot.FailurePolicy),
		ThinkingDelay:    cfg.Bot.ThinkingDelay,
		FallbackToLocal:  cfg.Bot.FallbackToLocal,
		BreakerThreshold: uint(max(cfg.Bot.BreakerThreshold, 0)),
		BreakerCooldown:  cfg.Bot.BreakerCooldown,
	}, responder.Deps{KnowledgeBase: kb, Finder: c.Matcher, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("failed to build responder: %w", err)
	}

	c.JWTService, err = jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize jwt: %w", err)
	}

	c.Metrics, err = observability.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	c.ChatService = service.NewChatService(c.Responder, c.Store, c.Sessions, c.Metrics, log)
	c.CompanyService = service.NewCompanyService(c.Store, c.JWTService, log)

	log.Info("Container ready",
		"responder", cfg.Bot.Mode,
		"database", cfg.Database.Driver,
		"sessions", sessionBackend(cfg),
	)
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	if c.Config.Database.Driver == "memory" {
		c.Store = faq.NewMemoryStore()
		c.Logger.Warn("Using in-memory store; data is lost on restart")
		return nil
	}

	db, err := config.NewDB(c.Config)
	if err != nil {
		return err
	}
	store := faq.NewGormStore(db)
	if err := store.AutoMigrate(ctx); err != nil {
		return err
	}
	c.DB = db
	c.Store = store
	return nil
}

func (c *Container) initSessions(ctx context.Context) error {
	if c.Config.Session.RedisURL == "" {
		mem := session.NewMemoryStore(c.Config.Session.TTL, 100000)
		c.Sessions = mem
		c.runners = append(c.runners, mem.Run)
		return nil
	}

	client, err := redis.NewRedisClient(c.Config.Session.RedisURL)
	if err != nil {
		return err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		// redis may come up later; the store reports it through health checks
		c.Logger.Warn("Redis not reachable at startup", "error", err.Error())
	}
	c.Redis = client
	c.Sessions = session.NewRedisStore(client, c.Config.Session.TTL)
	return nil
}

// WidgetConfig returns the widget settings served to embedders
func (c *Container) WidgetConfig() widget.Config {
	w := c.Config.Widget
	return widget.Config{
		APIURL:         w.APIURL,
		BotName:        w.BotName,
		WelcomeMessage: w.WelcomeMessage,
		Theme:          widget.Theme(w.Theme),
		PrimaryColor:   w.PrimaryColor,
		MaxMessages:    w.MaxMessages,
		ShowAvatars:    w.ShowAvatars,
		ShowTimestamps: w.ShowTimestamps,
	}
}

// Pinger is implemented by responders that call out to another service
type Pinger interface {
	Ping(ctx context.Context) error
}

// Run starts background maintenance loops; they stop with ctx
func (c *Container) Run(ctx context.Context) {
	for _, run := range c.runners {
		go run(ctx)
	}
}

// Close releases external connections
func (c *Container) Close(ctx context.Context) error {
	c.Hub.CloseAll()

	var firstErr error
	if c.Metrics != nil {
		if err := c.Metrics.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func sessionBackend(cfg *config.Config) string {
	if cfg.Session.RedisURL != "" {
		return "redis"
	}
	return "memory"
}
