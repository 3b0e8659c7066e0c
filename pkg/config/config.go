package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port     string
		Env      string
		Timeout  time.Duration
		BaseURL  string
		GRPCPort string
	}

	// Database configuration
	Database struct {
		Driver     string // postgres, sqlite or memory
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		SSLMode    string
		SQLitePath string
		MaxConns   int
		Timeout    time.Duration
	}

	// JWT configuration
	JWT struct {
		Secret      string
		ExpiryHours time.Duration
		Issuer      string
	}

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
		TrustedProxies []string
		MaxBodySize    int64
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Bot holds the responder chain settings
	Bot struct {
		Mode                string // local, remote or hosted
		KnowledgeBasePath   string
		RemoteURL           string
		RemoteTimeout       time.Duration
		FailurePolicy       string // apology or local
		SimilarityThreshold float64
		ThinkingDelay       time.Duration
		FallbackToLocal     bool
		BreakerThreshold    int
		BreakerCooldown     time.Duration
	}

	// Session storage
	Session struct {
		RedisURL string
		TTL      time.Duration
	}

	// Telegram channel
	Telegram struct {
		Token     string
		CompanyID string
		Debug     bool
	}

	// Vault secrets backend
	Vault struct {
		Enabled bool
		Address string
		Token   string
		Mount   string
		Path    string
	}

	// Observability
	Observability struct {
		TracingEnabled    bool
		OpenAPISchemaPath string
	}

	// Widget defaults served to embedders
	Widget struct {
		APIURL         string
		BotName        string
		WelcomeMessage string
		Theme          string
		PrimaryColor   string
		MaxMessages    int
		ShowAvatars    bool
		ShowTimestamps bool
	}
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables
// Uses singleton pattern to ensure only one instance exists
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()
		instance = Load()
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// Load reads a fresh Config from the environment without touching the singleton.
func Load() *Config {
	c := &Config{}

	c.Server.Port = getEnvString("PORT", "8081")
	c.Server.Env = getEnvString("APP_ENV", "development")
	c.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)
	c.Server.BaseURL = getEnvString("BASE_URL", "http://localhost:"+c.Server.Port)
	c.Server.GRPCPort = getEnvString("GRPC_PORT", "")

	c.Database.Driver = strings.ToLower(getEnvString("DB_DRIVER", "memory"))
	c.Database.Host = getEnvString("DB_HOST", "localhost")
	c.Database.Port = getEnvString("DB_PORT", "5432")
	c.Database.User = getEnvString("DB_USER", "postgres")
	c.Database.Password = getEnvString("DB_PASSWORD", "postgres")
	c.Database.Name = getEnvString("DB_NAME", "etegie")
	c.Database.SSLMode = getEnvString("DB_SSL_MODE", "disable")
	c.Database.SQLitePath = getEnvString("DB_SQLITE_PATH", "etegie.db")
	c.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 20)
	c.Database.Timeout = getEnvDuration("DB_TIMEOUT", 5*time.Second)

	c.JWT.Secret = getEnvString("JWT_SECRET", "default-jwt-secret-do-not-use-in-production")
	c.JWT.ExpiryHours = getEnvDuration("JWT_EXPIRY", 24*time.Hour)
	c.JWT.Issuer = getEnvString("JWT_ISSUER", "etegie-bot")

	c.Security.RateLimit = float64(getEnvInt("RATE_LIMIT", 5))
	c.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
	c.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})
	c.Security.TrustedProxies = getEnvStringSlice("TRUSTED_PROXIES", []string{"127.0.0.1"})
	c.Security.MaxBodySize = getEnvInt64("MAX_BODY_SIZE", 1<<20) // 1MB

	c.Logging.Level = getEnvString("LOG_LEVEL", "info")
	c.Logging.Format = getEnvString("LOG_FORMAT", "json")

	c.Bot.Mode = strings.ToLower(getEnvString("RESPONDER_MODE", "hosted"))
	c.Bot.KnowledgeBasePath = getEnvString("KNOWLEDGE_BASE_PATH", "")
	c.Bot.RemoteURL = getEnvString("REMOTE_API_URL", "")
	// zero means no client timeout
	c.Bot.RemoteTimeout = getEnvDuration("REMOTE_API_TIMEOUT", 0)
	c.Bot.FailurePolicy = strings.ToLower(getEnvString("REMOTE_FAILURE_POLICY", "local"))
	c.Bot.SimilarityThreshold = getEnvFloat("SIMILARITY_THRESHOLD", 0.3)
	c.Bot.ThinkingDelay = getEnvDuration("THINKING_DELAY", 0)
	c.Bot.FallbackToLocal = getEnvBool("FALLBACK_TO_LOCAL", true)
	c.Bot.BreakerThreshold = getEnvInt("REMOTE_BREAKER_THRESHOLD", 0)
	c.Bot.BreakerCooldown = getEnvDuration("REMOTE_BREAKER_COOLDOWN", 30*time.Second)

	c.Session.RedisURL = getEnvString("REDIS_URL", "")
	c.Session.TTL = getEnvDuration("SESSION_TTL", 24*time.Hour)

	c.Telegram.Token = getEnvString("TELEGRAM_BOT_TOKEN", "")
	c.Telegram.CompanyID = getEnvString("TELEGRAM_COMPANY_ID", "")
	c.Telegram.Debug = getEnvBool("TELEGRAM_DEBUG", false)

	c.Vault.Enabled = getEnvBool("VAULT_ENABLED", false)
	c.Vault.Address = getEnvString("VAULT_ADDR", "http://127.0.0.1:8200")
	c.Vault.Token = getEnvString("VAULT_TOKEN", "")
	c.Vault.Mount = getEnvString("VAULT_MOUNT", "secret")
	c.Vault.Path = getEnvString("VAULT_PATH", "etegie-bot")

	c.Observability.TracingEnabled = getEnvBool("TRACING_ENABLED", false)
	c.Observability.OpenAPISchemaPath = getEnvString("OPENAPI_SCHEMA_PATH", "")

	c.Widget.APIURL = getEnvString("WIDGET_API_URL", c.Server.BaseURL+"/api/chat")
	c.Widget.BotName = getEnvString("WIDGET_BOT_NAME", "Etegie Assistant")
	c.Widget.WelcomeMessage = getEnvString("WIDGET_WELCOME_MESSAGE", "Hello! I'm here to help you. How can I assist you today?")
	c.Widget.Theme = getEnvString("WIDGET_THEME", "light")
	c.Widget.PrimaryColor = getEnvString("WIDGET_PRIMARY_COLOR", "#3b82f6")
	c.Widget.MaxMessages = getEnvInt("WIDGET_MAX_MESSAGES", 100)
	c.Widget.ShowAvatars = getEnvBool("WIDGET_SHOW_AVATARS", true)
	c.Widget.ShowTimestamps = getEnvBool("WIDGET_SHOW_TIMESTAMPS", true)

	return c
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
