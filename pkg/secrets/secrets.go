package secrets

import (
	"context"

	"etegie-bot/backend/pkg/config"
)

// Manager provides access to secrets from various sources
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)

	// GetSecretWithDefault retrieves a secret with a default value if not found
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

// Secret keys read from the store. The environment fallback upper-cases them.
const (
	KeyJWTSecret     = "jwt_secret"
	KeyDBPassword    = "db_password"
	KeyTelegramToken = "telegram_bot_token"
)

// Apply overlays secrets from m onto cfg. Values already set from the
// environment are kept when the store has nothing for the key.
func Apply(ctx context.Context, m Manager, cfg *config.Config) {
	cfg.JWT.Secret = m.GetSecretWithDefault(ctx, KeyJWTSecret, cfg.JWT.Secret)
	cfg.Database.Password = m.GetSecretWithDefault(ctx, KeyDBPassword, cfg.Database.Password)
	cfg.Telegram.Token = m.GetSecretWithDefault(ctx, KeyTelegramToken, cfg.Telegram.Token)
}
