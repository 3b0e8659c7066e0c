package widget

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "Etegie Assistant", cfg.BotName)
	assert.Equal(t, 100, cfg.MaxMessages)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"dark theme", func(c *Config) { c.Theme = ThemeDark }, true},
		{"short hex", func(c *Config) { c.PrimaryColor = "#fff" }, true},
		{"https api", func(c *Config) { c.APIURL = "https://bot.example.com/api/chat" }, true},
		{"bad theme", func(c *Config) { c.Theme = "neon" }, false},
		{"bad color", func(c *Config) { c.PrimaryColor = "blue" }, false},
		{"relative api", func(c *Config) { c.APIURL = "/api/chat" }, false},
		{"zero cap", func(c *Config) { c.MaxMessages = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestWithDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{BotName: "Shop Bot", MaxMessages: 10}.WithDefaults()
	assert.Equal(t, "Shop Bot", cfg.BotName)
	assert.Equal(t, 10, cfg.MaxMessages)
	assert.Equal(t, DefaultWelcomeMessage, cfg.WelcomeMessage)
	assert.Equal(t, ThemeLight, cfg.Theme)
}

func TestTranscriptCaps(t *testing.T) {
	tr := NewTranscript(Config{MaxMessages: 3})
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, SenderBot, tr.Messages()[0].Sender)
	assert.Equal(t, DefaultWelcomeMessage, tr.Messages()[0].Content)

	for i := 0; i < 5; i++ {
		tr.Append(SenderUser, fmt.Sprintf("msg %d", i))
	}

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "msg 2", msgs[0].Content)
	assert.Equal(t, "msg 4", msgs[2].Content)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
}
