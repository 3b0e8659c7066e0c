// Package widget carries the embedder-facing settings of the chat widget and
// the capped message transcript it keeps. None of it affects matching.
package widget

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Theme of the widget
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Defaults used when an embedder leaves a field empty
const (
	DefaultBotName        = "Etegie Assistant"
	DefaultWelcomeMessage = "Hello! I'm here to help you. How can I assist you today?"
	DefaultPrimaryColor   = "#3b82f6"
	DefaultMaxMessages    = 100
)

var (
	ErrInvalidConfig = errors.New("invalid widget config")
	hexColor         = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Config is what an embedder can set on the widget
type Config struct {
	APIURL         string            `json:"apiUrl"`
	BotName        string            `json:"botName"`
	WelcomeMessage string            `json:"welcomeMessage"`
	CompanyID      string            `json:"companyId,omitempty"`
	ShowAvatars    bool              `json:"showAvatars"`
	ShowTimestamps bool              `json:"showTimestamps"`
	Theme          Theme             `json:"theme"`
	PrimaryColor   string            `json:"primaryColor"`
	MaxMessages    int               `json:"maxMessages"`
	ClassName      string            `json:"className,omitempty"`
	Style          map[string]string `json:"style,omitempty"`
}

// DefaultConfig returns the stock widget settings
func DefaultConfig() Config {
	return Config{
		BotName:        DefaultBotName,
		WelcomeMessage: DefaultWelcomeMessage,
		ShowAvatars:    true,
		ShowTimestamps: true,
		Theme:          ThemeLight,
		PrimaryColor:   DefaultPrimaryColor,
		MaxMessages:    DefaultMaxMessages,
	}
}

// WithDefaults fills empty fields from DefaultConfig. Booleans are taken as given.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if strings.TrimSpace(c.BotName) == "" {
		c.BotName = d.BotName
	}
	if strings.TrimSpace(c.WelcomeMessage) == "" {
		c.WelcomeMessage = d.WelcomeMessage
	}
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if c.PrimaryColor == "" {
		c.PrimaryColor = d.PrimaryColor
	}
	if c.MaxMessages == 0 {
		c.MaxMessages = d.MaxMessages
	}
	return c
}

// Validate checks the settings an embedder supplied
func (c Config) Validate() error {
	var problems []string

	if c.APIURL != "" {
		u, err := url.Parse(c.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			problems = append(problems, "apiUrl must be an absolute http(s) URL")
		}
	}
	switch c.Theme {
	case ThemeLight, ThemeDark, ThemeAuto:
	default:
		problems = append(problems, fmt.Sprintf("theme %q is not one of light, dark, auto", c.Theme))
	}
	if !hexColor.MatchString(c.PrimaryColor) {
		problems = append(problems, fmt.Sprintf("primaryColor %q is not a hex color", c.PrimaryColor))
	}
	if c.MaxMessages <= 0 {
		problems = append(problems, "maxMessages must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
