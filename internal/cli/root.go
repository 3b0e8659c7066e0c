// Package cli implements etegiectl, the operator command line for the bot.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"etegie-bot/backend/pkg/config"
	"etegie-bot/backend/pkg/di"
	"etegie-bot/backend/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
)

// App carries the streams and lazily built dependencies shared by commands
type App struct {
	In     io.Reader
	Config *config.Config

	verbose   bool
	container *di.Container
}

// Container builds the dependency container on first use
func (a *App) Container(ctx context.Context) (*di.Container, error) {
	if a.container != nil {
		return a.container, nil
	}
	if a.Config == nil {
		a.Config = config.New()
	}

	log := logger.Discard()
	if a.verbose {
		log = logger.New(logger.Config{Level: "debug", Output: os.Stderr})
	}

	c, err := di.New(ctx, a.Config, log)
	if err != nil {
		return nil, err
	}
	a.container = c
	return c, nil
}

// Close releases the container if one was built
func (a *App) Close() {
	if a.container != nil {
		_ = a.container.Close(context.Background())
		a.container = nil
	}
}

// NewRootCommand assembles etegiectl
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "etegiectl",
		Short: "Talk to and administer the Etegie FAQ bot",
		Long: `etegiectl drives the Etegie bot from a terminal.

It uses the same environment as the server (DB_DRIVER, RESPONDER_MODE,
KNOWLEDGE_BASE_PATH, JWT_SECRET, ...), so answers match what the widget gets.

Quick Start:
  etegiectl ask how do I install it
  etegiectl chat --company <id>
  etegiectl faqs import --company <id> faqs.yaml
  etegiectl kb validate knowledge.yaml`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Log to stderr at debug level")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newAskCommand(app),
		newChatCommand(app),
		newFAQsCommand(app),
		newTokenCommand(app),
		newKBCommand(app),
	)
	return root
}

// Execute runs etegiectl against the process environment
func Execute() {
	app := &App{In: os.Stdin}
	defer app.Close()

	if err := NewRootCommand(app).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		app.Close()
		os.Exit(1)
	}
}
