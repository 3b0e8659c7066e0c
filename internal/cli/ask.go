package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"etegie-bot/backend/internal/api"
	"etegie-bot/backend/internal/service"
	"etegie-bot/backend/internal/widget"

	"github.com/spf13/cobra"
)

func newAskCommand(app *App) *cobra.Command {
	var companyID, sessionID string
	var showMeta bool

	cmd := &cobra.Command{
		Use:   "ask <text...>",
		Short: "Ask the bot one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Container(cmd.Context())
			if err != nil {
				return err
			}

			out, err := c.ChatService.Chat(cmd.Context(), service.ChatInput{
				Message:   strings.Join(args, " "),
				CompanyID: companyID,
				SessionID: sessionID,
				Channel:   "cli",
			})
			if err != nil {
				return describe(err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, botStyle.Render(out.Response))
			if showMeta {
				fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("source=%s intent=%s session=%s", out.Source, out.Intent, out.SessionID)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&companyID, "company", "c", "", "Company id to answer for")
	cmd.Flags().StringVar(&sessionID, "session", "", "Session id to continue")
	cmd.Flags().BoolVar(&showMeta, "meta", false, "Print the reply source, intent and session id")
	return cmd
}

func newChatCommand(app *App) *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the bot interactively",
		Long:  "Reads one message per line until EOF or a line reading exit or quit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Container(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			wcfg := c.WidgetConfig()
			transcript := widget.NewTranscript(wcfg)

			fmt.Fprintln(w, headerStyle.Render(wcfg.WithDefaults().BotName))
			fmt.Fprintln(w, botStyle.Render(transcript.Messages()[0].Content))

			var in io.Reader = app.In
			if in == nil {
				in = cmd.InOrStdin()
			}
			scanner := bufio.NewScanner(in)
			var sessionID string

			for {
				fmt.Fprint(w, userStyle.Render("> "))
				if !scanner.Scan() {
					fmt.Fprintln(w)
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				transcript.Append(widget.SenderUser, line)
				out, err := c.ChatService.Chat(cmd.Context(), service.ChatInput{
					Message:   line,
					CompanyID: companyID,
					SessionID: sessionID,
					Channel:   "cli",
				})
				if err != nil {
					if cmd.Context().Err() != nil {
						return err
					}
					fmt.Fprintln(w, errorStyle.Render(describe(err).Error()))
					continue
				}
				sessionID = out.SessionID
				transcript.Append(widget.SenderBot, out.Response)
				fmt.Fprintln(w, botStyle.Render(out.Response))
			}

			fmt.Fprintln(w, metaStyle.Render(fmt.Sprintf("%d messages kept, session %s", transcript.Len(), sessionID)))
			return scanner.Err()
		},
	}
	cmd.Flags().StringVarP(&companyID, "company", "c", "", "Company id to answer for")
	return cmd
}

// describe turns a domain error into the message the API would show
func describe(err error) error {
	appErr := api.ToAppError(err)
	if appErr.StatusCode >= 500 {
		return err
	}
	return fmt.Errorf("%s", appErr.Message)
}
