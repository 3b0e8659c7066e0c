package cli

import (
	"fmt"
	"os"

	"etegie-bot/backend/internal/faq"
	"etegie-bot/backend/internal/knowledge"

	"github.com/spf13/cobra"
)

func newFAQsCommand(app *App) *cobra.Command {
	faqsCmd := &cobra.Command{
		Use:   "faqs",
		Short: "Manage company FAQs",
	}

	var companyID string
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load FAQs from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := faq.FormatFromPath(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			entries, err := faq.ParseEntries(data, format)
			if err != nil {
				return err
			}

			c, err := app.Container(cmd.Context())
			if err != nil {
				return err
			}
			if c.Config.Database.Driver == "memory" {
				fmt.Fprintln(cmd.ErrOrStderr(), metaStyle.Render("DB_DRIVER=memory: imported FAQs only live as long as this process"))
			}

			rows, err := c.CompanyService.AddFAQs(cmd.Context(), companyID, entries)
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s FAQs for %s\n", countStyle.Render(fmt.Sprint(len(rows))), companyID)
			return nil
		},
	}
	importCmd.Flags().StringVarP(&companyID, "company", "c", "", "Company id to import into")
	_ = importCmd.MarkFlagRequired("company")

	faqsCmd.AddCommand(importCmd)
	return faqsCmd
}

func newTokenCommand(app *App) *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a company admin token with the configured JWT secret",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Container(cmd.Context())
			if err != nil {
				return err
			}
			token, expiresAt, err := c.JWTService.GenerateToken(companyID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintln(cmd.ErrOrStderr(), metaStyle.Render("expires "+expiresAt.Format("2006-01-02 15:04:05 MST")))
			return nil
		},
	}
	cmd.Flags().StringVarP(&companyID, "company", "c", "", "Company id the token grants access to")
	_ = cmd.MarkFlagRequired("company")
	return cmd
}

func newKBCommand(app *App) *cobra.Command {
	kbCmd := &cobra.Command{
		Use:   "kb",
		Short: "Work with knowledge-base files",
	}

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Load a knowledge base and check it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledge.Load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s intents\n", headerStyle.Render(args[0]), countStyle.Render(fmt.Sprint(len(kb.Intents))))
			for _, intent := range kb.Intents {
				fmt.Fprintf(w, "  %-16s %s\n", intent.Tag, metaStyle.Render(fmt.Sprintf("%d patterns, %d responses", len(intent.Patterns), len(intent.Responses))))
			}
			return nil
		},
	}

	kbCmd.AddCommand(validateCmd)
	return kbCmd
}
