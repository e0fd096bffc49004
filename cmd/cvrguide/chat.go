package main

import (
	"github.com/aretw0/cvrguide"
	"github.com/aretw0/cvrguide/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the guide in the terminal",
	Long: `Starts an interactive conversation. Type 'reset' to start over and 'exit' to leave.
Use --store file to resume the same session across runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		headless, _ := cmd.Flags().GetBool("headless")

		app, err := cli.Build(cfg, logger)
		if err != nil {
			return err
		}
		defer app.Close()

		return cli.RunChat(cmd.Context(), app.Engine, cli.ChatOptions{
			SessionID: sessionID,
			Headless:  headless,
			Input:     cmd.InOrStdin(),
			Output:    cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("session", "s", cvrguide.DefaultSessionID, "Session id to use")
	chatCmd.Flags().Bool("headless", false, "Plain output without banner, prompt or markdown rendering")
}
