package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/cvrguide/internal/config"
	"github.com/aretw0/cvrguide/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Resolved once per invocation by the root pre-run hook.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cvrguide",
	Short: "Conversational guide for INEC Continuous Voter Registration",
	Long: `cvrguide walks voters through the INEC CVR portal one step at a time:
signing up, then new registration, transfer, updates, lost PVC and revalidation.

It runs as an HTTP service (web chat and Telex), an MCP server or a terminal chat.
Settings come from flags, CVRGUIDE_* environment variables or --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(viper.New(), cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.New(c.LogLevel)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd.PersistentFlags())
}
