package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/cvrguide"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cvrguide",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cvrguide version %s\n", cvrguideVersion())
	},
}

func cvrguideVersion() string {
	return strings.TrimSpace(cvrguide.Version)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
