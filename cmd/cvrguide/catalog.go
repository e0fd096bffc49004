package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/cvrguide/internal/cli"
	"github.com/aretw0/cvrguide/internal/presentation/graph"
	"github.com/aretw0/cvrguide/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect workflow catalogs",
}

var catalogLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the services offered by the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tSTEPS\tREQUIRES")
		for _, id := range append([]string{c.Bootstrap()}, c.Services()...) {
			w, err := c.Get(id)
			if err != nil {
				return err
			}
			requires := "-"
			if len(w.Prerequisites) > 0 {
				requires = strings.Join(w.Prerequisites, ",")
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", w.ID, w.DisplayName(), len(w.Steps), requires)
		}
		return tw.Flush()
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog file for structural errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := catalog.LoadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (%d services)\n", args[0], len(c.Services()))
		return nil
	},
}

var catalogGraphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the catalog as a Mermaid flowchart",
	Long:  `Prints a Mermaid graph of the services and their prerequisites. With --session, the session's progress is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog()
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
			store, closeStore, err := cli.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			state, err := store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
			overlay = &graph.Overlay{Completed: state.CompletedWorkflows, Active: state.ActiveWorkflow}
		}

		out, err := graph.GenerateMermaid(c, overlay)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func loadCatalog() (*catalog.Catalog, error) {
	if cfg.CatalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.CatalogFile)
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogLsCmd, catalogValidateCmd, catalogGraphCmd)
	catalogGraphCmd.Flags().String("session", "", "Highlight this session's progress")
}
