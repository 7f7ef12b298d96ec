package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocl/internal/commands"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var namespacesCmd = &cobra.Command{
	Use:               "namespaces [CLUSTER]",
	Aliases:           []string{"projects"},
	Short:             "List namespaces from the catalog",
	Long:              `List the namespaces the app-interface catalog knows, optionally for one cluster.`,
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeCluster,
	RunE:              runNamespaces,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(namespacesCmd)
}

func runNamespaces(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("application not initialized")
	}

	req := commands.NamespacesRequest{}
	if len(args) > 0 {
		req.Cluster = args[0]
	}

	namespaces, err := commands.NewNamespacesCommand(app.Catalog, app.Logger).Execute(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("failed to list namespaces: %w", err)
	}

	for _, ns := range namespaces {
		app.Printer.Item(ns.Name, ns.Cluster.Name)
	}
	return nil
}
