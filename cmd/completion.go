package cmd

import (
	"github.com/spf13/cobra"

	"ocl/internal/commands"
)

func completer() *commands.Completer {
	app := GetApp()
	if app == nil {
		return nil
	}
	return commands.NewCompleter(app.Registry, app.Catalog, app.Logger)
}

// completeClusterAndProject completes CLUSTER, then PROJECT on that cluster.
func completeClusterAndProject(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c := completer()
	if c == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	switch len(args) {
	case 0:
		return c.Clusters(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
	case 1:
		return c.Projects(cmd.Context(), args[0], toComplete), cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeCluster(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	c := completer()
	if c == nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return c.Clusters(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
}
