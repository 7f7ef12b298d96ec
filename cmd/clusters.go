package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ocl/internal/commands"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List the clusters ocl can log into",
	Long: `List the clusters from the app-interface catalog merged with the clusters
defined in the configuration file and OCL_USER_CLUSTERS.`,
	Args: cobra.NoArgs,
	RunE: runClusters,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(clustersCmd)

	clustersCmd.Flags().StringArrayP("exclude", "x", nil, "Regular expression of cluster names to hide (repeatable)")
}

func runClusters(cmd *cobra.Command, _ []string) error {
	// Get the initialized app instance
	app := GetApp()
	if app == nil {
		return errors.New("application not initialized")
	}

	exclude, _ := cmd.Flags().GetStringArray("exclude")

	clustersCommand := commands.NewClustersCommand(
		app.Registry,
		app.Logger,
	)
	result, err := clustersCommand.Execute(cmd.Context(), commands.ClustersRequest{
		ExcludePatterns: exclude,
	})
	if err != nil {
		return fmt.Errorf("failed to list clusters: %w", err)
	}

	if result.Count == 0 {
		app.Printer.Warn("No clusters found. Use 'ocl add' to define one.")
		return nil
	}

	for _, cluster := range result.Clusters {
		details := []string{cluster.ServerURL}
		if cluster.Hypershift {
			details = append(details, "hypershift")
		} else if len(cluster.AuthMethods) > 0 {
			details = append(details, strings.Join(cluster.AuthMethods, ","))
		}
		app.Printer.Item(cluster.Name, details...)
	}
	return nil
}
