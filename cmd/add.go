package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocl/internal/commands"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a cluster to the configuration",
	Long: `Add a cluster that is not in the catalog, or override a catalog cluster,
with the specified server URL, console URL and identity providers.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("name", "n", "", "Cluster name (required)")
	addCmd.Flags().StringP("server-url", "s", "", "API server URL (required)")
	addCmd.Flags().StringP("console-url", "c", "", "Web console URL (required)")
	addCmd.Flags().StringArrayP("auth", "a", nil, "Identity provider offered by the cluster (repeatable)")
	addCmd.Flags().Bool("hypershift", false, "The cluster issues tokens through the hypershift flow")

	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("server-url")
	_ = addCmd.MarkFlagRequired("console-url")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("application not initialized")
	}

	name, _ := cmd.Flags().GetString("name")
	serverURL, _ := cmd.Flags().GetString("server-url")
	consoleURL, _ := cmd.Flags().GetString("console-url")
	authMethods, _ := cmd.Flags().GetStringArray("auth")
	hypershift, _ := cmd.Flags().GetBool("hypershift")

	addCommand := commands.NewAddCommand(
		app.ConfigRepo,
		app.Logger,
	)
	err := addCommand.Execute(cmd.Context(), commands.AddRequest{
		Name:        name,
		ServerURL:   serverURL,
		ConsoleURL:  consoleURL,
		AuthMethods: authMethods,
		Hypershift:  hypershift,
	})
	if err != nil {
		return fmt.Errorf("failed to add cluster: %w", err)
	}

	app.Printer.Success("Successfully added cluster: %s", name)
	return nil
}
