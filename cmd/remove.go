package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ocl/internal/commands"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var removeCmd = &cobra.Command{
	Use:               "remove NAME",
	Short:             "Remove a cluster from the configuration",
	Long:              `Remove a user-defined cluster by name from the configuration file.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeCluster,
	RunE:              runRemove,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().Bool("purge-session", false, "Also delete the cluster's session file")
}

func runRemove(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("application not initialized")
	}

	purge, _ := cmd.Flags().GetBool("purge-session")

	removeCommand := commands.NewRemoveCommand(
		app.ConfigRepo,
		app.Kubeconfig,
		app.Logger,
	)
	err := removeCommand.Execute(cmd.Context(), commands.RemoveRequest{
		Name:         args[0],
		PurgeSession: purge,
	})
	if err != nil {
		return fmt.Errorf("failed to remove cluster: %w", err)
	}

	app.Printer.Success("Successfully removed cluster: %s", args[0])
	return nil
}
