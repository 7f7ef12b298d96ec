package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"ocl/internal/commands"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the catalog query cache",
}

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached catalog response",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("application not initialized")
	}

	store, err := app.Catalog.Cache()
	if err != nil {
		return err
	}
	if err := commands.NewCacheClearCommand(store, app.Logger).Execute(cmd.Context()); err != nil {
		return err
	}

	app.Printer.Success("Catalog cache cleared")
	return nil
}
