package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra CLI pattern for subcommand
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display the ocl release, its commit and build date, and the Go toolchain it was built with.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		info := GetVersionInfo()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ocl %s (%s/%s)\n", info.Version, runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "  commit:   %s\n", info.Commit)
		fmt.Fprintf(out, "  built:    %s by %s\n", info.Date, info.BuiltBy)
		fmt.Fprintf(out, "  go:       %s\n", runtime.Version())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}
