package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ocl/internal/app"
	cerrors "ocl/internal/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern for persistent flag variables
var (
	cfgFile  string
	verbose  bool
	quiet    bool
	jsonLogs bool

	application *app.App
)

// VersionInfo holds build information.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

//nolint:gochecknoglobals // Package-level version info for CLI commands
var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
	BuiltBy: "unknown",
}

// SetVersionInfo updates the build information.
func SetVersionInfo(v, c, d, b string) {
	versionInfo.Version = v
	versionInfo.Commit = c
	versionInfo.Date = d
	versionInfo.BuiltBy = b
}

// GetVersionInfo returns the current version information.
func GetVersionInfo() VersionInfo {
	return versionInfo
}

// GetApp returns the initialized application instance.
func GetApp() *app.App {
	return application
}

//nolint:gochecknoglobals // Cobra CLI pattern for root command
var rootCmd = &cobra.Command{
	Use:   "ocl [CLUSTER] [PROJECT]",
	Short: "Log into OpenShift clusters",
	Long: `ocl logs you into OpenShift clusters known to the app-interface catalog
or defined in your configuration. It reuses a valid session, otherwise it
obtains a token through hypershift, a negotiated identity provider or, as a
last resort, by asking you to paste one.`,
	Args:              cobra.MaximumNArgs(2),
	ValidArgsFunction: completeClusterAndProject,
	RunE:              runLogin,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context so held locks are released.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if application != nil {
		if closeErr := application.Close(); closeErr != nil {
			application.Logger.Warn("Failed to close application resources", "error", closeErr)
		}
	}

	if err != nil {
		reportError(err)
		os.Exit(cerrors.ExitCode(err))
	}
}

func reportError(err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Interrupted")
		return
	}
	hint := errorHint(err)
	if application != nil {
		application.Printer.Error("Error: %v", err)
		if hint != "" {
			application.Printer.Info("%s", hint)
		}
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
}

// errorHint suggests a next step for failures the user can usually fix.
func errorHint(err error) string {
	switch {
	case cerrors.IsUnauthorized(err):
		return "The server rejected the credentials. Renew your Kerberos ticket with kinit, or check OCL_APP_INT_TOKEN."
	case cerrors.IsNotFound(err):
		return "Run 'ocl clusters' to list the known clusters."
	default:
		return ""
	}
}

//nolint:gochecknoinits // Cobra CLI pattern for flag initialization
func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ocl/config.yaml)")
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Only print errors and command output")
	rootCmd.PersistentFlags().
		BoolVar(&jsonLogs, "log-json", false, "Write logs as JSON")

	registerLoginFlags(rootCmd)
}

func initConfig() {
	// Initialize the application with dependency injection
	opts := []app.Option{
		app.WithConfigPath(cfgFile),
		app.WithJSONLogs(jsonLogs),
	}
	if verbose {
		opts = append(opts, app.WithVerbose(true))
	}
	if quiet {
		opts = append(opts, app.WithQuiet(true))
	}

	var err error
	application, err = app.NewApp(context.Background(), opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(cerrors.ExitCode(err))
	}
}
