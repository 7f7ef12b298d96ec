package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ocl/internal/adapters/terminal"
	"ocl/internal/commands"
	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/services/config"
	"ocl/internal/services/login"
)

// defaultIDP is tried when neither --idp nor OCL_IDP is given.
const defaultIDP = "redhat-app-sre-auth"

//nolint:gochecknoglobals // Cobra CLI pattern for flag variables
var (
	refreshLogin   bool
	idps           []string
	openInBrowser  bool
	lockTimeout    time.Duration
	lockLifetime   time.Duration
	perClusterLock bool
)

func registerLoginFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&refreshLogin, "refresh-login", false, "Log in again even if the current session is valid")
	cmd.Flags().StringArrayVar(&idps, "idp", nil,
		fmt.Sprintf("Identity provider to try, in order; %q asks for a token (default %q, or $OCL_IDP)", domain.ManualIDP, defaultIDP))
	cmd.Flags().BoolVar(&openInBrowser, "open-in-browser", false,
		"Open the cluster console instead of logging in; use '.' as CLUSTER for the current session")
	cmd.Flags().DurationVar(&lockTimeout, "lock-timeout", login.DefaultLockTimeout, "How long to wait for another login to finish")
	cmd.Flags().DurationVar(&lockLifetime, "lock-lifetime", login.DefaultLockLifetime, "Age after which a held lock is considered stale")
	cmd.Flags().BoolVar(&perClusterLock, "per-cluster-lock", false, "Only serialize logins to the same cluster")
}

func runLogin(cmd *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return errors.New("application not initialized")
	}

	if len(args) == 0 {
		_ = cmd.Usage()
		return cerrors.NewValidationError("cluster", "", "required", "cluster name is required")
	}

	req := commands.LoginRequest{
		Cluster:       args[0],
		Refresh:       refreshLogin,
		OpenInBrowser: openInBrowser,
	}
	if len(args) > 1 {
		req.Project = args[1]
	}

	if !openInBrowser {
		var err error
		req.IDPs, err = resolveIDPs(cmd)
		if err != nil {
			return err
		}
	}

	authenticator := app.NewAuthenticator(login.Settings{
		LockLifetime:   lockLifetime,
		LockTimeout:    lockTimeout,
		PerClusterLock: perClusterLock,
	}, progressObserver(app.Printer))

	loginCommand := commands.NewLoginCommand(
		app.Registry,
		authenticator,
		app.Session,
		app.Session,
		app.Browser,
		app.Logger,
	)
	result, err := loginCommand.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}

	printLoginResult(app.Printer, result)
	return nil
}

// resolveIDPs returns the --idp values, else the comma separated OCL_IDP.
func resolveIDPs(cmd *cobra.Command) ([]string, error) {
	if cmd.Flags().Changed("idp") {
		return idps, nil
	}

	raw, err := GetApp().Variables.GetDefault(cmd.Context(), config.VarIdp, defaultIDP)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, idp := range strings.Split(raw, ",") {
		if idp = strings.TrimSpace(idp); idp != "" {
			out = append(out, idp)
		}
	}
	return out, nil
}

func progressObserver(printer *terminal.Printer) login.Observer {
	return login.ObserverFunc(func(cluster domain.Cluster, state login.State) {
		switch state {
		case login.AcquiringLock:
			printer.Info("Acquiring the login lock")
		case login.AcquiringToken:
			printer.Info("Requesting a token for %s", cluster.Name)
		case login.LoggingIn:
			printer.Info("Logging into %s", cluster.ServerURL)
		default:
		}
	})
}

func printLoginResult(printer *terminal.Printer, result *commands.LoginResult) {
	if result.Opened {
		printer.Success("Opened %s", result.ConsoleURL)
		return
	}

	if result.Reused {
		printer.Success("Already logged into %s", result.Cluster.Name)
	} else {
		printer.Success("Logged into %s using %s", result.Cluster.Name, result.Strategy)
	}
	if result.ProjectErr != nil {
		printer.Warn("Could not switch project: %v", result.ProjectErr)
	} else if result.Project != "" {
		printer.Info("Using project %s", result.Project)
	}

	printer.Info("Console: %s", result.ConsoleURL)
	for _, kv := range result.Environment {
		printer.Item("export " + kv)
	}
}
