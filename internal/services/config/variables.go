package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
)

// EnvPrefix prefixes every environment variable ocl reads.
const EnvPrefix = "OCL"

// Variable names understood by the resolver.
const (
	VarAppInterfaceURL     = "app_interface_url"
	VarAppInterfaceToken   = "app_int_token" //nolint:gosec // Variable name, not a credential
	VarUserClusters        = "user_clusters"
	VarCacheTimeoutMinutes = "cache_timeout_minutes"
	VarIdp                 = "idp"
	VarOcBinary            = "oc_binary"
	VarLogLevel            = "log_level"
)

// Variables resolves settings from OCL_<NAME>_COMMAND helpers, the
// environment, the configuration file and, as a last resort, the user.
type Variables struct {
	v        *viper.Viper
	runner   domain.CommandRunner
	prompter domain.Prompter
	lookup   func(string) (string, bool)
	logger   *slog.Logger
}

// VariablesOption configures Variables.
type VariablesOption func(*Variables)

// WithLookupEnv replaces os.LookupEnv for command helper discovery.
func WithLookupEnv(lookup func(string) (string, bool)) VariablesOption {
	return func(vs *Variables) {
		vs.lookup = lookup
	}
}

// NewViper returns a viper instance bound to the OCL environment and, when
// it exists, the configuration file at configPath.
func NewViper(configPath string, logger *slog.Logger) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		// Read config file silently (ignore error if config file doesn't exist)
		if err := v.ReadInConfig(); err != nil {
			logger.Debug("Configuration file not read", "path", configPath, "error", err)
		}
	}
	return v
}

// NewVariables creates a resolver over v.
func NewVariables(
	v *viper.Viper,
	runner domain.CommandRunner,
	prompter domain.Prompter,
	logger *slog.Logger,
	opts ...VariablesOption,
) *Variables {
	vs := &Variables{
		v:        v,
		runner:   runner,
		prompter: prompter,
		lookup:   os.LookupEnv,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(vs)
	}
	return vs
}

// Get returns a required value, prompting for it when it is not configured.
func (vs *Variables) Get(ctx context.Context, name string) (string, error) {
	return vs.required(ctx, name, false)
}

// GetSecret is Get with a masked prompt.
func (vs *Variables) GetSecret(ctx context.Context, name string) (string, error) {
	return vs.required(ctx, name, true)
}

// GetDefault returns the configured value or def. It never prompts.
func (vs *Variables) GetDefault(ctx context.Context, name, def string) (string, error) {
	value, ok, err := vs.resolve(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return def, nil
	}
	return value, nil
}

func (vs *Variables) required(ctx context.Context, name string, secret bool) (string, error) {
	value, ok, err := vs.resolve(ctx, name)
	if err != nil {
		return "", err
	}
	if ok {
		return value, nil
	}

	envName := EnvName(name)
	vs.logger.WarnContext(ctx, "Missing configuration variable", "variable", envName)

	value, err = vs.prompter.Prompt("Enter "+envName, secret)
	if err != nil {
		return "", cerrors.NewConfigurationError(name, "", envName+" is not set", err)
	}
	// Later lookups in this process reuse the answer.
	vs.v.Set(name, value)
	return value, nil
}

func (vs *Variables) resolve(ctx context.Context, name string) (string, bool, error) {
	commandVar := EnvName(name) + "_COMMAND"
	if command, ok := vs.lookup(commandVar); ok && command != "" {
		value, err := vs.runHelper(ctx, commandVar, command)
		return value, err == nil, err
	}

	if !vs.v.IsSet(name) {
		return "", false, nil
	}
	return vs.v.GetString(name), true, nil
}

func (vs *Variables) runHelper(ctx context.Context, commandVar, command string) (string, error) {
	vs.logger.DebugContext(ctx, "Resolving variable through helper command", "variable", commandVar)

	result, err := vs.runner.Run(ctx, domain.Command{Name: "sh", Args: []string{"-c", command}})
	if err != nil {
		return "", cerrors.NewConfigurationError(commandVar, "", "helper command could not be started", err)
	}
	if result.ExitCode != 0 {
		return "", cerrors.NewConfigurationError(commandVar, "", "helper command failed",
			cerrors.NewToolError("sh -c $"+commandVar, result.ExitCode, string(result.Stderr)))
	}
	return strings.TrimRight(string(result.Stdout), "\r\n"), nil
}

// EnvName returns the environment variable that sets name.
func EnvName(name string) string {
	return fmt.Sprintf("%s_%s", EnvPrefix, strings.ToUpper(name))
}
