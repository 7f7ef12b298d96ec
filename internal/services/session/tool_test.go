package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocl/internal/domain"
	cerrors "ocl/internal/errors"
	"ocl/internal/mocks"
	"ocl/internal/testutil"
)

const sessionPath = "/home/alice/.kube/config_prod1"

var prod1 = domain.Cluster{
	Name:       "prod1",
	ServerURL:  "https://api.prod1.example.com:6443",
	ConsoleURL: "https://console-openshift-console.apps.prod1.example.com",
}

func clusterEnv() []string {
	return []string{
		"KUBECONFIG=" + sessionPath,
		"OCL_CLUSTER_NAME=prod1",
		"OCL_CLUSTER_CONSOLE=https://console-openshift-console.apps.prod1.example.com",
	}
}

func newTestTool(t *testing.T) (*Tool, *mocks.MockCommandRunner, *mocks.MockKubeconfigInspector) {
	t.Helper()
	runner := mocks.NewMockCommandRunner(t)
	kube := mocks.NewMockKubeconfigInspector(t)
	kube.On("SessionFile", prod1).Return(sessionPath, nil).Maybe()
	return NewTool("", runner, kube, testutil.Logger()), runner, kube
}

func TestTool_IsSessionValid(t *testing.T) {
	tests := []struct {
		name     string
		exitCode int
		want     bool
	}{
		{name: "logged_in", exitCode: 0, want: true},
		{name: "expired", exitCode: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, runner, kube := newTestTool(t)
			kube.On("HasCredentials", mock.Anything, sessionPath).Return(true, nil)
			runner.On("Run", mock.Anything, domain.Command{
				Name: "oc",
				Args:  []string{"cluster-info"},
				Env:   clusterEnv(),
				Quiet: true,
			}).Return(domain.CommandResult{ExitCode: tt.exitCode}, nil)

			got, err := tool.IsSessionValid(context.Background(), prod1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTool_IsSessionValid_NoCredentialsSkipsTool(t *testing.T) {
	tool, _, kube := newTestTool(t)
	kube.On("HasCredentials", mock.Anything, sessionPath).Return(false, nil)

	got, err := tool.IsSessionValid(context.Background(), prod1)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestTool_IsSessionValid_UnreadableFileAsksTool(t *testing.T) {
	tool, runner, kube := newTestTool(t)
	kube.On("HasCredentials", mock.Anything, sessionPath).Return(false, errors.New("parse error"))
	runner.On("Run", mock.Anything, mock.Anything).Return(domain.CommandResult{ExitCode: 0}, nil)

	got, err := tool.IsSessionValid(context.Background(), prod1)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestTool_IsSessionValid_ToolMissing(t *testing.T) {
	tool, runner, kube := newTestTool(t)
	kube.On("HasCredentials", mock.Anything, sessionPath).Return(true, nil)
	runner.On("Run", mock.Anything, mock.Anything).
		Return(domain.CommandResult{}, cerrors.NewToolUnavailableError("oc", errors.New("not found")))

	_, err := tool.IsSessionValid(context.Background(), prod1)
	assert.True(t, cerrors.IsToolUnavailable(err))
}

func TestTool_Login(t *testing.T) {
	tool, runner, _ := newTestTool(t)
	runner.On("Run", mock.Anything, domain.Command{
		Name: "oc",
		Args: []string{"login", "--token=sha256~secret", "--server=https://api.prod1.example.com:6443"},
		Env:  clusterEnv(),
	}).Return(domain.CommandResult{ExitCode: 0}, nil)

	require.NoError(t, tool.Login(context.Background(), prod1, "sha256~secret"))
}

func TestTool_Login_FailureRedactsToken(t *testing.T) {
	tool, runner, _ := newTestTool(t)
	runner.On("Run", mock.Anything, mock.Anything).Return(domain.CommandResult{
		ExitCode: 1,
		Stderr:   []byte("error: token sha256~secret is invalid\n"),
	}, nil)

	err := tool.Login(context.Background(), prod1, "sha256~secret")
	require.Error(t, err)
	assert.True(t, cerrors.IsLoginFailed(err))
	assert.Equal(t, 1, cerrors.ExitCode(err))
	assert.NotContains(t, err.Error(), "sha256~secret")
	assert.Contains(t, err.Error(), "--token=<redacted>")
}

func TestTool_Login_EmptyToken(t *testing.T) {
	tool, runner, _ := newTestTool(t)
	runner.On("Run", mock.Anything, mock.Anything).Return(domain.CommandResult{
		ExitCode: 1,
		Stderr:   []byte("error: you must provide a token"),
	}, nil)

	err := tool.Login(context.Background(), prod1, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error: you must provide a token")
}

func TestTool_SwitchProject(t *testing.T) {
	tool, runner, _ := newTestTool(t)
	runner.On("Run", mock.Anything, domain.Command{
		Name: "oc",
		Args: []string{"project", "app-sre"},
		Env:  clusterEnv(),
	}).Return(domain.CommandResult{ExitCode: 0}, nil).Once()
	runner.On("Run", mock.Anything, domain.Command{
		Name: "oc",
		Args: []string{"project", "missing"},
		Env:  clusterEnv(),
	}).Return(domain.CommandResult{ExitCode: 1, Stderr: []byte("error: not found")}, nil).Once()

	require.NoError(t, tool.SwitchProject(context.Background(), prod1, "app-sre"))

	err := tool.SwitchProject(context.Background(), prod1, "missing")
	require.Error(t, err)
	assert.True(t, cerrors.IsProjectSwitch(err))
	assert.False(t, cerrors.IsLoginFailed(err))
}

func TestTool_CurrentProject_FromSessionFile(t *testing.T) {
	tool, _, kube := newTestTool(t)
	kube.On("CurrentNamespace", mock.Anything, sessionPath).Return("app-sre", nil)

	project, err := tool.CurrentProject(context.Background(), prod1)
	require.NoError(t, err)
	assert.Equal(t, "app-sre", project)
}

func TestTool_CurrentProject_AsksTool(t *testing.T) {
	tests := []struct {
		name  string
		nsErr error
	}{
		{name: "no_namespace"},
		{name: "unreadable_file", nsErr: errors.New("parse error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool, runner, kube := newTestTool(t)
			kube.On("CurrentNamespace", mock.Anything, sessionPath).Return("", tt.nsErr)
			runner.On("Run", mock.Anything, domain.Command{
				Name:  "oc",
				Args:  []string{"project", "-q"},
				Env:   clusterEnv(),
				Quiet: true,
			}).Return(domain.CommandResult{Stdout: []byte("app-sre\n")}, nil)

			project, err := tool.CurrentProject(context.Background(), prod1)
			require.NoError(t, err)
			assert.Equal(t, "app-sre", project)
		})
	}
}

func TestTool_CustomBinary(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	kube := mocks.NewMockKubeconfigInspector(t)
	kube.On("SessionFile", prod1).Return(sessionPath, nil)
	kube.On("CurrentNamespace", mock.Anything, sessionPath).Return("", nil)
	runner.On("Run", mock.Anything, mock.MatchedBy(func(cmd domain.Command) bool {
		return cmd.Name == "/opt/oc-4.16/oc"
	})).Return(domain.CommandResult{Stdout: []byte("default")}, nil)

	tool := NewTool("/opt/oc-4.16/oc", runner, kube, testutil.Logger())
	_, err := tool.CurrentProject(context.Background(), prod1)
	require.NoError(t, err)
}

func TestTool_Environment_InvalidName(t *testing.T) {
	runner := mocks.NewMockCommandRunner(t)
	kube := mocks.NewMockKubeconfigInspector(t)
	bad := domain.Cluster{Name: "../x"}
	kube.On("SessionFile", bad).Return("", cerrors.NewValidationError("name", "../x", "format", "bad"))

	tool := NewTool("", runner, kube, testutil.Logger())
	_, err := tool.IsSessionValid(context.Background(), bad)
	assert.True(t, cerrors.IsValidation(err))
}
