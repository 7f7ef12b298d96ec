// Package testutil provides test loggers and cluster fixtures.
package testutil

import (
	"bytes"
	"log/slog"

	"ocl/internal/domain"
	"ocl/internal/logging"
)

// Logger returns a silent logger for use in tests.
func Logger() *slog.Logger {
	return logging.NewTestLogger()
}

// CaptureLogger returns a debug logger together with the buffer it writes to.
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewLoggerTo(&buf, slog.LevelDebug), &buf
}

// Cluster returns a non-hypershift cluster whose URLs follow the usual
// OpenShift naming for name.
func Cluster(name string, authMethods ...string) domain.Cluster {
	return domain.Cluster{
		Name:        name,
		ServerURL:   "https://api." + name + ".example.com:6443",
		ConsoleURL:  "https://console-openshift-console.apps." + name + ".example.com",
		AuthMethods: authMethods,
	}
}

// HypershiftCluster returns a hypershift cluster named name.
func HypershiftCluster(name string) domain.Cluster {
	return domain.Cluster{
		Name:       name,
		ServerURL:  "https://api." + name + ".hcp.example.com:443",
		ConsoleURL: "https://console-openshift-console.apps.rosa." + name + ".hcp.example.com",
		Hypershift: true,
	}
}
