// Package filter narrows cluster listings by name.
package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"ocl/internal/domain"
)

// ExcludeFilter filters clusters based on exclude regex patterns.
type ExcludeFilter struct {
	patterns []*regexp.Regexp
	logger   *slog.Logger
}

// NewExcludeFilter creates a new exclude filter with the given patterns.
func NewExcludeFilter(patterns []string, logger *slog.Logger) (*ExcludeFilter, error) {
	if len(patterns) == 0 {
		return nil, errors.New("no patterns provided for exclude filter")
	}

	compiledPatterns := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		compiledPatterns = append(compiledPatterns, compiled)
	}

	return &ExcludeFilter{
		patterns: compiledPatterns,
		logger:   logger,
	}, nil
}

// New returns an ExcludeFilter for patterns, or a filter that keeps
// everything when there are none.
func New(patterns []string, logger *slog.Logger) (domain.ClusterFilter, error) {
	if len(patterns) == 0 {
		return NoOpFilter{}, nil
	}
	return NewExcludeFilter(patterns, logger)
}

// ShouldExclude returns true if the cluster name matches any exclude pattern.
func (f *ExcludeFilter) ShouldExclude(clusterName string) bool {
	for _, pattern := range f.patterns {
		if pattern.MatchString(clusterName) {
			f.logger.Debug("Cluster excluded",
				"cluster", clusterName,
				"matched_pattern", pattern.String())
			return true
		}
	}
	return false
}

// NoOpFilter is a filter that never excludes any clusters.
type NoOpFilter struct{}

// ShouldExclude always returns false, never excluding any clusters.
func (NoOpFilter) ShouldExclude(string) bool {
	return false
}

// Apply returns the clusters f does not exclude, in their original order.
func Apply(f domain.ClusterFilter, clusters []domain.Cluster) []domain.Cluster {
	kept := make([]domain.Cluster, 0, len(clusters))
	for _, c := range clusters {
		if !f.ShouldExclude(c.Name) {
			kept = append(kept, c)
		}
	}
	return kept
}
