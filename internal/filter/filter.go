package filter

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Reason explains why a path was excluded.
type Reason string

const (
	ReasonNone          Reason = "none"
	ReasonPattern       Reason = "pattern"
	ReasonDirectoryName Reason = "directory-name"
	ReasonFileName      Reason = "file-name"
	ReasonHiddenName    Reason = "hidden-name"
)

// Decision is the outcome of evaluating one path.
type Decision struct {
	Excluded bool
	Reason   Reason
	// Segment is the path segment or pattern-matched path responsible for the exclusion.
	Segment string
}

// Filter evaluates relative paths against a RuleSet.
type Filter struct {
	rules  *RuleSet
	logger *zap.Logger
}

// NewFilter constructs a Filter. A nil logger disables tracing.
func NewFilter(rules *RuleSet, logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rules == nil {
		rules, _ = NewRuleSet(RuleSetOptions{})
	}
	return &Filter{rules: rules, logger: logger}
}

// Decide evaluates relativePath. Directories must be evaluated with isDirectory set so
// that directory-only patterns apply before the walk descends into them.
func (filter *Filter) Decide(relativePath string, isDirectory bool) Decision {
	decision := filter.rules.decide(splitSegments(relativePath), isDirectory)
	if decision.Excluded {
		filter.logger.Debug("path excluded",
			zap.String("path", relativePath),
			zap.Bool("directory", isDirectory),
			zap.String("reason", string(decision.Reason)),
			zap.String("segment", decision.Segment))
	}
	return decision
}

// IsExcluded reports whether relativePath is excluded.
func (filter *Filter) IsExcluded(relativePath string, isDirectory bool) bool {
	return filter.Decide(relativePath, isDirectory).Excluded
}

// splitSegments splits a relative path on the platform separator dropping empty and "." segments.
func splitSegments(relativePath string) []string {
	normalizedPath := filepath.ToSlash(relativePath)
	var segments []string
	for _, segment := range strings.Split(normalizedPath, "/") {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
