// Package utils contains general helper functions used across the llmstxt tool.
package utils

import (
	"path/filepath"
	"strings"
)

// File and directory names shared across the project.
const (
	// GitIgnoreFileName is the name of the Git ignore file read from the working directory.
	GitIgnoreFileName = ".gitignore"
	// DefaultOutputFileName is the artifact written when no output path is configured.
	DefaultOutputFileName = "llms.txt"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".llmstxt"
	// ConfigFileName is the name of the global configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the name of the per-project configuration file.
	LocalConfigFileName = ".llmstxt.yaml"
)

// Messages used by the entry point.
const (
	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal errors returned by the CLI.
	ApplicationExecutionFailedMessage = "llmstxt failed"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept. Blank patterns are dropped.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if _, exists := encounteredPatterns[trimmedPattern]; !exists {
			encounteredPatterns[trimmedPattern] = struct{}{}
			result = append(result, trimmedPattern)
		}
	}
	return result
}

// NonBlankPatterns drops blank entries from patterns and keeps the rest unchanged, in order
// and with repeats. Ignore-pattern order is significant because the last match wins.
func NonBlankPatterns(patterns []string) []string {
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		result = append(result, pattern)
	}
	return result
}

// RelativePathOrSelf calculates the path of fullPath relative to root using the
// platform separator. Returns the cleaned fullPath if the relative calculation fails
// and "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	absolutePath, err := filepath.Abs(cleanPath)
	if err != nil {
		return cleanPath
	}
	if absolutePath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, absolutePath)
	if relErr != nil {
		return cleanPath
	}
	return relativePath
}
