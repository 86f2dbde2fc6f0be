// Package types defines the cross-package values used by the llmstxt CLI.
package types

import (
	"fmt"
	"strings"
)

// Mode selects the shape of the exported artifact.
type Mode string

const (
	// ModeFlat writes raw file contents behind "==== path ====" headers.
	ModeFlat Mode = "flat"
	// ModeStructured writes a structure diagram followed by delimited directory and file sections.
	ModeStructured Mode = "structured"
)

const invalidModeMessageFormat = "invalid mode %q; accepted values: %s, %s"

// ParseMode converts user input into a Mode. An empty value selects ModeFlat.
func ParseMode(input string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(input))) {
	case "", ModeFlat:
		return ModeFlat, nil
	case ModeStructured:
		return ModeStructured, nil
	default:
		return "", fmt.Errorf(invalidModeMessageFormat, input, ModeFlat, ModeStructured)
	}
}

// ValidatedPath is a target directory that already passed existence checks.
type ValidatedPath struct {
	// DisplayPath is the path as the operator supplied it.
	DisplayPath  string
	AbsolutePath string
}

// ExportSummary captures aggregate information about one export run.
type ExportSummary struct {
	OutputPath     string
	FilesWritten   int
	FilesSkipped   int
	BytesWritten   int64
	SkippedTargets []string
	Tokens         int
	Model          string
}
