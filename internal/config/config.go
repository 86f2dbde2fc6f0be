// Package config loads ignore files and application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/llmstxt/internal/utils"
)

const (
	commentPrefix                = "#"
	carriageReturn               = "\r"
	escapedTrailingSpace         = "\\ "
	trailingWhitespace           = " \t"
	errorLoadIgnoreFileFormat    = "loading %s from %s: %w"
	warningCloseIgnoreFileFormat = "failed to close %s: %v"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns. Blank lines and
// comments are skipped. A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			fmt.Fprintf(os.Stderr, warningCloseIgnoreFileFormat+"\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		patternLine := trimIgnoreLine(scanner.Text())
		if strings.TrimSpace(patternLine) == "" || strings.HasPrefix(patternLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, patternLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// trimIgnoreLine removes a carriage return and unescaped trailing whitespace. Leading
// whitespace and an escaped trailing space (`foo\ `) are part of the pattern.
func trimIgnoreLine(line string) string {
	line = strings.TrimSuffix(line, carriageReturn)
	if strings.HasSuffix(line, escapedTrailingSpace) {
		return line
	}
	return strings.TrimRight(line, trailingWhitespace)
}

// LoadIgnorePatterns returns the patterns of the .gitignore file in workingDirectory, when
// useGitignore is set, followed by the provided exclusionPatterns. Order and repeats are
// kept so that a later pattern overrides an earlier negation.
func LoadIgnorePatterns(workingDirectory string, exclusionPatterns []string, useGitignore bool, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var combinedPatterns []string

	if useGitignore {
		gitIgnoreFilePath := filepath.Join(workingDirectory, utils.GitIgnoreFileName)
		gitIgnorePatterns, loadError := LoadIgnoreFilePatterns(gitIgnoreFilePath)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFileFormat, utils.GitIgnoreFileName, workingDirectory, loadError)
		}
		if gitIgnorePatterns == nil {
			logger.Debug("no ignore file found; using no patterns", zap.String("path", gitIgnoreFilePath))
		} else {
			logger.Debug("found ignore file", zap.String("path", gitIgnoreFilePath), zap.Int("patterns", len(gitIgnorePatterns)))
		}
		combinedPatterns = append(combinedPatterns, gitIgnorePatterns...)
	}

	return append(combinedPatterns, utils.NonBlankPatterns(exclusionPatterns)...), nil
}
