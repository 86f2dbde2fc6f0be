// Package exporter concatenates filtered source trees into a single text artifact.
package exporter

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/temirov/llmstxt/internal/filter"
	"github.com/temirov/llmstxt/internal/signature"
	"github.com/temirov/llmstxt/internal/tree"
	"github.com/temirov/llmstxt/internal/types"
	"github.com/temirov/llmstxt/internal/utils"
)

const (
	errorCreateOutputFormat   = "create output %s: %w"
	errorWriteOutputFormat    = "write output %s: %w"
	errorWorkingDirectoryText = "determine working directory: %w"
	warningTargetMissing      = "target directory does not exist; skipping"
	warningTargetNotDirectory = "target is not a directory; skipping"
	defaultTargetPath         = "."
)

// Options configures one export run.
type Options struct {
	Targets          []string
	OutputPath       string
	Mode             types.Mode
	ReduceSignatures bool
	Threshold        int
	// WorkingDirectory anchors relative targets and the paths handed to the filter.
	// Defaults to the process working directory.
	WorkingDirectory string
}

// Exporter writes the artifact described by its Options.
type Exporter struct {
	options    Options
	pathFilter *filter.Filter
	logger     *zap.Logger
}

// New constructs an Exporter. A nil logger discards diagnostics.
func New(options Options, pathFilter *filter.Filter, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pathFilter == nil {
		pathFilter = filter.NewFilter(nil, logger)
	}
	if len(options.Targets) == 0 {
		options.Targets = []string{defaultTargetPath}
	}
	if options.OutputPath == "" {
		options.OutputPath = utils.DefaultOutputFileName
	}
	if options.Mode == "" {
		options.Mode = types.ModeFlat
	}
	if options.Threshold < 0 {
		options.Threshold = 0
	}
	return &Exporter{options: options, pathFilter: pathFilter, logger: logger}
}

// Export creates or truncates the output file and writes every surviving file of every
// valid target into it. Missing targets are reported as warnings and skipped.
func (exporter *Exporter) Export() (summary types.ExportSummary, exportError error) {
	workingDirectory := exporter.options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return types.ExportSummary{}, fmt.Errorf(errorWorkingDirectoryText, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}
	absoluteWorkingDirectory, absoluteError := filepath.Abs(workingDirectory)
	if absoluteError != nil {
		return types.ExportSummary{}, fmt.Errorf(errorWorkingDirectoryText, absoluteError)
	}

	outputPath := exporter.options.OutputPath
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(absoluteWorkingDirectory, outputPath)
	}
	outputPath = filepath.Clean(outputPath)
	summary.OutputPath = outputPath

	// #nosec G304
	outputFile, createError := os.Create(outputPath)
	if createError != nil {
		return summary, fmt.Errorf(errorCreateOutputFormat, outputPath, createError)
	}
	defer func() {
		if closeError := outputFile.Close(); closeError != nil && exportError == nil {
			exportError = fmt.Errorf(errorWriteOutputFormat, outputPath, closeError)
		}
	}()

	bufferedWriter := bufio.NewWriter(outputFile)
	targets, skippedTargets := exporter.validateTargets(absoluteWorkingDirectory)
	summary.SkippedTargets = skippedTargets

	walker := &walker{
		pathFilter:       exporter.pathFilter,
		workingDirectory: absoluteWorkingDirectory,
		outputPath:       outputPath,
		logger:           exporter.logger,
	}
	var artifactWriter writer
	switch exporter.options.Mode {
	case types.ModeStructured:
		artifactWriter = &structuredWriter{
			output:           bufferedWriter,
			walker:           walker,
			renderer:         tree.NewRenderer(exporter.pathFilter, absoluteWorkingDirectory),
			reduceSignatures: exporter.options.ReduceSignatures,
			threshold:        exporter.options.Threshold,
			logger:           exporter.logger,
		}
	default:
		artifactWriter = &flatWriter{output: bufferedWriter, walker: walker, logger: exporter.logger}
	}

	counts, writeError := artifactWriter.write(targets)
	summary.FilesWritten = counts.filesWritten
	summary.FilesSkipped = counts.filesSkipped
	if flushError := bufferedWriter.Flush(); flushError != nil && writeError == nil {
		writeError = flushError
	}
	if writeError != nil {
		return summary, fmt.Errorf(errorWriteOutputFormat, outputPath, writeError)
	}
	if fileInfo, statError := outputFile.Stat(); statError == nil {
		summary.BytesWritten = fileInfo.Size()
	}
	return summary, nil
}

// validateTargets resolves each target against workingDirectory, dropping missing and
// non-directory targets with a warning and excluded targets silently.
func (exporter *Exporter) validateTargets(workingDirectory string) ([]types.ValidatedPath, []string) {
	var validated []types.ValidatedPath
	var skipped []string
	for _, target := range exporter.options.Targets {
		absoluteTarget := target
		if !filepath.IsAbs(absoluteTarget) {
			absoluteTarget = filepath.Join(workingDirectory, target)
		}
		absoluteTarget = filepath.Clean(absoluteTarget)

		targetInfo, statError := os.Stat(absoluteTarget)
		if statError != nil {
			if !errors.Is(statError, os.ErrNotExist) {
				exporter.logger.Debug("target stat failed", zap.String("target", target), zap.Error(statError))
			}
			exporter.logger.Warn(warningTargetMissing, zap.String("target", target))
			skipped = append(skipped, target)
			continue
		}
		if !targetInfo.IsDir() {
			exporter.logger.Warn(warningTargetNotDirectory, zap.String("target", target))
			skipped = append(skipped, target)
			continue
		}

		relativeTarget := utils.RelativePathOrSelf(absoluteTarget, workingDirectory)
		if exporter.pathFilter.IsExcluded(relativeTarget, true) {
			exporter.logger.Debug("excluding target", zap.String("target", target))
			continue
		}
		validated = append(validated, types.ValidatedPath{DisplayPath: target, AbsolutePath: absoluteTarget})
	}
	return validated, skipped
}

// directoryListing holds the surviving entries of one directory, files first.
type directoryListing struct {
	files       []string
	directories []string
}

// walker performs the pruned traversal shared by both output modes.
type walker struct {
	pathFilter       *filter.Filter
	workingDirectory string
	outputPath       string
	logger           *zap.Logger
}

// relative returns path relative to the working directory.
func (walker *walker) relative(path string) string {
	return utils.RelativePathOrSelf(path, walker.workingDirectory)
}

// list reads directoryPath and returns the surviving files and sub-directories, each
// sorted by name. Excluded directories are never returned and so never opened.
func (walker *walker) list(directoryPath string) directoryListing {
	var listing directoryListing
	directoryEntries, readDirectoryError := os.ReadDir(directoryPath)
	if readDirectoryError != nil {
		walker.logger.Debug("could not read directory", zap.String("path", walker.relative(directoryPath)), zap.Error(readDirectoryError))
		return listing
	}
	for _, directoryEntry := range directoryEntries {
		entryPath := filepath.Join(directoryPath, directoryEntry.Name())
		isDirectory := directoryEntry.IsDir()
		if entryPath == walker.outputPath {
			continue
		}
		if !isDirectory && directoryEntry.Type()&os.ModeSymlink != 0 {
			if targetInfo, statError := os.Stat(entryPath); statError == nil && targetInfo.IsDir() {
				walker.logger.Debug("not following directory symlink", zap.String("path", walker.relative(entryPath)))
				continue
			}
		}
		if walker.pathFilter.IsExcluded(walker.relative(entryPath), isDirectory) {
			continue
		}
		if isDirectory {
			listing.directories = append(listing.directories, entryPath)
		} else {
			listing.files = append(listing.files, entryPath)
		}
	}
	sort.Strings(listing.files)
	sort.Strings(listing.directories)
	return listing
}

// visit walks rootPath depth-first, calling visitDirectory for every surviving directory
// and visitFile for each of its files before descending into its sub-directories.
func (walker *walker) visit(rootPath string, visitDirectory func(string) error, visitFile func(string) error) error {
	if visitDirectory != nil {
		if visitError := visitDirectory(rootPath); visitError != nil {
			return visitError
		}
	}
	listing := walker.list(rootPath)
	for _, filePath := range listing.files {
		if visitError := visitFile(filePath); visitError != nil {
			return visitError
		}
	}
	for _, directoryPath := range listing.directories {
		if visitError := walker.visit(directoryPath, visitDirectory, visitFile); visitError != nil {
			return visitError
		}
	}
	return nil
}

// readEligibleContent reads a text file, applying the signature reducer when enabled
// and the extension selects a dialect.
func readEligibleContent(path string, reduceSignatures bool, threshold int) (string, error) {
	content, readError := utils.ReadTextFile(path)
	if readError != nil {
		return "", readError
	}
	if !reduceSignatures {
		return content, nil
	}
	dialect := signature.DialectForPath(path)
	if dialect == signature.DialectNone {
		return content, nil
	}
	return signature.Reduce(content, dialect, threshold), nil
}
