package exporter

import (
	"bufio"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/llmstxt/internal/signature"
	"github.com/temirov/llmstxt/internal/tree"
	"github.com/temirov/llmstxt/internal/types"
)

const (
	ruleWidth = 80

	flatHeaderFormat         = "==== %s ====\n"
	fileSeparator            = "\n\n"
	structureDiagramTitle    = "STRUCTURE DIAGRAM"
	exportingTitleFormat     = "EXPORTING: %s"
	directoryHeaderFormat    = "Directory: %s\n"
	fileHeaderFormat         = "File: %s\n"
	readErrorMarkerFormat    = "[Error reading file: %v]"
	targetDiagramRootFormat  = "%s/\n"
	skippingUnreadableFile   = "skipping unreadable file"
	includingFileMessage     = "including file"
	readErrorRenderedMessage = "rendering read error marker"
)

var (
	heavyRule = strings.Repeat("=", ruleWidth)
	lightRule = strings.Repeat("-", ruleWidth)
)

type writeCounts struct {
	filesWritten int
	filesSkipped int
}

type writer interface {
	write(targets []types.ValidatedPath) (writeCounts, error)
}

// flatWriter emits each file behind a "==== path ====" header.
type flatWriter struct {
	output *bufio.Writer
	walker *walker
	logger *zap.Logger
}

func (flat *flatWriter) write(targets []types.ValidatedPath) (writeCounts, error) {
	var counts writeCounts
	for _, target := range targets {
		visitError := flat.walker.visit(target.AbsolutePath, nil, func(filePath string) error {
			relativePath := flat.walker.relative(filePath)
			content, readError := readEligibleContent(filePath, false, 0)
			if readError != nil {
				flat.logger.Debug(skippingUnreadableFile, zap.String("path", relativePath), zap.Error(readError))
				counts.filesSkipped++
				return nil
			}
			flat.logger.Debug(includingFileMessage, zap.String("path", relativePath))
			if _, writeError := fmt.Fprintf(flat.output, flatHeaderFormat, relativePath); writeError != nil {
				return writeError
			}
			if _, writeError := flat.output.WriteString(content); writeError != nil {
				return writeError
			}
			if _, writeError := flat.output.WriteString(fileSeparator); writeError != nil {
				return writeError
			}
			counts.filesWritten++
			return nil
		})
		if visitError != nil {
			return counts, visitError
		}
	}
	return counts, nil
}

// structuredWriter emits a structure diagram for every target followed by delimited
// directory and file sections.
type structuredWriter struct {
	output           *bufio.Writer
	walker           *walker
	renderer         *tree.Renderer
	reduceSignatures bool
	threshold        int
	logger           *zap.Logger
}

func (structured *structuredWriter) write(targets []types.ValidatedPath) (writeCounts, error) {
	var counts writeCounts
	if writeError := structured.banner(structureDiagramTitle); writeError != nil {
		return counts, writeError
	}
	for _, target := range targets {
		if _, writeError := fmt.Fprintf(structured.output, targetDiagramRootFormat, strings.TrimSuffix(target.DisplayPath, "/")); writeError != nil {
			return counts, writeError
		}
		for _, line := range structured.renderer.Render(target.AbsolutePath) {
			if _, writeError := structured.output.WriteString(line + "\n"); writeError != nil {
				return counts, writeError
			}
		}
		if _, writeError := structured.output.WriteString("\n"); writeError != nil {
			return counts, writeError
		}
	}

	for _, target := range targets {
		if writeError := structured.banner(fmt.Sprintf(exportingTitleFormat, target.DisplayPath)); writeError != nil {
			return counts, writeError
		}
		visitError := structured.walker.visit(target.AbsolutePath, structured.writeDirectory, func(filePath string) error {
			written, writeError := structured.writeFile(filePath)
			if written {
				counts.filesWritten++
			} else {
				counts.filesSkipped++
			}
			return writeError
		})
		if visitError != nil {
			return counts, visitError
		}
	}
	return counts, nil
}

func (structured *structuredWriter) banner(title string) error {
	_, writeError := fmt.Fprintf(structured.output, "%s\n%s\n%s\n\n", heavyRule, title, heavyRule)
	return writeError
}

func (structured *structuredWriter) writeDirectory(directoryPath string) error {
	if _, writeError := fmt.Fprintf(structured.output, directoryHeaderFormat, structured.walker.relative(directoryPath)); writeError != nil {
		return writeError
	}
	_, writeError := structured.output.WriteString(lightRule + "\n\n")
	return writeError
}

// writeFile writes one file section. Read failures are rendered inline and reported as
// not written.
func (structured *structuredWriter) writeFile(filePath string) (bool, error) {
	relativePath := structured.walker.relative(filePath)
	if _, writeError := fmt.Fprintf(structured.output, fileHeaderFormat, relativePath); writeError != nil {
		return false, writeError
	}
	if _, writeError := structured.output.WriteString(lightRule + "\n"); writeError != nil {
		return false, writeError
	}

	content, readError := readEligibleContent(filePath, structured.reduceSignatures, structured.threshold)
	written := readError == nil
	if readError != nil {
		structured.logger.Debug(readErrorRenderedMessage, zap.String("path", relativePath), zap.Error(readError))
		content = fmt.Sprintf(readErrorMarkerFormat, readError)
	} else {
		structured.logger.Debug(includingFileMessage, zap.String("path", relativePath), zap.Stringer("dialect", signature.DialectForPath(filePath)))
	}
	if _, writeError := structured.output.WriteString(content); writeError != nil {
		return false, writeError
	}
	_, writeError := structured.output.WriteString(fileSeparator)
	return written, writeError
}
