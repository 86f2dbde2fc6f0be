package signature

import "strings"

const lineSeparator = "\n"

// strategy is implemented once per dialect.
type strategy interface {
	shortenFunctions(lines []string, threshold int) []string
	isImportLine(line string) bool
}

var strategies = map[Dialect]strategy{
	DialectIndentation: indentationStrategy{},
	DialectBrace:       braceStrategy{},
}

// Reduce replaces every function body holding more than threshold non-blank lines with an
// ellipsis line and then removes import statements. Content of DialectNone is returned
// unchanged. A trailing newline is preserved.
func Reduce(content string, dialect Dialect, threshold int) string {
	selectedStrategy, supported := strategies[dialect]
	if !supported || content == "" {
		return content
	}
	if threshold < 0 {
		threshold = 0
	}

	hasTrailingNewline := strings.HasSuffix(content, lineSeparator)
	lines := strings.Split(strings.TrimSuffix(content, lineSeparator), lineSeparator)

	shortenedLines := selectedStrategy.shortenFunctions(lines, threshold)

	keptLines := make([]string, 0, len(shortenedLines))
	for _, line := range shortenedLines {
		if selectedStrategy.isImportLine(line) {
			continue
		}
		keptLines = append(keptLines, line)
	}

	reduced := strings.Join(keptLines, lineSeparator)
	if hasTrailingNewline && len(keptLines) > 0 {
		reduced += lineSeparator
	}
	return reduced
}

// FunctionBlock is a function header together with the lines that form its body.
type FunctionBlock struct {
	Header string
	Body   []string
	// Closing holds the line that closes a brace-delimited block.
	Closing    string
	HasClosing bool
}

// NonBlankBodyLines counts body lines containing anything besides whitespace.
func (block FunctionBlock) NonBlankBodyLines() int {
	count := 0
	for _, line := range block.Body {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// render returns the block unchanged, or with its body replaced by a single marker line
// when the body exceeds threshold.
func (block FunctionBlock) render(threshold int, marker string) []string {
	rendered := []string{block.Header}
	if block.NonBlankBodyLines() > threshold {
		rendered = append(rendered, leadingWhitespace(block.Header)+bodyIndentation+marker)
	} else {
		rendered = append(rendered, block.Body...)
	}
	if block.HasClosing {
		rendered = append(rendered, block.Closing)
	}
	return rendered
}

const bodyIndentation = "    "

func leadingWhitespace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
