package signature

import "regexp"

const indentationEllipsis = "..."

var (
	indentationHeaderPattern = regexp.MustCompile(`^\s*(async\s+)?def\s+\w+\s*\(`)
	indentationImportPattern = regexp.MustCompile(`^\s*(import\s+\S|from\s+\S+\s+import\b)`)
)

type indentationStrategy struct{}

// shortenFunctions captures, for every header, the following lines indented deeper than
// the header. Blank lines are captured regardless of indentation, including those between
// the body and the next statement, so a replaced body takes them with it.
func (indentationStrategy) shortenFunctions(lines []string, threshold int) []string {
	var result []string
	lineIndex := 0
	for lineIndex < len(lines) {
		headerLine := lines[lineIndex]
		if !indentationHeaderPattern.MatchString(headerLine) {
			result = append(result, headerLine)
			lineIndex++
			continue
		}

		headerIndentation := len(leadingWhitespace(headerLine))
		bodyEnd := lineIndex + 1
		for bodyEnd < len(lines) {
			candidate := lines[bodyEnd]
			if !isBlank(candidate) && len(leadingWhitespace(candidate)) <= headerIndentation {
				break
			}
			bodyEnd++
		}

		block := FunctionBlock{Header: headerLine, Body: lines[lineIndex+1 : bodyEnd]}
		result = append(result, block.render(threshold, indentationEllipsis)...)
		lineIndex = bodyEnd
	}
	return result
}

func (indentationStrategy) isImportLine(line string) bool {
	return indentationImportPattern.MatchString(line)
}
