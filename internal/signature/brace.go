package signature

import (
	"regexp"
	"strings"
)

const braceEllipsis = "// ..."

var (
	braceHeaderPatterns = []*regexp.Regexp{
		// function name(...) {
		regexp.MustCompile(`^\s*(?:export\s+(?:default\s+)?)?(?:async\s+)?function\b`),
		// const name = (...) => {
		regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+[\w$]+\s*=\s*(?:async\s+)?(?:\([^)]*\)|[\w$]+)(?:\s*:\s*[^=]+)?\s*=>`),
		// const name = function (...) {
		regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+[\w$]+\s*=\s*(?:async\s+)?function\b`),
	}
	braceImportPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*import(?:\s+|\s*[{*'"])`),
		regexp.MustCompile(`^\s*(?:const|let|var)\s+[^=]+=\s*require\s*\(`),
		regexp.MustCompile(`^\s*require\s*\(`),
	}
)

type braceStrategy struct{}

// shortenFunctions accumulates lines from every header until the brace balance seeded by
// the header returns to zero. Blocks that never close are left untouched.
func (braceStrategy) shortenFunctions(lines []string, threshold int) []string {
	var result []string
	lineIndex := 0
	for lineIndex < len(lines) {
		headerLine := lines[lineIndex]
		if !matchesAny(braceHeaderPatterns, headerLine) {
			result = append(result, headerLine)
			lineIndex++
			continue
		}

		balance := braceDelta(headerLine)
		blockEnd := lineIndex
		for balance > 0 && blockEnd+1 < len(lines) {
			blockEnd++
			balance += braceDelta(lines[blockEnd])
		}

		blockLines := lines[lineIndex : blockEnd+1]
		if balance != 0 || len(blockLines) < 2 {
			result = append(result, blockLines...)
			lineIndex = blockEnd + 1
			continue
		}

		block := FunctionBlock{
			Header:     blockLines[0],
			Body:       blockLines[1 : len(blockLines)-1],
			Closing:    blockLines[len(blockLines)-1],
			HasClosing: true,
		}
		result = append(result, block.render(threshold, braceEllipsis)...)
		lineIndex = blockEnd + 1
	}
	return result
}

func (braceStrategy) isImportLine(line string) bool {
	return matchesAny(braceImportPatterns, line)
}

func braceDelta(line string) int {
	return strings.Count(line, "{") - strings.Count(line, "}")
}

func matchesAny(patterns []*regexp.Regexp, line string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
