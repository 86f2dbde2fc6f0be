// Package signature shortens source files to their signatures by eliding long function
// bodies and stripping import statements. The transformation is a line-based heuristic
// rather than a parser.
package signature

import (
	"path/filepath"
	"strings"
)

// Dialect identifies a family of source files sharing one reduction strategy.
type Dialect int

const (
	// DialectNone marks files that are never reduced.
	DialectNone Dialect = iota
	// DialectIndentation covers languages whose blocks are delimited by indentation.
	DialectIndentation
	// DialectBrace covers languages whose blocks are delimited by curly braces.
	DialectBrace
)

// DefaultThreshold is the largest number of non-blank body lines kept verbatim.
const DefaultThreshold = 3

var dialectByExtension = map[string]Dialect{
	".py":  DialectIndentation,
	".pyi": DialectIndentation,
	".js":  DialectBrace,
	".jsx": DialectBrace,
	".mjs": DialectBrace,
	".cjs": DialectBrace,
	".ts":  DialectBrace,
	".tsx": DialectBrace,
	".mts": DialectBrace,
	".cts": DialectBrace,
}

// DialectForPath selects a dialect from the file extension of path.
func DialectForPath(path string) Dialect {
	return dialectByExtension[strings.ToLower(filepath.Ext(path))]
}

func (dialect Dialect) String() string {
	switch dialect {
	case DialectIndentation:
		return "indentation"
	case DialectBrace:
		return "brace"
	default:
		return "none"
	}
}
