package utils

import (
	"errors"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrUndecodableContent reports file content that is not valid UTF-8 text.
var ErrUndecodableContent = errors.New("content is not valid UTF-8 text")

// IsBinary reports whether data cannot be decoded as UTF-8 text. NUL bytes are valid UTF-8
// and do not make data binary.
func IsBinary(data []byte) bool {
	return len(data) > 0 && !utf8.Valid(data)
}

// ReadTextFile reads the file at path as UTF-8 text with line endings normalized to "\n".
// Directories, unreadable files and content that is not valid UTF-8 produce an error.
//
// #nosec G304
func ReadTextFile(path string) (string, error) {
	fileBytes, readError := os.ReadFile(path)
	if readError != nil {
		return "", readError
	}
	if IsBinary(fileBytes) {
		return "", ErrUndecodableContent
	}
	return strings.ReplaceAll(string(fileBytes), "\r\n", "\n"), nil
}
