package utils_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/llmstxt/internal/utils"
)

// textFileName defines the name of the text file used in tests.
const textFileName = "sample.txt"

// binaryFileName defines the name of the binary file used in tests.
const binaryFileName = "sample.bin"

// nestedDirectoryName defines the directory used for relative path tests.
const nestedDirectoryName = "subdir"

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate and blank patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{
			testName: "removes duplicates",
			patterns: []string{"a", "b", "a"},
			expected: []string{"a", "b"},
		},
		{
			testName: "keeps unique",
			patterns: []string{"a", "b"},
			expected: []string{"a", "b"},
		},
		{
			testName: "drops blanks and trims",
			patterns: []string{" *.log ", "", "*.log", "   "},
			expected: []string{"*.log"},
		},
	}
	for index, testCase := range testCases {
		actual := utils.DeduplicatePatterns(testCase.patterns)
		if len(actual) != len(testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected length %d, got %d", index, testCase.testName, len(testCase.expected), len(actual))
			continue
		}
		for position, value := range actual {
			if value != testCase.expected[position] {
				testingInstance.Errorf("case %d (%s): expected %s at position %d, got %s", index, testCase.testName, testCase.expected[position], position, value)
			}
		}
	}
}

// TestNonBlankPatterns verifies that NonBlankPatterns keeps order, repeats and whitespace.
func TestNonBlankPatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{testName: "keeps repeats after negation", patterns: []string{"*.log", "!keep.log", "*.log"}, expected: []string{"*.log", "!keep.log", "*.log"}},
		{testName: "drops blanks only", patterns: []string{"", " ", " lead", "trail\\ "}, expected: []string{" lead", "trail\\ "}},
		{testName: "empty input", patterns: nil, expected: []string{}},
	}
	for index, testCase := range testCases {
		actual := utils.NonBlankPatterns(testCase.patterns)
		if !reflect.DeepEqual(actual, testCase.expected) {
			testingInstance.Errorf("case %d (%s): expected %q, got %q", index, testCase.testName, testCase.expected, actual)
		}
	}
}

// TestRelativePathOrSelf verifies relative path calculations.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	nestedFilePath := filepath.Join(temporaryRoot, nestedDirectoryName, textFileName)

	if relativePath := utils.RelativePathOrSelf(temporaryRoot, temporaryRoot); relativePath != "." {
		testingInstance.Fatalf("expected '.', got %s", relativePath)
	}
	expectedNestedPath := filepath.Join(nestedDirectoryName, textFileName)
	if relativePath := utils.RelativePathOrSelf(nestedFilePath, temporaryRoot); relativePath != expectedNestedPath {
		testingInstance.Fatalf("expected %s, got %s", expectedNestedPath, relativePath)
	}
}

// TestIsBinary verifies binary detection on in-memory data.
func TestIsBinary(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{testName: "empty", data: nil, expected: false},
		{testName: "text", data: []byte("hello"), expected: false},
		{testName: "null byte", data: []byte{'a', 0x00, 'b'}, expected: false},
		{testName: "invalid utf8", data: []byte{0xff, 0xfe}, expected: true},
		{testName: "truncated rune", data: []byte{'a', 0xe2, 0x82}, expected: true},
	}
	for _, testCase := range testCases {
		if actual := utils.IsBinary(testCase.data); actual != testCase.expected {
			testingInstance.Errorf("%s: expected %t, got %t", testCase.testName, testCase.expected, actual)
		}
	}
}

// TestReadTextFile verifies text reading, line ending normalization and failure modes.
func TestReadTextFile(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	textFilePath := filepath.Join(temporaryRoot, textFileName)
	binaryFilePath := filepath.Join(temporaryRoot, binaryFileName)
	if writeError := os.WriteFile(textFilePath, []byte("one\r\ntwo\n"), 0o644); writeError != nil {
		testingInstance.Fatalf("write text: %v", writeError)
	}
	if writeError := os.WriteFile(binaryFilePath, []byte{0x00, 0xff, 0x01}, 0o644); writeError != nil {
		testingInstance.Fatalf("write binary: %v", writeError)
	}
	nulFilePath := filepath.Join(temporaryRoot, "nul.txt")
	if writeError := os.WriteFile(nulFilePath, []byte("a\x00b\r\n"), 0o644); writeError != nil {
		testingInstance.Fatalf("write nul text: %v", writeError)
	}

	content, readError := utils.ReadTextFile(textFilePath)
	if readError != nil {
		testingInstance.Fatalf("ReadTextFile error: %v", readError)
	}
	if content != "one\ntwo\n" {
		testingInstance.Fatalf("unexpected content %q", content)
	}

	nulContent, readError := utils.ReadTextFile(nulFilePath)
	if readError != nil || nulContent != "a\x00b\n" {
		testingInstance.Fatalf("expected NUL text to be read, got %q and %v", nulContent, readError)
	}

	if _, readError = utils.ReadTextFile(binaryFilePath); !errors.Is(readError, utils.ErrUndecodableContent) {
		testingInstance.Fatalf("expected ErrUndecodableContent, got %v", readError)
	}
	if _, readError = utils.ReadTextFile(temporaryRoot); readError == nil {
		testingInstance.Fatalf("expected error reading a directory")
	}
}

func TestFormatFileSize(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0b"},
		{name: "zero", bytes: 0, expected: "0b"},
		{name: "bytes", bytes: 512, expected: "512b"},
		{name: "one kilobyte", bytes: 1024, expected: "1kb"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.5kb"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10mb"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if result := utils.FormatFileSize(testCase.bytes); result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}
