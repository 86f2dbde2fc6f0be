package types

import "testing"

func TestParseMode(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    Mode
		expectError bool
	}{
		{name: "empty_defaults_to_flat", input: "", expected: ModeFlat},
		{name: "flat", input: "flat", expected: ModeFlat},
		{name: "structured_mixed_case", input: " Structured ", expected: ModeStructured},
		{name: "unknown", input: "tree", expectError: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			mode, err := ParseMode(testCase.input)
			if testCase.expectError {
				if err == nil {
					t.Fatalf("expected error for %q", testCase.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode error: %v", err)
			}
			if mode != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, mode)
			}
		})
	}
}
