package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/llmstxt/internal/utils"
)

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	explicitContent string
	expectOutput    string
	expectMode      string
	expectPolicy    string
	expectReduce    *bool
	expectThreshold *int
	expectTokens    *bool
	expectModel     string
	expectExclude   []string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "export:\n  output: global.txt\n  mode: flat\n  reduce: false\n  threshold: 5\n  paths:\n    exclude: ['*.log']\n",
			localContent:    "export:\n  mode: structured\n  reduce: true\n  tokens:\n    enabled: true\n    model: custom\n",
			expectOutput:    "global.txt",
			expectMode:      "structured",
			expectReduce:    boolPointer(true),
			expectThreshold: intPointer(5),
			expectTokens:    boolPointer(true),
			expectModel:     "custom",
			expectExclude:   []string{"*.log"},
		},
		{
			name:            "explicit_path_replaces_local",
			globalContent:   "",
			localContent:    "export:\n  mode: structured\n",
			explicitPath:    "custom.yaml",
			explicitContent: "export:\n  policy: hidden\n  paths:\n    exclude: ['dist', ' ', '!dist/keep', 'dist']\n",
			expectPolicy:    "hidden",
			expectExclude:   []string{"dist", "!dist/keep", "dist"},
		},
		{
			name:          "no_files",
			expectExclude: []string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			t.Setenv("HOME", homeDirectory)
			t.Setenv("USERPROFILE", homeDirectory)

			if testCase.globalContent != "" {
				globalDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
				if err := os.MkdirAll(globalDirectory, 0o755); err != nil {
					t.Fatalf("create global dir: %v", err)
				}
				if err := os.WriteFile(filepath.Join(globalDirectory, utils.ConfigFileName), []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				if err := os.WriteFile(filepath.Join(workingDirectory, utils.LocalConfigFileName), []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				if err := os.WriteFile(filepath.Join(workingDirectory, testCase.explicitPath), []byte(testCase.explicitContent), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			configuration, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: testCase.explicitPath})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			export := configuration.Export
			if export.Output != testCase.expectOutput {
				t.Fatalf("expected output %q, got %q", testCase.expectOutput, export.Output)
			}
			if export.Mode != testCase.expectMode {
				t.Fatalf("expected mode %q, got %q", testCase.expectMode, export.Mode)
			}
			if export.Policy != testCase.expectPolicy {
				t.Fatalf("expected policy %q, got %q", testCase.expectPolicy, export.Policy)
			}
			if !reflect.DeepEqual(export.Reduce, testCase.expectReduce) {
				t.Fatalf("unexpected reduce value %v", export.Reduce)
			}
			if !reflect.DeepEqual(export.Threshold, testCase.expectThreshold) {
				t.Fatalf("unexpected threshold value %v", export.Threshold)
			}
			if !reflect.DeepEqual(export.Tokens.Enabled, testCase.expectTokens) {
				t.Fatalf("unexpected tokens value %v", export.Tokens.Enabled)
			}
			if export.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, export.Tokens.Model)
			}
			if len(export.Paths.Exclude) != len(testCase.expectExclude) {
				t.Fatalf("unexpected exclude patterns %v", export.Paths.Exclude)
			}
			for index, pattern := range testCase.expectExclude {
				if export.Paths.Exclude[index] != pattern {
					t.Fatalf("unexpected exclude patterns %v", export.Paths.Exclude)
				}
			}
		})
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)

	_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: t.TempDir(), ExplicitFilePath: "absent.yaml"})
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration")
	}
}

func TestLoadApplicationConfigurationRejectsMalformedYAML(t *testing.T) {
	homeDirectory := t.TempDir()
	workingDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	if err := os.WriteFile(filepath.Join(workingDirectory, utils.LocalConfigFileName), []byte("export: [unterminated\n"), 0o600); err != nil {
		t.Fatalf("write local config: %v", err)
	}

	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory}); err == nil {
		t.Fatalf("expected error for malformed configuration")
	}
}

func TestMergeKeepsBaseWhenOverrideEmpty(t *testing.T) {
	base := ApplicationConfiguration{Export: ExportConfiguration{
		Output:    "base.txt",
		Clipboard: boolPointer(true),
		Paths:     PathConfiguration{ExcludeFiles: []string{"notes.md"}, UseGitignore: boolPointer(false)},
	}}
	merged := base.Merge(ApplicationConfiguration{})
	if merged.Export.Output != "base.txt" {
		t.Fatalf("expected base output to survive, got %q", merged.Export.Output)
	}
	if merged.Export.Clipboard == nil || !*merged.Export.Clipboard {
		t.Fatalf("expected clipboard to remain enabled")
	}
	if merged.Export.Paths.UseGitignore == nil || *merged.Export.Paths.UseGitignore {
		t.Fatalf("expected use_gitignore to remain disabled")
	}
	if !reflect.DeepEqual(merged.Export.Paths.ExcludeFiles, []string{"notes.md"}) {
		t.Fatalf("unexpected exclude files %v", merged.Export.Paths.ExcludeFiles)
	}
}
