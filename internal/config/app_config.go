package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/llmstxt/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds configuration defaults read from YAML files.
type ApplicationConfiguration struct {
	Export ExportConfiguration `mapstructure:"export"`
}

// ExportConfiguration defines the defaults of an export run.
type ExportConfiguration struct {
	Output    string             `mapstructure:"output"`
	Mode      string             `mapstructure:"mode"`
	Policy    string             `mapstructure:"policy"`
	Reduce    *bool              `mapstructure:"reduce"`
	Threshold *int               `mapstructure:"threshold"`
	Clipboard *bool              `mapstructure:"clipboard"`
	Tokens    TokenConfiguration `mapstructure:"tokens"`
	Paths     PathConfiguration  `mapstructure:"paths"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures exclusion rules for path traversal.
type PathConfiguration struct {
	Exclude            []string `mapstructure:"exclude"`
	ExcludeDirectories []string `mapstructure:"exclude_directories"`
	ExcludeFiles       []string `mapstructure:"exclude_files"`
	UseGitignore       *bool    `mapstructure:"use_gitignore"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		if options.ExplicitFilePath != "" {
			if _, statErr := os.Stat(localPath); statErr != nil {
				return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
			}
		}
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Export.Paths.Exclude = utils.NonBlankPatterns(merged.Export.Paths.Exclude)
	merged.Export.Paths.ExcludeDirectories = utils.DeduplicatePatterns(merged.Export.Paths.ExcludeDirectories)
	merged.Export.Paths.ExcludeFiles = utils.DeduplicatePatterns(merged.Export.Paths.ExcludeFiles)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Export = result.Export.merge(override.Export)
	return result
}

func (config ExportConfiguration) merge(override ExportConfiguration) ExportConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Mode != "" {
		result.Mode = override.Mode
	}
	if override.Policy != "" {
		result.Policy = override.Policy
	}
	if override.Reduce != nil {
		result.Reduce = cloneBool(override.Reduce)
	}
	if override.Threshold != nil {
		result.Threshold = cloneInt(override.Threshold)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.NonBlankPatterns(override.Exclude)...)
	}
	if len(override.ExcludeDirectories) > 0 {
		result.ExcludeDirectories = append([]string{}, utils.DeduplicatePatterns(override.ExcludeDirectories)...)
	}
	if len(override.ExcludeFiles) > 0 {
		result.ExcludeFiles = append([]string{}, utils.DeduplicatePatterns(override.ExcludeFiles)...)
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
