package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/llmstxt/internal/config"
	"github.com/temirov/llmstxt/internal/filter"
	"github.com/temirov/llmstxt/internal/signature"
	"github.com/temirov/llmstxt/internal/tokenizer"
	"github.com/temirov/llmstxt/internal/types"
	"github.com/temirov/llmstxt/internal/utils"
)

// exportSettings is the effective configuration of one run: flags over configuration
// files over defaults.
type exportSettings struct {
	verbose            bool
	mode               types.Mode
	policy             filter.Policy
	reduce             bool
	threshold          int
	output             string
	exclusionPatterns  []string
	excludeDirectories []string
	excludeFiles       []string
	useGitignore       bool
	tokens             bool
	model              string
	clipboard          bool
}

func resolveSettings(command *cobra.Command, flags exportFlags, configuration config.ExportConfiguration) (exportSettings, error) {
	changed := func(name string) bool {
		return command.Flags().Changed(name)
	}

	settings := exportSettings{
		verbose:      flags.verbose,
		threshold:    signature.DefaultThreshold,
		output:       utils.DefaultOutputFileName,
		useGitignore: true,
		model:        tokenizer.DefaultModel,
	}

	modeInput := configuration.Mode
	if changed(structuredFlagName) {
		modeInput = string(types.ModeFlat)
		if flags.structured {
			modeInput = string(types.ModeStructured)
		}
	}
	mode, modeError := types.ParseMode(modeInput)
	if modeError != nil {
		return exportSettings{}, modeError
	}
	settings.mode = mode

	policyInput := configuration.Policy
	if changed(policyFlagName) {
		policyInput = flags.policy
	}
	policy, policyError := filter.ParsePolicy(policyInput)
	if policyError != nil {
		return exportSettings{}, policyError
	}
	settings.policy = policy

	if configuration.Output != "" {
		settings.output = configuration.Output
	}
	if changed(outputFlagName) {
		settings.output = flags.output
	}

	settings.reduce = overlayBool(settings.reduce, configuration.Reduce, changed(reduceFlagName), flags.reduce)
	settings.clipboard = overlayBool(settings.clipboard, configuration.Clipboard, changed(clipboardFlagName), flags.clipboard)
	settings.tokens = overlayBool(settings.tokens, configuration.Tokens.Enabled, changed(tokensFlagName), flags.tokens)
	settings.useGitignore = overlayBool(settings.useGitignore, configuration.Paths.UseGitignore, changed(noGitignoreFlagName), !flags.noGitignore)

	if configuration.Threshold != nil {
		settings.threshold = *configuration.Threshold
	}
	if changed(thresholdFlagName) {
		settings.threshold = flags.threshold
	}
	if settings.threshold < 0 {
		return exportSettings{}, fmt.Errorf(invalidThresholdMessageFormat, settings.threshold)
	}

	if configuration.Tokens.Model != "" {
		settings.model = configuration.Tokens.Model
	}
	if changed(modelFlagName) {
		settings.model = flags.model
	}

	settings.exclusionPatterns = utils.NonBlankPatterns(append(append([]string{}, configuration.Paths.Exclude...), flags.exclusionPatterns...))
	settings.excludeDirectories = utils.DeduplicatePatterns(configuration.Paths.ExcludeDirectories)
	settings.excludeFiles = utils.DeduplicatePatterns(configuration.Paths.ExcludeFiles)
	return settings, nil
}

// overlayBool applies a configuration value and then an explicitly set flag onto base.
func overlayBool(base bool, configured *bool, flagChanged bool, flagValue bool) bool {
	result := base
	if configured != nil {
		result = *configured
	}
	if flagChanged {
		result = flagValue
	}
	return result
}
