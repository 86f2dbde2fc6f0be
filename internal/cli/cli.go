// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/llmstxt/internal/config"
	"github.com/temirov/llmstxt/internal/exporter"
	"github.com/temirov/llmstxt/internal/filter"
	"github.com/temirov/llmstxt/internal/services/clipboard"
	"github.com/temirov/llmstxt/internal/signature"
	"github.com/temirov/llmstxt/internal/tokenizer"
	"github.com/temirov/llmstxt/internal/types"
	"github.com/temirov/llmstxt/internal/utils"
)

const (
	verboseFlagName     = "verbose"
	verboseShorthand    = "v"
	structuredFlagName  = "structured"
	reduceFlagName      = "reduce"
	thresholdFlagName   = "threshold"
	outputFlagName      = "output"
	outputShorthand     = "o"
	exclusionFlagName   = "e"
	noGitignoreFlagName = "no-gitignore"
	policyFlagName      = "policy"
	tokensFlagName      = "tokens"
	modelFlagName       = "model"
	clipboardFlagName   = "clipboard"
	configFlagName      = "config"
	versionFlagName     = "version"
	globalFlagName      = "global"
	forceFlagName       = "force"

	versionTemplate      = "llmstxt version: %s\n"
	initCompletedFormat  = "configuration written to %s\n"
	defaultPath          = "."
	rootUse              = "llmstxt [directories...]"
	rootShortDescription = "export project files into a single llms.txt file"
	rootLongDescription  = `llmstxt concatenates the files of one or more directories into a single text artifact
for language models. Generated directories, VCS metadata, lock files and .gitignore matches
are excluded. Use --structured for a tree diagram with delimited sections and --reduce to
shorten long Python and JavaScript/TypeScript function bodies in that mode.`
	rootUsageExample = `  # Export the current repository into llms.txt
  llmstxt

  # Export two directories in structured mode with long functions shortened
  llmstxt --structured --reduce src lib

  # Skip extra patterns and write elsewhere
  llmstxt -e '*.snap' -e 'fixtures/' -o context.txt`
	initUse              = "init"
	initShortDescription = "write the default configuration file"

	verboseFlagDescription     = "print debug diagnostics for every path decision"
	structuredFlagDescription  = "write a structure diagram followed by delimited sections"
	reduceFlagDescription      = "shorten long function bodies (structured mode only)"
	thresholdFlagDescription   = "maximum non-blank body lines kept verbatim"
	outputFlagDescription      = "output file"
	exclusionFlagDescription   = "additional gitignore-style pattern to exclude (repeatable)"
	noGitignoreFlagDescription = "do not read .gitignore"
	policyFlagDescription      = "exclusion policy: gitignore or hidden"
	tokensFlagDescription      = "count tokens of the exported artifact"
	modelFlagDescription       = "tokenizer model used for token counting"
	clipboardFlagDescription   = "copy the exported artifact to the clipboard"
	configFlagDescription      = "configuration file overriding ./" + utils.LocalConfigFileName
	versionFlagDescription     = "display application version"
	globalFlagDescription      = "write the configuration into the home directory"
	forceFlagDescription       = "overwrite an existing configuration file"

	invalidThresholdMessageFormat = "invalid threshold %d; must be zero or greater"
	workingDirectoryErrorFormat   = "unable to determine working directory: %w"
	loadConfigurationErrorFormat  = "load configuration: %w"
	loggerErrorFormat             = "initialize logger: %w"
	reduceIgnoredMessage          = "--reduce only applies to structured mode; ignoring"
	exportCompletedMessage        = "export complete"
	tokenCountFailedMessage       = "failed to count tokens"
	tokenCountMessage             = "token count"
	clipboardFailedMessage        = "failed to copy artifact to clipboard"
	clipboardCopiedMessage        = "copied artifact to clipboard"
)

// fileCopier places a file's content on the clipboard.
type fileCopier interface {
	CopyFile(path string) error
}

// commandDependencies holds collaborators replaced in tests.
type commandDependencies struct {
	workingDirectory string
	newLogger        func(verbose bool) (*zap.Logger, error)
	newCounter       func(tokenizer.Config) (tokenizer.Counter, string, error)
	copier           fileCopier
}

func defaultDependencies() commandDependencies {
	return commandDependencies{
		newLogger:  utils.NewApplicationLogger,
		newCounter: tokenizer.NewCounter,
		copier:     clipboard.NewService(),
	}
}

// Execute runs the llmstxt application.
func Execute() error {
	dependencies := defaultDependencies()
	rootCommand := createRootCommand(dependencies)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:], directoryExistsIn(dependencies.workingDirectory)))
	return rootCommand.Execute()
}

// exportFlags stores the values of the root command flags.
type exportFlags struct {
	verbose           bool
	structured        bool
	reduce            bool
	threshold         int
	output            string
	exclusionPatterns []string
	noGitignore       bool
	policy            string
	tokens            bool
	model             string
	clipboard         bool
	configPath        string
	showVersion       bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies commandDependencies) *cobra.Command {
	var flags exportFlags

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			return runExport(command, dependencies, flags, arguments)
		},
	}

	flagSet := rootCommand.Flags()
	registerBooleanFlagP(flagSet, &flags.verbose, verboseFlagName, verboseShorthand, false, verboseFlagDescription)
	registerBooleanFlag(flagSet, &flags.structured, structuredFlagName, false, structuredFlagDescription)
	registerBooleanFlag(flagSet, &flags.reduce, reduceFlagName, false, reduceFlagDescription)
	flagSet.IntVar(&flags.threshold, thresholdFlagName, signature.DefaultThreshold, thresholdFlagDescription)
	flagSet.StringVarP(&flags.output, outputFlagName, outputShorthand, utils.DefaultOutputFileName, outputFlagDescription)
	flagSet.StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(flagSet, &flags.noGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	flagSet.StringVar(&flags.policy, policyFlagName, string(filter.PolicyGitignore), policyFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(flagSet, &flags.clipboard, clipboardFlagName, false, clipboardFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	flagSet.BoolVar(&flags.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(createInitCommand(dependencies))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies commandDependencies) *cobra.Command {
	var globalTarget bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            forceOverwrite,
				WorkingDirectory: dependencies.workingDirectory,
			})
			if initError != nil {
				return initError
			}
			_, printError := fmt.Fprintf(command.OutOrStdout(), initCompletedFormat, destinationPath)
			return printError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &globalTarget, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// runExport resolves settings, builds the exclusion rules and writes the artifact.
func runExport(command *cobra.Command, dependencies commandDependencies, flags exportFlags, targets []string) error {
	workingDirectory := dependencies.workingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
	})
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorFormat, configurationError)
	}
	settings, settingsError := resolveSettings(command, flags, applicationConfiguration.Export)
	if settingsError != nil {
		return settingsError
	}

	logger, loggerError := dependencies.newLogger(settings.verbose)
	if loggerError != nil {
		return fmt.Errorf(loggerErrorFormat, loggerError)
	}
	defer func() { _ = logger.Sync() }()

	if settings.reduce && settings.mode != types.ModeStructured {
		logger.Warn(reduceIgnoredMessage)
	}

	pathFilter, filterError := buildFilter(workingDirectory, settings, logger)
	if filterError != nil {
		return filterError
	}

	summary, exportError := exporter.New(exporter.Options{
		Targets:          targets,
		OutputPath:       settings.output,
		Mode:             settings.mode,
		ReduceSignatures: settings.reduce && settings.mode == types.ModeStructured,
		Threshold:        settings.threshold,
		WorkingDirectory: workingDirectory,
	}, pathFilter, logger).Export()
	if exportError != nil {
		return exportError
	}

	if settings.tokens {
		summary.Tokens, summary.Model = countArtifactTokens(dependencies, settings.model, summary.OutputPath, logger)
	}
	logSummary(logger, summary)

	if settings.clipboard && dependencies.copier != nil {
		if copyError := dependencies.copier.CopyFile(summary.OutputPath); copyError != nil {
			logger.Warn(clipboardFailedMessage, zap.Error(copyError))
		} else {
			logger.Info(clipboardCopiedMessage, zap.String("output", summary.OutputPath))
		}
	}
	return nil
}

// buildFilter assembles the exclusion rule set of one run.
func buildFilter(workingDirectory string, settings exportSettings, logger *zap.Logger) (*filter.Filter, error) {
	var patterns []string
	if settings.policy.UsesIgnoreFile() {
		loadedPatterns, loadError := config.LoadIgnorePatterns(workingDirectory, settings.exclusionPatterns, settings.useGitignore, logger)
		if loadError != nil {
			return nil, loadError
		}
		patterns = loadedPatterns
	} else {
		patterns = settings.exclusionPatterns
	}

	directoryNames := append(filter.DefaultDirectoryNames(settings.policy), settings.excludeDirectories...)
	fileNames := append(filter.DefaultFileNames(), settings.excludeFiles...)
	fileNames = append(fileNames, filepath.Base(settings.output))

	ruleSet, ruleSetError := filter.NewRuleSet(filter.RuleSetOptions{
		Policy:         settings.policy,
		DirectoryNames: directoryNames,
		FileNames:      fileNames,
		Patterns:       patterns,
	})
	if ruleSetError != nil {
		return nil, ruleSetError
	}
	logger.Debug("exclusion rules ready",
		zap.String("policy", string(ruleSet.Policy())),
		zap.Int("patterns", ruleSet.PatternCount()),
		zap.Strings("directories", directoryNames),
		zap.Strings("files", fileNames))
	return filter.NewFilter(ruleSet, logger), nil
}

func countArtifactTokens(dependencies commandDependencies, model string, outputPath string, logger *zap.Logger) (int, string) {
	if dependencies.newCounter == nil {
		return 0, ""
	}
	counter, resolvedModel, counterError := dependencies.newCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		logger.Warn(tokenCountFailedMessage, zap.Error(counterError))
		return 0, ""
	}
	result, countError := tokenizer.CountFile(counter, outputPath)
	if countError != nil {
		logger.Warn(tokenCountFailedMessage, zap.String("output", outputPath), zap.Error(countError))
		return 0, ""
	}
	if !result.Counted {
		return 0, ""
	}
	logger.Debug(tokenCountMessage, zap.String("model", resolvedModel), zap.Int("tokens", result.Tokens))
	return result.Tokens, resolvedModel
}

func logSummary(logger *zap.Logger, summary types.ExportSummary) {
	fields := []zap.Field{
		zap.String("output", summary.OutputPath),
		zap.Int("files", summary.FilesWritten),
		zap.Int("skipped", summary.FilesSkipped),
		zap.String("size", utils.FormatFileSize(summary.BytesWritten)),
	}
	if len(summary.SkippedTargets) > 0 {
		fields = append(fields, zap.Strings("missing_targets", summary.SkippedTargets))
	}
	if summary.Model != "" {
		fields = append(fields, zap.Int("tokens", summary.Tokens), zap.String("model", summary.Model))
	}
	logger.Info(exportCompletedMessage, fields...)
}
