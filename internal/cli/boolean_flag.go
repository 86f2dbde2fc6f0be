package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName      = "bool"
	booleanFlagTrueLiteral   = "true"
	longFlagPrefix           = "--"
	shortFlagPrefix          = "-"
	flagValueSeparator       = "="
	argumentTerminator       = "--"
	invalidBooleanFlagFormat = "invalid boolean value %q for --%s; accepted values: true, false, yes, no, on, off, 1, 0"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseBooleanLiteral reports the value of a boolean literal and whether input is one.
func parseBooleanLiteral(input string) (bool, bool) {
	value, recognized := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(input))]
	return value, recognized
}

// booleanFlagValue is a pflag.Value accepting every literal of booleanFlagLiterals.
type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = booleanFlagTrueLiteral
	}
	parsed, recognized := parseBooleanLiteral(input)
	if !recognized {
		return fmt.Errorf(invalidBooleanFlagFormat, input, value.flagKey)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag registers a boolean flag that also accepts a separate literal value,
// as in "--reduce false".
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	registerBooleanFlagP(flagSet, target, name, "", defaultValue, usage)
}

// registerBooleanFlagP is registerBooleanFlag with a one-letter shorthand, as in "-v false".
func registerBooleanFlagP(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.VarP(&booleanFlagValue{target: target, flagKey: name}, name, shorthand, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = booleanFlagTrueLiteral
}

// directoryChecker reports whether an argument names an existing directory.
type directoryChecker func(argument string) bool

// directoryExistsIn returns a directoryChecker resolving relative arguments against
// workingDirectory.
func directoryExistsIn(workingDirectory string) directoryChecker {
	return func(argument string) bool {
		candidatePath := argument
		if !filepath.IsAbs(candidatePath) {
			candidatePath = filepath.Join(workingDirectory, candidatePath)
		}
		candidateInfo, statError := os.Stat(candidatePath)
		return statError == nil && candidateInfo.IsDir()
	}
}

// normalizeBooleanFlagArguments rewrites "--flag literal" and "-f literal" into
// "--flag=literal" for boolean flags so that the literal is not taken as a target
// directory. A literal that names an existing directory stays positional.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string, isDirectory directoryChecker) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	flagSets := collectFlagSets(command, nil)
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		booleanFlag := lookupBooleanFlag(flagSets, currentArgument)
		if booleanFlag != nil && index+1 < len(arguments) {
			nextArgument := arguments[index+1]
			_, isLiteral := parseBooleanLiteral(nextArgument)
			if isLiteral && !strings.HasPrefix(nextArgument, shortFlagPrefix) && (isDirectory == nil || !isDirectory(nextArgument)) {
				normalized = append(normalized, longFlagPrefix+booleanFlag.Name+flagValueSeparator+nextArgument)
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

// lookupBooleanFlag resolves "--name" through Lookup and "-x" through ShorthandLookup,
// returning nil for anything that is not a bare boolean flag.
func lookupBooleanFlag(flagSets []*pflag.FlagSet, argument string) *pflag.Flag {
	if strings.Contains(argument, flagValueSeparator) {
		return nil
	}
	for _, flagSet := range flagSets {
		var candidate *pflag.Flag
		switch {
		case strings.HasPrefix(argument, longFlagPrefix):
			candidate = flagSet.Lookup(strings.TrimPrefix(argument, longFlagPrefix))
		case strings.HasPrefix(argument, shortFlagPrefix) && len(argument) == 2:
			candidate = flagSet.ShorthandLookup(strings.TrimPrefix(argument, shortFlagPrefix))
		}
		if candidate != nil && candidate.Value != nil && candidate.Value.Type() == booleanFlagTypeName {
			return candidate
		}
	}
	return nil
}

func collectFlagSets(command *cobra.Command, flagSets []*pflag.FlagSet) []*pflag.FlagSet {
	flagSets = append(flagSets, command.PersistentFlags(), command.Flags())
	for _, child := range command.Commands() {
		flagSets = collectFlagSets(child, flagSets)
	}
	return flagSets
}
