// Package filter decides which paths are excluded from an export.
package filter

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Policy names one exclusion policy. Exactly one policy is active for a run.
type Policy string

const (
	// PolicyGitignore combines ignore-file patterns with the directory and file name sets.
	PolicyGitignore Policy = "gitignore"
	// PolicyHidden combines the name sets with hidden-name exclusion and excludes tests.
	// Ignore-file patterns are not consulted.
	PolicyHidden Policy = "hidden"
)

const (
	hiddenNameMarker   = "."
	testsDirectoryName = "tests"
	commentPrefix      = "#"

	invalidPolicyMessageFormat = "invalid policy %q; accepted values: %s, %s"
	patternsUnsupportedMessage = "ignore patterns are not supported by the %s policy"
)

var defaultExcludedDirectoryNames = []string{
	"node_modules", "target", "build", "dist", "migrations",
	"venv", ".venv", "tmp", "temp", "coverage", "out", ".git", ".idea", ".vscode",
	"artifacts", "typechain-types",
}

var defaultExcludedFileNames = []string{
	"LICENSE",
	"package-lock.json",
	"Cargo.lock",
	"jest.config.ts",
	"tsconfig.json",
	"tsconfig.lib.json",
	"tsconfig.spec.json",
}

// ParsePolicy converts user input into a Policy. An empty value selects PolicyGitignore.
func ParsePolicy(input string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(input))) {
	case "", PolicyGitignore:
		return PolicyGitignore, nil
	case PolicyHidden:
		return PolicyHidden, nil
	default:
		return "", fmt.Errorf(invalidPolicyMessageFormat, input, PolicyGitignore, PolicyHidden)
	}
}

// UsesIgnoreFile reports whether the policy consults ignore-file patterns.
func (policy Policy) UsesIgnoreFile() bool {
	return policy != PolicyHidden
}

// DefaultDirectoryNames returns the directory names excluded by the policy.
func DefaultDirectoryNames(policy Policy) []string {
	names := append([]string{}, defaultExcludedDirectoryNames...)
	if policy == PolicyHidden {
		names = append(names, testsDirectoryName)
	}
	return names
}

// DefaultFileNames returns the file names excluded regardless of policy.
func DefaultFileNames() []string {
	return append([]string{}, defaultExcludedFileNames...)
}

// RuleSetOptions describes the inputs of a RuleSet.
type RuleSetOptions struct {
	Policy         Policy
	DirectoryNames []string
	FileNames      []string
	// Patterns holds gitignore-syntax lines; blank lines and comments are skipped.
	Patterns []string
}

// RuleSet is an immutable collection of exclusion rules built once per run.
type RuleSet struct {
	policy         Policy
	directoryNames map[string]struct{}
	fileNames      map[string]struct{}
	matcher        gitignore.Matcher
	patternCount   int
}

// NewRuleSet compiles the provided options into a RuleSet.
func NewRuleSet(options RuleSetOptions) (*RuleSet, error) {
	policy := options.Policy
	if policy == "" {
		policy = PolicyGitignore
	}
	ruleSet := &RuleSet{
		policy:         policy,
		directoryNames: toNameSet(options.DirectoryNames),
		fileNames:      toNameSet(options.FileNames),
	}

	var compiledPatterns []gitignore.Pattern
	for _, line := range options.Patterns {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		compiledPatterns = append(compiledPatterns, gitignore.ParsePattern(line, nil))
	}
	if len(compiledPatterns) > 0 {
		if !policy.UsesIgnoreFile() {
			return nil, fmt.Errorf(patternsUnsupportedMessage, policy)
		}
		ruleSet.matcher = gitignore.NewMatcher(compiledPatterns)
		ruleSet.patternCount = len(compiledPatterns)
	}
	return ruleSet, nil
}

// Policy returns the policy the rule set was built for.
func (ruleSet *RuleSet) Policy() Policy {
	return ruleSet.policy
}

// PatternCount returns the number of compiled ignore patterns.
func (ruleSet *RuleSet) PatternCount() int {
	return ruleSet.patternCount
}

func (ruleSet *RuleSet) decide(segments []string, isDirectory bool) Decision {
	if len(segments) == 0 {
		return Decision{Reason: ReasonNone}
	}

	if ruleSet.matcher != nil && ruleSet.matcher.Match(segments, isDirectory) {
		return Decision{Excluded: true, Reason: ReasonPattern, Segment: strings.Join(segments, "/")}
	}

	for _, segment := range segments {
		if segment == ".." {
			continue
		}
		if _, excluded := ruleSet.directoryNames[segment]; excluded {
			return Decision{Excluded: true, Reason: ReasonDirectoryName, Segment: segment}
		}
		if ruleSet.policy == PolicyHidden && strings.HasPrefix(segment, hiddenNameMarker) {
			return Decision{Excluded: true, Reason: ReasonHiddenName, Segment: segment}
		}
	}

	baseName := segments[len(segments)-1]
	if _, excluded := ruleSet.fileNames[baseName]; excluded {
		return Decision{Excluded: true, Reason: ReasonFileName, Segment: baseName}
	}
	return Decision{Reason: ReasonNone}
}

func toNameSet(names []string) map[string]struct{} {
	nameSet := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			continue
		}
		nameSet[trimmedName] = struct{}{}
	}
	return nameSet
}
