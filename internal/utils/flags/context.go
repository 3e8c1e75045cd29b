// Package flags defines the shared command-line flag names and binding helpers used by the CLI commands.
package flags

import "github.com/spf13/cobra"

const (
	// DefaultRootFlagName names the repeatable repository root flag.
	DefaultRootFlagName = "root"
	// DefaultRootFlagUsage is the default help text for the repository root flag.
	DefaultRootFlagUsage = "Directories to scan for repositories (repeatable)"
	// DryRunFlagName names the flag that previews work without performing it.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage is the help text for the dry-run flag.
	DryRunFlagUsage = "Show planned actions without performing them"
	// AssumeYesFlagName names the flag that suppresses confirmation prompts.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand is the single-letter form of the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage is the help text for the assume-yes flag.
	AssumeYesFlagUsage = "Answer yes to confirmation prompts"
)

// RootFlagDefinition describes how a command wants the repository root flag bound.
type RootFlagDefinition struct {
	Name       string
	Usage      string
	Enabled    bool
	Persistent bool
}

// RootFlagValues holds the parsed repository root list.
type RootFlagValues struct {
	Roots []string
}

// BindRootFlags registers the repository root flag described by definition on command and
// returns the bound values, seeded from defaults.
func BindRootFlags(command *cobra.Command, defaults RootFlagValues, definition RootFlagDefinition) *RootFlagValues {
	boundValues := RootFlagValues{Roots: append([]string{}, defaults.Roots...)}
	if command == nil || !definition.Enabled {
		return &boundValues
	}

	flagName := definition.Name
	if len(flagName) == 0 {
		flagName = DefaultRootFlagName
	}
	flagUsage := definition.Usage
	if len(flagUsage) == 0 {
		flagUsage = DefaultRootFlagUsage
	}

	flagSet := command.Flags()
	if definition.Persistent {
		flagSet = command.PersistentFlags()
	}
	if flagSet.Lookup(flagName) == nil {
		flagSet.StringSliceVar(&boundValues.Roots, flagName, boundValues.Roots, flagUsage)
	}

	// cobra merges persistent flags into Flags() only at execute time.
	if definition.Persistent && command.Flags().Lookup(flagName) == nil {
		if persistentFlag := flagSet.Lookup(flagName); persistentFlag != nil {
			command.Flags().AddFlag(persistentFlag)
		}
	}

	return &boundValues
}
