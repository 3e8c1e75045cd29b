package organize

import "strings"

const (
	sourceConfigurationKeyConstant    = "source"
	targetConfigurationKeyConstant    = "target"
	dryRunConfigurationKeyConstant    = "dry_run"
	assumeYesConfigurationKeyConstant = "assume_yes"
	defaultSourceDirectoryConstant    = "."
	defaultTargetDirectoryConstant    = "~/code"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures persistent settings for the sort command.
type CommandConfiguration struct {
	Source    string `mapstructure:"source"`
	Target    string `mapstructure:"target"`
	DryRun    bool   `mapstructure:"dry_run"`
	AssumeYes bool   `mapstructure:"assume_yes"`
}

// DefaultCommandConfiguration returns baseline configuration values for the sort command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Source: defaultSourceDirectoryConstant,
		Target: defaultTargetDirectoryConstant,
	}
}

// DefaultConfigurationValues exposes the sort defaults keyed beneath the provided configuration prefix.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + configurationKeySeparatorConstant + sourceConfigurationKeyConstant:    defaults.Source,
		configurationKey + configurationKeySeparatorConstant + targetConfigurationKeyConstant:    defaults.Target,
		configurationKey + configurationKeySeparatorConstant + dryRunConfigurationKeyConstant:    defaults.DryRun,
		configurationKey + configurationKeySeparatorConstant + assumeYesConfigurationKeyConstant: defaults.AssumeYes,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Source = strings.TrimSpace(configuration.Source)
	if len(sanitized.Source) == 0 {
		sanitized.Source = defaultSourceDirectoryConstant
	}

	sanitized.Target = strings.TrimSpace(configuration.Target)
	if len(sanitized.Target) == 0 {
		sanitized.Target = defaultTargetDirectoryConstant
	}

	return sanitized
}
