package cloneurl

import "strings"

const (
	targetConfigurationKeyConstant    = "target"
	dryRunConfigurationKeyConstant    = "dry_run"
	assumeYesConfigurationKeyConstant = "assume_yes"
	noFsckConfigurationKeyConstant    = "no_fsck"
	defaultTargetDirectoryConstant    = "~/code"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures persistent settings for the clone command.
type CommandConfiguration struct {
	Target    string `mapstructure:"target"`
	DryRun    bool   `mapstructure:"dry_run"`
	AssumeYes bool   `mapstructure:"assume_yes"`
	NoFsck    bool   `mapstructure:"no_fsck"`
}

// DefaultCommandConfiguration returns baseline configuration values for the clone command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Target: defaultTargetDirectoryConstant,
	}
}

// DefaultConfigurationValues exposes the clone defaults keyed beneath the provided configuration prefix.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + configurationKeySeparatorConstant + targetConfigurationKeyConstant:    defaults.Target,
		configurationKey + configurationKeySeparatorConstant + dryRunConfigurationKeyConstant:    defaults.DryRun,
		configurationKey + configurationKeySeparatorConstant + assumeYesConfigurationKeyConstant: defaults.AssumeYes,
		configurationKey + configurationKeySeparatorConstant + noFsckConfigurationKeyConstant:    defaults.NoFsck,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Target = strings.TrimSpace(configuration.Target)
	if len(sanitized.Target) == 0 {
		sanitized.Target = defaultTargetDirectoryConstant
	}

	return sanitized
}
