package inventory

import "strings"

const (
	rootsConfigurationKeyConstant     = "roots"
	formatConfigurationKeyConstant    = "format"
	configurationKeySeparatorConstant = "."
)

// CommandConfiguration captures persistent settings for the report command.
type CommandConfiguration struct {
	Roots  []string `mapstructure:"roots"`
	Format string   `mapstructure:"format"`
}

// DefaultCommandConfiguration returns baseline configuration values for the report command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Format: string(ReportFormatCSV),
	}
}

// DefaultConfigurationValues exposes the report defaults keyed beneath the provided configuration prefix.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + configurationKeySeparatorConstant + rootsConfigurationKeyConstant:  defaults.Roots,
		configurationKey + configurationKeySeparatorConstant + formatConfigurationKeyConstant: defaults.Format,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Format = strings.ToLower(strings.TrimSpace(configuration.Format))
	if len(sanitized.Format) == 0 {
		sanitized.Format = string(ReportFormatCSV)
	}

	return sanitized
}
