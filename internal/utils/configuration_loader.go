package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	configurationKeySegmentSeparatorConstant    = "."
	environmentVariableSegmentSeparatorConstant = "_"
	readConfigurationErrorTemplateConstant      = "unable to read configuration file: %w"
	decodeConfigurationErrorTemplateConstant    = "unable to decode configuration: %w"
	mergeEmbeddedDefaultsErrorTemplateConstant  = "unable to merge embedded configuration defaults: %w"
)

// ConfigurationLoader layers configuration sources through Viper. Precedence
// from lowest to highest: caller-provided defaults, embedded defaults, the
// resolved configuration file, then environment variables carrying the
// loader's prefix.
type ConfigurationLoader struct {
	settingsName             string
	settingsType             string
	environmentPrefix        string
	configurationSearchPaths []string
	environmentKeyRewriter   *strings.Replacer
	embeddedDefaults         []byte
	embeddedDefaultsType     string
}

// LoadedConfiguration reports where the resolved configuration came from.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader constructs a loader that looks for settingsName
// files of settingsType along the provided search paths and reads
// environment overrides beneath environmentPrefix.
func NewConfigurationLoader(settingsName string, settingsType string, environmentPrefix string, configurationSearchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		settingsName:             settingsName,
		settingsType:             settingsType,
		environmentPrefix:        environmentPrefix,
		configurationSearchPaths: append([]string(nil), configurationSearchPaths...),
		environmentKeyRewriter:   strings.NewReplacer(configurationKeySegmentSeparatorConstant, environmentVariableSegmentSeparatorConstant),
	}
}

// SetEmbeddedConfiguration registers configuration data compiled into the
// binary. Embedded data merges before any configuration file so files and
// environment variables can still override it.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedDefaults = append([]byte(nil), configurationData...)
	loader.embeddedDefaultsType = strings.TrimSpace(configurationType)
}

// LoadConfiguration resolves the effective configuration into
// targetConfiguration and reports which configuration file, if any, supplied
// values. A missing configuration file is not an error; every other read or
// decode failure is.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.settingsName)
	viperInstance.SetConfigType(loader.settingsType)

	if mergeError := loader.mergeEmbeddedDefaults(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(mergeEmbeddedDefaultsErrorTemplateConstant, mergeError)
	}

	for _, configurationSearchPath := range loader.configurationSearchPaths {
		viperInstance.AddConfigPath(configurationSearchPath)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	if loader.environmentKeyRewriter != nil {
		viperInstance.SetEnvKeyReplacer(loader.environmentKeyRewriter)
	}
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var configurationNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &configurationNotFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(readConfigurationErrorTemplateConstant, readError)
		}
	}

	if decodeError := viperInstance.Unmarshal(targetConfiguration); decodeError != nil {
		return LoadedConfiguration{}, fmt.Errorf(decodeConfigurationErrorTemplateConstant, decodeError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

// mergeEmbeddedDefaults feeds the embedded payload through the viper instance
// under the embedded type, then restores the file type so on-disk
// configuration keeps parsing as configured.
func (loader *ConfigurationLoader) mergeEmbeddedDefaults(viperInstance *viper.Viper) error {
	if len(loader.embeddedDefaults) == 0 {
		return nil
	}

	embeddedType := loader.embeddedDefaultsType
	if len(embeddedType) == 0 {
		embeddedType = loader.settingsType
	}

	viperInstance.SetConfigType(embeddedType)
	mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedDefaults))
	viperInstance.SetConfigType(loader.settingsType)
	return mergeError
}
