package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/reposort/internal/cloneurl"
	"github.com/temirov/reposort/internal/inventory"
	"github.com/temirov/reposort/internal/organize"
	"github.com/temirov/reposort/internal/utils"
	flagutils "github.com/temirov/reposort/internal/utils/flags"
)

const (
	applicationNameConstant                = "reposort"
	applicationShortDescriptionConstant    = "Command-line interface for organizing git repositories by origin URL"
	applicationLongDescriptionConstant     = "reposort derives canonical target/host/path locations from repository origin URLs to sort existing checkouts, clone new ones, and report on what it finds."
	configFileFlagNameConstant             = "config"
	configFileFlagUsageConstant            = "Path to an explicit configuration file (YAML or JSON)."
	logLevelFlagNameConstant               = "log-level"
	logLevelFlagUsageConstant              = "Log level to use instead of the configured one."
	logFormatFlagNameConstant              = "log-format"
	logFormatFlagUsageConstant             = "Log format to use instead of the configured one (structured or console)."
	commonConfigurationKeyConstant         = "common"
	commonLogLevelConfigKeyConstant        = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant       = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant              = "REPOSORT"
	configurationNameConstant              = "config"
	configurationTypeConstant              = "yaml"
	configurationLoadedMessageConstant     = "configuration loaded"
	configurationLogLevelFieldConstant     = "log_level"
	configurationLogFormatFieldConstant    = "log_format"
	configurationFileFieldConstant         = "configuration_file"
	configurationLoadErrorTemplateConstant = "loading configuration: %w"
	loggerCreationErrorTemplateConstant    = "building logger: %w"
	loggerSyncErrorTemplateConstant        = "flushing logger: %w"
	rootCommandInfoMessageConstant         = "reposort CLI executed"
	rootCommandDebugMessageConstant        = "reposort CLI diagnostics"
	logFieldCommandConstant                = "command"
	logFieldArgumentCountConstant          = "argument_count"
	logFieldArgumentsConstant              = "arguments"
	loggerNotConfiguredMessageConstant     = "logger not configured"
	defaultConfigurationSearchPathConstant = "."
	toolsConfigurationKeyConstant          = "tools"
	sortConfigurationKeyConstant           = toolsConfigurationKeyConstant + ".sort"
	cloneConfigurationKeyConstant          = toolsConfigurationKeyConstant + ".clone"
	reportConfigurationKeyConstant         = toolsConfigurationKeyConstant + ".report"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI subcommands grouped by tool.
type ApplicationToolsConfiguration struct {
	Sort   organize.CommandConfiguration  `mapstructure:"sort"`
	Clone  cloneurl.CommandConfiguration  `mapstructure:"clone"`
	Report inventory.CommandConfiguration `mapstructure:"report"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand           *cobra.Command
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)

	embeddedConfiguration, embeddedConfigurationType := EmbeddedDefaultConfiguration()
	configurationLoader.SetEmbeddedConfiguration(embeddedConfiguration, embeddedConfigurationType)

	application := &Application{
		configurationLoader: configurationLoader,
		loggerFactory:       utils.NewLoggerFactory(),
		logger:              zap.NewNop(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())

	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	persistentFlags.StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	for _, buildSubcommand := range []func() (*cobra.Command, error){
		application.buildSortCommand,
		application.buildCloneCommand,
		application.buildReportCommand,
	} {
		if subcommand, buildError := buildSubcommand(); buildError == nil {
			cobraCommand.AddCommand(subcommand)
		}
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
// Program arguments pass through toggle normalization so "--dry-run yes" parses the
// same way as "--dry-run=yes".
func Execute() error {
	application := NewApplication()
	application.rootCommand.SetArgs(flagutils.NormalizeToggleArguments(os.Args[1:]))
	return application.Execute()
}

func (application *Application) buildSortCommand() (*cobra.Command, error) {
	builder := organize.CommandBuilder{
		LoggerProvider:               application.currentLogger,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() organize.CommandConfiguration {
			return application.configuration.Tools.Sort
		},
	}
	return builder.Build()
}

func (application *Application) buildCloneCommand() (*cobra.Command, error) {
	builder := cloneurl.CommandBuilder{
		LoggerProvider:               application.currentLogger,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() cloneurl.CommandConfiguration {
			return application.configuration.Tools.Clone
		},
	}
	return builder.Build()
}

func (application *Application) buildReportCommand() (*cobra.Command, error) {
	builder := inventory.CommandBuilder{
		LoggerProvider:               application.currentLogger,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() inventory.CommandConfiguration {
			return application.configuration.Tools.Report
		},
	}
	return builder.Build()
}

func (application *Application) currentLogger() *zap.Logger {
	return application.logger
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(
		application.configurationFilePath,
		application.defaultConfigurationValues(),
		&application.configuration,
	)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	application.applyLoggingFlagOverrides(command)

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}
	application.logger = logger

	application.logger.Info(
		configurationLoadedMessageConstant,
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
	)

	return nil
}

func (application *Application) defaultConfigurationValues() map[string]any {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	maps.Copy(defaultValues, organize.DefaultConfigurationValues(sortConfigurationKeyConstant))
	maps.Copy(defaultValues, cloneurl.DefaultConfigurationValues(cloneConfigurationKeyConstant))
	maps.Copy(defaultValues, inventory.DefaultConfigurationValues(reportConfigurationKeyConstant))
	return defaultValues
}

func (application *Application) applyLoggingFlagOverrides(command *cobra.Command) {
	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotConfiguredMessageConstant)
	}

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandConstant, command.Name()),
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	application.logger.Info(rootCommandInfoMessageConstant, zap.Int(logFieldArgumentCountConstant, len(arguments)))
	return nil
}

// flushLogger syncs the zap logger, tolerating the sync errors terminals report.
func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	if syncError == nil || errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) {
		return nil
	}
	return syncError
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	candidateFlagSets := []*pflag.FlagSet{command.PersistentFlags(), command.InheritedFlags()}
	if rootCommand := command.Root(); rootCommand != nil {
		candidateFlagSets = append(candidateFlagSets, rootCommand.PersistentFlags())
	}

	for _, flagSet := range candidateFlagSets {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
