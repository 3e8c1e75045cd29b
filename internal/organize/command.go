package organize

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/reposort/internal/repos/dependencies"
	"github.com/temirov/reposort/internal/utils"
	flagutils "github.com/temirov/reposort/internal/utils/flags"
	pathutils "github.com/temirov/reposort/internal/utils/path"
)

const (
	commandUseConstant              = "sort"
	commandShortDescriptionConstant = "Relocate repositories into target/host/path based on their origin URLs"
	commandLongDescriptionConstant  = "sort discovers git repositories under the source directory, derives the canonical target/host/path location from each configured origin URL, and moves the checkouts there after a single batch confirmation."
	sourceFlagNameConstant          = "source"
	sourceFlagUsageConstant         = "Source directory containing git repositories"
	targetFlagNameConstant          = "target"
	targetFlagUsageConstant         = "Target base directory"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the sort configuration captured during startup.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether git activity should be logged as console messages.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the sort cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Discoverer                   RepositoryDiscoverer
	GitExecutor                  GitExecutor
	GitManager                   GitRepositoryManager
	FileSystem                   FileSystem
	Prompter                     ConfirmationPrompter
}

// Build constructs the cobra command for the sort workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(sourceFlagNameConstant, defaults.Source, sourceFlagUsageConstant)
	command.Flags().String(targetFlagNameConstant, defaults.Target, targetFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, flagutils.DryRunFlagName, "", defaults.DryRun, flagutils.DryRunFlagUsage)
	flagutils.AddToggleFlag(command.Flags(), nil, flagutils.AssumeYesFlagName, flagutils.AssumeYesFlagShorthand, defaults.AssumeYes, flagutils.AssumeYesFlagUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	options := builder.parseOptions(command)

	logger := builder.resolveLogger()
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	gitManager, managerError := dependencies.ResolveGitRepositoryManager(builder.GitManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	discoverer := dependencies.ResolveRepositoryDiscoverer(builder.Discoverer)
	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	prompter := dependencies.ResolveConfirmationPrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout())

	service := NewService(discoverer, gitManager, fileSystem, prompter, utils.NewFlushingWriter(command.OutOrStdout()), utils.NewFlushingWriter(command.ErrOrStderr()))
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) CommandOptions {
	configuration := builder.resolveConfiguration()

	options := CommandOptions{
		SourceDirectory: configuration.Source,
		TargetDirectory: configuration.Target,
		DryRun:          configuration.DryRun,
		AssumeYes:       configuration.AssumeYes,
	}

	commandFlags := command.Flags()
	if commandFlags.Changed(sourceFlagNameConstant) {
		if sourceValue, sourceError := commandFlags.GetString(sourceFlagNameConstant); sourceError == nil {
			options.SourceDirectory = sourceValue
		}
	}
	if commandFlags.Changed(targetFlagNameConstant) {
		if targetValue, targetError := commandFlags.GetString(targetFlagNameConstant); targetError == nil {
			options.TargetDirectory = targetValue
		}
	}
	if commandFlags.Changed(flagutils.DryRunFlagName) {
		if dryRunValue, dryRunError := commandFlags.GetBool(flagutils.DryRunFlagName); dryRunError == nil {
			options.DryRun = dryRunValue
		}
	}
	if commandFlags.Changed(flagutils.AssumeYesFlagName) {
		if assumeYesValue, assumeYesError := commandFlags.GetBool(flagutils.AssumeYesFlagName); assumeYesError == nil {
			options.AssumeYes = assumeYesValue
		}
	}

	homeExpander := pathutils.NewHomeExpander()
	options.SourceDirectory = homeExpander.Expand(options.SourceDirectory)
	options.TargetDirectory = homeExpander.Expand(options.TargetDirectory)

	return options
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}
