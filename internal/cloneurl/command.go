package cloneurl

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/reposort/internal/repos/dependencies"
	"github.com/temirov/reposort/internal/utils"
	flagutils "github.com/temirov/reposort/internal/utils/flags"
	pathutils "github.com/temirov/reposort/internal/utils/path"
)

const (
	commandUseNameConstant          = "clone"
	commandUsageTemplateConstant    = commandUseNameConstant + " <url> [<url>...]"
	commandShortDescriptionConstant = "Clone repositories into target/host/path derived from their URLs"
	commandLongDescriptionConstant  = "clone parses each repository URL, derives the canonical target/host/path destination, and clones the repositories there after a single batch confirmation."
	targetFlagNameConstant          = "target"
	targetFlagUsageConstant         = "Target base directory"
	noFsckFlagNameConstant          = "no-fsck"
	noFsckFlagUsageConstant         = "Disable git object integrity checks during clone"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the clone configuration captured during startup.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether git activity should be logged as console messages.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the clone cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	GitExecutor                  GitExecutor
	GitManager                   GitRepositoryManager
	FileSystem                   FileSystem
	Prompter                     ConfirmationPrompter
}

// Build constructs the cobra command for the clone workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUsageTemplateConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().String(targetFlagNameConstant, defaults.Target, targetFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, flagutils.DryRunFlagName, "", defaults.DryRun, flagutils.DryRunFlagUsage)
	flagutils.AddToggleFlag(command.Flags(), nil, flagutils.AssumeYesFlagName, flagutils.AssumeYesFlagShorthand, defaults.AssumeYes, flagutils.AssumeYesFlagUsage)
	flagutils.AddToggleFlag(command.Flags(), nil, noFsckFlagNameConstant, "", defaults.NoFsck, noFsckFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := builder.parseOptions(command, arguments)

	logger := builder.resolveLogger()
	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, builder.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	gitManager, managerError := dependencies.ResolveGitRepositoryManager(builder.GitManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	prompter := dependencies.ResolveConfirmationPrompter(builder.Prompter, command.InOrStdin(), command.OutOrStdout())

	service := NewService(gitManager, fileSystem, prompter, utils.NewFlushingWriter(command.OutOrStdout()), utils.NewFlushingWriter(command.ErrOrStderr()))
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) CommandOptions {
	configuration := builder.resolveConfiguration()

	options := CommandOptions{
		RepositoryURLs:  arguments,
		TargetDirectory: configuration.Target,
		DryRun:          configuration.DryRun,
		AssumeYes:       configuration.AssumeYes,
		DisableFsck:     configuration.NoFsck,
	}

	commandFlags := command.Flags()
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
	if commandFlags.Changed(noFsckFlagNameConstant) {
		if noFsckValue, noFsckError := commandFlags.GetBool(noFsckFlagNameConstant); noFsckError == nil {
			options.DisableFsck = noFsckValue
		}
	}

	options.TargetDirectory = pathutils.NewHomeExpander().Expand(options.TargetDirectory)

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
