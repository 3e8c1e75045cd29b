package inventory

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/reposort/internal/repos/dependencies"
	flagutils "github.com/temirov/reposort/internal/utils/flags"
	pathutils "github.com/temirov/reposort/internal/utils/path"
)

const (
	commandUseConstant              = "report"
	commandShortDescriptionConstant = "Report discovered repositories with origin, branch, and worktree state"
	commandLongDescriptionConstant  = "report scans the configured roots for git repositories and prints each repository's path, origin URL, current branch, and dirty state as CSV or YAML."
	formatFlagNameConstant          = "format"
	formatFlagDescriptionConstant   = "Report output format"
)

var supportedReportFormats = []string{string(ReportFormatCSV), string(ReportFormatYAML)}

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the report configuration captured during startup.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether git activity should be logged as console messages.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the report cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Discoverer                   RepositoryDiscoverer
	GitExecutor                  GitExecutor
	GitManager                   GitRepositoryManager

	rootFlagValues *flagutils.RootFlagValues
}

// Build constructs the cobra command for the report workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	builder.rootFlagValues = flagutils.BindRootFlags(command,
		flagutils.RootFlagValues{Roots: defaults.Roots},
		flagutils.RootFlagDefinition{Name: flagutils.DefaultRootFlagName, Usage: flagutils.DefaultRootFlagUsage, Enabled: true},
	)
	command.Flags().String(formatFlagNameConstant, defaults.Format,
		flagutils.FormatChoiceUsage(defaults.Format, supportedReportFormats, formatFlagDescriptionConstant))

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

	service := NewService(discoverer, gitManager, command.OutOrStdout())
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) CommandOptions {
	configuration := builder.resolveConfiguration()

	roots := configuration.Roots
	commandFlags := command.Flags()
	if commandFlags.Changed(flagutils.DefaultRootFlagName) && builder.rootFlagValues != nil {
		roots = builder.rootFlagValues.Roots
	}

	format := configuration.Format
	if commandFlags.Changed(formatFlagNameConstant) {
		if formatValue, formatError := commandFlags.GetString(formatFlagNameConstant); formatError == nil {
			format = formatValue
		}
	}

	rootSanitizer := pathutils.NewRepositoryPathSanitizerWithConfiguration(nil, pathutils.RepositoryPathSanitizerConfiguration{PruneNestedPaths: true})

	return CommandOptions{
		Roots:  rootSanitizer.Sanitize(roots),
		Format: ReportFormat(strings.ToLower(strings.TrimSpace(format))),
	}
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
