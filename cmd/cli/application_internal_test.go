package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/reposort/internal/organize"
)

const (
	sortCommandNameConstant     = "sort"
	cloneCommandNameConstant    = "clone"
	reportCommandNameConstant   = "report"
	overriddenLogLevelConstant  = "debug"
	overriddenLogFormatConstant = "console"
)

func TestNewApplicationRegistersToolCommands(t *testing.T) {
	application := NewApplication()

	registeredNames := make(map[string]bool)
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredNames[registeredCommand.Name()] = true
	}

	require.True(t, registeredNames[sortCommandNameConstant])
	require.True(t, registeredNames[cloneCommandNameConstant])
	require.True(t, registeredNames[reportCommandNameConstant])
}

func TestInitializeConfigurationAppliesLogFlagOverrides(t *testing.T) {
	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())

	require.NoError(t, rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, overriddenLogLevelConstant))
	require.NoError(t, rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, overriddenLogFormatConstant))

	initializationError := application.initializeConfiguration(rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, overriddenLogLevelConstant, application.configuration.Common.LogLevel)
	require.Equal(t, overriddenLogFormatConstant, application.configuration.Common.LogFormat)
	require.True(t, application.humanReadableLoggingEnabled())
}

func TestInitializeConfigurationLoadsEmbeddedDefaults(t *testing.T) {
	application := NewApplication()
	rootCommand := application.rootCommand
	rootCommand.SetContext(context.Background())

	initializationError := application.initializeConfiguration(rootCommand)
	require.NoError(t, initializationError)

	require.Equal(t, organize.DefaultCommandConfiguration().Target, application.configuration.Tools.Sort.Target)
	require.False(t, application.humanReadableLoggingEnabled())
}

func TestRootCommandPrintsHelpWithoutArguments(t *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{})

	executionError := application.rootCommand.Execute()
	require.NoError(t, executionError)

	helpOutput := outputBuffer.String()
	require.Contains(t, helpOutput, sortCommandNameConstant)
	require.Contains(t, helpOutput, cloneCommandNameConstant)
	require.Contains(t, helpOutput, reportCommandNameConstant)
}
