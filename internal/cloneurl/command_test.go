package cloneurl_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/reposort/internal/cloneurl"
	"github.com/temirov/reposort/internal/execshell"
)

const (
	cloneTargetFlagConstant = "--target"
	cloneDryRunFlagConstant = "--dry-run"
	cloneYesFlagConstant    = "--yes"
	cloneNoFsckFlagConstant = "--no-fsck"
)

type cloneGitExecutorStub struct{}

func (stub *cloneGitExecutorStub) ExecuteGit(_ context.Context, _ execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

func buildCloneCommandBuilder(gitManager *recordingCloneManager) cloneurl.CommandBuilder {
	return cloneurl.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() cloneurl.CommandConfiguration { return cloneurl.CommandConfiguration{} },
		GitExecutor:           &cloneGitExecutorStub{},
		GitManager:            gitManager,
	}
}

func executeCloneCommand(testInstance *testing.T, builder cloneurl.CommandBuilder, arguments []string) (string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs(arguments)

	outputBuffer := &strings.Builder{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestCommandBuilderRequiresURLArguments(testInstance *testing.T) {
	testInstance.Parallel()

	builder := buildCloneCommandBuilder(&recordingCloneManager{})

	_, executionError := executeCloneCommand(testInstance, builder, []string{})
	require.Error(testInstance, executionError)
}

func TestCommandBuilderDryRunPrintsPlanWithoutCloning(testInstance *testing.T) {
	testInstance.Parallel()

	targetDirectory := testInstance.TempDir()
	gitManager := &recordingCloneManager{}
	builder := buildCloneCommandBuilder(gitManager)

	commandOutput, executionError := executeCloneCommand(testInstance, builder, []string{
		cloneToolingURLConstant,
		cloneTargetFlagConstant, targetDirectory,
		cloneDryRunFlagConstant,
	})

	require.NoError(testInstance, executionError)
	require.Empty(testInstance, gitManager.cloneCalls)
	require.Contains(testInstance, commandOutput, filepath.Join(targetDirectory, filepath.FromSlash(cloneToolingRelativeConstant)))
	require.Contains(testInstance, commandOutput, cloneDryRunNoticeFragmentConstant)
}

func TestCommandBuilderAppliesFsckFlag(testInstance *testing.T) {
	testInstance.Parallel()

	targetDirectory := testInstance.TempDir()
	gitManager := &recordingCloneManager{}
	builder := buildCloneCommandBuilder(gitManager)

	_, executionError := executeCloneCommand(testInstance, builder, []string{
		cloneToolingURLConstant,
		cloneTargetFlagConstant, targetDirectory,
		cloneYesFlagConstant,
		cloneNoFsckFlagConstant,
	})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, gitManager.cloneCalls, 1)
	require.True(testInstance, gitManager.cloneCalls[0].disableFsckObjects)
	require.Equal(testInstance, filepath.Join(targetDirectory, filepath.FromSlash(cloneToolingRelativeConstant)), gitManager.cloneCalls[0].destinationPath)
}
