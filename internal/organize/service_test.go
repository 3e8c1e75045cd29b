package organize_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/temirov/reposort/internal/gitrepo"
	"github.com/temirov/reposort/internal/organize"
	"github.com/temirov/reposort/internal/repos/discovery"
	"github.com/temirov/reposort/internal/repos/filesystem"
)

const (
	toolingRepositoryNameConstant          = "tooling"
	websiteRepositoryNameConstant          = "website"
	alphaRepositoryNameConstant            = "alpha"
	betaRepositoryNameConstant             = "beta"
	orphanRepositoryNameConstant           = "orphan"
	crypticRepositoryNameConstant          = "cryptic"
	toolingOriginURLConstant               = "git@github.com:temirov/tooling.git"
	websiteOriginURLConstant               = "https://example.dev/team/website.git"
	unparseableOriginURLConstant           = "https://"
	toolingDestinationRelativeConstant     = "github.com/temirov/tooling"
	toolingFirstCopyRelativeConstant       = "github.com/temirov/tooling-copy1"
	websiteDestinationRelativeConstant     = "example.dev/team/website"
	gitMetadataEntryNameConstant           = ".git"
	fixtureDirectoryPermissionConstant     = os.FileMode(0o755)
	fixtureFilePermissionConstant          = os.FileMode(0o644)
	expectedConfirmationPromptConstant     = "Proceed with moving repositories? [y/N]: "
	dryRunNoticeFragmentConstant           = "[DRY RUN] No changes made."
	conflictMarkerFragmentConstant         = "[CONFLICT - renamed]"
	abortedMessageFragmentConstant         = "Aborted."
	alreadyOrganizedReasonFragmentConstant = "Already organized"
	missingOriginReasonFragmentConstant    = "No origin URL found"
	unparseableReasonFragmentConstant      = "Could not parse URL: https://"
	destinationRaceFragmentConstant        = "already exists"

	dualRepositoryFixtureConstant = `-- tooling/.git --
gitdir: /tmp/worktrees/tooling
-- nested/website/.git --
gitdir: /tmp/worktrees/website
`
	singleRepositoryFixtureConstant = `-- tooling/.git --
gitdir: /tmp/worktrees/tooling
`
	sameOriginFixtureConstant = `-- alpha/.git --
gitdir: /tmp/worktrees/alpha
-- beta/.git --
gitdir: /tmp/worktrees/beta
`
	unplannableFixtureConstant = `-- orphan/.git --
gitdir: /tmp/worktrees/orphan
-- cryptic/.git --
gitdir: /tmp/worktrees/cryptic
`
)

type scriptedGitManager struct {
	originURLsByName map[string]string
}

func (manager scriptedGitManager) CheckCleanWorktree(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (manager scriptedGitManager) GetCurrentBranch(_ context.Context, _ string) (string, error) {
	return "", nil
}

func (manager scriptedGitManager) GetRemoteURL(_ context.Context, repositoryPath string, remoteName string) (string, error) {
	repositoryName := filepath.Base(repositoryPath)
	if originURL, found := manager.originURLsByName[repositoryName]; found {
		return originURL, nil
	}
	return "", gitrepo.RemoteNotFoundError{RepositoryPath: repositoryPath, RemoteName: remoteName}
}

func (manager scriptedGitManager) CloneRepository(_ context.Context, _ string, _ string, _ bool) error {
	return nil
}

type recordingPrompter struct {
	confirmResponse bool
	confirmError    error
	beforeRespond   func()
	recordedPrompts []string
}

func (prompter *recordingPrompter) Confirm(prompt string) (bool, error) {
	prompter.recordedPrompts = append(prompter.recordedPrompts, prompt)
	if prompter.beforeRespond != nil {
		prompter.beforeRespond()
	}
	return prompter.confirmResponse, prompter.confirmError
}

func materializeFixture(testInstance *testing.T, fixtureContent string) string {
	testInstance.Helper()

	rootDirectory := testInstance.TempDir()
	fixtureArchive := txtar.Parse([]byte(fixtureContent))
	for _, archiveFile := range fixtureArchive.Files {
		filePath := filepath.Join(rootDirectory, filepath.FromSlash(archiveFile.Name))
		require.NoError(testInstance, os.MkdirAll(filepath.Dir(filePath), fixtureDirectoryPermissionConstant))
		require.NoError(testInstance, os.WriteFile(filePath, archiveFile.Data, fixtureFilePermissionConstant))
	}
	return rootDirectory
}

func buildService(gitManager organize.GitRepositoryManager, prompter organize.ConfirmationPrompter) (*organize.Service, *bytes.Buffer, *bytes.Buffer) {
	outputBuffer := &bytes.Buffer{}
	errorBuffer := &bytes.Buffer{}
	service := organize.NewService(
		discovery.NewFilesystemRepositoryDiscoverer(),
		gitManager,
		filesystem.OSFileSystem{},
		prompter,
		outputBuffer,
		errorBuffer,
	)
	return service, outputBuffer, errorBuffer
}

func requirePathExists(testInstance *testing.T, path string) {
	testInstance.Helper()
	_, statError := os.Stat(path)
	require.NoError(testInstance, statError)
}

func requirePathMissing(testInstance *testing.T, path string) {
	testInstance.Helper()
	_, statError := os.Stat(path)
	require.True(testInstance, os.IsNotExist(statError))
}

func TestServiceRunMovesRepositoriesIntoLayout(testInstance *testing.T) {
	testInstance.Parallel()

	sourceDirectory := materializeFixture(testInstance, dualRepositoryFixtureConstant)
	targetDirectory := testInstance.TempDir()

	gitManager := scriptedGitManager{originURLsByName: map[string]string{
		toolingRepositoryNameConstant: toolingOriginURLConstant,
		websiteRepositoryNameConstant: websiteOriginURLConstant,
	}}
	prompter := &recordingPrompter{confirmResponse: true}
	service, outputBuffer, _ := buildService(gitManager, prompter)

	runError := service.Run(context.Background(), organize.CommandOptions{
		SourceDirectory: sourceDirectory,
		TargetDirectory: targetDirectory,
		AssumeYes:       true,
	})

	require.NoError(testInstance, runError)
	require.Empty(testInstance, prompter.recordedPrompts)

	requirePathMissing(testInstance, filepath.Join(sourceDirectory, toolingRepositoryNameConstant))
	requirePathExists(testInstance, filepath.Join(targetDirectory, filepath.FromSlash(toolingDestinationRelativeConstant), gitMetadataEntryNameConstant))
	requirePathExists(testInstance, filepath.Join(targetDirectory, filepath.FromSlash(websiteDestinationRelativeConstant), gitMetadataEntryNameConstant))

	commandOutput := outputBuffer.String()
	require.Contains(testInstance, commandOutput, "Found 2 git repositories")
	require.Contains(testInstance, commandOutput, toolingOriginURLConstant)
	require.Contains(testInstance, commandOutput, "Done: 2 moved, 0 skipped, 0 failed.")
}

func TestServiceRunDryRunLeavesSourcesInPlace(testInstance *testing.T) {
	testInstance.Parallel()

	sourceDirectory := materializeFixture(testInstance, singleRepositoryFixtureConstant)
	targetDirectory := testInstance.TempDir()

	gitManager := scriptedGitManager{originURLsByName: map[string]string{
		toolingRepositoryNameConstant: toolingOriginURLConstant,
	}}
	prompter := &recordingPrompter{confirmResponse: true}
	service, outputBuffer, _ := buildService(gitManager, prompter)

	runError := service.Run(context.Background(), organize.CommandOptions{
		SourceDirectory: sourceDirectory,
		TargetDirectory: targetDirectory,
		DryRun:          true,
	})

	require.NoError(testInstance, runError)
	require.Empty(testInstance, prompter.recordedPrompts)

	requirePathExists(testInstance, filepath.Join(sourceDirectory, toolingRepositoryNameConstant))
	requirePathMissing(testInstance, filepath.Join(targetDirectory, filepath.FromSlash(toolingDestinationRelativeConstant)))

	commandOutput := outputBuffer.String()
	require.Contains(testInstance, commandOutput, dryRunNoticeFragmentConstant)
	require.Contains(testInstance, commandOutput, filepath.Join(targetDirectory, filepath.FromSlash(toolingDestinationRelativeConstant)))
}

func TestServiceRunAppendsCopySuffixWhenDestinationOccupied(testInstance *testing.T) {
	testInstance.Parallel()

	sourceDirectory := materializeFixture(testInstance, singleRepositoryFixtureConstant)
	targetDirectory := testInstance.TempDir()
	occupiedDestination := filepath.Join(targetDirectory, filepath.FromSlash(toolingDestinationRelativeConstant))
	require.NoError(testInstance, os.MkdirAll(occupiedDestination, fixtureDirectoryPermissionConstant))

	gitManager := scriptedGitManager{originURLsByName: map[string]string{
		toolingRepositoryNameConstant: toolingOriginURLConstant,
	}}
	service, outputBuffer, _ := buildService(gitManager, &recordingPrompter{confirmResponse: true})

	runError := service.Run(context.Background(), organize.CommandOptions{
		SourceDirectory: sourceDirectory,
		TargetDirectory: targetDirectory,
		AssumeYes:       true,
	})

	require.NoError(testInstance, runError)
	requirePathExists(testInstance, filepath.Join(targetDirectory, filepath.FromSlash(toolingFirstCopyRelativeConstant), gitMetadataEntryNameConstant))
	require.Contains(testInstance, outputBuffer.String(), conflictMarkerFragmentConstant)
}

func TestServiceRunReservesDestinationsWithinBatch(testInstance *testing.T) {
	testInstance.Parallel()

	sourceDirectory := materializeFixture(testInstance, sameOriginFixtureConstant)
	targetDirectory := testInstance.TempDir()

	gitManager := scriptedGitManager{originURLsByName: map[string]string{
		alphaRepositoryNameConstant: toolingOriginURLConstant,
		betaRepositoryNameConstant:  toolingOriginURLConstant,
	}}
	service, outputBuffer, _ := buildService(gitManager, &recordingPrompter{confirmResponse: true})

	runError := service.Run(context.Background(), organize.CommandOptions{
		SourceDirectory: sourceDirectory,
		TargetDirectory: targetDirectory,
		AssumeYes:       true,
	})

	require.NoError(testInstance, runError)
	requirePathExists(testInstance, filepath.Join(targetDirectory, filepath.FromSlash(toolingDestinationRelativeConstant), gitMetadataEntryNameConstant))
	requirePathExists(testInstance, filepath.Join(targetDirectory, filepath.FromSlash(toolingFirstCopyRelativeConstant), gitMetadataEntryNameConstant))
	require.Contains(testInstance, outputBuffer.String(), "Done: 2 moved, 0 skipped, 0 failed.")
}

func TestServiceRunSkipsUnplannableRepositories(testInstance *testing.T) {
	testInstance.Parallel()

	sourceDirectory := materializeFixture(testInstance, unplannableFixtureConstant)
	targetDirectory := testInstance.TempDir()

	gitManager := scriptedGitManager{originURLsByName: map[string]string{
		crypticRepositoryNameConstant: unparseableOriginURLConstant,
	}}
	prompter := &recordingPrompter{confirmResponse: true}
	service, outputBuffer, _ := buildService(gitManager, prompter)

	runError := service.Run(context.Background(), organize.CommandOptions{
		SourceDirectory: sourceDirectory,
		TargetDirectory: targetDirectory,
	})

	require.NoError(testInstance, runError)
	require.Empty(testInstance, prompter.recordedPrompts)

	commandOutput := outputBuffer.String()
	require.Contains(testInstance, commandOutput, "Skipped repositories:")
	require.Contains(testInstance, commandOutput, orphanRepositoryNameConstant+": "+missingOriginReasonFragmentConstant)
	require.Contains(testInstance, commandOutput, crypticRepositoryNameConstant+": "+unparseableReasonFragmentConstant)
	require.Contains(testInstance, commandOutput, "Done: 0 moved, 2 skipped, 0 failed.")
}

func TestServiceRunSkipsAlreadyOrganizedRepository(testInstance *testing.T) {
	testInstance.Parallel()

	baseDirectory := testInstance.TempDir()
	organizedRepository := filepath.Join(baseDirectory, filepath.FromSlash(toolingDestinationRelativeConstant))
	require.NoError(testInstance, os.MkdirAll(organizedRepository, fixtureDirectoryPermissionConstant))
	require.NoError(testInstance, os.WriteFile(
		filepath.Join(organizedRepository, gitMetadataEntryNameConstant),
		[]byte("gitdir: /tmp/worktrees/tooling\n"),
		fixtureFilePermissionConstant,
	))

	gitManager := scriptedGitManager{originURLsByName: map[string]string{
		toolingRepositoryNameConstant: toolingOriginURLConstant,
	}}
	service, outputBuffer, _ := buildService(gitManager, &recordingPrompter{confirmResponse: true})

	runError := service.Run(context.Background(), organize.CommandOptions{
		SourceDirectory: baseDirectory,
		TargetDirectory: baseDirectory,
	})

	require.NoError(testInstance, runError)
	requirePathExists(testInstance, organizedRepository)
	requirePathMissing(testInstance, organizedRepository+"-copy1")

	commandOutput := outputBuffer.String()
	require.Contains(testInstance, commandOutput, alreadyOrganizedReasonFragmentConstant)
	require.Contains(testInstance, commandOutput, "Done: 0 moved, 1 skipped, 0 failed.")
}

func TestServiceRunDeclinedConfirmationAborts(testInstance *testing.T) {
	testInstance.Parallel()

	sourceDirectory := materializeFixture(testInstance, singleRepositoryFixtureConstant)
	targetDirectory := testInstance.TempDir()

	gitManager := scriptedGitManager{originURLsByName: map[string]string{
		toolingRepositoryNameConstant: toolingOriginURLConstant,
	}}
	prompter := &recordingPrompter{confirmResponse: false}
	service, outputBuffer, _ := buildService(gitManager, prompter)

	runError := service.Run(context.Background(), organize.CommandOptions{
		SourceDirectory: sourceDirectory,
		TargetDirectory: targetDirectory,
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, []string{expectedConfirmationPromptConstant}, prompter.recordedPrompts)

	requirePathExists(testInstance, filepath.Join(sourceDirectory, toolingRepositoryNameConstant))
	requirePathMissing(testInstance, filepath.Join(targetDirectory, filepath.FromSlash(toolingDestinationRelativeConstant)))
	require.Contains(testInstance, outputBuffer.String(), abortedMessageFragmentConstant)
}

func TestServiceRunReportsDestinationRace(testInstance *testing.T) {
	testInstance.Parallel()

	sourceDirectory := materializeFixture(testInstance, singleRepositoryFixtureConstant)
	targetDirectory := testInstance.TempDir()
	contestedDestination := filepath.Join(targetDirectory, filepath.FromSlash(toolingDestinationRelativeConstant))

	gitManager := scriptedGitManager{originURLsByName: map[string]string{
		toolingRepositoryNameConstant: toolingOriginURLConstant,
	}}
	prompter := &recordingPrompter{
		confirmResponse: true,
		beforeRespond: func() {
			require.NoError(testInstance, os.MkdirAll(contestedDestination, fixtureDirectoryPermissionConstant))
		},
	}
	service, outputBuffer, errorBuffer := buildService(gitManager, prompter)

	runError := service.Run(context.Background(), organize.CommandOptions{
		SourceDirectory: sourceDirectory,
		TargetDirectory: targetDirectory,
	})

	var batchFailure organize.BatchFailureError
	require.ErrorAs(testInstance, runError, &batchFailure)
	require.Equal(testInstance, 1, batchFailure.FailedCount)

	requirePathExists(testInstance, filepath.Join(sourceDirectory, toolingRepositoryNameConstant, gitMetadataEntryNameConstant))
	require.Contains(testInstance, errorBuffer.String(), destinationRaceFragmentConstant)
	require.Contains(testInstance, outputBuffer.String(), "Done: 0 moved, 0 skipped, 1 failed.")
}
