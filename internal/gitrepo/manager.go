package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/reposort/internal/execshell"
)

const (
	configSubcommandConstant             = "config"
	configGetFlagConstant                = "--get"
	remoteURLConfigKeyTemplateConstant   = "remote.%s.url"
	revParseSubcommandConstant           = "rev-parse"
	abbreviatedReferenceFlagConstant     = "--abbrev-ref"
	headReferenceConstant                = "HEAD"
	statusSubcommandConstant             = "status"
	porcelainFlagConstant                = "--porcelain"
	cloneSubcommandConstant              = "clone"
	configurationFlagConstant            = "-c"
	disableFsckObjectsAssignmentConstant = "transfer.fsckObjects=false"
	missingRemoteExitCodeConstant        = 1
	remoteNotFoundTemplateConstant       = "remote %s is not configured for %s"
)

// ErrExecutorNotConfigured indicates the manager was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New("repository manager requires a git executor")

// GitExecutor describes the shell execution surface used by the repository manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RemoteNotFoundError indicates a repository does not configure the requested remote.
type RemoteNotFoundError struct {
	RepositoryPath string
	RemoteName     string
}

// Error describes the missing remote.
func (notFoundError RemoteNotFoundError) Error() string {
	return fmt.Sprintf(remoteNotFoundTemplateConstant, notFoundError.RemoteName, notFoundError.RepositoryPath)
}

// RepositoryManager performs git operations through a shell executor.
type RepositoryManager struct {
	gitExecutor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager after validating the executor.
func NewRepositoryManager(gitExecutor GitExecutor) (*RepositoryManager, error) {
	if gitExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{gitExecutor: gitExecutor}, nil
}

// GetRemoteURL reads the configured URL for the named remote. A RemoteNotFoundError
// is returned when the repository does not configure the remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	configurationKey := fmt.Sprintf(remoteURLConfigKeyTemplateConstant, remoteName)
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{configSubcommandConstant, configGetFlagConstant, configurationKey},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) && failedError.Result.ExitCode == missingRemoteExitCodeConstant {
			return "", RemoteNotFoundError{RepositoryPath: repositoryPath, RemoteName: remoteName}
		}
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// GetCurrentBranch reports the abbreviated reference checked out in the repository.
// Detached checkouts report the literal HEAD reference.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, abbreviatedReferenceFlagConstant, headReferenceConstant},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// CheckCleanWorktree reports whether the repository worktree has no pending changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{statusSubcommandConstant, porcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return false, executionError
	}

	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// CloneRepository clones the remote URL into the destination path. Disabling fsck
// objects allows cloning repositories with malformed historical objects.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, remoteURL string, destinationPath string, disableFsckObjects bool) error {
	arguments := make([]string, 0, 5)
	if disableFsckObjects {
		arguments = append(arguments, configurationFlagConstant, disableFsckObjectsAssignmentConstant)
	}
	arguments = append(arguments, cloneSubcommandConstant, remoteURL, destinationPath)

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{Arguments: arguments})
	return executionError
}
