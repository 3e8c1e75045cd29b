package shared

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/temirov/reposort/internal/execshell"
)

const (
	// OriginRemoteNameConstant names the remote consulted when resolving a
	// repository's canonical URL.
	OriginRemoteNameConstant = "origin"

	destinationRaceTemplateConstant = "destination %s already exists"
)

// DestinationRaceError reports a planned destination that appeared on disk
// between planning and execution. The source repository is left untouched.
type DestinationRaceError struct {
	DestinationPath string
}

// Error describes the race including the contested destination.
func (raceError DestinationRaceError) Error() string {
	return fmt.Sprintf(destinationRaceTemplateConstant, raceError.DestinationPath)
}

// FileSystem is the slice of disk operations the repository services perform.
type FileSystem interface {
	Abs(path string) (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
	Rename(oldPath string, newPath string) error
	Stat(path string) (fs.FileInfo, error)
}

// RepositoryDiscoverer walks roots looking for Git repositories.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// GitExecutor runs git commands on behalf of repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager answers repository-level questions and performs clones.
type GitRepositoryManager interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	CloneRepository(executionContext context.Context, remoteURL string, destinationPath string, disableFsckObjects bool) error
}

// ConfirmationPrompter asks the user to approve a batch before it mutates disk.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}
