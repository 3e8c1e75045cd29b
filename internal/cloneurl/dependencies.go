package cloneurl

import (
	"context"
	"io/fs"

	"github.com/temirov/reposort/internal/execshell"
)

// GitExecutor exposes the subset of shell execution used by the clone workflow.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes repository-level git operations.
type GitRepositoryManager interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
	CloneRepository(executionContext context.Context, remoteURL string, destinationPath string, disableFsckObjects bool) error
}

// FileSystem provides the filesystem operations required to place clones.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Rename(oldPath string, newPath string) error
	Abs(path string) (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
}

// ConfirmationPrompter prompts users for confirmation before clones execute.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}
