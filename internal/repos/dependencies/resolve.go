// Package dependencies fills in the collaborators a repository command did not
// receive explicitly. Each resolver keeps a caller-supplied implementation and
// otherwise constructs the production default.
package dependencies

import (
	"io"

	"go.uber.org/zap"

	"github.com/temirov/reposort/internal/execshell"
	"github.com/temirov/reposort/internal/gitrepo"
	"github.com/temirov/reposort/internal/repos/discovery"
	"github.com/temirov/reposort/internal/repos/filesystem"
	"github.com/temirov/reposort/internal/repos/prompt"
	"github.com/temirov/reposort/internal/repos/shared"
	"github.com/temirov/reposort/internal/ui"
)

// ResolveRepositoryDiscoverer falls back to the filesystem walker.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer) shared.RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer()
}

// ResolveFileSystem falls back to the operating system implementation.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor falls back to a shell executor around an OS command
// runner. Human-readable logging routes command events through the console
// observer instead of the structured logger so each execution surfaces on
// exactly one stream.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	if humanReadableLogging {
		return execshell.NewShellExecutor(zap.NewNop(), commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}

// ResolveGitRepositoryManager falls back to a manager wrapping the executor.
func ResolveGitRepositoryManager(existing shared.GitRepositoryManager, executor shared.GitExecutor) (shared.GitRepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}

// ResolveConfirmationPrompter falls back to a prompter reading from the
// supplied streams.
func ResolveConfirmationPrompter(existing shared.ConfirmationPrompter, input io.Reader, output io.Writer) shared.ConfirmationPrompter {
	if existing != nil {
		return existing
	}
	return prompt.NewIOConfirmationPrompter(input, output)
}
