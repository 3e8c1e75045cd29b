// Package gitrepo wraps the git invocations reposort depends on.
//
// RepositoryManager resolves origin URLs, current branches, and worktree
// cleanliness, and performs clones. Process execution is delegated to the
// execshell executor so callers can swap in fakes.
package gitrepo
