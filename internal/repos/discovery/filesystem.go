package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

const gitMetadataEntryNameConstant = ".git"

// FilesystemRepositoryDiscoverer finds git repositories by walking directory trees.
type FilesystemRepositoryDiscoverer struct{}

// NewFilesystemRepositoryDiscoverer constructs a discoverer backed by filepath.WalkDir.
func NewFilesystemRepositoryDiscoverer() *FilesystemRepositoryDiscoverer {
	return &FilesystemRepositoryDiscoverer{}
}

// DiscoverRepositories walks every root and returns the sorted set of
// directories holding a .git entry. A repository nested inside another
// repository's worktree is not reported separately; it relocates together
// with the enclosing repository. Unreadable paths are skipped.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	collected := make(map[string]struct{})
	for _, root := range roots {
		if walkError := discoverer.collectRepositories(root, collected); walkError != nil {
			return nil, walkError
		}
	}

	var repositories []string
	for repositoryPath := range collected {
		repositories = append(repositories, repositoryPath)
	}
	slices.Sort(repositories)
	return repositories, nil
}

func (discoverer *FilesystemRepositoryDiscoverer) collectRepositories(root string, collected map[string]struct{}) error {
	return filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil || !directoryEntry.IsDir() {
			return nil
		}
		if directoryEntry.Name() == gitMetadataEntryNameConstant {
			return fs.SkipDir
		}
		if !hasGitMetadata(path) {
			return nil
		}
		collected[path] = struct{}{}
		return fs.SkipDir
	})
}

// hasGitMetadata accepts both .git directories and the .git link files
// worktrees leave behind.
func hasGitMetadata(directoryPath string) bool {
	_, statError := os.Stat(filepath.Join(directoryPath, gitMetadataEntryNameConstant))
	return statError == nil
}
