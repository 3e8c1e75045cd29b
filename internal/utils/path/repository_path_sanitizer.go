package pathutils

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

const windowsGOOSConstant = "windows"

// RepositoryPathSanitizerConfiguration adjusts optional sanitization steps.
type RepositoryPathSanitizerConfiguration struct {
	// PruneNestedPaths drops paths that sit inside another supplied path.
	PruneNestedPaths bool
}

// RepositoryPathSanitizer prepares user-supplied repository paths for scanning.
type RepositoryPathSanitizer struct {
	homeExpander  *HomeExpander
	configuration RepositoryPathSanitizerConfiguration
}

// NewRepositoryPathSanitizer constructs a sanitizer with default behavior.
func NewRepositoryPathSanitizer() *RepositoryPathSanitizer {
	return NewRepositoryPathSanitizerWithConfiguration(nil, RepositoryPathSanitizerConfiguration{})
}

// NewRepositoryPathSanitizerWithConfiguration constructs a sanitizer with the given expander
// and configuration. A nil expander falls back to the operating system home lookup.
func NewRepositoryPathSanitizerWithConfiguration(homeExpander *HomeExpander, configuration RepositoryPathSanitizerConfiguration) *RepositoryPathSanitizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &RepositoryPathSanitizer{homeExpander: homeExpander, configuration: configuration}
}

// Sanitize trims whitespace, expands home shortcuts, and drops empty entries.
// With PruneNestedPaths enabled it also removes duplicates and nested paths.
func (sanitizer *RepositoryPathSanitizer) Sanitize(candidatePaths []string) []string {
	if sanitizer == nil {
		return NewRepositoryPathSanitizer().Sanitize(candidatePaths)
	}

	cleanedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		trimmedPath := strings.TrimSpace(candidatePath)
		if len(trimmedPath) == 0 {
			continue
		}
		expandedPath := sanitizer.homeExpander.Expand(trimmedPath)
		if len(expandedPath) == 0 {
			continue
		}
		cleanedPaths = append(cleanedPaths, expandedPath)
	}

	if len(cleanedPaths) == 0 {
		return nil
	}
	if sanitizer.configuration.PruneNestedPaths {
		return pruneNestedPaths(cleanedPaths)
	}
	return cleanedPaths
}

// sanitizedPathEntry carries one path through nested pruning along with its input position.
type sanitizedPathEntry struct {
	inputOrder int
	original   string
	canonical  string
	comparable string
}

func pruneNestedPaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}

	entries := make([]sanitizedPathEntry, 0, len(paths))
	for inputOrder, originalPath := range paths {
		canonical := canonicalAbsolutePath(originalPath)
		entries = append(entries, sanitizedPathEntry{
			inputOrder: inputOrder,
			original:   originalPath,
			canonical:  canonical,
			comparable: comparablePath(canonical),
		})
	}

	// Parents sort before potential children.
	sort.SliceStable(entries, func(firstIndex int, secondIndex int) bool {
		firstComparable := entries[firstIndex].comparable
		secondComparable := entries[secondIndex].comparable
		if len(firstComparable) != len(secondComparable) {
			return len(firstComparable) < len(secondComparable)
		}
		return firstComparable < secondComparable
	})

	kept := make([]sanitizedPathEntry, 0, len(entries))
	for _, entry := range entries {
		if coveredByKeptEntry(kept, entry) {
			continue
		}
		kept = append(kept, entry)
	}

	sort.SliceStable(kept, func(firstIndex int, secondIndex int) bool {
		return kept[firstIndex].inputOrder < kept[secondIndex].inputOrder
	})

	pruned := make([]string, 0, len(kept))
	for _, entry := range kept {
		pruned = append(pruned, entry.original)
	}
	return pruned
}

func coveredByKeptEntry(kept []sanitizedPathEntry, candidate sanitizedPathEntry) bool {
	for _, existing := range kept {
		if candidate.comparable == existing.comparable {
			return true
		}
		if isDescendantPath(existing.canonical, candidate.canonical) {
			return true
		}
	}
	return false
}

func canonicalAbsolutePath(path string) string {
	cleanedPath := filepath.Clean(path)
	absolutePath, absoluteError := filepath.Abs(cleanedPath)
	if absoluteError != nil {
		return cleanedPath
	}
	return filepath.Clean(absolutePath)
}

func comparablePath(path string) string {
	cleaned := filepath.Clean(path)
	if runtime.GOOS == windowsGOOSConstant {
		return strings.ToLower(cleaned)
	}
	return cleaned
}

func isDescendantPath(parentPath string, candidatePath string) bool {
	parent := comparablePath(parentPath)
	candidate := comparablePath(candidatePath)

	if candidate == parent {
		return true
	}
	if len(candidate) <= len(parent) || !strings.HasPrefix(candidate, parent) {
		return false
	}
	if parent[len(parent)-1] == os.PathSeparator {
		return true
	}
	return candidate[len(parent)] == os.PathSeparator
}
