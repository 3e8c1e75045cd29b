package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildePrefixConstant = "~"

// HomeDirectoryProvider supplies the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites leading "~" shortcuts into the user's home directory.
// The home lookup runs once and the result is reused across calls.
type HomeExpander struct {
	lookupHomeDirectory HomeDirectoryProvider
	lookupOnce          sync.Once
	cachedHomeDirectory string
	cachedLookupError   error
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander using the supplied lookup.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{lookupHomeDirectory: provider}
}

// Expand replaces a leading "~" or "~/" with the user's home directory. Paths
// without the shortcut, including "~user" forms, come back unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildePrefixConstant) {
		return candidatePath
	}

	homeDirectory := expander.homeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == tildePrefixConstant {
		return homeDirectory
	}

	for _, separator := range []string{"/", string(os.PathSeparator)} {
		shortcutPrefix := tildePrefixConstant + separator
		if strings.HasPrefix(candidatePath, shortcutPrefix) {
			return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, shortcutPrefix))
		}
	}

	return candidatePath
}

func (expander *HomeExpander) homeDirectory() string {
	expander.lookupOnce.Do(func() {
		expander.cachedHomeDirectory, expander.cachedLookupError = expander.lookupHomeDirectory()
	})
	if expander.cachedLookupError != nil {
		return ""
	}
	return expander.cachedHomeDirectory
}
