package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites "~" prefixed install locations against the user's home directory.
// The home directory is resolved at most once per expander.
type HomeExpander struct {
	provider   HomeDirectoryProvider
	lookupOnce sync.Once
	home       string
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(nil)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom home lookup.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{provider: provider}
}

// Expand replaces a leading "~" or "~/" with the home directory.
// "~user" forms are returned unchanged, as are paths when the home directory cannot be resolved.
func (expander *HomeExpander) Expand(candidatePath string) string {
	remainder, hasShortcut := splitHomeShortcut(candidatePath)
	if expander == nil || !hasShortcut {
		return candidatePath
	}

	homeDirectory := expander.homeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}
	if len(remainder) == 0 {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, remainder)
}

// ExpandAll expands every candidate path, preserving order.
func (expander *HomeExpander) ExpandAll(candidatePaths []string) []string {
	expandedPaths := make([]string, len(candidatePaths))
	for candidateIndex, candidatePath := range candidatePaths {
		expandedPaths[candidateIndex] = expander.Expand(candidatePath)
	}
	return expandedPaths
}

func (expander *HomeExpander) homeDirectory() string {
	expander.lookupOnce.Do(func() {
		if resolvedHome, lookupError := expander.provider(); lookupError == nil {
			expander.home = resolvedHome
		}
	})
	return expander.home
}

// splitHomeShortcut reports whether candidatePath starts with a home shortcut and returns the path after it.
func splitHomeShortcut(candidatePath string) (string, bool) {
	if !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return "", false
	}
	remainder := candidatePath[len(homeShortcutConstant):]
	if len(remainder) == 0 {
		return "", true
	}
	if remainder[0] == '/' || remainder[0] == os.PathSeparator {
		return remainder[1:], true
	}
	return "", false
}
