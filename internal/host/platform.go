package host

import (
	"io/fs"
	"strings"
)

const (
	executableSuffixVariableWindowsConstant = "PATHEXT"
	executableSuffixSeparatorConstant       = ";"
	executablePermissionMaskConstant        = fs.FileMode(0o111)
	emptySuffixConstant                     = ""
)

// LinkStrategy identifies the primitive used to create symbolic links.
type LinkStrategy string

// Supported link strategies.
const (
	LinkStrategyNative        LinkStrategy = LinkStrategy("symlink")
	LinkStrategyDirectoryLink LinkStrategy = LinkStrategy("mklink")
)

// EnvironmentLookup retrieves environment variables. os.LookupEnv satisfies it.
type EnvironmentLookup func(key string) (string, bool)

// Platform captures every behavior that differs between host classes.
type Platform struct {
	Class                    Class
	ExecutableSuffixVariable string
	LinkStrategy             LinkStrategy
	executablePredicate      func(info fs.FileInfo) bool
}

var platformsByClass = map[Class]Platform{
	ClassMacOS: {
		Class:               ClassMacOS,
		LinkStrategy:        LinkStrategyNative,
		executablePredicate: hasExecutePermission,
	},
	ClassLinux: {
		Class:               ClassLinux,
		LinkStrategy:        LinkStrategyNative,
		executablePredicate: hasExecutePermission,
	},
	ClassWindows: {
		Class:                    ClassWindows,
		ExecutableSuffixVariable: executableSuffixVariableWindowsConstant,
		LinkStrategy:             LinkStrategyDirectoryLink,
		executablePredicate:      isRegularEntry,
	},
}

var currentPlatform = PlatformFor(currentClass)

// PlatformFor returns the dispatch record for the provided class.
func PlatformFor(class Class) Platform {
	platform, platformExists := platformsByClass[class]
	if !platformExists {
		return platformsByClass[ClassLinux]
	}
	return platform
}

// CurrentPlatform returns the dispatch record selected for the running host.
func CurrentPlatform() Platform {
	return currentPlatform
}

// IsExecutable reports whether the described file can be run on this platform.
func (platform Platform) IsExecutable(info fs.FileInfo) bool {
	if info == nil {
		return false
	}
	if platform.executablePredicate == nil {
		return hasExecutePermission(info)
	}
	return platform.executablePredicate(info)
}

// ExecutableSuffixes lists the suffixes appended to command names during resolution.
func (platform Platform) ExecutableSuffixes(lookup EnvironmentLookup) []string {
	if len(platform.ExecutableSuffixVariable) == 0 || lookup == nil {
		return []string{emptySuffixConstant}
	}

	rawSuffixes, suffixesDefined := lookup(platform.ExecutableSuffixVariable)
	if !suffixesDefined || len(strings.TrimSpace(rawSuffixes)) == 0 {
		return []string{emptySuffixConstant}
	}

	suffixes := make([]string, 0)
	for _, suffix := range strings.Split(rawSuffixes, executableSuffixSeparatorConstant) {
		trimmedSuffix := strings.TrimSpace(suffix)
		if len(trimmedSuffix) == 0 {
			continue
		}
		suffixes = append(suffixes, trimmedSuffix)
	}
	if len(suffixes) == 0 {
		return []string{emptySuffixConstant}
	}
	return suffixes
}

// hasExecutePermission checks only the execute bit that applies to the calling process.
func hasExecutePermission(info fs.FileInfo) bool {
	return info.Mode().Perm()&callerExecuteMask(info) != 0
}

func isRegularEntry(info fs.FileInfo) bool {
	return !info.IsDir()
}
