package host

import (
	"os"
	"path/filepath"
	"strings"
)

const searchPathVariableConstant = "PATH"

// SearchConfiguration is the complete input of executable resolution.
type SearchConfiguration struct {
	Directories []string
	Suffixes    []string
}

// EnvironmentSearchConfiguration reads the search path and executable suffixes from the environment.
func EnvironmentSearchConfiguration(platform Platform, lookup EnvironmentLookup) SearchConfiguration {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	searchPath, _ := lookup(searchPathVariableConstant)
	return SearchConfiguration{
		Directories: filepath.SplitList(searchPath),
		Suffixes:    platform.ExecutableSuffixes(lookup),
	}
}

// ExecutableResolver locates runnable programs.
type ExecutableResolver struct {
	fileSystem FileSystem
	platform   Platform
}

// NewExecutableResolver constructs a resolver for the provided platform.
func NewExecutableResolver(fileSystem FileSystem, platform Platform) *ExecutableResolver {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	return &ExecutableResolver{fileSystem: fileSystem, platform: platform}
}

// Resolve returns the absolute path of the first directory/suffix combination naming a runnable program.
// Directories are the outer loop and suffixes the inner one, matching shell lookup order.
// Relative directories such as "." resolve against the working directory.
func (resolver *ExecutableResolver) Resolve(commandName string, configuration SearchConfiguration) (string, bool) {
	trimmedCommandName := strings.TrimSpace(commandName)
	if len(trimmedCommandName) == 0 {
		return "", false
	}

	suffixes := configuration.Suffixes
	if len(suffixes) == 0 {
		suffixes = []string{emptySuffixConstant}
	}

	for _, directory := range configuration.Directories {
		if len(strings.TrimSpace(directory)) == 0 {
			continue
		}
		for _, suffix := range suffixes {
			candidatePath := filepath.Join(directory, trimmedCommandName+suffix)
			if !resolver.IsRunnable(candidatePath) {
				continue
			}
			absolutePath, absoluteError := resolver.fileSystem.Abs(candidatePath)
			if absoluteError != nil {
				continue
			}
			return absolutePath, true
		}
	}

	return "", false
}

// IsRunnable reports whether path exists, is not a directory, and is executable.
func (resolver *ExecutableResolver) IsRunnable(path string) bool {
	fileInfo, statError := resolver.fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	if fileInfo.IsDir() {
		return false
	}
	return resolver.platform.IsExecutable(fileInfo)
}

// Which resolves commandName against the current environment.
func Which(commandName string) (string, bool) {
	platform := CurrentPlatform()
	resolver := NewExecutableResolver(OSFileSystem{}, platform)
	return resolver.Resolve(commandName, EnvironmentSearchConfiguration(platform, os.LookupEnv))
}
