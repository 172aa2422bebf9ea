package toolchain

import (
	"go.uber.org/zap"

	"github.com/temirov/arduino-ci/internal/host"
	pathutils "github.com/temirov/arduino-ci/internal/utils/path"
)

const (
	logFieldCommandPathConstant        = "command_path"
	logFieldSearchedLocationsConstant  = "searched_locations"
	installationFoundMessageConstant   = "toolchain installation located"
	installationMissingMessageConstant = "toolchain installation not located"
)

// Autolocator binds located installations to new clients.
type Autolocator struct {
	dependencies Dependencies
	locator      *Locator
}

// NewAutolocator validates dependencies and prepares a Locator for the platform they describe.
// A zero Platform selects the running host.
func NewAutolocator(dependencies Dependencies, homeExpander *pathutils.HomeExpander) (*Autolocator, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if len(dependencies.Platform.Class) == 0 {
		dependencies.Platform = host.CurrentPlatform()
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = host.OSFileSystem{}
	}

	return &Autolocator{
		dependencies: dependencies,
		locator:      NewLocator(dependencies.Platform, dependencies.FileSystem, homeExpander, dependencies.EnvironmentLookup),
	}, nil
}

// Autolocate returns a client bound to the first installation found.
// Not finding one is an ordinary outcome reported through the boolean result.
func (autolocator *Autolocator) Autolocate(configuration Configuration) (*Client, bool) {
	installation, found := autolocator.locator.Locate(configuration)
	if !found {
		autolocator.dependencies.Logger.Debug(installationMissingMessageConstant, zap.Strings(logFieldSearchedLocationsConstant, autolocator.locator.CandidateLocations(configuration)))
		return nil, false
	}

	client, clientError := NewClient(installation, autolocator.dependencies, ClientOptions{StreamOutput: configuration.StreamOutput})
	if clientError != nil {
		return nil, false
	}
	autolocator.dependencies.Logger.Debug(installationFoundMessageConstant, zap.String(logFieldCommandPathConstant, installation.CommandPath))
	return client, true
}

// MustAutolocate performs the same search as Autolocate and fails with InstallationNotFoundError when nothing is found.
func (autolocator *Autolocator) MustAutolocate(configuration Configuration) (*Client, error) {
	client, found := autolocator.Autolocate(configuration)
	if !found {
		searchedLocations := append(autolocator.locator.CandidateLocations(configuration), autolocator.locator.CommandNames(configuration)...)
		return nil, InstallationNotFoundError{SearchedLocations: searchedLocations}
	}
	return client, nil
}
