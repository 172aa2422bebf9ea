// Package flags provides helpers for binding standardized flags to Cobra commands.
package flags

import "github.com/spf13/cobra"

const (
	// ToolchainPathFlagName exposes the shared toolchain executable flag name.
	ToolchainPathFlagName = "arduino-path"
	// ToolchainPathFlagUsage describes the shared toolchain executable flag purpose.
	ToolchainPathFlagUsage = "Toolchain executable to use instead of searching for one"
	// SearchLocationFlagName exposes the shared install location flag name.
	SearchLocationFlagName = "search-location"
	// SearchLocationFlagUsage describes the shared install location flag purpose.
	SearchLocationFlagUsage = "Additional toolchain executable locations to check (repeatable)"
	// StreamOutputFlagName exposes the shared stream-output flag name.
	StreamOutputFlagName = "stream-output"
	// StreamOutputFlagUsage describes the shared stream-output flag purpose.
	StreamOutputFlagUsage = "Stream toolchain output to the terminal instead of capturing it"
)

// ToolchainFlagValues stores toolchain location flag values.
type ToolchainFlagValues struct {
	CommandPath     string
	SearchLocations []string
}

// ToolchainFlagDefinition captures configuration for toolchain location flags.
type ToolchainFlagDefinition struct {
	Enabled    bool
	Persistent bool
}

// BindToolchainFlags attaches the toolchain executable and search location flags to the provided command.
func BindToolchainFlags(command *cobra.Command, defaults ToolchainFlagValues, definition ToolchainFlagDefinition) *ToolchainFlagValues {
	values := ToolchainFlagValues{
		CommandPath:     defaults.CommandPath,
		SearchLocations: append([]string{}, defaults.SearchLocations...),
	}
	if command == nil || !definition.Enabled {
		return &values
	}

	targetSet := command.Flags()
	if definition.Persistent {
		targetSet = command.PersistentFlags()
	}

	if targetSet.Lookup(ToolchainPathFlagName) == nil {
		targetSet.StringVar(&values.CommandPath, ToolchainPathFlagName, values.CommandPath, ToolchainPathFlagUsage)
	}
	if targetSet.Lookup(SearchLocationFlagName) == nil {
		targetSet.StringSliceVar(&values.SearchLocations, SearchLocationFlagName, values.SearchLocations, SearchLocationFlagUsage)
	}
	return &values
}

// ToolchainFlagsChanged reports which toolchain flags were set explicitly on the command line.
func ToolchainFlagsChanged(command *cobra.Command) (commandPathChanged bool, searchLocationsChanged bool) {
	if command == nil {
		return false, false
	}
	return command.Flags().Changed(ToolchainPathFlagName), command.Flags().Changed(SearchLocationFlagName)
}
