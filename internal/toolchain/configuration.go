package toolchain

import "strings"

const (
	configurationCommandPathKeyConstant     = "toolchain.command_path"
	configurationSearchLocationsKeyConstant = "toolchain.search_locations"
	configurationStreamOutputKeyConstant    = "toolchain.stream_output"
)

// Configuration describes where to look for the toolchain and how to run it.
type Configuration struct {
	CommandPath     string   `mapstructure:"command_path"`
	SearchLocations []string `mapstructure:"search_locations"`
	StreamOutput    bool     `mapstructure:"stream_output"`
}

// DefaultConfigurationValues returns viper defaults for the toolchain section.
func DefaultConfigurationValues() map[string]any {
	return map[string]any{
		configurationCommandPathKeyConstant:     "",
		configurationSearchLocationsKeyConstant: []string{},
		configurationStreamOutputKeyConstant:    false,
	}
}

// Sanitize trims whitespace and drops blank search locations.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{
		CommandPath:  strings.TrimSpace(configuration.CommandPath),
		StreamOutput: configuration.StreamOutput,
	}
	for _, searchLocation := range configuration.SearchLocations {
		trimmedLocation := strings.TrimSpace(searchLocation)
		if len(trimmedLocation) == 0 {
			continue
		}
		sanitized.SearchLocations = append(sanitized.SearchLocations, trimmedLocation)
	}
	return sanitized
}
