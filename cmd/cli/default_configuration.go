package cli

import (
	"bytes"
	_ "embed"
)

// defaultConfigurationContent is merged before any user configuration file, so every key has a documented default.
//
//go:embed default_config.yaml
var defaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the embedded default configuration and its format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(defaultConfigurationContent), configurationTypeConstant
}
