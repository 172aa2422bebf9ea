package toolchain

import "strings"

// Installation identifies a toolchain executable on disk.
type Installation struct {
	CommandPath string
}

// Valid reports whether the installation names an executable.
func (installation Installation) Valid() bool {
	return len(strings.TrimSpace(installation.CommandPath)) > 0
}
