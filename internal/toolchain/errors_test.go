package toolchain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/arduino-ci/internal/toolchain"
)

func TestOperationErrorMessages(testInstance *testing.T) {
	cause := errors.New("fork/exec /opt/arduino/arduino: no such file or directory")

	withSubject := toolchain.OperationError{Operation: toolchain.OperationVerifySketch, Subject: "/work/Blink/Blink.ino", Cause: cause}
	require.Equal(testInstance, "unable to verify sketch /work/Blink/Blink.ino: fork/exec /opt/arduino/arduino: no such file or directory", withSubject.Error())
	require.ErrorIs(testInstance, withSubject, cause)

	withoutSubject := toolchain.OperationError{Operation: toolchain.OperationReadPreferences, Cause: cause}
	require.Equal(testInstance, "unable to read preferences: fork/exec /opt/arduino/arduino: no such file or directory", withoutSubject.Error())
}

func TestInstallationNotFoundErrorMessages(testInstance *testing.T) {
	require.Equal(testInstance, "arduino toolchain installation not found", toolchain.InstallationNotFoundError{}.Error())
	require.Equal(testInstance,
		"arduino toolchain installation not found (searched: /opt/arduino/arduino, arduino)",
		toolchain.InstallationNotFoundError{SearchedLocations: []string{"/opt/arduino/arduino", "arduino"}}.Error(),
	)
}

func TestConfigurationSanitize(testInstance *testing.T) {
	sanitized := toolchain.Configuration{
		CommandPath:     "  /opt/arduino/arduino\n",
		SearchLocations: []string{"", "  ", " ~/arduino_ide/arduino "},
		StreamOutput:    true,
	}.Sanitize()

	require.Equal(testInstance, toolchain.Configuration{
		CommandPath:     "/opt/arduino/arduino",
		SearchLocations: []string{"~/arduino_ide/arduino"},
		StreamOutput:    true,
	}, sanitized)

	defaults := toolchain.DefaultConfigurationValues()
	require.Contains(testInstance, defaults, "toolchain.command_path")
	require.Contains(testInstance, defaults, "toolchain.search_locations")
	require.Contains(testInstance, defaults, "toolchain.stream_output")
}
