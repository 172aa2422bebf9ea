package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBindToolchainFlagsUsesDefaultsAndParsesValues(t *testing.T) {
	command := &cobra.Command{}

	values := BindToolchainFlags(command, ToolchainFlagValues{CommandPath: "/opt/arduino/arduino"}, ToolchainFlagDefinition{Enabled: true})

	require.NotNil(t, values)
	require.Equal(t, "/opt/arduino/arduino", values.CommandPath)
	require.Empty(t, values.SearchLocations)

	commandPathChanged, searchLocationsChanged := ToolchainFlagsChanged(command)
	require.False(t, commandPathChanged)
	require.False(t, searchLocationsChanged)

	parseError := command.ParseFlags([]string{"--" + SearchLocationFlagName, "~/ide/arduino", "--" + SearchLocationFlagName, "/srv/arduino"})
	require.NoError(t, parseError)
	require.Equal(t, []string{"~/ide/arduino", "/srv/arduino"}, values.SearchLocations)

	commandPathChanged, searchLocationsChanged = ToolchainFlagsChanged(command)
	require.False(t, commandPathChanged)
	require.True(t, searchLocationsChanged)
}

func TestBindToolchainFlagsPersistentScope(t *testing.T) {
	parent := &cobra.Command{Use: "parent"}
	child := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) {}}
	parent.AddCommand(child)

	values := BindToolchainFlags(parent, ToolchainFlagValues{}, ToolchainFlagDefinition{Enabled: true, Persistent: true})
	parent.SetArgs([]string{"child", "--" + ToolchainPathFlagName, "/Applications/Arduino.app/Contents/MacOS/Arduino"})
	require.NoError(t, parent.Execute())
	require.Equal(t, "/Applications/Arduino.app/Contents/MacOS/Arduino", values.CommandPath)

	commandPathChanged, _ := ToolchainFlagsChanged(child)
	require.True(t, commandPathChanged)
}

func TestBindToolchainFlagsDisabled(t *testing.T) {
	command := &cobra.Command{}

	values := BindToolchainFlags(command, ToolchainFlagValues{SearchLocations: []string{"/opt/arduino/arduino"}}, ToolchainFlagDefinition{})
	require.Equal(t, []string{"/opt/arduino/arduino"}, values.SearchLocations)
	require.Nil(t, command.Flags().Lookup(ToolchainPathFlagName))
}
