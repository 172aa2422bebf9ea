package utils_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/arduino-ci/internal/utils"
)

const (
	loaderEnvironmentPrefixConstant        = "TESTARDUINOCI"
	loaderConfigurationNameConstant        = "config"
	loaderConfigurationTypeConstant        = "yaml"
	loaderConfigurationFileNameConstant    = "config.yaml"
	loaderApplicationDirectoryConstant     = "arduino-ci"
	loaderXDGDirectoryNameConstant         = "config"
	loaderCommandPathKeyConstant           = "toolchain.command_path"
	loaderSearchLocationsKeyConstant       = "toolchain.search_locations"
	loaderStreamOutputKeyConstant          = "toolchain.stream_output"
	loaderLogLevelKeyConstant              = "common.log_level"
	loaderCommandPathEnvironmentConstant   = loaderEnvironmentPrefixConstant + "_TOOLCHAIN_COMMAND_PATH"
	loaderSearchPathEnvironmentConstant    = loaderEnvironmentPrefixConstant + "_CONFIG_SEARCH_PATH"
	loaderCommandPathTemplateConstant      = "toolchain:\n  command_path: %s\n"
	loaderDefaultCommandPathConstant       = "/default/arduino"
	loaderEmbeddedCommandPathConstant      = "/embedded/arduino"
	loaderFileCommandPathConstant          = "/file/arduino"
	loaderEnvironmentCommandPathConstant   = "/environment/arduino"
	loaderMissingConfigurationFileConstant = "absent.yaml"
)

type loaderConfiguration struct {
	Common    loaderCommonSection    `mapstructure:"common"`
	Toolchain loaderToolchainSection `mapstructure:"toolchain"`
}

type loaderCommonSection struct {
	LogLevel string `mapstructure:"log_level"`
}

type loaderToolchainSection struct {
	CommandPath     string   `mapstructure:"command_path"`
	SearchLocations []string `mapstructure:"search_locations"`
	StreamOutput    bool     `mapstructure:"stream_output"`
}

func commandPathDocument(commandPath string) string {
	return fmt.Sprintf(loaderCommandPathTemplateConstant, commandPath)
}

func newTestLoader(searchPaths ...string) *utils.ConfigurationLoader {
	return utils.NewConfigurationLoader(loaderConfigurationNameConstant, loaderConfigurationTypeConstant, loaderEnvironmentPrefixConstant, searchPaths)
}

func TestConfigurationLoaderLayering(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedCommandPath string
		fileCommandPath     string
		environmentValue    string
		expectedCommandPath string
	}{
		{
			name:                "defaults only",
			expectedCommandPath: loaderDefaultCommandPathConstant,
		},
		{
			name:                "embedded document beats defaults",
			embeddedCommandPath: loaderEmbeddedCommandPathConstant,
			expectedCommandPath: loaderEmbeddedCommandPathConstant,
		},
		{
			name:                "file beats embedded document",
			embeddedCommandPath: loaderEmbeddedCommandPathConstant,
			fileCommandPath:     loaderFileCommandPathConstant,
			expectedCommandPath: loaderFileCommandPathConstant,
		},
		{
			name:                "environment beats file",
			embeddedCommandPath: loaderEmbeddedCommandPathConstant,
			fileCommandPath:     loaderFileCommandPathConstant,
			environmentValue:    loaderEnvironmentCommandPathConstant,
			expectedCommandPath: loaderEnvironmentCommandPathConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationDirectory := testInstance.TempDir()
			configurationFilePath := ""
			if len(testCase.fileCommandPath) > 0 {
				configurationFilePath = filepath.Join(configurationDirectory, loaderConfigurationFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(commandPathDocument(testCase.fileCommandPath)), 0o600))
			}
			if len(testCase.environmentValue) > 0 {
				testInstance.Setenv(loaderCommandPathEnvironmentConstant, testCase.environmentValue)
			}

			loader := newTestLoader(configurationDirectory)
			if len(testCase.embeddedCommandPath) > 0 {
				loader.SetEmbeddedConfiguration([]byte(commandPathDocument(testCase.embeddedCommandPath)), loaderConfigurationTypeConstant)
			}

			decoded := loaderConfiguration{}
			metadata, loadError := loader.LoadConfiguration(configurationFilePath, map[string]any{loaderCommandPathKeyConstant: loaderDefaultCommandPathConstant}, &decoded)
			require.NoError(testInstance, loadError)
			require.Equal(testInstance, testCase.expectedCommandPath, decoded.Toolchain.CommandPath)
			require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderDiscoversFileInSearchPaths(testInstance *testing.T) {
	firstDirectory := testInstance.TempDir()
	secondDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(secondDirectory, loaderConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(commandPathDocument(loaderFileCommandPathConstant)), 0o600))

	decoded := loaderConfiguration{}
	metadata, loadError := newTestLoader(firstDirectory, secondDirectory).LoadConfiguration("", nil, &decoded)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, loaderFileCommandPathConstant, decoded.Toolchain.CommandPath)
	require.Equal(testInstance, configurationFilePath, metadata.ConfigFileUsed)
}

func TestConfigurationLoaderMissingExplicitFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), loaderMissingConfigurationFileConstant)

	decoded := loaderConfiguration{}
	_, loadError := newTestLoader().LoadConfiguration(missingPath, nil, &decoded)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "failed to read configuration")
}

func TestConfigurationLoaderRejectsMalformedEmbeddedDocument(testInstance *testing.T) {
	loader := newTestLoader(testInstance.TempDir())
	loader.SetEmbeddedConfiguration([]byte("toolchain: [unterminated"), loaderConfigurationTypeConstant)

	decoded := loaderConfiguration{}
	_, loadError := loader.LoadConfiguration("", nil, &decoded)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "failed to merge embedded configuration")
}

func TestConfigurationLoaderToolchainSection(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	configurationFilePath := filepath.Join(configurationDirectory, loaderConfigurationFileNameConstant)
	configurationContent := "common:\n  log_level: warn\ntoolchain:\n  command_path: ~/arduino_ide/arduino\n  search_locations:\n    - /opt/arduino-1.8.19/arduino\n"
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(configurationContent), 0o600))
	testInstance.Setenv(loaderEnvironmentPrefixConstant+"_TOOLCHAIN_STREAM_OUTPUT", "true")

	defaultValues := map[string]any{
		loaderLogLevelKeyConstant:        "info",
		loaderCommandPathKeyConstant:     "",
		loaderSearchLocationsKeyConstant: []string{},
		loaderStreamOutputKeyConstant:    false,
	}

	decoded := loaderConfiguration{}
	_, loadError := newTestLoader(configurationDirectory).LoadConfiguration(configurationFilePath, defaultValues, &decoded)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "warn", decoded.Common.LogLevel)
	require.Equal(testInstance, "~/arduino_ide/arduino", decoded.Toolchain.CommandPath)
	require.Equal(testInstance, []string{"/opt/arduino-1.8.19/arduino"}, decoded.Toolchain.SearchLocations)
	require.True(testInstance, decoded.Toolchain.StreamOutput)
}

func TestConfigurationLoaderSplitsEnvironmentLists(testInstance *testing.T) {
	testInstance.Setenv(loaderEnvironmentPrefixConstant+"_TOOLCHAIN_SEARCH_LOCATIONS", "/opt/a/arduino,/opt/b/arduino")

	decoded := loaderConfiguration{}
	_, loadError := newTestLoader(testInstance.TempDir()).LoadConfiguration("", map[string]any{loaderSearchLocationsKeyConstant: []string{}}, &decoded)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{"/opt/a/arduino", "/opt/b/arduino"}, decoded.Toolchain.SearchLocations)
}

func TestConfigurationSearchPaths(testInstance *testing.T) {
	testInstance.Run("override replaces defaults", func(testInstance *testing.T) {
		firstDirectory := testInstance.TempDir()
		secondDirectory := testInstance.TempDir()
		overrideValue := strings.Join([]string{firstDirectory, " ", secondDirectory}, string(os.PathListSeparator))
		testInstance.Setenv(loaderSearchPathEnvironmentConstant, overrideValue)

		searchPaths := utils.ConfigurationSearchPaths(loaderSearchPathEnvironmentConstant, loaderApplicationDirectoryConstant)
		require.Equal(testInstance, []string{firstDirectory, secondDirectory}, searchPaths)
	})

	testInstance.Run("empty override disables search", func(testInstance *testing.T) {
		testInstance.Setenv(loaderSearchPathEnvironmentConstant, "")

		searchPaths := utils.ConfigurationSearchPaths(loaderSearchPathEnvironmentConstant, loaderApplicationDirectoryConstant)
		require.Empty(testInstance, searchPaths)
	})

	testInstance.Run("defaults include working and user directories", func(testInstance *testing.T) {
		homeDirectoryPath := testInstance.TempDir()
		testInstance.Setenv("HOME", homeDirectoryPath)
		testInstance.Setenv("XDG_CONFIG_HOME", filepath.Join(homeDirectoryPath, loaderXDGDirectoryNameConstant))
		testInstance.Setenv(loaderSearchPathEnvironmentConstant, "")
		require.NoError(testInstance, os.Unsetenv(loaderSearchPathEnvironmentConstant))

		userConfigurationBaseDirectoryPath, userConfigurationDirectoryError := os.UserConfigDir()
		require.NoError(testInstance, userConfigurationDirectoryError)

		searchPaths := utils.ConfigurationSearchPaths(loaderSearchPathEnvironmentConstant, loaderApplicationDirectoryConstant)
		expectedUserDirectory := filepath.Join(userConfigurationBaseDirectoryPath, loaderApplicationDirectoryConstant)
		require.Equal(testInstance, []string{".", expectedUserDirectory}, searchPaths)
	})
}
