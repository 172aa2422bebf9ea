package toolchain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	toolchaincmd "github.com/temirov/arduino-ci/cmd/cli/toolchain"
	"github.com/temirov/arduino-ci/internal/execshell"
	"github.com/temirov/arduino-ci/internal/toolchain"
)

func TestBoardCommandReportsBoards(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		arguments            []string
		expectedOutput       string
		expectedErrorMessage string
		expectedProbeCount   int
	}{
		{
			name:               "installed_board",
			arguments:          []string{testInstalledBoardConstant},
			expectedOutput:     "INSTALLED: arduino:avr:uno\n",
			expectedProbeCount: 1,
		},
		{
			name:                 "missing_and_malformed_boards",
			arguments:            []string{testInstalledBoardConstant, testMissingBoardConstant, "uno"},
			expectedOutput:       "INSTALLED: arduino:avr:uno\nMISSING: eggs:milk:wheat\nMISSING: uno\n",
			expectedErrorMessage: "2 of 3 boards are not installed",
			expectedProbeCount:   2,
		},
		{
			name:               "use_selects_board",
			arguments:          []string{"--use", testInstalledBoardConstant},
			expectedOutput:     "SELECTED: arduino:avr:uno\n",
			expectedProbeCount: 1,
		},
		{
			name:                 "use_reports_rejected_board",
			arguments:            []string{"--use", testMissingBoardConstant},
			expectedOutput:       "NOT SELECTED: eggs:milk:wheat\n",
			expectedErrorMessage: "1 of 1 boards could not be selected",
			expectedProbeCount:   1,
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			environment := newCommandEnvironment(subtest)
			builder := toolchaincmd.BoardCommandBuilder{CommandDependencies: environment.dependencies(toolchain.Configuration{CommandPath: environment.executablePath})}
			command, buildError := builder.Build()
			require.NoError(subtest, buildError)

			output, executionError := executeCommand(command, testCase.arguments...)
			if len(testCase.expectedErrorMessage) > 0 {
				require.EqualError(subtest, executionError, testCase.expectedErrorMessage)
			} else {
				require.NoError(subtest, executionError)
			}
			require.Equal(subtest, testCase.expectedOutput, output)
			require.Equal(subtest, testCase.expectedProbeCount, environment.executor.countCommands(execshell.ToolchainBoardFlag))
		})
	}
}
