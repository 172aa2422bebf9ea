package toolchain_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	toolchaincmd "github.com/temirov/arduino-ci/cmd/cli/toolchain"
	"github.com/temirov/arduino-ci/internal/execshell"
	"github.com/temirov/arduino-ci/internal/toolchain"
	pathutils "github.com/temirov/arduino-ci/internal/utils/path"
)

const (
	testExecutableNameConstant     = "arduino"
	testExecutableContentConstant  = "#!/bin/sh\nexit 0\n"
	testInstalledBoardConstant     = "arduino:avr:uno"
	testMissingBoardConstant       = "eggs:milk:wheat"
	testPathEnvironmentKeyConstant = "PATH"
)

// scriptedToolchainExecutor answers toolchain invocations from in-memory state.
type scriptedToolchainExecutor struct {
	preferences         map[string]string
	preferenceExitCode  int
	installedBoards     map[string]struct{}
	failingSketches     map[string]struct{}
	commands            []execshell.ShellCommand
	interactiveCommands []execshell.ShellCommand
}

func newScriptedToolchainExecutor() *scriptedToolchainExecutor {
	return &scriptedToolchainExecutor{
		preferences: map[string]string{
			"build.verbose":   "false",
			"sketchbook.path": "/home/ci/Arduino",
		},
		installedBoards: map[string]struct{}{testInstalledBoardConstant: {}},
		failingSketches: map[string]struct{}{},
	}
}

func (executor *scriptedToolchainExecutor) Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.commands = append(executor.commands, command)
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return execshell.ExecutionResult{ExitCode: 3}, nil
	}

	switch arguments[0] {
	case execshell.ToolchainGetPreferenceFlag:
		if executor.preferenceExitCode != 0 {
			return execshell.ExecutionResult{ExitCode: executor.preferenceExitCode}, nil
		}
		keys := make([]string, 0, len(executor.preferences))
		for key := range executor.preferences {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var builder strings.Builder
		for _, key := range keys {
			builder.WriteString(key + "=" + executor.preferences[key] + "\n")
		}
		return execshell.ExecutionResult{StandardOutput: builder.String()}, nil
	case execshell.ToolchainPreferenceFlag:
		key, value, _ := strings.Cut(arguments[1], "=")
		executor.preferences[key] = value
		return execshell.ExecutionResult{}, nil
	case execshell.ToolchainBoardFlag:
		if _, installed := executor.installedBoards[arguments[1]]; !installed {
			return execshell.ExecutionResult{ExitCode: 1}, nil
		}
		return execshell.ExecutionResult{}, nil
	case execshell.ToolchainVerifyFlag:
		if _, failing := executor.failingSketches[arguments[1]]; failing {
			return execshell.ExecutionResult{ExitCode: 1}, nil
		}
		return execshell.ExecutionResult{}, nil
	default:
		return execshell.ExecutionResult{ExitCode: 3}, nil
	}
}

func (executor *scriptedToolchainExecutor) ExecuteInteractive(executionContext context.Context, command execshell.ShellCommand, streams execshell.InteractiveStreams) (execshell.ExecutionResult, error) {
	executor.interactiveCommands = append(executor.interactiveCommands, command)
	executionResult, executionError := executor.Execute(executionContext, command)
	return execshell.ExecutionResult{ExitCode: executionResult.ExitCode}, executionError
}

func (executor *scriptedToolchainExecutor) countCommands(flag string) int {
	count := 0
	for _, command := range executor.commands {
		if len(command.Details.Arguments) > 0 && command.Details.Arguments[0] == flag {
			count++
		}
	}
	return count
}

type commandEnvironment struct {
	executor       *scriptedToolchainExecutor
	executablePath string
	workDirectory  string
}

// newCommandEnvironment installs a stand-in toolchain executable in an isolated directory tree.
func newCommandEnvironment(testInstance *testing.T) *commandEnvironment {
	testInstance.Helper()
	if runtime.GOOS == "windows" {
		testInstance.Skip("executable permission bits are not available on windows")
	}

	rootDirectory := testInstance.TempDir()
	installDirectory := filepath.Join(rootDirectory, "install")
	require.NoError(testInstance, os.MkdirAll(installDirectory, 0o755))
	executablePath := filepath.Join(installDirectory, testExecutableNameConstant)
	require.NoError(testInstance, os.WriteFile(executablePath, []byte(testExecutableContentConstant), 0o755))

	workDirectory := filepath.Join(rootDirectory, "work")
	require.NoError(testInstance, os.MkdirAll(workDirectory, 0o755))

	return &commandEnvironment{
		executor:       newScriptedToolchainExecutor(),
		executablePath: executablePath,
		workDirectory:  workDirectory,
	}
}

// dependencies isolates the search from the host: empty PATH and a home directory without installs.
func (environment *commandEnvironment) dependencies(configuration toolchain.Configuration) toolchaincmd.CommandDependencies {
	return toolchaincmd.CommandDependencies{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() toolchain.Configuration {
			return configuration
		},
		Executor: environment.executor,
		EnvironmentLookup: func(key string) (string, bool) {
			if key == testPathEnvironmentKeyConstant {
				return environment.workDirectory, true
			}
			return "", false
		},
		HomeExpander: pathutils.NewHomeExpanderWithProvider(func() (string, error) {
			return environment.workDirectory, nil
		}),
	}
}

func (environment *commandEnvironment) writeSketch(testInstance *testing.T, name string) string {
	testInstance.Helper()
	sketchPath := filepath.Join(environment.workDirectory, name)
	require.NoError(testInstance, os.WriteFile(sketchPath, []byte("void setup() {}\nvoid loop() {}\n"), 0o644))
	return sketchPath
}

func skipWhenSystemInstallationPresent(testInstance *testing.T) {
	testInstance.Helper()
	for _, systemLocation := range []string{"/usr/local/share/arduino/arduino", "/opt/arduino/arduino", "/Applications/Arduino.app/Contents/MacOS/Arduino"} {
		if _, statError := os.Stat(systemLocation); statError == nil {
			testInstance.Skipf("toolchain installed at %s", systemLocation)
		}
	}
}

func executeCommand(command *cobra.Command, arguments ...string) (string, error) {
	var outputBuffer bytes.Buffer
	var errorBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(&errorBuffer)
	command.SetContext(context.Background())
	command.SetArgs(arguments)
	command.SilenceUsage = true
	command.SilenceErrors = true

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}
