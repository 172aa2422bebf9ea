package host_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/arduino-ci/internal/execshell"
	"github.com/temirov/arduino-ci/internal/host"
)

type recordingCommandExecutor struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (executor *recordingCommandExecutor) Execute(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, command)
	return executor.executionResult, executor.executionError
}

func TestLinkerCreatesNativeSymlink(testInstance *testing.T) {
	if runtime.GOOS == "windows" {
		testInstance.Skip("native symlinks require elevated privileges on windows")
	}

	workspace := testInstance.TempDir()
	targetDirectory := filepath.Join(workspace, "library")
	require.NoError(testInstance, os.MkdirAll(targetDirectory, 0o755))
	require.NoError(testInstance, os.WriteFile(filepath.Join(targetDirectory, "library.h"), []byte("#pragma once\n"), 0o644))
	linkPath := filepath.Join(workspace, "linked")

	linker := host.NewLinker(host.PlatformFor(host.ClassLinux), host.OSFileSystem{}, nil)
	require.NoError(testInstance, linker.CreateSymlink(context.Background(), targetDirectory, linkPath))

	linkInfo, linkStatError := os.Lstat(linkPath)
	require.NoError(testInstance, linkStatError)
	require.NotZero(testInstance, linkInfo.Mode()&os.ModeSymlink)

	content, readError := os.ReadFile(filepath.Join(linkPath, "library.h"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "#pragma once\n", string(content))

	secondAttemptError := linker.CreateSymlink(context.Background(), targetDirectory, linkPath)
	require.Error(testInstance, secondAttemptError)
	require.IsType(testInstance, host.SymlinkError{}, secondAttemptError)
	require.ErrorIs(testInstance, secondAttemptError, os.ErrExist)
}

func TestLinkerDirectoryLinkInvocation(testInstance *testing.T) {
	testCases := []struct {
		name              string
		executor          *recordingCommandExecutor
		expectError       bool
		expectedErrorText string
	}{
		{
			name:     "success",
			executor: &recordingCommandExecutor{},
		},
		{
			name: "link_already_exists",
			executor: &recordingCommandExecutor{executionResult: execshell.ExecutionResult{
				ExitCode:      1,
				StandardError: "Cannot create a file when that file already exists.",
			}},
			expectError:       true,
			expectedErrorText: "already exists",
		},
		{
			name:              "spawn_failure",
			executor:          &recordingCommandExecutor{executionError: errors.New("cmd.exe missing")},
			expectError:       true,
			expectedErrorText: "cmd.exe missing",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fileSystem := newFakeFileSystem()
			fileSystem.symlinks["C:/work/sketches/Library"] = "C:/real/Library"

			linker := host.NewLinker(host.PlatformFor(host.ClassWindows), fileSystem, testCase.executor)
			linkError := linker.CreateSymlink(context.Background(), "sketches/Library", "C:/workspace/libraries/Library")

			require.Len(testInstance, testCase.executor.recordedCommands, 1)
			recordedCommand := testCase.executor.recordedCommands[0]
			require.Equal(testInstance, execshell.CommandWindowsShell, recordedCommand.Name)
			require.Equal(testInstance, []string{"/C", "mklink", "/D", `C:\workspace\libraries\Library`, `C:\real\Library`}, recordedCommand.Details.Arguments)

			if !testCase.expectError {
				require.NoError(testInstance, linkError)
				return
			}
			require.Error(testInstance, linkError)
			require.IsType(testInstance, host.SymlinkError{}, linkError)
			require.Contains(testInstance, linkError.Error(), testCase.expectedErrorText)
		})
	}
}

func TestLinkerValidatesInput(testInstance *testing.T) {
	linker := host.NewLinker(host.PlatformFor(host.ClassLinux), newFakeFileSystem(), nil)
	require.Error(testInstance, linker.CreateSymlink(context.Background(), "", "link"))
	require.Error(testInstance, linker.CreateSymlink(context.Background(), "target", " "))

	windowsLinker := host.NewLinker(host.PlatformFor(host.ClassWindows), newFakeFileSystem(), nil)
	require.ErrorIs(testInstance, windowsLinker.CreateSymlink(context.Background(), "target", "link"), host.ErrLinkExecutorNotConfigured)
}

func TestToBackslashes(testInstance *testing.T) {
	require.Equal(testInstance, `C:\Users\ci\Arduino`, host.ToBackslashes("C:/Users/ci\\Arduino"))
}
