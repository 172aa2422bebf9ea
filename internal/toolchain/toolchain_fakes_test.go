package toolchain_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/temirov/arduino-ci/internal/execshell"
)

const (
	testToolchainCommandPathConstant = "/opt/arduino/arduino"
	testInstalledBoardConstant       = "arduino:avr:uno"
	testBogusBoardConstant           = "eggs:milk:wheat"
)

// fakeToolchain emulates the Arduino IDE command line surface in memory.
type fakeToolchain struct {
	preferences        map[string]string
	installedBoards    map[string]struct{}
	failingSketchPaths map[string]struct{}
	preferenceExitCode int
	spawnError         error
	commands           []execshell.ShellCommand
	interactiveCount   int
}

func newFakeToolchain() *fakeToolchain {
	return &fakeToolchain{
		preferences: map[string]string{
			"upload.verify":          "true",
			"build.verbose":          "false",
			"sketchbook.path":        "/home/ci/Arduino",
			"compiler.warning_level": "none",
		},
		installedBoards:    map[string]struct{}{testInstalledBoardConstant: {}},
		failingSketchPaths: map[string]struct{}{},
	}
}

func (toolchain *fakeToolchain) Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	toolchain.commands = append(toolchain.commands, command)
	if toolchain.spawnError != nil {
		return execshell.ExecutionResult{}, execshell.CommandExecutionError{Command: command, Cause: toolchain.spawnError}
	}
	return toolchain.respond(command), nil
}

func (toolchain *fakeToolchain) ExecuteInteractive(executionContext context.Context, command execshell.ShellCommand, streams execshell.InteractiveStreams) (execshell.ExecutionResult, error) {
	toolchain.interactiveCount++
	executionResult, executionError := toolchain.Execute(executionContext, command)
	return execshell.ExecutionResult{ExitCode: executionResult.ExitCode}, executionError
}

func (toolchain *fakeToolchain) respond(command execshell.ShellCommand) execshell.ExecutionResult {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return execshell.ExecutionResult{ExitCode: 3}
	}

	switch arguments[0] {
	case execshell.ToolchainGetPreferenceFlag:
		if toolchain.preferenceExitCode != 0 {
			return execshell.ExecutionResult{ExitCode: toolchain.preferenceExitCode, StandardError: "preferences unavailable"}
		}
		return execshell.ExecutionResult{StandardOutput: toolchain.renderPreferences()}
	case execshell.ToolchainPreferenceFlag:
		key, value, _ := strings.Cut(arguments[1], "=")
		toolchain.preferences[key] = value
		return execshell.ExecutionResult{}
	case execshell.ToolchainBoardFlag:
		if _, installed := toolchain.installedBoards[arguments[1]]; !installed {
			return execshell.ExecutionResult{ExitCode: 1, StandardError: fmt.Sprintf("Board %s is not available", arguments[1])}
		}
		toolchain.preferences["board"] = arguments[1]
		return execshell.ExecutionResult{}
	case execshell.ToolchainVerifyFlag:
		if _, failing := toolchain.failingSketchPaths[arguments[1]]; failing {
			return execshell.ExecutionResult{ExitCode: 1, StandardError: "expected ';' before '}' token"}
		}
		return execshell.ExecutionResult{StandardOutput: "Sketch uses 924 bytes (2%) of program storage space."}
	default:
		return execshell.ExecutionResult{ExitCode: 3}
	}
}

func (toolchain *fakeToolchain) renderPreferences() string {
	keys := make([]string, 0, len(toolchain.preferences))
	for key := range toolchain.preferences {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString("Picked up JAVA_TOOL_OPTIONS\r\n")
	for _, key := range keys {
		builder.WriteString(key + "=" + toolchain.preferences[key] + "\r\n")
	}
	return builder.String()
}

func (toolchain *fakeToolchain) countCommands(flag string) int {
	count := 0
	for _, command := range toolchain.commands {
		if len(command.Details.Arguments) > 0 && command.Details.Arguments[0] == flag {
			count++
		}
	}
	return count
}

// steppingClock advances by a fixed step every time it is read.
type steppingClock struct {
	current time.Time
	step    time.Duration
}

func (clock *steppingClock) Now() time.Time {
	clock.current = clock.current.Add(clock.step)
	return clock.current
}
