package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the supplied command and captures stdout and stderr in memory.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := runner.buildExecutable(executionContext, command)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	exitCode, runError := runner.wait(executable)
	if runError != nil {
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       exitCode,
	}, nil
}

// RunInteractive executes the supplied command attached to the provided streams.
func (runner *OSCommandRunner) RunInteractive(executionContext context.Context, command ShellCommand, streams InteractiveStreams) (ExecutionResult, error) {
	executable := runner.buildExecutable(executionContext, command)

	executable.Stdin = os.Stdin
	if streams.Input != nil {
		executable.Stdin = streams.Input
	}
	executable.Stdout = writerOrDefault(streams.Output, os.Stdout)
	executable.Stderr = writerOrDefault(streams.Error, os.Stderr)

	exitCode, runError := runner.wait(executable)
	if runError != nil {
		return ExecutionResult{}, runError
	}

	return ExecutionResult{ExitCode: exitCode}, nil
}

func (runner *OSCommandRunner) buildExecutable(executionContext context.Context, command ShellCommand) *exec.Cmd {
	if executionContext == nil {
		executionContext = context.Background()
	}

	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		executable.Env = append(os.Environ(), environmentAssignments(command.Details.EnvironmentVariables)...)
	}

	return executable
}

// environmentAssignments renders overrides as KEY=VALUE pairs sorted by key; later entries win over os.Environ.
func environmentAssignments(overrides map[string]string) []string {
	assignments := make([]string, 0, len(overrides))
	for _, environmentKey := range slices.Sorted(maps.Keys(overrides)) {
		assignments = append(assignments, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, overrides[environmentKey]))
	}
	return assignments
}

func writerOrDefault(candidate io.Writer, fallback io.Writer) io.Writer {
	if candidate == nil {
		return fallback
	}
	return candidate
}

func (runner *OSCommandRunner) wait(executable *exec.Cmd) (int, error) {
	runError := executable.Run()
	if runError == nil {
		return 0, nil
	}

	exitError := &exec.ExitError{}
	if errors.As(runError, &exitError) {
		return exitError.ExitCode(), nil
	}
	return 0, runError
}
