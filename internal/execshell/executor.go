package execshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "shell executor logger not configured"
	commandRunnerNotConfiguredMessageConstant = "shell executor command runner not configured"
	commandExecutionErrorTemplateConstant     = "%s could not be executed: %v"
	logFieldCommandNameConstant               = "command_name"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "standard_error"
	logFieldInteractiveConstant               = "interactive"
)

// CommandName identifies the program a ShellCommand runs. It may be a bare name or a path.
type CommandName string

// Well-known commands.
const (
	CommandWindowsShell CommandName = CommandName("cmd.exe")
)

// CommandDetails describes arguments and process settings for a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a command name with its details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// Succeeded reports whether the process exited with status zero.
func (result ExecutionResult) Succeeded() bool {
	return result.ExitCode == 0
}

// InteractiveStreams are handed to a child process instead of capture buffers.
// Nil members fall back to the current process streams.
type InteractiveStreams struct {
	Input  io.Reader
	Output io.Writer
	Error  io.Writer
}

// CommandRunner spawns processes.
// A non-zero exit is reported through ExecutionResult; the error return is reserved for spawn failures.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
	RunInteractive(executionContext context.Context, command ShellCommand, streams InteractiveStreams) (ExecutionResult, error)
}

var (
	// ErrLoggerNotConfigured indicates a missing logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates a missing command runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandExecutionError reports that a process could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, executionError.Command.Name, executionError.Cause)
}

// Unwrap exposes the underlying cause.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// ShellExecutor runs commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger    *zap.Logger
	runner    CommandRunner
	observer  CommandEventObserver
	formatter CommandMessageFormatter
}

// NewShellExecutor constructs an executor around the provided logger and runner.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{
		logger:    logger,
		runner:    runner,
		observer:  CommandEventObservers{},
		formatter: CommandMessageFormatter{},
	}, nil
}

// WithEventObserver returns a copy of the executor that notifies each observer of command events.
func (executor *ShellExecutor) WithEventObserver(observers ...CommandEventObserver) *ShellExecutor {
	duplicate := *executor
	duplicate.observer = CommandEventObservers(observers)
	return &duplicate
}

// Execute runs the command and captures both output streams.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	return executor.execute(executionContext, command, false, func(runContext context.Context) (ExecutionResult, error) {
		return executor.runner.Run(runContext, command)
	})
}

// ExecuteInteractive runs the command with its output streamed to streams rather than captured.
func (executor *ShellExecutor) ExecuteInteractive(executionContext context.Context, command ShellCommand, streams InteractiveStreams) (ExecutionResult, error) {
	return executor.execute(executionContext, command, true, func(runContext context.Context) (ExecutionResult, error) {
		return executor.runner.RunInteractive(runContext, command, streams)
	})
}

func (executor *ShellExecutor) execute(executionContext context.Context, command ShellCommand, interactive bool, run func(context.Context) (ExecutionResult, error)) (ExecutionResult, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	commandFields := executor.commandFields(command, interactive)
	executor.observer.CommandStarted(command)
	executor.logger.Debug(executor.formatter.BuildStartedMessage(command), commandFields...)

	executionResult, runError := run(executionContext)
	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Error(executor.formatter.BuildExecutionFailureMessage(command, runError), append(commandFields, zap.Error(runError))...)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)
	resultFields := append(commandFields, zap.Int(logFieldExitCodeConstant, executionResult.ExitCode))
	trimmedStandardError := strings.TrimSpace(executionResult.StandardError)
	if len(trimmedStandardError) > 0 {
		resultFields = append(resultFields, zap.String(logFieldStandardErrorConstant, trimmedStandardError))
	}

	if !executionResult.Succeeded() {
		executor.logger.Warn(executor.formatter.BuildFailureMessage(command, executionResult), resultFields...)
		return executionResult, nil
	}

	executor.logger.Debug(executor.formatter.BuildSuccessMessage(command), resultFields...)
	return executionResult, nil
}

func (executor *ShellExecutor) commandFields(command ShellCommand, interactive bool) []zap.Field {
	fields := []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
	}
	if len(command.Details.WorkingDirectory) > 0 {
		fields = append(fields, zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory))
	}
	if interactive {
		fields = append(fields, zap.Bool(logFieldInteractiveConstant, true))
	}
	return fields
}
