package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/arduino-ci/internal/execshell"
)

// ConsoleCommandEventLogger prints toolchain invocations as plain progress lines.
// Starts and clean exits are info, non-zero exits are warnings, spawn failures are errors.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger; a nil logger discards every event.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.emit(zapcore.InfoLevel, func() string {
		return eventLogger.formatter.BuildStartedMessage(command)
	})
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.Succeeded() {
		eventLogger.emit(zapcore.InfoLevel, func() string {
			return eventLogger.formatter.BuildSuccessMessage(command)
		})
		return
	}
	eventLogger.emit(zapcore.WarnLevel, func() string {
		return eventLogger.formatter.BuildFailureMessage(command, result)
	})
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventLogger.emit(zapcore.ErrorLevel, func() string {
		return eventLogger.formatter.BuildExecutionFailureMessage(command, failure)
	})
}

// emit formats the message only when the logger accepts the level.
func (eventLogger *ConsoleCommandEventLogger) emit(level zapcore.Level, message func() string) {
	if eventLogger == nil {
		return
	}
	if !eventLogger.logger.Core().Enabled(level) {
		return
	}
	eventLogger.logger.Log(level, message())
}
