package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	consoleMessageKeyConstant            = "message"
	samplingTickConstant                 = time.Second
	samplingInitialConstant              = 100
	samplingThereafterConstant           = 100
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported diagnostic encodings.
type LogFormat string

// Supported log formats. Structured emits JSON lines; console emits tab separated text.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

var zapLevels = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// LoggerOutputs bundles the diagnostic logger with the logger used for human-readable progress lines.
type LoggerOutputs struct {
	DiagnosticLogger *zap.Logger
	ConsoleLogger    *zap.Logger
}

// LoggerFactoryOption customizes a LoggerFactory.
type LoggerFactoryOption func(*LoggerFactory)

// WithDiagnosticWriter redirects the diagnostic logger. Standard error is used by default.
func WithDiagnosticWriter(writer io.Writer) LoggerFactoryOption {
	return func(factory *LoggerFactory) {
		factory.diagnosticWriter = writer
	}
}

// WithConsoleWriter redirects the console logger. Standard error is used by default.
func WithConsoleWriter(writer io.Writer) LoggerFactoryOption {
	return func(factory *LoggerFactory) {
		factory.consoleWriter = writer
	}
}

// LoggerFactory builds zap loggers with consistent configuration.
type LoggerFactory struct {
	diagnosticWriter io.Writer
	consoleWriter    io.Writer
}

// NewLoggerFactory constructs a logger factory.
func NewLoggerFactory(options ...LoggerFactoryOption) *LoggerFactory {
	factory := &LoggerFactory{}
	for _, option := range options {
		if option != nil {
			option(factory)
		}
	}
	return factory
}

// ParseLogLevel resolves a configured level name, ignoring case and surrounding whitespace.
func ParseLogLevel(value string) (LogLevel, error) {
	candidate := LogLevel(strings.ToLower(strings.TrimSpace(value)))
	if _, known := zapLevels[candidate]; !known {
		return "", fmt.Errorf(unsupportedLogLevelTemplateConstant, value)
	}
	return candidate, nil
}

// ParseLogFormat resolves a configured format name, ignoring case and surrounding whitespace.
func ParseLogFormat(value string) (LogFormat, error) {
	candidate := LogFormat(strings.ToLower(strings.TrimSpace(value)))
	switch candidate {
	case LogFormatStructured, LogFormatConsole:
		return candidate, nil
	default:
		return "", fmt.Errorf(unsupportedLogFormatTemplateConstant, value)
	}
}

// CreateLogger produces the diagnostic logger for the requested level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	logLevel, levelError := ParseLogLevel(string(requestedLogLevel))
	if levelError != nil {
		return nil, levelError
	}
	logFormat, formatError := ParseLogFormat(string(requestedLogFormat))
	if formatError != nil {
		return nil, formatError
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	encoderConfiguration.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if logFormat == LogFormatConsole {
		encoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfiguration)
	}

	core := zapcore.NewCore(encoder, factory.writeSyncer(factory.diagnosticWriter), zap.NewAtomicLevelAt(zapLevels[logLevel]))
	sampledCore := zapcore.NewSamplerWithOptions(core, samplingTickConstant, samplingInitialConstant, samplingThereafterConstant)
	return zap.New(sampledCore, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// CreateLoggerOutputs produces the diagnostic logger and a console logger sharing the requested level.
// The console logger prints bare messages so progress lines stay readable between verdicts.
func (factory *LoggerFactory) CreateLoggerOutputs(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (LoggerOutputs, error) {
	diagnosticLogger, diagnosticError := factory.CreateLogger(requestedLogLevel, requestedLogFormat)
	if diagnosticError != nil {
		return LoggerOutputs{}, diagnosticError
	}

	consoleEncoderConfiguration := zapcore.EncoderConfig{
		MessageKey:     consoleMessageKeyConstant,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	consoleLevel, _ := ParseLogLevel(string(requestedLogLevel))
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfiguration),
		zapcore.AddSync(NewFlushingWriter(factory.outputWriter(factory.consoleWriter))),
		zap.NewAtomicLevelAt(zapLevels[consoleLevel]),
	)

	return LoggerOutputs{
		DiagnosticLogger: diagnosticLogger,
		ConsoleLogger:    zap.New(consoleCore),
	}, nil
}

func (factory *LoggerFactory) writeSyncer(writer io.Writer) zapcore.WriteSyncer {
	if writer == nil {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.Lock(zapcore.AddSync(writer))
}

func (factory *LoggerFactory) outputWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return os.Stderr
	}
	return writer
}
