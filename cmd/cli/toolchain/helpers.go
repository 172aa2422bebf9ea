package toolchain

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/arduino-ci/internal/execshell"
	"github.com/temirov/arduino-ci/internal/host"
	"github.com/temirov/arduino-ci/internal/toolchain"
	"github.com/temirov/arduino-ci/internal/ui"
	"github.com/temirov/arduino-ci/internal/utils"
	"github.com/temirov/arduino-ci/internal/utils/flags"
	pathutils "github.com/temirov/arduino-ci/internal/utils/path"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider yields the loaded toolchain configuration.
type ConfigurationProvider func() toolchain.Configuration

// CommandDependencies carries the collaborators every toolchain command resolves at run time.
// Nil fields fall back to the operating system.
type CommandDependencies struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        ConfigurationProvider
	Executor                     toolchain.Executor
	EnvironmentLookup            host.EnvironmentLookup
	HomeExpander                 *pathutils.HomeExpander
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (dependencies CommandDependencies) humanReadableLogging() bool {
	if dependencies.HumanReadableLoggingProvider == nil {
		return false
	}
	return dependencies.HumanReadableLoggingProvider()
}

func (dependencies CommandDependencies) resolveExecutor(logger *zap.Logger) (toolchain.Executor, error) {
	if dependencies.Executor != nil {
		return dependencies.Executor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}
	if dependencies.humanReadableLogging() {
		shellExecutor = shellExecutor.WithEventObserver(ui.NewConsoleCommandEventLogger(resolveLogger(dependencies.ConsoleLoggerProvider)))
	}
	return shellExecutor, nil
}

// resolveConfiguration merges toolchain flags set on the command line over the loaded configuration.
func (dependencies CommandDependencies) resolveConfiguration(command *cobra.Command) toolchain.Configuration {
	configuration := toolchain.Configuration{}
	if dependencies.ConfigurationProvider != nil {
		configuration = dependencies.ConfigurationProvider()
	}
	if command == nil {
		return configuration.Sanitize()
	}

	commandPathChanged, searchLocationsChanged := flags.ToolchainFlagsChanged(command)
	if commandPathChanged {
		configuration.CommandPath, _ = command.Flags().GetString(flags.ToolchainPathFlagName)
	}
	if searchLocationsChanged {
		configuration.SearchLocations, _ = command.Flags().GetStringSlice(flags.SearchLocationFlagName)
	}
	return configuration.Sanitize()
}

func (dependencies CommandDependencies) newAutolocator(command *cobra.Command) (*toolchain.Autolocator, *zap.Logger, error) {
	logger := resolveLogger(dependencies.LoggerProvider)
	executor, executorError := dependencies.resolveExecutor(logger)
	if executorError != nil {
		return nil, nil, executorError
	}

	autolocator, autolocatorError := toolchain.NewAutolocator(toolchain.Dependencies{
		Executor:          executor,
		Logger:            logger,
		EnvironmentLookup: dependencies.EnvironmentLookup,
		Streams: execshell.InteractiveStreams{
			Input:  command.InOrStdin(),
			Output: utils.NewFlushingWriter(command.OutOrStdout()),
			Error:  utils.NewFlushingWriter(command.ErrOrStderr()),
		},
	}, dependencies.HomeExpander)
	if autolocatorError != nil {
		return nil, nil, autolocatorError
	}
	return autolocator, logger, nil
}

func (dependencies CommandDependencies) mustAutolocate(command *cobra.Command, configuration toolchain.Configuration) (*toolchain.Client, *zap.Logger, error) {
	autolocator, logger, autolocatorError := dependencies.newAutolocator(command)
	if autolocatorError != nil {
		return nil, nil, autolocatorError
	}
	client, locateError := autolocator.MustAutolocate(configuration)
	if locateError != nil {
		return nil, nil, locateError
	}
	return client, logger, nil
}

func bindToolchainFlags(command *cobra.Command, persistent bool) {
	flags.BindToolchainFlags(command, flags.ToolchainFlagValues{}, flags.ToolchainFlagDefinition{Enabled: true, Persistent: persistent})
}

func newVerdictPrinter(command *cobra.Command) ui.VerdictPrinter {
	return ui.NewVerdictPrinter(utils.NewFlushingWriter(command.OutOrStdout()))
}
