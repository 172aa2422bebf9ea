package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	hostcmd "github.com/temirov/arduino-ci/cmd/cli/host"
	toolchaincmd "github.com/temirov/arduino-ci/cmd/cli/toolchain"
	"github.com/temirov/arduino-ci/internal/toolchain"
	"github.com/temirov/arduino-ci/internal/utils"
)

const (
	applicationNameConstant                 = "arduino-ci"
	applicationShortDescriptionConstant     = "Drive the Arduino toolchain from continuous integration"
	applicationLongDescriptionConstant      = "arduino-ci locates the Arduino IDE command line, verifies sketches, probes boards and manages the toolchain preference store."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	environmentPrefixConstant               = "ARDUINOCI"
	configurationSearchPathEnvironmentName  = environmentPrefixConstant + "_CONFIG_SEARCH_PATH"
	configurationDirectoryNameConstant      = applicationNameConstant
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandNotFoundErrorTemplateConstant    = "unknown command %q"
	rootCommandDebugMessageConstant         = "root command invoked without a subcommand"
	logFieldArgumentsConstant               = "arguments"
)

// ApplicationConfiguration mirrors config.yaml: logging under common, toolchain discovery under toolchain.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration `mapstructure:"common"`
	Toolchain toolchain.Configuration        `mapstructure:"toolchain"`
}

// ApplicationCommonConfiguration holds the logging settings.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application owns the root command together with the configuration and loggers its subcommands read.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication builds the root command and registers every subcommand.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		utils.ConfigurationSearchPaths(configurationSearchPathEnvironmentName, configurationDirectoryNameConstant),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	for _, builder := range application.subcommandBuilders() {
		subcommand, buildError := builder.Build()
		if buildError != nil {
			continue
		}
		cobraCommand.AddCommand(subcommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute parses os.Args, runs the selected command and flushes the loggers.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// InitializeForCommand loads configuration and loggers as if the named subcommand were about to run.
func (application *Application) InitializeForCommand(commandName string) error {
	targetCommand := application.rootCommand
	if trimmedName := strings.TrimSpace(commandName); len(trimmedName) > 0 {
		foundCommand, _, findError := application.rootCommand.Find([]string{trimmedName})
		if findError != nil || foundCommand == application.rootCommand {
			return fmt.Errorf(commandNotFoundErrorTemplateConstant, trimmedName)
		}
		targetCommand = foundCommand
	}
	if targetCommand.Context() == nil {
		targetCommand.SetContext(context.Background())
	}
	return application.initializeConfiguration(targetCommand)
}

// Configuration returns the configuration loaded by the last initialization.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// subcommandBuilder is satisfied by every command builder registered under the root command.
type subcommandBuilder interface {
	Build() (*cobra.Command, error)
}

func (application *Application) subcommandBuilders() []subcommandBuilder {
	diagnosticLoggerProvider := func() *zap.Logger { return application.logger }
	consoleLoggerProvider := func() *zap.Logger { return application.consoleLogger }

	toolchainDependencies := toolchaincmd.CommandDependencies{
		LoggerProvider:               diagnosticLoggerProvider,
		ConsoleLoggerProvider:        consoleLoggerProvider,
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() toolchain.Configuration {
			return application.configuration.Toolchain
		},
	}

	return []subcommandBuilder{
		&toolchaincmd.LocateCommandBuilder{CommandDependencies: toolchainDependencies},
		&toolchaincmd.VerifyCommandBuilder{CommandDependencies: toolchainDependencies},
		&toolchaincmd.BoardCommandBuilder{CommandDependencies: toolchainDependencies},
		&toolchaincmd.PreferencesCommandBuilder{CommandDependencies: toolchainDependencies},
		&hostcmd.CommandBuilder{
			LoggerProvider:               diagnosticLoggerProvider,
			ConsoleLoggerProvider:        consoleLoggerProvider,
			HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		},
	}
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	if loadError := application.loadConfiguration(); loadError != nil {
		return loadError
	}
	application.applyFlagOverrides(command)
	if loggerError := application.initializeLoggers(); loggerError != nil {
		return loggerError
	}

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	application.attachConfigurationFilePath(command)
	return nil
}

func (application *Application) loadConfiguration() error {
	defaultValues := toolchain.DefaultConfigurationValues()
	defaultValues[commonLogLevelConfigKeyConstant] = string(utils.LogLevelInfo)
	defaultValues[commonLogFormatConfigKeyConstant] = string(utils.LogFormatStructured)

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration
	application.configuration.Toolchain = application.configuration.Toolchain.Sanitize()
	return nil
}

func (application *Application) applyFlagOverrides(command *cobra.Command) {
	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}
	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}
}

func (application *Application) initializeLoggers() error {
	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger
	return nil
}

// attachConfigurationFilePath exposes the configuration file to subcommands through the command context.
func (application *Application) attachConfigurationFilePath(command *cobra.Command) {
	if command == nil {
		return
	}
	updatedContext := application.commandContextAccessor.WithConfigurationFilePath(command.Context(), application.configurationMetadata.ConfigFileUsed)
	command.SetContext(updatedContext)
	if rootCommand := command.Root(); rootCommand != nil {
		rootCommand.SetContext(updatedContext)
	}
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormat, parseError := utils.ParseLogFormat(application.configuration.Common.LogFormat)
	return parseError == nil && logFormat == utils.LogFormatConsole
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	application.logger.Debug(rootCommandDebugMessageConstant, zap.Strings(logFieldArgumentsConstant, arguments))
	return command.Help()
}

// flushLogger syncs both loggers. Terminals and pipes reject fsync with ENOTSUP or EINVAL; those are ignored.
func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if logger == nil {
			continue
		}
		syncError := logger.Sync()
		if syncError == nil || errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL) {
			continue
		}
		return syncError
	}
	return nil
}

// persistentFlagChanged reports whether the nearest ancestor declaring flagName saw it on the command line.
func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	for candidate := command; candidate != nil; candidate = candidate.Parent() {
		if declaredFlag := candidate.PersistentFlags().Lookup(flagName); declaredFlag != nil {
			return declaredFlag.Changed
		}
	}
	return false
}
