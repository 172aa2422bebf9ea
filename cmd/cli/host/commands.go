package host

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/arduino-ci/internal/execshell"
	"github.com/temirov/arduino-ci/internal/host"
	"github.com/temirov/arduino-ci/internal/ui"
	"github.com/temirov/arduino-ci/internal/utils"
)

const (
	hostCommandUseConstant                 = "host"
	hostCommandShortDescriptionConstant    = "Inspect and prepare the host"
	osCommandUseConstant                   = "os"
	osCommandShortDescriptionConstant      = "Print the host class (macos, linux or windows)"
	whichCommandUseConstant                = "which <command> [<command>...]"
	whichCommandShortDescriptionConstant   = "Resolve commands against the executable search path"
	symlinkCommandUseConstant              = "symlink <target> <link>"
	symlinkCommandShortDescriptionConstant = "Create a symbolic link to a directory"
	hostClassLineTemplateConstant          = "%s\n"
	commandsNotFoundTemplateConstant       = "%d of %d commands not found"
	linkCreatedMessageConstant             = "symbolic link created"
	linkCreatedLineTemplateConstant        = "LINKED: %s -> %s\n"
	logFieldTargetPathConstant             = "target_path"
	logFieldLinkPathConstant               = "link_path"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the host command group.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	HumanReadableLoggingProvider func() bool
	Platform                     *host.Platform
	FileSystem                   host.FileSystem
	Executor                     host.CommandExecutor
	EnvironmentLookup            host.EnvironmentLookup
}

// Build constructs the host command with its os, which and symlink subcommands.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   hostCommandUseConstant,
		Short: hostCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	osCommand := &cobra.Command{
		Use:   osCommandUseConstant,
		Short: osCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runOperatingSystem,
	}

	whichCommand := &cobra.Command{
		Use:   whichCommandUseConstant,
		Short: whichCommandShortDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.runWhich,
	}

	symlinkCommand := &cobra.Command{
		Use:   symlinkCommandUseConstant,
		Short: symlinkCommandShortDescriptionConstant,
		Args:  cobra.ExactArgs(2),
		RunE:  builder.runSymlink,
	}

	command.AddCommand(osCommand, whichCommand, symlinkCommand)

	return command, nil
}

func (builder *CommandBuilder) runOperatingSystem(command *cobra.Command, arguments []string) error {
	_, writeError := fmt.Fprintf(utils.NewFlushingWriter(command.OutOrStdout()), hostClassLineTemplateConstant, builder.platform().Class)
	return writeError
}

func (builder *CommandBuilder) runWhich(command *cobra.Command, arguments []string) error {
	platform := builder.platform()
	resolver := host.NewExecutableResolver(builder.fileSystem(), platform)
	printer := ui.NewVerdictPrinter(utils.NewFlushingWriter(command.OutOrStdout()))

	missingCount := 0
	for _, commandName := range arguments {
		resolvedPath, found := resolver.Resolve(commandName, host.EnvironmentSearchConfiguration(platform, builder.environmentLookup()))
		if !found {
			printer.ExecutableFound(commandName, false)
			missingCount++
			continue
		}
		printer.ExecutableFound(resolvedPath, true)
	}

	if missingCount > 0 {
		return fmt.Errorf(commandsNotFoundTemplateConstant, missingCount, len(arguments))
	}
	return nil
}

func (builder *CommandBuilder) runSymlink(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	targetPath := arguments[0]
	linkPath := arguments[1]
	linker := host.NewLinker(builder.platform(), builder.fileSystem(), executor)
	if linkError := linker.CreateSymlink(command.Context(), targetPath, linkPath); linkError != nil {
		return linkError
	}

	logger.Info(linkCreatedMessageConstant, zap.String(logFieldTargetPathConstant, targetPath), zap.String(logFieldLinkPathConstant, linkPath))
	_, writeError := fmt.Fprintf(utils.NewFlushingWriter(command.OutOrStdout()), linkCreatedLineTemplateConstant, linkPath, targetPath)
	return writeError
}

func (builder *CommandBuilder) platform() host.Platform {
	if builder.Platform != nil {
		return *builder.Platform
	}
	return host.CurrentPlatform()
}

func (builder *CommandBuilder) fileSystem() host.FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return host.OSFileSystem{}
}

func (builder *CommandBuilder) environmentLookup() host.EnvironmentLookup {
	if builder.EnvironmentLookup != nil {
		return builder.EnvironmentLookup
	}
	return os.LookupEnv
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (host.CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		shellExecutor = shellExecutor.WithEventObserver(ui.NewConsoleCommandEventLogger(resolveLogger(builder.ConsoleLoggerProvider)))
	}
	return shellExecutor, nil
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
