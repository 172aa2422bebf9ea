package toolchain

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/arduino-ci/internal/utils"
)

const (
	locateCommandUseConstant              = "locate"
	locateCommandShortDescriptionConstant = "Locate the toolchain executable"
	locateCommandLongDescriptionConstant  = "locate searches the configured path, extra search locations, platform install locations and PATH for the toolchain executable and prints the first match."
	locateSubjectConstant                 = "arduino toolchain"
	toolchainNotLocatedMessageConstant    = "arduino toolchain not located"
	toolchainLocatedMessageConstant       = "arduino toolchain located"
	logFieldCommandPathConstant           = "command_path"
	logFieldConfigurationFileConstant     = "config_file"
)

// LocateCommandBuilder assembles the locate command.
type LocateCommandBuilder struct {
	CommandDependencies
}

// Build constructs the locate command.
func (builder *LocateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   locateCommandUseConstant,
		Short: locateCommandShortDescriptionConstant,
		Long:  locateCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	bindToolchainFlags(command, false)

	return command, nil
}

func (builder *LocateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	autolocator, logger, autolocatorError := builder.newAutolocator(command)
	if autolocatorError != nil {
		return autolocatorError
	}

	printer := newVerdictPrinter(command)
	client, found := autolocator.Autolocate(builder.resolveConfiguration(command))
	if !found {
		printer.ExecutableFound(locateSubjectConstant, false)
		return errors.New(toolchainNotLocatedMessageConstant)
	}

	configurationFilePath, _ := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	logger.Info(
		toolchainLocatedMessageConstant,
		zap.String(logFieldCommandPathConstant, client.Installation().CommandPath),
		zap.String(logFieldConfigurationFileConstant, configurationFilePath),
	)

	printer.ExecutableFound(client.Installation().CommandPath, true)
	return nil
}
