package toolchain

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	boardCommandUseConstant              = "board <vendor:architecture:board[:options]> [<board>...]"
	boardCommandShortDescriptionConstant = "Check that boards are installed in the toolchain"
	boardCommandLongDescriptionConstant  = "board asks the toolchain to select each board and prints INSTALLED or MISSING. The toolchain persists the last accepted board as its current selection."
	useFlagNameConstant                  = "use"
	useFlagDescriptionConstant           = "Report the probe as a board selection"
	boardsMissingTemplateConstant        = "%d of %d boards are not installed"
	boardsNotSelectedTemplateConstant    = "%d of %d boards could not be selected"
)

// BoardCommandBuilder assembles the board command.
type BoardCommandBuilder struct {
	CommandDependencies
}

// Build constructs the board command.
func (builder *BoardCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   boardCommandUseConstant,
		Short: boardCommandShortDescriptionConstant,
		Long:  boardCommandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	bindToolchainFlags(command, false)
	command.Flags().Bool(useFlagNameConstant, false, useFlagDescriptionConstant)

	return command, nil
}

func (builder *BoardCommandBuilder) run(command *cobra.Command, arguments []string) error {
	useBoard, _ := command.Flags().GetBool(useFlagNameConstant)

	client, _, locateError := builder.mustAutolocate(command, builder.resolveConfiguration(command))
	if locateError != nil {
		return locateError
	}

	printer := newVerdictPrinter(command)
	rejectedCount := 0
	for _, board := range arguments {
		var accepted bool
		var probeError error
		if useBoard {
			accepted, probeError = client.UseBoard(command.Context(), board)
		} else {
			accepted, probeError = client.BoardInstalled(command.Context(), board)
		}
		if probeError != nil {
			return probeError
		}

		if useBoard {
			printer.BoardSelected(board, accepted)
		} else {
			printer.BoardInstalled(board, accepted)
		}
		if !accepted {
			rejectedCount++
		}
	}

	if rejectedCount == 0 {
		return nil
	}
	if useBoard {
		return fmt.Errorf(boardsNotSelectedTemplateConstant, rejectedCount, len(arguments))
	}
	return fmt.Errorf(boardsMissingTemplateConstant, rejectedCount, len(arguments))
}
