package toolchain

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/arduino-ci/internal/utils/flags"
)

const (
	verifyCommandUseConstant              = "verify <sketch> [<sketch>...]"
	verifyCommandShortDescriptionConstant = "Verify that sketches compile"
	verifyCommandLongDescriptionConstant  = "verify compiles each sketch with the located toolchain and prints PASSED or FAILED per sketch. The command fails when any sketch fails."
	verificationFailedTemplateConstant    = "%d of %d sketches failed verification"
	verificationSummaryMessageConstant    = "sketch verification finished"
	logFieldSketchCountConstant           = "sketch_count"
	logFieldFailedCountConstant           = "failed_count"
)

// VerifyCommandBuilder assembles the verify command.
type VerifyCommandBuilder struct {
	CommandDependencies
}

// Build constructs the verify command.
func (builder *VerifyCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   verifyCommandUseConstant,
		Short: verifyCommandShortDescriptionConstant,
		Long:  verifyCommandLongDescriptionConstant,
		Args:  cobra.MinimumNArgs(1),
		RunE:  builder.run,
	}

	bindToolchainFlags(command, false)
	var streamOutput bool
	flags.AddToggleFlag(command.Flags(), &streamOutput, flags.StreamOutputFlagName, "", false, flags.StreamOutputFlagUsage)

	return command, nil
}

func (builder *VerifyCommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(command)
	if command.Flags().Changed(flags.StreamOutputFlagName) {
		configuration.StreamOutput, _ = command.Flags().GetBool(flags.StreamOutputFlagName)
	}

	client, logger, locateError := builder.mustAutolocate(command, configuration)
	if locateError != nil {
		return locateError
	}

	printer := newVerdictPrinter(command)
	failedCount := 0
	for _, sketchPath := range arguments {
		passed, verifyError := client.VerifySketch(command.Context(), sketchPath)
		if verifyError != nil {
			return verifyError
		}
		printer.SketchVerified(sketchPath, passed)
		if !passed {
			failedCount++
		}
	}

	logger.Info(
		verificationSummaryMessageConstant,
		zap.Int(logFieldSketchCountConstant, len(arguments)),
		zap.Int(logFieldFailedCountConstant, failedCount),
	)

	if failedCount > 0 {
		return fmt.Errorf(verificationFailedTemplateConstant, failedCount, len(arguments))
	}
	return nil
}
