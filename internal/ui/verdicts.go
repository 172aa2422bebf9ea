package ui

import (
	"fmt"
	"io"
)

const (
	verdictLineTemplateConstant     = "%s: %s\n"
	verdictPassedLabelConstant      = "PASSED"
	verdictFailedLabelConstant      = "FAILED"
	verdictInstalledLabelConstant   = "INSTALLED"
	verdictMissingLabelConstant     = "MISSING"
	verdictSelectedLabelConstant    = "SELECTED"
	verdictNotSelectedLabelConstant = "NOT SELECTED"
	verdictUpdatedLabelConstant     = "UPDATED"
	verdictNotUpdatedLabelConstant  = "NOT UPDATED"
	verdictFoundLabelConstant       = "FOUND"
	verdictNotFoundLabelConstant    = "NOT FOUND"
)

// VerdictPrinter writes one line per checked subject, prefixed with its outcome.
type VerdictPrinter struct {
	writer io.Writer
}

// NewVerdictPrinter constructs a printer writing to writer. A nil writer discards output.
func NewVerdictPrinter(writer io.Writer) VerdictPrinter {
	if writer == nil {
		writer = io.Discard
	}
	return VerdictPrinter{writer: writer}
}

// SketchVerified reports a verification outcome.
func (printer VerdictPrinter) SketchVerified(sketchPath string, passed bool) {
	printer.print(passed, verdictPassedLabelConstant, verdictFailedLabelConstant, sketchPath)
}

// BoardInstalled reports a board probe outcome.
func (printer VerdictPrinter) BoardInstalled(board string, installed bool) {
	printer.print(installed, verdictInstalledLabelConstant, verdictMissingLabelConstant, board)
}

// BoardSelected reports a board selection outcome.
func (printer VerdictPrinter) BoardSelected(board string, selected bool) {
	printer.print(selected, verdictSelectedLabelConstant, verdictNotSelectedLabelConstant, board)
}

// PreferenceUpdated reports a preference update outcome.
func (printer VerdictPrinter) PreferenceUpdated(key string, updated bool) {
	printer.print(updated, verdictUpdatedLabelConstant, verdictNotUpdatedLabelConstant, key)
}

// ExecutableFound reports an executable lookup outcome.
func (printer VerdictPrinter) ExecutableFound(subject string, found bool) {
	printer.print(found, verdictFoundLabelConstant, verdictNotFoundLabelConstant, subject)
}

func (printer VerdictPrinter) print(positive bool, positiveLabel string, negativeLabel string, subject string) {
	label := negativeLabel
	if positive {
		label = positiveLabel
	}
	fmt.Fprintf(printer.writer, verdictLineTemplateConstant, label, subject)
}
