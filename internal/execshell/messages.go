package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	exitStatusTemplateConstant              = "exit code %d%s"
	exitStatusDescriptionTemplateConstant   = ", %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
	preferenceAssignmentSeparatorConstant   = "="
)

// Toolchain command-line flags recognized by the formatter.
const (
	ToolchainVerifyFlag          = "--verify"
	ToolchainBoardFlag           = "--board"
	ToolchainGetPreferenceFlag   = "--get-pref"
	ToolchainPreferenceFlag      = "--pref"
	ToolchainSavePreferencesFlag = "--save-prefs"
)

const (
	windowsShellRunFlagConstant       = "/C"
	windowsShellLinkCommandConstant   = "mklink"
	windowsShellDirectoryFlagConstant = "/D"
)

const (
	toolchainVerifyStartTemplateConstant               = "Verifying sketch %s"
	toolchainVerifySuccessTemplateConstant             = "Sketch %s verified"
	toolchainVerifyFailureTemplateConstant             = "Sketch %s failed verification (%s%s)"
	toolchainVerifyExecutionFailureTemplateConstant    = "Unable to verify sketch %s: %s"
	toolchainBoardStartTemplateConstant                = "Selecting board %s"
	toolchainBoardSuccessTemplateConstant              = "Board %s is available"
	toolchainBoardFailureTemplateConstant              = "Board %s is not available (%s%s)"
	toolchainBoardExecutionFailureTemplateConstant     = "Unable to select board %s: %s"
	toolchainPrefsReadStartMessageConstant             = "Reading toolchain preferences"
	toolchainPrefsReadSuccessMessageConstant           = "Read toolchain preferences"
	toolchainPrefsReadFailureTemplateConstant          = "Failed to read toolchain preferences (%s%s)"
	toolchainPrefsReadExecutionFailureTemplateConstant = "Unable to read toolchain preferences: %s"
	toolchainPrefSetStartTemplateConstant              = "Setting preference %s"
	toolchainPrefSetSuccessTemplateConstant            = "Set preference %s"
	toolchainPrefSetFailureTemplateConstant            = "Failed to set preference %s (%s%s)"
	toolchainPrefSetExecutionFailureTemplateConstant   = "Unable to set preference %s: %s"
	linkStartTemplateConstant                          = "Linking %s to %s"
	linkSuccessTemplateConstant                        = "Linked %s to %s"
	linkFailureTemplateConstant                        = "Failed to link %s to %s (%s%s)"
	linkExecutionFailureTemplateConstant               = "Unable to link %s to %s: %s"
)

var toolchainExitStatusDescriptions = map[int]string{
	1: "build failed",
	2: "sketch not found",
	3: "invalid argument",
	4: "preference does not exist",
}

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

// DescribeToolchainExitStatus explains a toolchain exit code.
func DescribeToolchainExitStatus(exitCode int) string {
	description, known := toolchainExitStatusDescriptions[exitCode]
	if !known {
		return emptyStringConstant
	}
	return description
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name == CommandWindowsShell {
		return formatter.describeWindowsShellMessage(command, result, failure, stage)
	}
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	switch strings.TrimSpace(arguments[0]) {
	case ToolchainVerifyFlag:
		return formatter.describeSubjectMessage(formatter.ensureValue(formatter.argumentAtIndex(arguments, 1)), result, failure, stage, stageTemplates{
			start:            toolchainVerifyStartTemplateConstant,
			success:          toolchainVerifySuccessTemplateConstant,
			failure:          toolchainVerifyFailureTemplateConstant,
			executionFailure: toolchainVerifyExecutionFailureTemplateConstant,
		})
	case ToolchainBoardFlag:
		return formatter.describeSubjectMessage(formatter.ensureValue(formatter.argumentAtIndex(arguments, 1)), result, failure, stage, stageTemplates{
			start:            toolchainBoardStartTemplateConstant,
			success:          toolchainBoardSuccessTemplateConstant,
			failure:          toolchainBoardFailureTemplateConstant,
			executionFailure: toolchainBoardExecutionFailureTemplateConstant,
		})
	case ToolchainPreferenceFlag:
		return formatter.describeSubjectMessage(formatter.extractPreferenceKey(formatter.argumentAtIndex(arguments, 1)), result, failure, stage, stageTemplates{
			start:            toolchainPrefSetStartTemplateConstant,
			success:          toolchainPrefSetSuccessTemplateConstant,
			failure:          toolchainPrefSetFailureTemplateConstant,
			executionFailure: toolchainPrefSetExecutionFailureTemplateConstant,
		})
	case ToolchainGetPreferenceFlag:
		return formatter.describePreferenceListingMessage(result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeSubjectMessage(subject string, result ExecutionResult, failure error, stage messageStage, templates stageTemplates) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subject)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subject)
	case messageStageFailure:
		return fmt.Sprintf(templates.failure, subject, formatter.formatExitStatus(result.ExitCode), formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(templates.executionFailure, subject, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describePreferenceListingMessage(result ExecutionResult, failure error, stage messageStage) string {
	switch stage {
	case messageStageStart:
		return toolchainPrefsReadStartMessageConstant
	case messageStageSuccess:
		return toolchainPrefsReadSuccessMessageConstant
	case messageStageFailure:
		return fmt.Sprintf(toolchainPrefsReadFailureTemplateConstant, formatter.formatExitStatus(result.ExitCode), formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(toolchainPrefsReadExecutionFailureTemplateConstant, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeWindowsShellMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	isLinkCommand := len(arguments) >= 5 &&
		strings.EqualFold(arguments[0], windowsShellRunFlagConstant) &&
		strings.EqualFold(arguments[1], windowsShellLinkCommandConstant) &&
		strings.EqualFold(arguments[2], windowsShellDirectoryFlagConstant)
	if !isLinkCommand {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	linkPath := formatter.ensureValue(arguments[3])
	targetPath := formatter.ensureValue(arguments[4])
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(linkStartTemplateConstant, linkPath, targetPath)
	case messageStageSuccess:
		return fmt.Sprintf(linkSuccessTemplateConstant, linkPath, targetPath)
	case messageStageFailure:
		return fmt.Sprintf(linkFailureTemplateConstant, linkPath, targetPath, formatter.formatExitStatus(result.ExitCode), formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(linkExecutionFailureTemplateConstant, linkPath, targetPath, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) formatExitStatus(exitCode int) string {
	description := DescribeToolchainExitStatus(exitCode)
	if len(description) == 0 {
		return fmt.Sprintf(exitStatusTemplateConstant, exitCode, emptyStringConstant)
	}
	return fmt.Sprintf(exitStatusTemplateConstant, exitCode, fmt.Sprintf(exitStatusDescriptionTemplateConstant, description))
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractPreferenceKey(assignment string) string {
	key, _, _ := strings.Cut(assignment, preferenceAssignmentSeparatorConstant)
	return formatter.ensureValue(key)
}
