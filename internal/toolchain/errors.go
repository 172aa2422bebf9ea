package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

const (
	executorNotConfiguredMessageConstant         = "toolchain executor not configured"
	installationInvalidMessageConstant           = "toolchain installation command path is empty"
	preferencesUnavailableMessageConstant        = "toolchain preferences could not be read"
	installationNotFoundMessageConstant          = "arduino toolchain installation not found"
	installationNotFoundDetailsTemplateConstant  = "arduino toolchain installation not found (searched: %s)"
	operationErrorTemplateConstant               = "unable to %s %s: %v"
	operationErrorWithoutSubjectTemplateConstant = "unable to %s: %v"
	searchedLocationsSeparatorConstant           = ", "
)

// Operation names reported by OperationError.
const (
	OperationVerifySketch      = "verify sketch"
	OperationProbeBoard        = "probe board"
	OperationSelectBoard       = "select board"
	OperationReadPreferences   = "read preferences"
	OperationUpdatePreferences = "set preference"
)

var (
	// ErrExecutorNotConfigured indicates that no command executor was supplied.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrInstallationInvalid indicates an installation without a command path.
	ErrInstallationInvalid = errors.New(installationInvalidMessageConstant)
	// ErrPreferencesUnavailable indicates that a needed preference refresh exited non-zero.
	ErrPreferencesUnavailable = errors.New(preferencesUnavailableMessageConstant)
)

// InstallationNotFoundError reports that no toolchain could be located where one is required.
type InstallationNotFoundError struct {
	SearchedLocations []string
}

// Error describes the failed search.
func (notFoundError InstallationNotFoundError) Error() string {
	if len(notFoundError.SearchedLocations) == 0 {
		return installationNotFoundMessageConstant
	}
	return fmt.Sprintf(installationNotFoundDetailsTemplateConstant, strings.Join(notFoundError.SearchedLocations, searchedLocationsSeparatorConstant))
}

// OperationError reports that the toolchain process could not be run for an operation.
// A toolchain that ran and exited non-zero never produces an OperationError.
type OperationError struct {
	Operation string
	Subject   string
	Cause     error
}

// Error describes the failed operation.
func (operationError OperationError) Error() string {
	if len(operationError.Subject) == 0 {
		return fmt.Sprintf(operationErrorWithoutSubjectTemplateConstant, operationError.Operation, operationError.Cause)
	}
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Subject, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}
