package host

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/arduino-ci/internal/execshell"
)

const (
	forwardSlashConstant                    = "/"
	backslashConstant                       = "\\"
	windowsShellRunFlagConstant             = "/C"
	windowsShellLinkCommandConstant         = "mklink"
	windowsShellDirectoryFlagConstant       = "/D"
	linkPathRequiredMessageConstant         = "link path must be provided"
	targetPathRequiredMessageConstant       = "target path must be provided"
	linkExecutorNotConfiguredMessage        = "symlink executor not configured"
	symlinkErrorTemplateConstant            = "unable to link %s to %s: %v"
	symlinkExitCodeErrorTemplateConstant    = "mklink exited with code %d"
	symlinkExitDetailsErrorTemplateConstant = "mklink exited with code %d: %s"
)

var (
	// ErrLinkExecutorNotConfigured indicates a directory-link platform without a command executor.
	ErrLinkExecutorNotConfigured = errors.New(linkExecutorNotConfiguredMessage)
)

// CommandExecutor runs a command and captures its output.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// SymlinkError describes a failed link creation.
type SymlinkError struct {
	TargetPath string
	LinkPath   string
	Cause      error
}

// Error describes the link failure.
func (symlinkError SymlinkError) Error() string {
	return fmt.Sprintf(symlinkErrorTemplateConstant, symlinkError.LinkPath, symlinkError.TargetPath, symlinkError.Cause)
}

// Unwrap exposes the underlying cause.
func (symlinkError SymlinkError) Unwrap() error {
	return symlinkError.Cause
}

// Linker creates symbolic links with the primitive selected by the platform.
type Linker struct {
	platform   Platform
	fileSystem FileSystem
	executor   CommandExecutor
}

// NewLinker constructs a Linker. The executor is only consulted on directory-link platforms.
func NewLinker(platform Platform, fileSystem FileSystem, executor CommandExecutor) *Linker {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	return &Linker{platform: platform, fileSystem: fileSystem, executor: executor}
}

// CreateSymlink creates linkPath resolving to targetPath. Existing entries at linkPath are never replaced.
func (linker *Linker) CreateSymlink(executionContext context.Context, targetPath string, linkPath string) error {
	if len(strings.TrimSpace(targetPath)) == 0 {
		return SymlinkError{TargetPath: targetPath, LinkPath: linkPath, Cause: errors.New(targetPathRequiredMessageConstant)}
	}
	if len(strings.TrimSpace(linkPath)) == 0 {
		return SymlinkError{TargetPath: targetPath, LinkPath: linkPath, Cause: errors.New(linkPathRequiredMessageConstant)}
	}

	switch linker.platform.LinkStrategy {
	case LinkStrategyDirectoryLink:
		return linker.createDirectoryLink(executionContext, targetPath, linkPath)
	default:
		if symlinkError := linker.fileSystem.Symlink(targetPath, linkPath); symlinkError != nil {
			return SymlinkError{TargetPath: targetPath, LinkPath: linkPath, Cause: symlinkError}
		}
		return nil
	}
}

// mklink argument order is the reverse of ln -s. The target is resolved
// first because some path APIs join Windows paths with forward slashes.
func (linker *Linker) createDirectoryLink(executionContext context.Context, targetPath string, linkPath string) error {
	if linker.executor == nil {
		return SymlinkError{TargetPath: targetPath, LinkPath: linkPath, Cause: ErrLinkExecutorNotConfigured}
	}

	canonicalTargetPath, canonicalizationError := linker.canonicalize(targetPath)
	if canonicalizationError != nil {
		return SymlinkError{TargetPath: targetPath, LinkPath: linkPath, Cause: canonicalizationError}
	}

	command := execshell.ShellCommand{
		Name: execshell.CommandWindowsShell,
		Details: execshell.CommandDetails{
			Arguments: []string{
				windowsShellRunFlagConstant,
				windowsShellLinkCommandConstant,
				windowsShellDirectoryFlagConstant,
				ToBackslashes(linkPath),
				ToBackslashes(canonicalTargetPath),
			},
		},
	}

	executionResult, executionError := linker.executor.Execute(executionContext, command)
	if executionError != nil {
		return SymlinkError{TargetPath: targetPath, LinkPath: linkPath, Cause: executionError}
	}
	if !executionResult.Succeeded() {
		return SymlinkError{TargetPath: targetPath, LinkPath: linkPath, Cause: describeLinkFailure(executionResult)}
	}
	return nil
}

func (linker *Linker) canonicalize(targetPath string) (string, error) {
	absolutePath, absoluteError := linker.fileSystem.Abs(targetPath)
	if absoluteError != nil {
		return "", absoluteError
	}
	return linker.fileSystem.EvalSymlinks(absolutePath)
}

// ToBackslashes rewrites every forward slash in path as a backslash.
func ToBackslashes(path string) string {
	return strings.ReplaceAll(path, forwardSlashConstant, backslashConstant)
}

func describeLinkFailure(result execshell.ExecutionResult) error {
	details := strings.TrimSpace(result.StandardError)
	if len(details) == 0 {
		details = strings.TrimSpace(result.StandardOutput)
	}
	if len(details) == 0 {
		return fmt.Errorf(symlinkExitCodeErrorTemplateConstant, result.ExitCode)
	}
	return fmt.Errorf(symlinkExitDetailsErrorTemplateConstant, result.ExitCode, details)
}
