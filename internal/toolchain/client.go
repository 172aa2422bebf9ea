package toolchain

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/arduino-ci/internal/execshell"
	"github.com/temirov/arduino-ci/internal/host"
)

const (
	preferenceForbiddenCharactersConstant   = "\r\n"
	logFieldSketchPathConstant              = "sketch_path"
	logFieldSketchStatusConstant            = "sketch_status"
	logFieldBoardConstant                   = "board"
	logFieldPreferenceKeyConstant           = "preference_key"
	logFieldPreferenceCountConstant         = "preference_count"
	logFieldRefreshDurationConstant         = "refresh_duration"
	sketchRejectedMessageConstant           = "sketch rejected before verification"
	boardIdentifierMalformedMessageConstant = "board identifier malformed"
	preferenceRejectedMessageConstant       = "preference assignment rejected"
	preferencesRefreshedMessageConstant     = "toolchain preferences refreshed"
	preferencesRefreshFailedMessageConstant = "toolchain preferences refresh failed, keeping previous snapshot"
)

// Executor runs toolchain commands. execshell.ShellExecutor satisfies it.
type Executor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
	ExecuteInteractive(executionContext context.Context, command execshell.ShellCommand, streams execshell.InteractiveStreams) (execshell.ExecutionResult, error)
}

// Clock supplies the current time for measuring preference queries.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Dependencies bundles the collaborators shared by the locator and clients.
// Only Executor is required.
type Dependencies struct {
	Executor          Executor
	Logger            *zap.Logger
	FileSystem        host.FileSystem
	Platform          host.Platform
	EnvironmentLookup host.EnvironmentLookup
	Clock             Clock
	Streams           execshell.InteractiveStreams
}

// ClientOptions tunes how a Client runs the toolchain.
type ClientOptions struct {
	StreamOutput bool
}

// Client wraps a single toolchain installation and owns its preference cache.
type Client struct {
	installation    Installation
	executor        Executor
	logger          *zap.Logger
	clock           Clock
	sketchInspector SketchInspector
	streams         execshell.InteractiveStreams
	streamOutput    bool
	preferences     *PreferenceCache
}

// NewClient binds a Client to installation.
func NewClient(installation Installation, dependencies Dependencies, options ClientOptions) (*Client, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if !installation.Valid() {
		return nil, ErrInstallationInvalid
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = systemClock{}
	}

	return &Client{
		installation:    Installation{CommandPath: strings.TrimSpace(installation.CommandPath)},
		executor:        dependencies.Executor,
		logger:          logger,
		clock:           clock,
		sketchInspector: NewSketchInspector(dependencies.FileSystem),
		streams:         dependencies.Streams,
		streamOutput:    options.StreamOutput,
		preferences:     NewPreferenceCache(),
	}, nil
}

// Installation returns the installation the client drives.
func (client *Client) Installation() Installation {
	return client.installation
}

// BoardInstalled reports whether the toolchain accepts board as a target.
// Malformed identifiers are reported as not installed without invoking the toolchain.
// It runs --board with --save-prefs, so it changes the persisted board selection
// of the toolchain exactly like UseBoard; the preference cache is invalidated accordingly.
func (client *Client) BoardInstalled(executionContext context.Context, board string) (bool, error) {
	return client.probeBoard(executionContext, board, OperationProbeBoard)
}

// UseBoard selects board as the persisted build target.
func (client *Client) UseBoard(executionContext context.Context, board string) (bool, error) {
	return client.probeBoard(executionContext, board, OperationSelectBoard)
}

func (client *Client) probeBoard(executionContext context.Context, board string, operation string) (bool, error) {
	boardIdentifier, wellFormed := ParseBoardIdentifier(board)
	if !wellFormed {
		client.logger.Debug(boardIdentifierMalformedMessageConstant, zap.String(logFieldBoardConstant, board))
		return false, nil
	}

	executionResult, executionError := client.runCaptured(executionContext, execshell.ToolchainBoardFlag, boardIdentifier.String(), execshell.ToolchainSavePreferencesFlag)
	if executionError != nil {
		return false, OperationError{Operation: operation, Subject: boardIdentifier.String(), Cause: executionError}
	}
	client.preferences.Invalidate()
	return executionResult.Succeeded(), nil
}

// Preferences returns the preference snapshot, refreshing it first when stale.
// The boolean is false when a needed refresh failed; the previous snapshot is returned in that case.
func (client *Client) Preferences(executionContext context.Context) (map[string]string, bool, error) {
	refreshed, refreshError := client.ensurePreferences(executionContext)
	return client.preferences.Snapshot(), refreshed, refreshError
}

// Preference returns a single preference value, refreshing the snapshot first when stale.
// When that refresh fails the stale snapshot is not consulted and ErrPreferencesUnavailable is returned.
func (client *Client) Preference(executionContext context.Context, key string) (string, bool, error) {
	refreshed, refreshError := client.ensurePreferences(executionContext)
	if refreshError != nil {
		return "", false, refreshError
	}
	if !refreshed {
		return "", false, ErrPreferencesUnavailable
	}
	value, exists := client.preferences.Lookup(key)
	return value, exists, nil
}

// RefreshPreferences queries the toolchain and replaces the snapshot on success.
// A failed query leaves the previous snapshot in place.
func (client *Client) RefreshPreferences(executionContext context.Context) (bool, error) {
	startTime := client.clock.Now()
	executionResult, executionError := client.runCaptured(executionContext, execshell.ToolchainGetPreferenceFlag)
	if executionError != nil {
		return false, OperationError{Operation: OperationReadPreferences, Cause: executionError}
	}
	if !executionResult.Succeeded() {
		client.logger.Debug(preferencesRefreshFailedMessageConstant)
		return false, nil
	}

	refreshDuration := client.clock.Now().Sub(startTime)
	parsedPreferences := ParsePreferences(executionResult.StandardOutput)
	client.preferences.Replace(parsedPreferences, refreshDuration)
	client.logger.Debug(preferencesRefreshedMessageConstant,
		zap.Int(logFieldPreferenceCountConstant, len(parsedPreferences)),
		zap.Duration(logFieldRefreshDurationConstant, refreshDuration),
	)
	return true, nil
}

// PreferencesResponseTime reports how long the last successful preference query took.
func (client *Client) PreferencesResponseTime() (time.Duration, bool) {
	return client.preferences.LastRefreshDuration()
}

// SetPreference persists key=value in the toolchain preference store.
// Setting a preference to its current value succeeds.
func (client *Client) SetPreference(executionContext context.Context, key string, value string) (bool, error) {
	if len(strings.TrimSpace(key)) == 0 || strings.ContainsAny(key, preferenceForbiddenCharactersConstant+preferenceAssignmentSeparatorConstant) || strings.ContainsAny(value, preferenceForbiddenCharactersConstant) {
		client.logger.Debug(preferenceRejectedMessageConstant, zap.String(logFieldPreferenceKeyConstant, key))
		return false, nil
	}

	assignment := key + preferenceAssignmentSeparatorConstant + value
	executionResult, executionError := client.runCaptured(executionContext, execshell.ToolchainPreferenceFlag, assignment, execshell.ToolchainSavePreferencesFlag)
	if executionError != nil {
		return false, OperationError{Operation: OperationUpdatePreferences, Subject: key, Cause: executionError}
	}
	client.preferences.Invalidate()
	return executionResult.Succeeded(), nil
}

// VerifySketch compiles the sketch at sketchPath without uploading it.
// Missing sketches and legacy formats are rejected without invoking the toolchain. Results are never memoized.
func (client *Client) VerifySketch(executionContext context.Context, sketchPath string) (bool, error) {
	inspection := client.sketchInspector.Inspect(sketchPath)
	if inspection.Status != SketchStatusReady {
		client.logger.Debug(sketchRejectedMessageConstant,
			zap.String(logFieldSketchPathConstant, sketchPath),
			zap.String(logFieldSketchStatusConstant, string(inspection.Status)),
		)
		return false, nil
	}

	command := client.buildCommand(execshell.ToolchainVerifyFlag, inspection.AbsolutePath)
	var executionResult execshell.ExecutionResult
	var executionError error
	if client.streamOutput {
		executionResult, executionError = client.executor.ExecuteInteractive(executionContext, command, client.streams)
	} else {
		executionResult, executionError = client.executor.Execute(executionContext, command)
	}
	if executionError != nil {
		return false, OperationError{Operation: OperationVerifySketch, Subject: inspection.AbsolutePath, Cause: executionError}
	}
	return executionResult.Succeeded(), nil
}

func (client *Client) ensurePreferences(executionContext context.Context) (bool, error) {
	if client.preferences.Valid() {
		return true, nil
	}
	return client.RefreshPreferences(executionContext)
}

func (client *Client) runCaptured(executionContext context.Context, arguments ...string) (execshell.ExecutionResult, error) {
	return client.executor.Execute(executionContext, client.buildCommand(arguments...))
}

func (client *Client) buildCommand(arguments ...string) execshell.ShellCommand {
	return execshell.ShellCommand{
		Name:    execshell.CommandName(client.installation.CommandPath),
		Details: execshell.CommandDetails{Arguments: arguments},
	}
}
