package toolchain

import (
	"errors"
	"fmt"
	"io"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/arduino-ci/internal/toolchain"
	"github.com/temirov/arduino-ci/internal/utils"
	"github.com/temirov/arduino-ci/internal/utils/flags"
)

const (
	preferencesCommandUseConstant              = "prefs"
	preferencesCommandShortDescriptionConstant = "Inspect and change toolchain preferences"
	preferencesListUseConstant                 = "list"
	preferencesListShortDescriptionConstant    = "Print every toolchain preference"
	preferencesGetUseConstant                  = "get <key>"
	preferencesGetShortDescriptionConstant     = "Print a single toolchain preference"
	preferencesSetUseConstant                  = "set <key> <value>"
	preferencesSetShortDescriptionConstant     = "Persist a toolchain preference"
	formatFlagNameConstant                     = "format"
	formatFlagDescriptionConstant              = "Output format for the preference listing"
	preferenceLineTemplateConstant             = "%s=%s\n"
	preferenceValueTemplateConstant            = "%s\n"
	preferencesUnavailableMessageConstant      = "unable to read toolchain preferences"
	preferenceNotSetTemplateConstant           = "preference %s is not set"
	preferenceNotUpdatedTemplateConstant       = "preference %s was not updated"
	unsupportedFormatTemplateConstant          = "unsupported preference format %q"
	preferencesReadMessageConstant             = "toolchain preferences read"
	logFieldResponseTimeConstant               = "response_time"
	logFieldPreferenceCountConstant            = "preference_count"
)

// PreferenceFormat names a rendering of the preference snapshot.
type PreferenceFormat string

// Supported preference formats.
const (
	PreferenceFormatText PreferenceFormat = PreferenceFormat("text")
	PreferenceFormatYAML PreferenceFormat = PreferenceFormat("yaml")
	PreferenceFormatTOML PreferenceFormat = PreferenceFormat("toml")
)

var supportedPreferenceFormats = []string{
	string(PreferenceFormatText),
	string(PreferenceFormatYAML),
	string(PreferenceFormatTOML),
}

// PreferencesCommandBuilder assembles the prefs command group.
type PreferencesCommandBuilder struct {
	CommandDependencies
}

// Build constructs the prefs command with its list, get and set subcommands.
func (builder *PreferencesCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   preferencesCommandUseConstant,
		Short: preferencesCommandShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	bindToolchainFlags(command, true)

	listCommand := &cobra.Command{
		Use:   preferencesListUseConstant,
		Short: preferencesListShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.runList,
	}
	var format string
	flags.AddChoiceFlag(listCommand.Flags(), &format, formatFlagNameConstant, string(PreferenceFormatText), supportedPreferenceFormats, formatFlagDescriptionConstant)

	getCommand := &cobra.Command{
		Use:   preferencesGetUseConstant,
		Short: preferencesGetShortDescriptionConstant,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.runGet,
	}

	setCommand := &cobra.Command{
		Use:   preferencesSetUseConstant,
		Short: preferencesSetShortDescriptionConstant,
		Args:  cobra.ExactArgs(2),
		RunE:  builder.runSet,
	}

	command.AddCommand(listCommand, getCommand, setCommand)

	return command, nil
}

func (builder *PreferencesCommandBuilder) runList(command *cobra.Command, arguments []string) error {
	formatValue, _ := command.Flags().GetString(formatFlagNameConstant)

	client, logger, locateError := builder.mustAutolocate(command, builder.resolveConfiguration(command))
	if locateError != nil {
		return locateError
	}

	preferences, available, readError := client.Preferences(command.Context())
	if readError != nil {
		return readError
	}
	if !available {
		return errors.New(preferencesUnavailableMessageConstant)
	}

	if responseTime, measured := client.PreferencesResponseTime(); measured {
		logger.Info(
			preferencesReadMessageConstant,
			zap.Duration(logFieldResponseTimeConstant, responseTime),
			zap.Int(logFieldPreferenceCountConstant, len(preferences)),
		)
	}

	return RenderPreferences(utils.NewFlushingWriter(command.OutOrStdout()), preferences, PreferenceFormat(formatValue))
}

func (builder *PreferencesCommandBuilder) runGet(command *cobra.Command, arguments []string) error {
	client, _, locateError := builder.mustAutolocate(command, builder.resolveConfiguration(command))
	if locateError != nil {
		return locateError
	}

	key := arguments[0]
	value, found, readError := client.Preference(command.Context(), key)
	if errors.Is(readError, toolchain.ErrPreferencesUnavailable) {
		return errors.New(preferencesUnavailableMessageConstant)
	}
	if readError != nil {
		return readError
	}
	if !found {
		return fmt.Errorf(preferenceNotSetTemplateConstant, key)
	}

	_, writeError := fmt.Fprintf(utils.NewFlushingWriter(command.OutOrStdout()), preferenceValueTemplateConstant, value)
	return writeError
}

func (builder *PreferencesCommandBuilder) runSet(command *cobra.Command, arguments []string) error {
	client, _, locateError := builder.mustAutolocate(command, builder.resolveConfiguration(command))
	if locateError != nil {
		return locateError
	}

	key := arguments[0]
	updated, setError := client.SetPreference(command.Context(), key, arguments[1])
	if setError != nil {
		return setError
	}

	newVerdictPrinter(command).PreferenceUpdated(key, updated)
	if !updated {
		return fmt.Errorf(preferenceNotUpdatedTemplateConstant, key)
	}
	return nil
}

// RenderPreferences writes preferences to writer in the requested format with keys in lexical order.
func RenderPreferences(writer io.Writer, preferences map[string]string, format PreferenceFormat) error {
	switch format {
	case PreferenceFormatText:
		keys := make([]string, 0, len(preferences))
		for key := range preferences {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if _, writeError := fmt.Fprintf(writer, preferenceLineTemplateConstant, key, preferences[key]); writeError != nil {
				return writeError
			}
		}
		return nil
	case PreferenceFormatYAML:
		encoder := yaml.NewEncoder(writer)
		if encodeError := encoder.Encode(preferences); encodeError != nil {
			return encodeError
		}
		return encoder.Close()
	case PreferenceFormatTOML:
		return toml.NewEncoder(writer).Encode(preferences)
	default:
		return fmt.Errorf(unsupportedFormatTemplateConstant, string(format))
	}
}
