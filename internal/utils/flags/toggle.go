package flags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleEnabledPlaceholderConstant  = "<YES|no>"
	toggleDisabledPlaceholderConstant = "<yes|NO>"
	toggleInvalidValueTemplate        = "invalid toggle value %q (expected yes/no, on/off, true/false or 1/0)"
	toggleFlagTypeName                = "bool"
)

// toggleLiterals maps every accepted spelling, lower-cased, to its boolean value.
var toggleLiterals = map[string]bool{
	"":      true,
	"true":  true,
	"t":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"1":     true,
	"false": false,
	"f":     false,
	"no":    false,
	"n":     false,
	"off":   false,
	"0":     false,
}

// AddToggleFlag registers a boolean flag that also accepts yes/no and on/off spellings.
// A bare flag means true. Values must be attached with "=" so a following positional sketch path is never consumed.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	value := &toggleFlagValue{target: target}
	value.store(defaultValue)

	flag := flagSet.VarPF(value, name, shorthand, toggleUsage(usage, defaultValue))
	flag.NoOptDefVal = strconv.FormatBool(true)
}

func toggleUsage(description string, defaultValue bool) string {
	placeholder := toggleDisabledPlaceholderConstant
	if defaultValue {
		placeholder = toggleEnabledPlaceholderConstant
	}
	return FormatChoiceUsageWithPlaceholder(placeholder, description)
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func (value *toggleFlagValue) store(parsedValue bool) {
	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, recognized := toggleLiterals[strings.ToLower(strings.TrimSpace(rawValue))]
	if !recognized {
		return fmt.Errorf(toggleInvalidValueTemplate, rawValue)
	}
	value.store(parsedValue)
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(value.currentValue)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}
