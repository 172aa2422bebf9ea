package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefix      = "<"
	choicePlaceholderSuffix      = ">"
	choiceSeparatorLiteral       = "|"
	choiceUsageEmptyTemplate     = "`%s`"
	choiceUsageFullTemplate      = "`%s` %s"
	choiceRejectedErrorTemplate  = "unsupported choice %q (expected one of %s)"
	choiceListSeparatorLiteral   = ", "
	choiceFlagTypeNameIdentifier = "string"
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefix + strings.Join(highlightDefaultChoice(defaultChoice, normalizeChoices(choices)), choiceSeparatorLiteral) + choicePlaceholderSuffix
	return FormatChoiceUsageWithPlaceholder(placeholder, description)
}

// FormatChoiceUsageWithPlaceholder prefixes description with a back-quoted placeholder that help output shows as the value name.
func FormatChoiceUsageWithPlaceholder(placeholder string, description string) string {
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, trimmedDescription)
}

// AddChoiceFlag registers a string flag restricted to choices. Values are matched case-insensitively
// and stored in their lower-case form, so "--format=YAML" yields "yaml".
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultChoice string, choices []string, usage string) {
	if flagSet == nil || target == nil || len(name) == 0 {
		return
	}

	allowedChoices := normalizeChoices(choices)
	*target = strings.ToLower(strings.TrimSpace(defaultChoice))
	flagSet.Var(&choiceFlagValue{target: target, choices: allowedChoices}, name, FormatChoiceUsage(defaultChoice, allowedChoices, usage))
}

type choiceFlagValue struct {
	target  *string
	choices []string
}

func (value *choiceFlagValue) Set(rawValue string) error {
	candidate := strings.ToLower(strings.TrimSpace(rawValue))
	for _, choice := range value.choices {
		if candidate == choice {
			*value.target = choice
			return nil
		}
	}
	return fmt.Errorf(choiceRejectedErrorTemplate, rawValue, strings.Join(value.choices, choiceListSeparatorLiteral))
}

func (value *choiceFlagValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *choiceFlagValue) Type() string {
	return choiceFlagTypeNameIdentifier
}

// normalizeChoices trims, lower-cases and de-duplicates choices, keeping first occurrences in order.
func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		normalized = append(normalized, normalizedChoice)
	}
	return normalized
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	for _, choice := range choices {
		if choice == normalizedDefault {
			highlighted = append(highlighted, strings.ToUpper(choice))
			continue
		}
		highlighted = append(highlighted, choice)
	}
	return highlighted
}
