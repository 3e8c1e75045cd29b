package flags

import (
	"fmt"
	"strings"
)

const (
	choiceListSeparatorConstant     = "|"
	choiceUsageTemplateConstant     = "`<%s>` %s"
	bareChoiceUsageTemplateConstant = "`<%s>`"
)

// FormatChoiceUsage renders a flag usage string listing the accepted choices, uppercasing the default one.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := strings.Join(decoratedChoices(defaultChoice, choices), choiceListSeparatorConstant)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(bareChoiceUsageTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageTemplateConstant, placeholder, description)
}

// decoratedChoices trims and deduplicates choices case-insensitively, uppercasing the one matching defaultChoice.
func decoratedChoices(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))

	decorated := make([]string, 0, len(choices))
	seenChoices := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, alreadySeen := seenChoices[normalizedChoice]; alreadySeen {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			decorated = append(decorated, strings.ToUpper(trimmedChoice))
			continue
		}
		decorated = append(decorated, trimmedChoice)
	}

	return decorated
}
