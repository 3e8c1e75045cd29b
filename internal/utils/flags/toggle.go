package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleEnabledCanonicalConstant     = "true"
	toggleDisabledCanonicalConstant    = "false"
	toggleYesLiteralConstant           = "yes"
	toggleNoLiteralConstant            = "no"
	toggleOnLiteralConstant            = "on"
	toggleOffLiteralConstant           = "off"
	toggleOneLiteralConstant           = "1"
	toggleZeroLiteralConstant          = "0"
	toggleShortTrueLiteralConstant     = "t"
	toggleShortFalseLiteralConstant    = "f"
	toggleShortYesLiteralConstant      = "y"
	toggleShortNoLiteralConstant       = "n"
	toggleValueTypeNameConstant        = "bool"
	invalidToggleValueTemplateConstant = "invalid toggle value %q"
	enabledDefaultPlaceholderConstant  = "<YES|no>"
	disabledDefaultPlaceholderConstant = "<yes|NO>"
	bareToggleUsageTemplateConstant    = "`%s`"
	toggleUsageTemplateConstant        = "`%s` %s"
)

// toggleLiteralValues maps every accepted spelling, lowercased, to its boolean meaning.
var toggleLiteralValues = map[string]bool{
	toggleEnabledCanonicalConstant:  true,
	toggleShortTrueLiteralConstant:  true,
	toggleYesLiteralConstant:        true,
	toggleShortYesLiteralConstant:   true,
	toggleOnLiteralConstant:         true,
	toggleOneLiteralConstant:        true,
	toggleDisabledCanonicalConstant: false,
	toggleShortFalseLiteralConstant: false,
	toggleNoLiteralConstant:         false,
	toggleShortNoLiteralConstant:    false,
	toggleOffLiteralConstant:        false,
	toggleZeroLiteralConstant:       false,
}

var (
	toggleRegistryLock         sync.RWMutex
	registeredToggleNames      = map[string]struct{}{}
	registeredToggleShorthands = map[string]struct{}{}
)

// AddToggleFlag registers name on flagSet as a yes/no style boolean flag bound to target.
// The bare flag counts as true, and explicit values accept the usual boolean spellings.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	boundValue := newToggleValue(defaultValue, target)
	if len(shorthand) > 0 {
		flagSet.VarP(boundValue, name, shorthand, usage)
	} else {
		flagSet.Var(boundValue, name, usage)
	}

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleEnabledCanonicalConstant
	registeredFlag.Usage = toggleUsageWithPlaceholder(usage, defaultValue)

	recordToggleFlag(name, shorthand)
}

// NormalizeToggleArguments folds "--flag value" style toggle arguments into "--flag=value"
// so pflag does not mistake the value for a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	rewritten := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		argument := arguments[argumentIndex]
		if argument == "--" {
			rewritten = append(rewritten, arguments[argumentIndex:]...)
			break
		}

		if !referencesToggleFlag(argument) || argumentIndex+1 >= len(arguments) {
			rewritten = append(rewritten, argument)
			continue
		}

		candidateValue := arguments[argumentIndex+1]
		if strings.HasPrefix(candidateValue, "-") {
			rewritten = append(rewritten, argument)
			continue
		}

		rewritten = append(rewritten, argument+"="+candidateValue)
		argumentIndex++
	}

	return rewritten
}

// referencesToggleFlag reports whether argument names a registered toggle without an inline value.
func referencesToggleFlag(argument string) bool {
	if strings.Contains(argument, "=") {
		return false
	}
	if strings.HasPrefix(argument, "--") {
		return isRegisteredToggleName(strings.TrimPrefix(argument, "--"))
	}
	if strings.HasPrefix(argument, "-") {
		shorthand := strings.TrimPrefix(argument, "-")
		return len(shorthand) == 1 && isRegisteredToggleShorthand(shorthand)
	}
	return false
}

func toggleUsageWithPlaceholder(usage string, defaultValue bool) string {
	placeholder := disabledDefaultPlaceholderConstant
	if defaultValue {
		placeholder = enabledDefaultPlaceholderConstant
	}
	trimmedUsage := strings.TrimSpace(usage)
	if len(trimmedUsage) == 0 {
		return fmt.Sprintf(bareToggleUsageTemplateConstant, placeholder)
	}
	return fmt.Sprintf(toggleUsageTemplateConstant, placeholder, trimmedUsage)
}

// toggleValue implements pflag.Value and mirrors every accepted value into the bound target.
type toggleValue struct {
	enabled     bool
	boundTarget *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{enabled: defaultValue, boundTarget: target}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleLiteral(rawValue)
	if parseError != nil {
		return parseError
	}

	value.enabled = parsedValue
	if value.boundTarget != nil {
		*value.boundTarget = parsedValue
	}
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || !value.enabled {
		return toggleDisabledCanonicalConstant
	}
	return toggleEnabledCanonicalConstant
}

func (value *toggleValue) Type() string {
	return toggleValueTypeNameConstant
}

func parseToggleLiteral(rawValue string) (bool, error) {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		return true, nil
	}

	parsedValue, isKnown := toggleLiteralValues[strings.ToLower(trimmedValue)]
	if !isKnown {
		return false, fmt.Errorf(invalidToggleValueTemplateConstant, rawValue)
	}
	return parsedValue, nil
}

func recordToggleFlag(name string, shorthand string) {
	toggleRegistryLock.Lock()
	defer toggleRegistryLock.Unlock()
	registeredToggleNames[name] = struct{}{}
	if len(shorthand) > 0 {
		registeredToggleShorthands[shorthand] = struct{}{}
	}
}

func isRegisteredToggleName(name string) bool {
	toggleRegistryLock.RLock()
	defer toggleRegistryLock.RUnlock()
	_, isRegistered := registeredToggleNames[name]
	return isRegistered
}

func isRegisteredToggleShorthand(shorthand string) bool {
	toggleRegistryLock.RLock()
	defer toggleRegistryLock.RUnlock()
	_, isRegistered := registeredToggleShorthands[shorthand]
	return isRegistered
}
