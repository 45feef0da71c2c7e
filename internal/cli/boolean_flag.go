package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	optionalBooleanFlagTypeName       = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagUnsetLiteral           = "unset"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// optionalBooleanFlag remembers whether it was given on the command line so that an
// unset flag leaves the configured value in place.
type optionalBooleanFlag struct {
	value   *bool
	flagKey string
}

func (flag *optionalBooleanFlag) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, flag.flagKey, booleanFlagAcceptedValuesListing)
	}
	flag.value = &parsed
	return nil
}

func (flag *optionalBooleanFlag) String() string {
	if flag == nil || flag.value == nil {
		return booleanFlagUnsetLiteral
	}
	return strconv.FormatBool(*flag.value)
}

func (flag *optionalBooleanFlag) Type() string {
	return optionalBooleanFlagTypeName
}

// Override returns the parsed value, or nil when the flag was not given.
func (flag *optionalBooleanFlag) Override() *bool {
	if flag == nil || flag.value == nil {
		return nil
	}
	value := *flag.value
	return &value
}

func registerOptionalBooleanFlag(flagSet *pflag.FlagSet, target *optionalBooleanFlag, name string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	target.flagKey = name
	target.value = nil
	flagSet.Var(target, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = booleanFlagUnsetLiteral
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeBooleanFlagArguments rewrites "--flag value" into "--flag=value" for boolean
// flags when value is a boolean literal, so "--copy no" works while "--copy docs" still
// treats docs as the positional output directory.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	booleanFlags := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlags)
	if len(booleanFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, "--") && !strings.Contains(currentArgument, "=") {
			flagName := strings.TrimPrefix(currentArgument, "--")
			if _, exists := booleanFlags[flagName]; exists && index+1 < len(arguments) {
				nextArgument := arguments[index+1]
				literal := strings.ToLower(strings.TrimSpace(nextArgument))
				if _, valid := booleanFlagLiterals[literal]; valid && !strings.HasPrefix(nextArgument, "-") {
					normalized = append(normalized, fmt.Sprintf("--%s=%s", flagName, nextArgument))
					index += 2
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
		index++
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value != nil && flag.Value.Type() == optionalBooleanFlagTypeName {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
