package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestOptionalBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	trueValue := true
	falseValue := false

	testCases := []struct {
		name              string
		arguments         []string
		expected          *bool
		expectPositionals []string
		expectError       bool
	}{
		{
			name:      "unset_without_flag",
			arguments: []string{},
			expected:  nil,
		},
		{
			name:      "sets_true_without_value",
			arguments: []string{"--feature"},
			expected:  &trueValue,
		},
		{
			name:      "sets_false_with_equals",
			arguments: []string{"--feature=false"},
			expected:  &falseValue,
		},
		{
			name:      "sets_false_with_no_literal",
			arguments: []string{"--feature", "no"},
			expected:  &falseValue,
		},
		{
			name:              "keeps_non_boolean_trailing_value_positional",
			arguments:         []string{"--feature", "docs"},
			expected:          &trueValue,
			expectPositionals: []string{"docs"},
		},
		{
			name:        "rejects_invalid_literal",
			arguments:   []string{"--feature=maybe"},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			var flag optionalBooleanFlag
			registerOptionalBooleanFlag(command.Flags(), &flag, "feature", "toggle feature behaviour")
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			override := flag.Override()
			if testCase.expected == nil {
				if override != nil {
					t.Fatalf("expected unset flag, got %t", *override)
				}
			} else if override == nil || *override != *testCase.expected {
				t.Fatalf("expected %t, got %v", *testCase.expected, flag.String())
			}
			positionals := command.Flags().Args()
			if len(positionals) != len(testCase.expectPositionals) {
				t.Fatalf("expected positionals %v, got %v", testCase.expectPositionals, positionals)
			}
		})
	}
}
