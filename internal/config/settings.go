package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/temirov/mdsnap/internal/collector"
	"github.com/temirov/mdsnap/internal/digest"
	"github.com/temirov/mdsnap/internal/document"
	"github.com/temirov/mdsnap/internal/tokenizer"
)

const errorInvalidSettingFormat = "invalid %s: %s"

// Settings is the fully resolved configuration for one run.
type Settings struct {
	OutputDirectory string `validate:"required"`
	ProjectRoot     string
	Prefix          string `validate:"required,excludesall=/\\:*?\"<>0x7C"`
	Algorithm       string `validate:"required,oneof=sha256 xxhash64"`
	Exclusions      collector.ExclusionSet
	TokensEnabled   bool
	TokenModel      string `validate:"required_if=TokensEnabled true"`
	Clipboard       bool
}

// Overrides carries values set explicitly on the command line. Nil pointers and
// empty strings leave the configured value in place.
type Overrides struct {
	OutputDirectory string
	ProjectRoot     string
	Prefix          string
	Algorithm       string
	Globs           []string
	TokensEnabled   *bool
	TokenModel      string
	Clipboard       *bool
}

var settingsValidator = validator.New(validator.WithRequiredStructEnabled())

// Resolve applies overrides on top of the configuration and defaults, then validates the result.
func (config ApplicationConfiguration) Resolve(overrides Overrides) (Settings, error) {
	settings := Settings{
		OutputDirectory: firstNonEmpty(overrides.OutputDirectory, config.Output.Directory),
		ProjectRoot:     overrides.ProjectRoot,
		Prefix:          firstNonEmpty(overrides.Prefix, config.Output.Prefix, document.DefaultPrefix),
		Algorithm:       strings.ToLower(firstNonEmpty(overrides.Algorithm, config.Digest.Algorithm, string(digest.AlgorithmSHA256))),
		TokenModel:      firstNonEmpty(overrides.TokenModel, config.Tokens.Model, tokenizer.DefaultModel),
		Exclusions:      config.Paths.exclusionSet().WithGlobs(overrides.Globs...),
	}
	settings.TokensEnabled = resolveBool(overrides.TokensEnabled, config.Tokens.Enabled)
	settings.Clipboard = resolveBool(overrides.Clipboard, config.Clipboard)

	if validationError := settings.Validate(); validationError != nil {
		return Settings{}, validationError
	}
	return settings, nil
}

// Validate checks the settings and reports the first invalid field in plain words.
func (settings Settings) Validate() error {
	validationError := settingsValidator.Struct(settings)
	if validationError == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(validationError, &fieldErrors) && len(fieldErrors) > 0 {
		fieldError := fieldErrors[0]
		return fmt.Errorf(errorInvalidSettingFormat, settingName(fieldError.Field()), describeRule(fieldError))
	}
	return validationError
}

func (config PathConfiguration) exclusionSet() collector.ExclusionSet {
	exclusionSet := collector.DefaultExclusionSet()
	if len(config.Extensions) > 0 {
		exclusionSet.Extensions = append([]string{}, config.Extensions...)
	}
	if len(config.FileNames) > 0 {
		exclusionSet.FileNames = append([]string{}, config.FileNames...)
	}
	if len(config.Patterns) > 0 {
		exclusionSet.Patterns = append([]string{}, config.Patterns...)
	}
	return exclusionSet.WithGlobs(config.Globs...)
}

func settingName(field string) string {
	switch field {
	case "OutputDirectory":
		return "output directory"
	case "Prefix":
		return "file name prefix"
	case "Algorithm":
		return "digest algorithm"
	case "TokenModel":
		return "token model"
	default:
		return field
	}
}

func describeRule(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required", "required_if":
		return "value is required"
	case "oneof":
		return fmt.Sprintf("%q is not one of %s", fieldError.Value(), fieldError.Param())
	case "excludesall":
		return fmt.Sprintf("%q contains a path separator or reserved character", fieldError.Value())
	default:
		return fmt.Sprintf("failed %s validation", fieldError.Tag())
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func resolveBool(override *bool, configured *bool) bool {
	if override != nil {
		return *override
	}
	if configured != nil {
		return *configured
	}
	return false
}
