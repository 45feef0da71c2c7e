package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/temirov/mdsnap/internal/utils"
)

const (
	errorWorkingDirectoryFormat    = "determine working directory: %w"
	errorResolvePathFormat         = "resolve configuration path %s: %w"
	errorStatConfigurationFormat   = "stat configuration %s: %w"
	errorConfigurationIsDirectory  = "configuration path %s is a directory"
	errorReadConfigurationFormat   = "read configuration from %s: %w"
	errorDecodeConfigurationFormat = "decode configuration from %s: %w"
	errorBindEnvironmentFormat     = "bind environment variable for %s: %w"
	errorDecodeEnvironmentFormat   = "decode environment configuration: %w"
)

// configurationKeys lists every key that can be supplied through the environment.
var configurationKeys = []string{
	"output.directory",
	"output.prefix",
	"digest.algorithm",
	"paths.extensions",
	"paths.filenames",
	"paths.patterns",
	"paths.globs",
	"tokens.enabled",
	"tokens.model",
	"clipboard",
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// SkipGlobal disables reading the configuration under the user home directory.
	SkipGlobal bool
}

// ApplicationConfiguration holds configuration gathered from files and the environment.
type ApplicationConfiguration struct {
	Output    OutputConfiguration `mapstructure:"output"`
	Digest    DigestConfiguration `mapstructure:"digest"`
	Paths     PathConfiguration   `mapstructure:"paths"`
	Tokens    TokenConfiguration  `mapstructure:"tokens"`
	Clipboard *bool               `mapstructure:"clipboard"`
}

// OutputConfiguration controls where documents are written.
type OutputConfiguration struct {
	Directory string `mapstructure:"directory"`
	Prefix    string `mapstructure:"prefix"`
}

// DigestConfiguration selects the change-detection hash.
type DigestConfiguration struct {
	Algorithm string `mapstructure:"algorithm"`
}

// PathConfiguration overrides the exclusion rules. Non-empty lists replace the defaults,
// except Globs which are always added.
type PathConfiguration struct {
	Extensions []string `mapstructure:"extensions"`
	FileNames  []string `mapstructure:"filenames"`
	Patterns   []string `mapstructure:"patterns"`
	Globs      []string `mapstructure:"globs"`
}

// TokenConfiguration controls token estimation of generated documents.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration merges the global file, the local or explicit file,
// and MDSNAP_* environment variables, later sources overriding earlier ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorWorkingDirectoryFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if !options.SkipGlobal {
		if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
			globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
			globalConfig, loadErr := loadConfigurationFromPath(globalPath, false)
			if loadErr != nil {
				return ApplicationConfiguration{}, loadErr
			}
			merged = merged.Merge(globalConfig)
		}
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath, options.ExplicitFilePath != "")
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	environmentConfig, environmentErr := loadEnvironmentConfiguration()
	if environmentErr != nil {
		return ApplicationConfiguration{}, environmentErr
	}
	merged = merged.Merge(environmentConfig)

	merged.Paths.Globs = utils.DeduplicatePatterns(merged.Paths.Globs)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf(errorResolvePathFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

// loadConfigurationFromPath reads one YAML file. A missing file yields an empty
// configuration unless required is set.
func loadConfigurationFromPath(path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigurationFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigurationIsDirectory, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigurationFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigurationFormat, path, decodeErr)
	}
	return config, nil
}

// loadEnvironmentConfiguration decodes MDSNAP_* variables, for example
// MDSNAP_OUTPUT_DIRECTORY or MDSNAP_PATHS_GLOBS="**/*.min.js,testdata/**".
func loadEnvironmentConfiguration() (ApplicationConfiguration, error) {
	reader := viper.New()
	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configurationKeys {
		if bindErr := reader.BindEnv(key); bindErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf(errorBindEnvironmentFormat, key, bindErr)
		}
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeEnvironmentFormat, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Output.Directory != "" {
		result.Output.Directory = override.Output.Directory
	}
	if override.Output.Prefix != "" {
		result.Output.Prefix = override.Output.Prefix
	}
	if override.Digest.Algorithm != "" {
		result.Digest.Algorithm = override.Digest.Algorithm
	}
	result.Paths = result.Paths.merge(override.Paths)
	if override.Tokens.Enabled != nil {
		result.Tokens.Enabled = cloneBool(override.Tokens.Enabled)
	}
	if override.Tokens.Model != "" {
		result.Tokens.Model = override.Tokens.Model
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := config
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string{}, override.Extensions...)
	}
	if len(override.FileNames) > 0 {
		result.FileNames = append([]string{}, override.FileNames...)
	}
	if len(override.Patterns) > 0 {
		result.Patterns = append([]string{}, override.Patterns...)
	}
	result.Globs = append(append([]string{}, result.Globs...), override.Globs...)
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
