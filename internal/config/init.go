package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/mdsnap/internal/utils"
)

// InitTarget selects which configuration file `mdsnap init` creates.
type InitTarget string

const (
	// InitTargetLocal creates .mdsnap.yaml for the project in the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal creates config.yaml under ~/.mdsnap, shared by every project.
	InitTargetGlobal InitTarget = "global"

	configurationDirectoryPermissions = 0o755
	configurationFilePermissions      = 0o600

	errorInitWorkingDirectoryFormat = "determine working directory for configuration: %w"
	errorInitHomeDirectoryFormat    = "resolve home directory for configuration: %w"
	errorInitCreateDirectoryFormat  = "create configuration directory %s: %w"
	errorInitUnsupportedTarget      = "unsupported init target %q"
	errorInitAlreadyExistsFormat    = "configuration file already exists at %s; use --force to overwrite"
	errorInitInspectFormat          = "inspect configuration path %s: %w"
	errorInitWriteFormat            = "write configuration to %s: %w"

	// defaultConfigurationTemplate mirrors the keys read by LoadApplicationConfiguration.
	defaultConfigurationTemplate = `# Directory receiving snapshots and the .doc_state digest.
output:
  directory: docs/snapshots
  prefix: documentation
# sha256 or xxhash64.
digest:
  algorithm: sha256
# Non-empty extensions, filenames and patterns replace the built-in lists.
# Globs are always added to them.
paths:
  extensions: []
  filenames: []
  patterns: []
  globs: []
tokens:
  enabled: false
  model: gpt-4o
clipboard: false
`
)

// InitOptions controls where the configuration template is written.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default mdsnap configuration for the requested
// target and returns its path. An existing file is only replaced when Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, destinationError := configurationDestination(options)
	if destinationError != nil {
		return "", destinationError
	}

	_, statError := os.Stat(destinationPath)
	switch {
	case statError == nil && !options.Force:
		return "", fmt.Errorf(errorInitAlreadyExistsFormat, destinationPath)
	case statError != nil && !os.IsNotExist(statError):
		return "", fmt.Errorf(errorInitInspectFormat, destinationPath, statError)
	}

	if writeError := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFilePermissions); writeError != nil {
		return "", fmt.Errorf(errorInitWriteFormat, destinationPath, writeError)
	}
	return destinationPath, nil
}

// configurationDestination resolves the file path for the target, creating ~/.mdsnap
// for the global target.
func configurationDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf(errorInitWorkingDirectoryFormat, workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, homeDirectoryError := os.UserHomeDir()
		if homeDirectoryError != nil {
			return "", fmt.Errorf(errorInitHomeDirectoryFormat, homeDirectoryError)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if mkdirError := os.MkdirAll(configurationDirectory, configurationDirectoryPermissions); mkdirError != nil {
			return "", fmt.Errorf(errorInitCreateDirectoryFormat, configurationDirectory, mkdirError)
		}
		return filepath.Join(configurationDirectory, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf(errorInitUnsupportedTarget, options.Target)
	}
}
