package utils

const (
	// ApplicationName is the command name used in messages and configuration paths.
	ApplicationName = "mdsnap"
	// ConfigFileName is the name of the global configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the name of the per-project configuration file.
	LocalConfigFileName = ".mdsnap.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding global configuration.
	GlobalConfigDirectoryName = ".mdsnap"
	// EnvironmentPrefix prefixes every environment variable read by the configuration loader.
	EnvironmentPrefix = "MDSNAP"
	// DotEnvFileName is loaded from the working directory before configuration is resolved.
	DotEnvFileName = ".env"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "mdsnap execution failed"
)
