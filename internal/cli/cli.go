// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mdsnap/internal/config"
	"github.com/temirov/mdsnap/internal/digest"
	"github.com/temirov/mdsnap/internal/services/clipboard"
	"github.com/temirov/mdsnap/internal/snapshot"
	"github.com/temirov/mdsnap/internal/tokenizer"
	"github.com/temirov/mdsnap/internal/utils"
)

const (
	rootUse              = "mdsnap [output-dir]"
	rootShortDescription = "snapshot a project into a single Markdown document"
	rootLongDescription  = `mdsnap walks a project directory and writes every readable file, together with
a tree outline, into one timestamped Markdown document inside the output directory.
A content digest stored next to the documents skips regeneration when nothing changed.`
	rootUsageExample = `  # Snapshot the current directory into docs/snapshots
  mdsnap docs/snapshots

  # Snapshot another project, ignoring minified bundles, and report token usage
  mdsnap --root ../service -e "**/*.min.js" --tokens out`
	versionTemplate = "mdsnap version: {{.Version}}\n"

	generateUse              = "generate [output-dir]"
	generateAlias            = "g"
	generateShortDescription = "write a new document when the project changed (" + generateAlias + ")"
	statusUse                = "status [output-dir]"
	statusShortDescription   = "report whether the project changed since the last document"
	initUse                  = "init"
	initShortDescription     = "write a default configuration file"

	rootFlagName          = "root"
	prefixFlagName        = "prefix"
	algorithmFlagName     = "algorithm"
	exclusionFlagName     = "exclude"
	exclusionShorthand    = "e"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	copyFlagName          = "copy"
	configFlagName        = "config"
	verboseFlagName       = "verbose"
	globalFlagName        = "global"
	forceFlagName         = "force"
	rootFlagDescription   = "project directory to document (default: working directory)"
	prefixFlagDescription = "document file name prefix"
	exclusionDescription  = "exclude paths matching a glob such as \"**/*.min.js\" (repeatable)"
	tokensFlagDescription = "report the token count of the generated document"
	modelFlagDescription  = "tokenizer model used with --tokens"
	copyFlagDescription   = "copy the generated document to the clipboard"
	configFlagDescription = "configuration file to use instead of ./" + utils.LocalConfigFileName
	verboseDescription    = "enable debug logging"
	globalDescription     = "write the configuration under the user home directory"
	forceDescription      = "overwrite an existing configuration file"

	noChangesMessage           = "No changes detected since last run."
	generatedMessageFormat     = "Generated %s (%s)\n"
	statusMessageFormat        = "%s: %d files, digest %s\n"
	statusPreviousFormat       = "previous digest %s\n"
	configurationWrittenFormat = "Configuration written to %s\n"
	statusChanged              = "changed"
	statusUnchanged            = "unchanged"

	errorTokenizerFormat = "initialize tokenizer for %s: %w"
)

var algorithmFlagDescription = "content digest algorithm (" + joinAlgorithms() + ")"

// application carries the collaborators commands depend on so tests can replace them.
type application struct {
	logger     *zap.Logger
	copier     clipboard.Copier
	newCounter func(tokenizer.Config) (tokenizer.Counter, string, error)
	now        func() time.Time
}

// Execute runs the mdsnap application.
func Execute(logger *zap.Logger) error {
	app := &application{
		logger:     utils.LoggerOrNop(logger),
		copier:     clipboard.NewService(),
		newCounter: tokenizer.NewCounter,
		now:        time.Now,
	}
	rootCommand := app.newRootCommand()
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// runOptions stores the flags shared by the generate and status commands.
type runOptions struct {
	configurationPath string
	projectRoot       string
	prefix            string
	algorithm         string
	exclusionGlobs    []string
	tokenModel        string
	tokens            optionalBooleanFlag
	copy              optionalBooleanFlag
}

func (app *application) newRootCommand() *cobra.Command {
	var verbose bool
	var options runOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       utils.GetApplicationVersion(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if verbose {
				utils.EnableDebugLogging()
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runGenerate(command.OutOrStdout(), &options, arguments)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.PersistentFlags().BoolVar(&verbose, verboseFlagName, false, verboseDescription)
	addGenerateFlags(rootCommand, &options)

	rootCommand.AddCommand(
		app.newGenerateCommand(),
		app.newStatusCommand(),
		newInitCommand(),
	)
	return rootCommand
}

func (app *application) newGenerateCommand() *cobra.Command {
	var options runOptions
	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runGenerate(command.OutOrStdout(), &options, arguments)
		},
	}
	addGenerateFlags(generateCommand, &options)
	return generateCommand
}

func (app *application) newStatusCommand() *cobra.Command {
	var options runOptions
	statusCommand := &cobra.Command{
		Use:   statusUse,
		Short: statusShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return app.runStatus(command.OutOrStdout(), &options, arguments)
		},
	}
	addScanFlags(statusCommand, &options)
	return statusCommand
}

func newInitCommand() *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initErr := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initErr != nil {
				return initErr
			}
			_, writeErr := fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, path)
			return writeErr
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceDescription)
	return initCommand
}

// addScanFlags registers the flags that influence which files are scanned and hashed.
func addScanFlags(command *cobra.Command, options *runOptions) {
	command.Flags().StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	command.Flags().StringVar(&options.projectRoot, rootFlagName, "", rootFlagDescription)
	command.Flags().StringVar(&options.algorithm, algorithmFlagName, "", algorithmFlagDescription)
	command.Flags().StringArrayVarP(&options.exclusionGlobs, exclusionFlagName, exclusionShorthand, nil, exclusionDescription)
}

func addGenerateFlags(command *cobra.Command, options *runOptions) {
	addScanFlags(command, options)
	command.Flags().StringVar(&options.prefix, prefixFlagName, "", prefixFlagDescription)
	command.Flags().StringVar(&options.tokenModel, modelFlagName, "", modelFlagDescription)
	registerOptionalBooleanFlag(command.Flags(), &options.tokens, tokensFlagName, tokensFlagDescription)
	registerOptionalBooleanFlag(command.Flags(), &options.copy, copyFlagName, copyFlagDescription)
}

// resolveSettings layers command line values over the discovered configuration.
func (options *runOptions) resolveSettings(arguments []string) (config.Settings, error) {
	configuration, loadErr := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configurationPath})
	if loadErr != nil {
		return config.Settings{}, loadErr
	}
	overrides := config.Overrides{
		ProjectRoot:   options.projectRoot,
		Prefix:        options.prefix,
		Algorithm:     options.algorithm,
		Globs:         options.exclusionGlobs,
		TokensEnabled: options.tokens.Override(),
		TokenModel:    options.tokenModel,
		Clipboard:     options.copy.Override(),
	}
	if len(arguments) > 0 {
		overrides.OutputDirectory = arguments[0]
	}
	return configuration.Resolve(overrides)
}

func (app *application) snapshotOptions(settings config.Settings) snapshot.Options {
	exclusions := settings.Exclusions
	return snapshot.Options{
		OutputDirectory: settings.OutputDirectory,
		ProjectRoot:     settings.ProjectRoot,
		FilenamePrefix:  settings.Prefix,
		Exclusions:      &exclusions,
		Algorithm:       digest.Algorithm(settings.Algorithm),
		Now:             app.now,
		Logger:          app.logger,
	}
}

func (app *application) runGenerate(output io.Writer, options *runOptions, arguments []string) error {
	settings, settingsErr := options.resolveSettings(arguments)
	if settingsErr != nil {
		return settingsErr
	}
	result, runErr := snapshot.DocumentProject(app.snapshotOptions(settings))
	if runErr != nil {
		return runErr
	}
	if !result.Changed {
		_, writeErr := fmt.Fprintln(output, noChangesMessage)
		return writeErr
	}

	summary, summaryErr := app.summarize(settings, result)
	if summaryErr != nil {
		return summaryErr
	}
	if _, writeErr := fmt.Fprintf(output, generatedMessageFormat, result.DocumentPath, summary); writeErr != nil {
		return writeErr
	}

	if settings.Clipboard {
		if copyErr := app.copier.Copy(result.Document); copyErr != nil {
			app.logger.Warn("copy to clipboard failed", zap.Error(copyErr))
		} else {
			app.logger.Debug("document copied to clipboard", zap.String("path", result.DocumentPath))
		}
	}
	return nil
}

// summarize builds the parenthesised part of the generated message.
func (app *application) summarize(settings config.Settings, result snapshot.Result) (string, error) {
	parts := []string{
		fmt.Sprintf("%d files", result.Files),
		utils.FormatFileSize(int64(len(result.Document))),
	}
	if settings.TokensEnabled {
		counter, model, counterErr := app.newCounter(tokenizer.Config{Model: settings.TokenModel})
		if counterErr != nil {
			return "", fmt.Errorf(errorTokenizerFormat, settings.TokenModel, counterErr)
		}
		counted, countErr := tokenizer.CountText(counter, result.Document)
		if countErr != nil {
			app.logger.Warn("token count failed", zap.String("model", model), zap.Error(countErr))
		} else {
			parts = append(parts, fmt.Sprintf("%d tokens (%s)", counted.Tokens, model))
		}
	}
	return strings.Join(parts, ", "), nil
}

func (app *application) runStatus(output io.Writer, options *runOptions, arguments []string) error {
	settings, settingsErr := options.resolveSettings(arguments)
	if settingsErr != nil {
		return settingsErr
	}
	result, statusErr := snapshot.Status(app.snapshotOptions(settings))
	if statusErr != nil {
		return statusErr
	}
	label := statusUnchanged
	if result.Changed {
		label = statusChanged
	}
	if _, writeErr := fmt.Fprintf(output, statusMessageFormat, label, result.Files, result.Digest); writeErr != nil {
		return writeErr
	}
	if result.Changed && result.HasPrevious {
		_, writeErr := fmt.Fprintf(output, statusPreviousFormat, result.PreviousDigest)
		return writeErr
	}
	return nil
}

func joinAlgorithms() string {
	names := make([]string, 0, len(digest.Algorithms()))
	for _, algorithm := range digest.Algorithms() {
		names = append(names, string(algorithm))
	}
	return strings.Join(names, ", ")
}
