// Package snapshot runs the collect, hash, gate, render and persist pipeline.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/mdsnap/internal/collector"
	"github.com/temirov/mdsnap/internal/digest"
	"github.com/temirov/mdsnap/internal/document"
	"github.com/temirov/mdsnap/internal/state"
	"github.com/temirov/mdsnap/internal/tree"
	"github.com/temirov/mdsnap/internal/utils"
)

const (
	errorWorkingDirectoryFormat = "determine working directory: %w"
	errorAbsolutePathFormat     = "resolve absolute path for %s: %w"
	errorLoadStateFormat        = "load previous state: %w"
	errorSaveStateFormat        = "save state: %w"
)

var errMissingOutputDirectory = errors.New("output directory is required")

// Options configures a single run.
type Options struct {
	// OutputDirectory receives the documents and the state file. It is never scanned.
	OutputDirectory string
	// ProjectRoot is scanned; the working directory is used when empty.
	ProjectRoot string
	// FilenamePrefix defaults to document.DefaultPrefix.
	FilenamePrefix string
	// Exclusions defaults to collector.DefaultExclusionSet when nil.
	Exclusions *collector.ExclusionSet
	// Algorithm defaults to SHA-256.
	Algorithm digest.Algorithm
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// Result describes the outcome of a run. Changed is false and DocumentPath is empty
// when the project matched the stored digest.
type Result struct {
	Changed        bool
	DocumentPath   string
	Document       string
	Digest         string
	PreviousDigest string
	HasPrevious    bool
	ProjectName    string
	Files          int
	SkippedFiles   int
}

type preparedRun struct {
	projectRoot     string
	outputDirectory string
	prefix          string
	now             func() time.Time
	logger          *zap.Logger
	filePaths       []string
	store           *state.Store
	result          Result
}

// DocumentProject writes a new document for the project when its content digest differs
// from the last persisted one, then records the new digest.
func DocumentProject(options Options) (Result, error) {
	run, prepareError := prepare(options)
	if prepareError != nil {
		return Result{}, prepareError
	}
	result := run.result
	if !result.Changed {
		run.logger.Debug("no changes detected", zap.String("digest", result.Digest))
		return result, nil
	}

	outline := tree.Render(tree.Build(run.projectRoot, run.filePaths))
	result.Document = document.Render(result.ProjectName, outline, run.projectRoot, run.filePaths)

	documentPath, writeError := document.Write(run.outputDirectory, run.prefix, run.now(), result.Document)
	if writeError != nil {
		return Result{}, writeError
	}
	result.DocumentPath = documentPath

	if saveError := run.store.Save(result.Digest); saveError != nil {
		return Result{}, fmt.Errorf(errorSaveStateFormat, saveError)
	}
	run.logger.Debug("document written",
		zap.String("path", documentPath),
		zap.Int("files", result.Files),
		zap.String("digest", result.Digest),
	)
	return result, nil
}

// Status computes the current digest and compares it with the stored one without writing.
func Status(options Options) (Result, error) {
	run, prepareError := prepare(options)
	if prepareError != nil {
		return Result{}, prepareError
	}
	return run.result, nil
}

func prepare(options Options) (preparedRun, error) {
	logger := utils.LoggerOrNop(options.Logger)
	if options.OutputDirectory == "" {
		return preparedRun{}, errMissingOutputDirectory
	}

	projectRoot := options.ProjectRoot
	if projectRoot == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return preparedRun{}, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		projectRoot = workingDirectory
	}
	absoluteRoot, rootError := filepath.Abs(projectRoot)
	if rootError != nil {
		return preparedRun{}, fmt.Errorf(errorAbsolutePathFormat, projectRoot, rootError)
	}
	absoluteOutput, outputError := filepath.Abs(options.OutputDirectory)
	if outputError != nil {
		return preparedRun{}, fmt.Errorf(errorAbsolutePathFormat, options.OutputDirectory, outputError)
	}

	prefix := options.FilenamePrefix
	if prefix == "" {
		prefix = document.DefaultPrefix
	}
	now := options.Now
	if now == nil {
		now = time.Now
	}
	exclusionSet := collector.DefaultExclusionSet()
	if options.Exclusions != nil {
		exclusionSet = *options.Exclusions
	}
	exclusionSet = outputExclusions(exclusionSet, absoluteRoot, absoluteOutput, prefix, logger)

	store := state.NewStore(absoluteOutput)
	previousDigest, hasPrevious, loadError := store.Load()
	if loadError != nil {
		return preparedRun{}, fmt.Errorf(errorLoadStateFormat, loadError)
	}

	filePaths, collectError := collector.New(exclusionSet, logger).Collect(absoluteRoot)
	if collectError != nil {
		return preparedRun{}, collectError
	}
	hasher, hasherError := digest.NewHasher(options.Algorithm, logger)
	if hasherError != nil {
		return preparedRun{}, hasherError
	}
	digestResult := hasher.Compute(absoluteRoot, filePaths)
	if digestResult.SkippedFiles > 0 {
		logger.Warn("some files were unreadable and left out of the digest", zap.Int("skipped", digestResult.SkippedFiles))
	}

	return preparedRun{
		projectRoot:     absoluteRoot,
		outputDirectory: absoluteOutput,
		prefix:          prefix,
		now:             now,
		logger:          logger,
		filePaths:       filePaths,
		store:           store,
		result: Result{
			Changed:        !state.Unchanged(previousDigest, hasPrevious, digestResult.Value),
			Digest:         digestResult.Value,
			PreviousDigest: previousDigest,
			HasPrevious:    hasPrevious,
			ProjectName:    filepath.Base(absoluteRoot),
			Files:          len(filePaths),
			SkippedFiles:   digestResult.SkippedFiles,
		},
	}, nil
}

// outputExclusions keeps generated files out of the scan. An output directory inside
// the project is pruned outright. When the project root is the output directory, only
// the state file and documents with this prefix are skipped, and an output directory
// above the root needs nothing because the walk never reaches it.
func outputExclusions(exclusionSet collector.ExclusionSet, absoluteRoot, absoluteOutput, prefix string, logger *zap.Logger) collector.ExclusionSet {
	if !utils.IsWithinDirectory(absoluteRoot, absoluteOutput) {
		return exclusionSet.WithOutputDirectory(absoluteOutput)
	}
	if filepath.Clean(absoluteRoot) != filepath.Clean(absoluteOutput) {
		return exclusionSet
	}
	logger.Debug("output directory is the project root; skipping generated files", zap.String("path", absoluteOutput))
	return exclusionSet.WithGlobs(
		utils.EscapeGlob(state.FileName),
		utils.EscapeGlob(state.TemporaryFileName),
		document.FileGlob(prefix),
	)
}
