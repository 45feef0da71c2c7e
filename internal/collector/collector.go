// Package collector walks a project directory and lists the files that belong in a snapshot.
package collector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/mdsnap/internal/utils"
)

const (
	errorAbsoluteRootFormat  = "resolve absolute path for %s: %w"
	errorWalkDirectoryFormat = "walk %s: %w"
)

// Collector lists regular files beneath a root directory while honoring an ExclusionSet.
type Collector struct {
	Exclusions ExclusionSet
	Logger     *zap.Logger
}

// New constructs a Collector for exclusionSet.
func New(exclusionSet ExclusionSet, logger *zap.Logger) *Collector {
	return &Collector{Exclusions: exclusionSet, Logger: utils.LoggerOrNop(logger)}
}

// Collect returns absolute paths of every non-excluded regular file under rootDirectory
// in filesystem walk order. Excluded directories are pruned rather than filtered,
// and any traversal error aborts the walk.
func (collector *Collector) Collect(rootDirectory string) ([]string, error) {
	logger := utils.LoggerOrNop(collector.Logger)
	absoluteRoot, absoluteError := filepath.Abs(rootDirectory)
	if absoluteError != nil {
		return nil, fmt.Errorf(errorAbsoluteRootFormat, rootDirectory, absoluteError)
	}
	absoluteRoot = filepath.Clean(absoluteRoot)
	compiled := newMatcher(collector.Exclusions)

	var filePaths []string
	walkError := filepath.WalkDir(absoluteRoot, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if accessError != nil {
			return accessError
		}
		if walkedPath == absoluteRoot {
			return nil
		}
		relativePath := utils.NormalizedRelativePath(absoluteRoot, walkedPath)

		if directoryEntry.IsDir() {
			if compiled.prunesDirectory(walkedPath, relativePath) {
				logger.Debug("pruned directory", zap.String("path", relativePath))
				return filepath.SkipDir
			}
			return nil
		}

		if !isRegularFile(walkedPath, directoryEntry) {
			return nil
		}
		if compiled.excludesFile(relativePath) {
			logger.Debug("excluded file", zap.String("path", relativePath))
			return nil
		}
		filePaths = append(filePaths, walkedPath)
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(errorWalkDirectoryFormat, absoluteRoot, walkError)
	}
	return filePaths, nil
}

// Collect lists files under rootDirectory using exclusionSet without logging.
func Collect(rootDirectory string, exclusionSet ExclusionSet) ([]string, error) {
	return New(exclusionSet, nil).Collect(rootDirectory)
}

// isRegularFile accepts regular files and symlinks that resolve to regular files.
func isRegularFile(path string, directoryEntry fs.DirEntry) bool {
	entryType := directoryEntry.Type()
	if entryType.IsRegular() {
		return true
	}
	if entryType&fs.ModeSymlink == 0 {
		return false
	}
	targetInformation, statError := os.Stat(path)
	if statError != nil {
		return false
	}
	return targetInformation.Mode().IsRegular()
}
