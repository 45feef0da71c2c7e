package collector

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/mdsnap/internal/utils"
)

// ExclusionSet describes which paths the collector skips.
//
// FileNames and Extensions apply to files only. Patterns are plain substrings and Globs
// are doublestar patterns, both matched against the forward-slash path relative to the
// scanned root; a directory matching either is pruned. Directories holds absolute
// directory paths that are pruned regardless of their names.
type ExclusionSet struct {
	FileNames   []string
	Extensions  []string
	Patterns    []string
	Globs       []string
	Directories []string
}

// DefaultExtensions lists extensions excluded by default: bytecode and object files,
// logs, environment files, lock files, editor temporaries and OS metadata.
func DefaultExtensions() []string {
	return []string{".pyc", ".pyo", ".class", ".o", ".obj", ".log", ".env", ".lock", ".tmp", ".swp", ".ds_store"}
}

// DefaultFileNames lists file names excluded by default.
func DefaultFileNames() []string {
	return []string{".gitignore", ".gitattributes", ".ignore", ".dockerignore", ".DS_Store", "Thumbs.db", ".env"}
}

// DefaultPatterns lists the version-control, dependency-cache and build-output fragments
// pruned by default.
func DefaultPatterns() []string {
	return []string{".git", ".hg", ".svn", "__pycache__", "node_modules", ".venv", "dist", "build"}
}

// DefaultExclusionSet returns a fresh copy of the default exclusion rules.
func DefaultExclusionSet() ExclusionSet {
	return ExclusionSet{
		FileNames:  DefaultFileNames(),
		Extensions: DefaultExtensions(),
		Patterns:   DefaultPatterns(),
	}
}

// WithOutputDirectory returns a copy of the set that also excludes outputDirectory,
// both by its base name as a pattern and by its absolute path.
func (exclusionSet ExclusionSet) WithOutputDirectory(outputDirectory string) ExclusionSet {
	result := exclusionSet.clone()
	absoluteOutputDirectory, absoluteError := filepath.Abs(outputDirectory)
	if absoluteError != nil {
		absoluteOutputDirectory = filepath.Clean(outputDirectory)
	}
	baseName := filepath.Base(absoluteOutputDirectory)
	if baseName != "" && baseName != "." && baseName != string(filepath.Separator) {
		result.Patterns = append(result.Patterns, baseName)
	}
	result.Directories = append(result.Directories, absoluteOutputDirectory)
	return result
}

// WithGlobs returns a copy of the set with additional glob patterns.
func (exclusionSet ExclusionSet) WithGlobs(globs ...string) ExclusionSet {
	result := exclusionSet.clone()
	for _, glob := range globs {
		trimmedGlob := strings.TrimSpace(glob)
		if trimmedGlob == "" {
			continue
		}
		result.Globs = append(result.Globs, filepath.ToSlash(trimmedGlob))
	}
	return result
}

func (exclusionSet ExclusionSet) clone() ExclusionSet {
	return ExclusionSet{
		FileNames:   append([]string(nil), exclusionSet.FileNames...),
		Extensions:  append([]string(nil), exclusionSet.Extensions...),
		Patterns:    append([]string(nil), exclusionSet.Patterns...),
		Globs:       append([]string(nil), exclusionSet.Globs...),
		Directories: append([]string(nil), exclusionSet.Directories...),
	}
}

// matcher is the lookup form of an ExclusionSet used during a single walk.
type matcher struct {
	fileNames   map[string]struct{}
	extensions  map[string]struct{}
	patterns    []string
	globs       []string
	directories []string
}

func newMatcher(exclusionSet ExclusionSet) matcher {
	compiled := matcher{
		fileNames:  make(map[string]struct{}, len(exclusionSet.FileNames)),
		extensions: make(map[string]struct{}, len(exclusionSet.Extensions)),
	}
	for _, fileName := range exclusionSet.FileNames {
		compiled.fileNames[fileName] = struct{}{}
	}
	for _, extension := range exclusionSet.Extensions {
		normalizedExtension := strings.ToLower(strings.TrimSpace(extension))
		if normalizedExtension == "" {
			continue
		}
		if !strings.HasPrefix(normalizedExtension, ".") {
			normalizedExtension = "." + normalizedExtension
		}
		compiled.extensions[normalizedExtension] = struct{}{}
	}
	for _, pattern := range exclusionSet.Patterns {
		if normalizedPattern := filepath.ToSlash(pattern); normalizedPattern != "" {
			compiled.patterns = append(compiled.patterns, normalizedPattern)
		}
	}
	compiled.globs = append(compiled.globs, exclusionSet.Globs...)
	for _, directory := range exclusionSet.Directories {
		compiled.directories = append(compiled.directories, filepath.Clean(directory))
	}
	return compiled
}

// prunesDirectory reports whether the directory at absolutePath must not be descended.
func (compiled matcher) prunesDirectory(absolutePath, relativePath string) bool {
	cleanPath := filepath.Clean(absolutePath)
	for _, directory := range compiled.directories {
		if cleanPath == directory {
			return true
		}
	}
	return compiled.matchesPath(relativePath)
}

// excludesFile reports whether the file at relativePath is skipped.
func (compiled matcher) excludesFile(relativePath string) bool {
	fileName := filepath.Base(filepath.FromSlash(relativePath))
	if _, excludedName := compiled.fileNames[fileName]; excludedName {
		return true
	}
	if extension := utils.FileExtension(fileName); extension != "" {
		if _, excludedExtension := compiled.extensions[extension]; excludedExtension {
			return true
		}
	}
	return compiled.matchesPath(relativePath)
}

func (compiled matcher) matchesPath(relativePath string) bool {
	for _, pattern := range compiled.patterns {
		if strings.Contains(relativePath, pattern) {
			return true
		}
	}
	for _, glob := range compiled.globs {
		if matched, matchError := doublestar.Match(glob, relativePath); matchError == nil && matched {
			return true
		}
	}
	return false
}
