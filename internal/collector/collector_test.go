package collector_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/mdsnap/internal/collector"
)

func writeFile(t *testing.T, root, relativePath, content string) string {
	t.Helper()
	fullPath := filepath.Join(root, filepath.FromSlash(relativePath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	return fullPath
}

func relativePaths(t *testing.T, root string, filePaths []string) []string {
	t.Helper()
	result := make([]string, 0, len(filePaths))
	for _, filePath := range filePaths {
		require.True(t, filepath.IsAbs(filePath), "expected absolute path, got %s", filePath)
		relativePath, relError := filepath.Rel(root, filePath)
		require.NoError(t, relError)
		result = append(result, filepath.ToSlash(relativePath))
	}
	sort.Strings(result)
	return result
}

func TestCollectAppliesDefaultExclusions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "README.md", "# readme")
	writeFile(t, root, "pkg/lib.go", "package pkg")
	writeFile(t, root, ".gitignore", "*.log")
	writeFile(t, root, ".DS_Store", "meta")
	writeFile(t, root, ".env", "SECRET=1")
	writeFile(t, root, "prod.env", "SECRET=2")
	writeFile(t, root, "server.LOG", "log line")
	writeFile(t, root, "module.pyc", "bytecode")
	writeFile(t, root, "yarn.lock", "lock")
	writeFile(t, root, ".git/config", "[core]")
	writeFile(t, root, "web/node_modules/left-pad/index.js", "module.exports = 1")
	writeFile(t, root, "pkg/__pycache__/lib.cpython.pyc", "bytecode")
	writeFile(t, root, "build/output.bin", "artifact")

	filePaths, collectError := collector.Collect(root, collector.DefaultExclusionSet())
	require.NoError(t, collectError)
	require.Equal(t, []string{"README.md", "main.go", "pkg/lib.go"}, relativePaths(t, root, filePaths))
}

func TestCollectReturnsWalkOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.txt", "b")
	writeFile(t, root, "a/z.txt", "z")
	writeFile(t, root, "a/y.txt", "y")

	filePaths, collectError := collector.Collect(root, collector.ExclusionSet{})
	require.NoError(t, collectError)
	require.Equal(t, []string{
		filepath.Join(root, "a", "y.txt"),
		filepath.Join(root, "a", "z.txt"),
		filepath.Join(root, "b.txt"),
	}, filePaths)
}

func TestCollectExcludesOutputDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	outputDirectory := filepath.Join(root, "snapshots")
	writeFile(t, root, "snapshots/documentation_2024-01-01_00-00-00.md", "# old")
	writeFile(t, root, "snapshots/.doc_state", "abc")

	exclusionSet := collector.DefaultExclusionSet().WithOutputDirectory(outputDirectory)
	filePaths, collectError := collector.Collect(root, exclusionSet)
	require.NoError(t, collectError)
	require.Equal(t, []string{"main.go"}, relativePaths(t, root, filePaths))
}

func TestCollectPrunesAbsoluteOutputDirectoryWithGenericName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	writeFile(t, root, "out/doc.md", "generated")

	exclusionSet := collector.ExclusionSet{}.WithOutputDirectory(filepath.Join(root, "out"))
	require.Contains(t, exclusionSet.Patterns, "out")

	exclusionSet.Patterns = nil
	filePaths, collectError := collector.Collect(root, exclusionSet)
	require.NoError(t, collectError)
	require.Equal(t, []string{"main.go"}, relativePaths(t, root, filePaths))
}

func TestCollectHonorsGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.js", "app")
	writeFile(t, root, "static/app.min.js", "minified")
	writeFile(t, root, "testdata/fixtures/big.json", "{}")

	exclusionSet := collector.ExclusionSet{}.WithGlobs("**/*.min.js", "testdata/**", "  ")
	require.Len(t, exclusionSet.Globs, 2)
	filePaths, collectError := collector.Collect(root, exclusionSet)
	require.NoError(t, collectError)
	require.Equal(t, []string{"app.js"}, relativePaths(t, root, filePaths))
}

func TestCollectPatternsMatchRelativePathOnly(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "build", "project")
	writeFile(t, root, "main.go", "package main")

	filePaths, collectError := collector.Collect(root, collector.DefaultExclusionSet())
	require.NoError(t, collectError)
	require.Equal(t, []string{"main.go"}, relativePaths(t, root, filePaths))
}

func TestCollectCustomExtensionsAreCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.txt", "keep")
	writeFile(t, root, "drop.CSV", "a,b")

	filePaths, collectError := collector.Collect(root, collector.ExclusionSet{Extensions: []string{"csv"}})
	require.NoError(t, collectError)
	require.Equal(t, []string{"keep.txt"}, relativePaths(t, root, filePaths))
}

func TestCollectMissingRootFails(t *testing.T) {
	_, collectError := collector.Collect(filepath.Join(t.TempDir(), "missing"), collector.DefaultExclusionSet())
	require.Error(t, collectError)
}

func TestWithOutputDirectoryDoesNotMutateReceiver(t *testing.T) {
	defaults := collector.DefaultExclusionSet()
	patternCount := len(defaults.Patterns)
	_ = defaults.WithOutputDirectory("docs").WithGlobs("*.md")
	require.Len(t, defaults.Patterns, patternCount)
	require.Empty(t, defaults.Globs)
	require.Empty(t, defaults.Directories)
}
