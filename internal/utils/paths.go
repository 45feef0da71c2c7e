// Package utils contains general helper functions used across mdsnap.
package utils

import (
	"path/filepath"
	"strings"
)

// NormalizedRelativePath returns the forward-slash path of fullPath relative to root.
// The cleaned forward-slash form of fullPath is returned when no relative path exists,
// and "." when both resolve to the same directory.
func NormalizedRelativePath(root, fullPath string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteRootError := filepath.Abs(root)
	if absoluteRootError != nil {
		return filepath.ToSlash(cleanPath)
	}
	relativePath, relativePathError := filepath.Rel(filepath.Clean(absoluteRoot), cleanPath)
	if relativePathError != nil {
		return filepath.ToSlash(cleanPath)
	}
	return filepath.ToSlash(relativePath)
}

// FileExtension returns the lower-cased extension of name including its leading dot.
// Names whose only dot is the first character, such as ".bashrc", have no extension.
func FileExtension(name string) string {
	baseName := filepath.Base(name)
	dotIndex := strings.LastIndex(baseName, ".")
	if dotIndex <= 0 {
		return ""
	}
	return strings.ToLower(baseName[dotIndex:])
}

// IsWithinDirectory reports whether candidate equals directory or lies beneath it.
func IsWithinDirectory(candidate, directory string) bool {
	relativePath, relativePathError := filepath.Rel(filepath.Clean(directory), filepath.Clean(candidate))
	if relativePathError != nil {
		return false
	}
	return relativePath == "." || (relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator)))
}
