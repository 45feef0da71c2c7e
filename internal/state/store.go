// Package state persists the digest of the most recent snapshot.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FileName is the name of the state file kept inside the output directory.
	FileName = ".doc_state"
	// TemporaryFileName holds a digest while it is being written.
	TemporaryFileName = FileName + ".tmp"

	errorReadStateFormat       = "read state file %s: %w"
	errorCreateDirectoryFormat = "create state directory %s: %w"
	errorWriteStateFormat      = "write state file %s: %w"
	errorReplaceStateFormat    = "replace state file %s: %w"
)

// Store reads and writes the digest file.
type Store struct {
	directory string
	path      string
}

// NewStore creates a store whose state file lives in outputDirectory.
func NewStore(outputDirectory string) *Store {
	return &Store{
		directory: outputDirectory,
		path:      filepath.Join(outputDirectory, FileName),
	}
}

// Path returns the location of the state file.
func (store *Store) Path() string {
	return store.path
}

// Load returns the persisted digest. found is false when no state file exists yet.
func (store *Store) Load() (digest string, found bool, err error) {
	content, readError := os.ReadFile(store.path)
	if errors.Is(readError, fs.ErrNotExist) {
		return "", false, nil
	}
	if readError != nil {
		return "", false, fmt.Errorf(errorReadStateFormat, store.path, readError)
	}
	return strings.TrimSpace(string(content)), true, nil
}

// Save overwrites the state file with digest, creating the directory when needed.
// The file is replaced through a rename so readers never observe a partial value.
func (store *Store) Save(digest string) error {
	if mkdirError := os.MkdirAll(store.directory, 0o755); mkdirError != nil {
		return fmt.Errorf(errorCreateDirectoryFormat, store.directory, mkdirError)
	}
	temporaryPath := filepath.Join(store.directory, TemporaryFileName)
	if writeError := os.WriteFile(temporaryPath, []byte(digest), 0o644); writeError != nil {
		return fmt.Errorf(errorWriteStateFormat, temporaryPath, writeError)
	}
	if renameError := os.Rename(temporaryPath, store.path); renameError != nil {
		_ = os.Remove(temporaryPath)
		return fmt.Errorf(errorReplaceStateFormat, store.path, renameError)
	}
	return nil
}

// Unchanged reports whether current equals the previously stored digest.
func Unchanged(previous string, found bool, current string) bool {
	return found && previous == current
}
