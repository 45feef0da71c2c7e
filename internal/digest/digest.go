// Package digest fingerprints a set of project files by their relative paths and contents.
package digest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/temirov/mdsnap/internal/utils"
)

// Algorithm names a supported hash function.
type Algorithm string

const (
	// AlgorithmSHA256 is the default cryptographic digest.
	AlgorithmSHA256 Algorithm = "sha256"
	// AlgorithmXXHash64 is a fast non-cryptographic digest.
	AlgorithmXXHash64 Algorithm = "xxhash64"

	errorUnsupportedAlgorithmFormat = "unsupported digest algorithm %q"

	pathTerminator byte = 0
)

// Algorithms lists every supported algorithm name.
func Algorithms() []Algorithm {
	return []Algorithm{AlgorithmSHA256, AlgorithmXXHash64}
}

// ParseAlgorithm resolves name to an Algorithm. An empty name selects SHA-256.
func ParseAlgorithm(name string) (Algorithm, error) {
	normalizedName := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	switch normalizedName {
	case "":
		return AlgorithmSHA256, nil
	case AlgorithmSHA256, AlgorithmXXHash64:
		return normalizedName, nil
	default:
		return "", fmt.Errorf(errorUnsupportedAlgorithmFormat, name)
	}
}

// Result is the outcome of hashing a file set.
type Result struct {
	Value        string
	HashedFiles  int
	SkippedFiles int
}

// Hasher computes directory digests.
type Hasher struct {
	algorithm Algorithm
	logger    *zap.Logger
}

// NewHasher constructs a Hasher for algorithm.
func NewHasher(algorithm Algorithm, logger *zap.Logger) (*Hasher, error) {
	resolvedAlgorithm, parseError := ParseAlgorithm(string(algorithm))
	if parseError != nil {
		return nil, parseError
	}
	return &Hasher{algorithm: resolvedAlgorithm, logger: utils.LoggerOrNop(logger)}, nil
}

// Algorithm reports the algorithm used by the hasher.
func (hasher *Hasher) Algorithm() Algorithm {
	return hasher.algorithm
}

// Compute hashes the root-relative path and raw bytes of every file in filePaths,
// visiting them in lexicographic path order so the value does not depend on the
// order they were discovered in. Each path is NUL terminated and each body is
// preceded by its length, so moving bytes between a name and its content changes
// the value. Files that cannot be opened or fully read are counted as skipped.
func (hasher *Hasher) Compute(rootDirectory string, filePaths []string) Result {
	sortedPaths := append([]string(nil), filePaths...)
	sort.Strings(sortedPaths)

	digestState := hasher.newState()
	result := Result{}
	for _, filePath := range sortedPaths {
		if hasher.hashFile(digestState, rootDirectory, filePath) {
			result.HashedFiles++
		} else {
			result.SkippedFiles++
		}
	}
	result.Value = hex.EncodeToString(digestState.Sum(nil))
	return result
}

// hashFile feeds one file into digestState and reports whether it was read completely.
func (hasher *Hasher) hashFile(digestState hash.Hash, rootDirectory, filePath string) bool {
	fileHandle, openError := os.Open(filePath)
	if openError != nil {
		hasher.logger.Warn("skipping unreadable file while hashing", zap.String("path", filePath), zap.Error(openError))
		return false
	}
	defer func() { _ = fileHandle.Close() }()

	fileInformation, statError := fileHandle.Stat()
	if statError != nil {
		hasher.logger.Warn("skipping file without metadata while hashing", zap.String("path", filePath), zap.Error(statError))
		return false
	}

	relativePath := utils.NormalizedRelativePath(rootDirectory, filePath)
	_, _ = io.WriteString(digestState, relativePath)
	_, _ = digestState.Write([]byte{pathTerminator})
	_ = binary.Write(digestState, binary.BigEndian, uint64(fileInformation.Size()))
	if _, copyError := io.Copy(digestState, fileHandle); copyError != nil {
		hasher.logger.Warn("partial read while hashing", zap.String("path", filePath), zap.Error(copyError))
		return false
	}
	return true
}

func (hasher *Hasher) newState() hash.Hash {
	if hasher.algorithm == AlgorithmXXHash64 {
		return xxhash.New()
	}
	return sha256.New()
}
