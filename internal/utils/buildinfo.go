package utils

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

var errGitDirectoryNotFound = errors.New(".git directory not found")

// gitDescribeArguments lists the describe invocations tried in order.
var gitDescribeArguments = [][]string{
	{"describe", "--tags", "--exact-match"},
	{"describe", "--tags", "--long", "--dirty"},
}

// GetApplicationVersion reports the module version from build info, falling back
// to git describe when running from a source checkout.
func GetApplicationVersion() string {
	if buildInfo, buildInfoAvailable := debug.ReadBuildInfo(); buildInfoAvailable {
		moduleVersion := buildInfo.Main.Version
		if moduleVersion != "" && moduleVersion != developmentVersion {
			return moduleVersion
		}
	}

	repositoryDirectory, repositoryError := findRepositoryRoot(".")
	if repositoryError != nil {
		return unknownVersion
	}
	for _, describeArguments := range gitDescribeArguments {
		// #nosec G204
		describeCommand := exec.Command("git", describeArguments...)
		describeCommand.Dir = repositoryDirectory
		describeOutput, describeError := describeCommand.Output()
		trimmedOutput := strings.TrimSpace(string(describeOutput))
		if describeError == nil && trimmedOutput != "" {
			return trimmedOutput
		}
	}
	return unknownVersion
}

// findRepositoryRoot walks upward from startDirectory to the directory holding .git.
func findRepositoryRoot(startDirectory string) (string, error) {
	currentDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", absoluteError
	}
	for {
		gitInformation, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statError == nil && gitInformation.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return "", errGitDirectoryNotFound
		}
		currentDirectory = parentDirectory
	}
}
