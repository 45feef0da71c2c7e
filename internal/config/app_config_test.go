package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/mdsnap/internal/utils"
)

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	explicitContent string
	expectDirectory string
	expectPrefix    string
	expectAlgorithm string
	expectGlobs     []string
	expectTokens    *bool
	expectClipboard *bool
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func writeConfigurationFixture(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "output:\n  directory: global-docs\n  prefix: global\ndigest:\n  algorithm: xxhash64\npaths:\n  globs:\n    - \"**/*.min.js\"\nclipboard: true\n",
			localContent:    "output:\n  directory: local-docs\npaths:\n  globs:\n    - \"testdata/**\"\ntokens:\n  enabled: true\n",
			expectDirectory: "local-docs",
			expectPrefix:    "global",
			expectAlgorithm: "xxhash64",
			expectGlobs:     []string{"**/*.min.js", "testdata/**"},
			expectTokens:    boolPointer(true),
			expectClipboard: boolPointer(true),
		},
		{
			name:            "explicit_path_replaces_local",
			globalContent:   "output:\n  prefix: global\n",
			localContent:    "output:\n  directory: ignored\n",
			explicitPath:    "custom.yaml",
			explicitContent: "output:\n  directory: explicit\n",
			expectDirectory: "explicit",
			expectPrefix:    "global",
		},
		{
			name:            "duplicate_globs_collapse",
			globalContent:   "paths:\n  globs:\n    - \"*.gen.go\"\n",
			localContent:    "paths:\n  globs:\n    - \"*.gen.go\"\n",
			expectGlobs:     []string{"*.gen.go"},
			expectClipboard: nil,
		},
		{
			name: "no_files",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			if testCase.globalContent != "" {
				writeConfigurationFixture(t, filepath.Join(homeDir, utils.GlobalConfigDirectoryName, utils.ConfigFileName), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeConfigurationFixture(t, filepath.Join(workingDir, utils.LocalConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeConfigurationFixture(t, filepath.Join(workingDir, testCase.explicitPath), testCase.explicitContent)
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Output.Directory != testCase.expectDirectory {
				t.Fatalf("expected directory %q, got %q", testCase.expectDirectory, loadedConfig.Output.Directory)
			}
			if loadedConfig.Output.Prefix != testCase.expectPrefix {
				t.Fatalf("expected prefix %q, got %q", testCase.expectPrefix, loadedConfig.Output.Prefix)
			}
			if loadedConfig.Digest.Algorithm != testCase.expectAlgorithm {
				t.Fatalf("expected algorithm %q, got %q", testCase.expectAlgorithm, loadedConfig.Digest.Algorithm)
			}
			if len(testCase.expectGlobs) > 0 || len(loadedConfig.Paths.Globs) > 0 {
				if !reflect.DeepEqual(loadedConfig.Paths.Globs, testCase.expectGlobs) {
					t.Fatalf("expected globs %v, got %v", testCase.expectGlobs, loadedConfig.Paths.Globs)
				}
			}
			assertBoolPointer(t, "tokens.enabled", testCase.expectTokens, loadedConfig.Tokens.Enabled)
			assertBoolPointer(t, "clipboard", testCase.expectClipboard, loadedConfig.Clipboard)
		})
	}
}

func assertBoolPointer(t *testing.T, name string, expected *bool, actual *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected no %s override, got %v", name, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("unexpected %s value", name)
	}
}

func TestLoadApplicationConfigurationEnvironmentOverridesFiles(t *testing.T) {
	workingDir := t.TempDir()
	writeConfigurationFixture(t, filepath.Join(workingDir, utils.LocalConfigFileName), "output:\n  directory: from-file\n  prefix: file\n")
	t.Setenv("MDSNAP_OUTPUT_DIRECTORY", "from-env")
	t.Setenv("MDSNAP_TOKENS_ENABLED", "true")

	loadedConfig, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, SkipGlobal: true})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	if loadedConfig.Output.Directory != "from-env" {
		t.Fatalf("expected environment directory, got %q", loadedConfig.Output.Directory)
	}
	if loadedConfig.Output.Prefix != "file" {
		t.Fatalf("expected file prefix to survive, got %q", loadedConfig.Output.Prefix)
	}
	assertBoolPointer(t, "tokens.enabled", boolPointer(true), loadedConfig.Tokens.Enabled)
}

func TestLoadApplicationConfigurationErrors(t *testing.T) {
	t.Run("missing_explicit_file", func(t *testing.T) {
		_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: t.TempDir(), ExplicitFilePath: "absent.yaml", SkipGlobal: true})
		if err == nil {
			t.Fatalf("expected error for missing explicit configuration")
		}
	})
	t.Run("directory_instead_of_file", func(t *testing.T) {
		workingDir := t.TempDir()
		if err := os.Mkdir(filepath.Join(workingDir, utils.LocalConfigFileName), 0o755); err != nil {
			t.Fatalf("create directory: %v", err)
		}
		_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, SkipGlobal: true})
		if err == nil {
			t.Fatalf("expected error when configuration path is a directory")
		}
	})
	t.Run("malformed_yaml", func(t *testing.T) {
		workingDir := t.TempDir()
		writeConfigurationFixture(t, filepath.Join(workingDir, utils.LocalConfigFileName), "output: [unterminated\n")
		_, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, SkipGlobal: true})
		if err == nil {
			t.Fatalf("expected error for malformed configuration")
		}
	})
}
