// Package testutil provides testing utilities for isolated test environments.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GigaGaiaWorld/codex/internal/config"
)

// TestEnv provides an isolated test environment with its own config directory.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
}

// NewTestEnv creates an isolated test environment.
// It uses environment variables to override all paths, ensuring complete
// isolation even when tests run in parallel across packages.
// Cleanup is automatic via t.Cleanup.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	// Create temp directory for this test's config
	root := t.TempDir()
	configDir := filepath.Join(root, "config")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create test config dir: %v", err)
	}

	// Use t.Setenv for automatic cleanup - this is test-scoped
	// These env vars override viper settings via AutomaticEnv()
	t.Setenv("HOME", root)
	t.Setenv("PL2CY_CONFIG_DIR", configDir)
	t.Setenv("PL2CY_LOG_FILE", filepath.Join(configDir, "pl2cy.log"))

	// Connection credentials must come from the test, never the shell
	t.Setenv(config.DefaultGraphURIEnv, "")
	t.Setenv(config.DefaultGraphUsernameEnv, "")
	t.Setenv(config.DefaultGraphPasswordEnv, "")

	env := &TestEnv{
		t:         t,
		ConfigDir: configDir,
	}
	env.reinit()

	// Register cleanup to reset config state
	t.Cleanup(func() {
		config.Reset()
	})

	return env
}

// reinit resets and reinitializes config with the current env vars.
func (e *TestEnv) reinit() {
	e.t.Helper()

	config.Reset()
	if err := config.Init(); err != nil {
		e.t.Fatalf("failed to initialize test config: %v", err)
	}
}

// ConfigPath returns the path of the config file inside the test environment.
func (e *TestEnv) ConfigPath() string {
	return filepath.Join(e.ConfigDir, "config.yaml")
}

// LogPath returns the log file path configured for the test environment.
func (e *TestEnv) LogPath() string {
	return filepath.Join(e.ConfigDir, "pl2cy.log")
}

// WriteConfig writes content as the config file and reloads configuration.
func (e *TestEnv) WriteConfig(content string) string {
	e.t.Helper()

	path := e.ConfigPath()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		e.t.Fatalf("failed to write test config: %v", err)
	}
	e.reinit()
	return path
}

// CreateTestDir creates a test directory within the test environment's temp space.
// Returns the absolute path to the created directory.
func (e *TestEnv) CreateTestDir(name string) string {
	e.t.Helper()

	// Use a separate temp dir for test data (not inside config dir)
	testDataDir := filepath.Join(e.t.TempDir(), "testdata", name)
	if err := os.MkdirAll(testDataDir, 0755); err != nil {
		e.t.Fatalf("failed to create test dir %s: %v", name, err)
	}
	return testDataDir
}

// CreateTestFile creates a test file with the given content.
// Returns the absolute path to the created file.
func (e *TestEnv) CreateTestFile(dir, name, content string) string {
	e.t.Helper()

	filePath := filepath.Join(dir, name)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to create test file %s: %v", filePath, err)
	}
	return filePath
}
