package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDotEnv_SetsUnsetVariables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "PL2CY_TEST_URI=bolt://dotenv:7687\nPL2CY_TEST_USER=fromfile\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write env file; %v", err)
	}

	t.Setenv("PL2CY_TEST_USER", "fromshell")
	t.Setenv("PL2CY_TEST_URI", "")
	os.Unsetenv("PL2CY_TEST_URI")

	if err := LoadDotEnv(path, true); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}

	if got := os.Getenv("PL2CY_TEST_URI"); got != "bolt://dotenv:7687" {
		t.Errorf("PL2CY_TEST_URI = %q, want value from file", got)
	}
	if got := os.Getenv("PL2CY_TEST_USER"); got != "fromshell" {
		t.Errorf("PL2CY_TEST_USER = %q, existing variable should win", got)
	}
}

func TestLoadDotEnv_MissingOptionalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.env")
	if err := LoadDotEnv(path, false); err != nil {
		t.Errorf("LoadDotEnv() error = %v, want nil for optional missing file", err)
	}
}

func TestLoadDotEnv_MissingRequiredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.env")
	if err := LoadDotEnv(path, true); err == nil {
		t.Error("LoadDotEnv() expected error for required missing file")
	}
}
