package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points every config search location at an empty temp directory.
func isolate(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("PL2CY_CONFIG_DIR", tmpDir)
	t.Setenv("HOME", tmpDir)

	t.Chdir(tmpDir)

	Reset()
	t.Cleanup(Reset)

	return tmpDir
}

func TestInit_NoConfigFile_UsesDefaults(t *testing.T) {
	isolate(t)

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error when no config file exists: %v", err)
	}

	if path := ConfigFilePath(); path != "" {
		t.Errorf("ConfigFilePath() = %q, want empty string when no config file", path)
	}

	cfg, err := Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cfg.Apply.BatchSize != DefaultApplyBatchSize {
		t.Errorf("Apply.BatchSize = %d, want %d", cfg.Apply.BatchSize, DefaultApplyBatchSize)
	}
	if cfg.Graph.Backend != DefaultGraphBackend {
		t.Errorf("Graph.Backend = %q, want %q", cfg.Graph.Backend, DefaultGraphBackend)
	}
}

func TestInit_ConfigInEnvDir_LoadsFromEnvDir(t *testing.T) {
	envDir := isolate(t)
	configPath := filepath.Join(envDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("apply:\n  batch_size: 25\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}

	if loaded := ConfigFilePath(); loaded != configPath {
		t.Errorf("ConfigFilePath() = %q, want %q", loaded, configPath)
	}
	if got := GetInt("apply.batch_size"); got != 25 {
		t.Errorf("apply.batch_size = %d, want 25", got)
	}
}

func TestInit_ConfigInDefaultDir_LoadsFromDefaultDir(t *testing.T) {
	home := isolate(t)
	t.Setenv("PL2CY_CONFIG_DIR", "")

	dir := filepath.Join(home, ".config", "pl2cy")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}

	if got := GetString("log_level"); got != "debug" {
		t.Errorf("log_level = %q, want %q", got, "debug")
	}
}

func TestInit_MalformedConfig_ReturnsError(t *testing.T) {
	envDir := isolate(t)
	if err := os.WriteFile(filepath.Join(envDir, "config.yaml"), []byte("apply: [unclosed\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if err := Init(); err == nil {
		t.Error("Init() should fail on malformed config")
	}
}

func TestInit_EnvOverridesConfig(t *testing.T) {
	envDir := isolate(t)
	if err := os.WriteFile(filepath.Join(envDir, "config.yaml"), []byte("graph:\n  backend: neo4j\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("PL2CY_GRAPH_BACKEND", "falkordb")
	t.Setenv("PL2CY_APPLY_MAX_RETRIES", "7")

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}

	cfg, err := Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cfg.Graph.Backend != "falkordb" {
		t.Errorf("Graph.Backend = %q, want %q", cfg.Graph.Backend, "falkordb")
	}
	if cfg.Apply.MaxRetries != 7 {
		t.Errorf("Apply.MaxRetries = %d, want 7", cfg.Apply.MaxRetries)
	}
}

func TestInitFromPath_MissingFile_ReturnsError(t *testing.T) {
	dir := isolate(t)

	if err := InitFromPath(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("InitFromPath() should fail for a missing file")
	}
}

func TestInitFromPath_LoadsExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("compile:\n  format: json\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if err := InitFromPath(path); err != nil {
		t.Fatalf("InitFromPath() error = %v", err)
	}
	if GetConfigPath() != path {
		t.Errorf("GetConfigPath() = %q, want %q", GetConfigPath(), path)
	}
	if got := GetString("compile.format"); got != "json" {
		t.Errorf("compile.format = %q, want %q", got, "json")
	}
}

func TestSet_OverridesValue(t *testing.T) {
	isolate(t)
	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Set("graph.ensure_schema", false)
	if GetBool("graph.ensure_schema") {
		t.Error("graph.ensure_schema should be false after Set")
	}
}

func TestGetPath_ExpandsHome(t *testing.T) {
	home := isolate(t)
	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	Set("apply.metrics_file", "~/metrics.prom")
	want := filepath.Join(home, "metrics.prom")
	if got := GetPath("apply.metrics_file"); got != want {
		t.Errorf("GetPath() = %q, want %q", got, want)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~", home},
		{"~/x/y", filepath.Join(home, "x", "y")},
		{"~user/x", "~user/x"},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGetConfigPath_DefaultsWhenNoFile(t *testing.T) {
	dir := isolate(t)
	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	want := filepath.Join(dir, "config.yaml")
	if got := GetConfigPath(); got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}
