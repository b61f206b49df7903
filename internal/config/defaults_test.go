package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestSetViperDefaults_MatchesNewDefaultConfig(t *testing.T) {
	v := viper.New()
	setViperDefaults(v)

	cfg, err := unmarshalConfig(v)
	if err != nil {
		t.Fatalf("unmarshalConfig() error = %v", err)
	}

	want := NewDefaultConfig()
	if *cfg != want {
		t.Errorf("viper defaults = %+v, want %+v", *cfg, want)
	}
}

func TestDefaults_GraphEnvNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"uri", DefaultGraphURIEnv, "NEO4J_URI"},
		{"username", DefaultGraphUsernameEnv, "NEO4J_USER"},
		{"password", DefaultGraphPasswordEnv, "NEO4J_PASSWORD"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s env = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestDefaults_ApplyBounds(t *testing.T) {
	if DefaultApplyBatchSize < 1 {
		t.Errorf("DefaultApplyBatchSize = %d, want >= 1", DefaultApplyBatchSize)
	}
	if DefaultApplyMaxBackoffMs < DefaultApplyInitialBackoffMs {
		t.Errorf("DefaultApplyMaxBackoffMs = %d, want >= %d", DefaultApplyMaxBackoffMs, DefaultApplyInitialBackoffMs)
	}
	if DefaultApplyTimeoutMs != 0 {
		t.Errorf("DefaultApplyTimeoutMs = %d, want 0 (unbounded)", DefaultApplyTimeoutMs)
	}
}

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}
