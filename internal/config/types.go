package config

import (
	"os"
	"time"
)

// Config is the root configuration structure for the application.
type Config struct {
	LogLevel      string        `yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
	LogFile       string        `yaml:"log_file" toml:"log_file" mapstructure:"log_file"`
	LogMaxSizeMB  int           `yaml:"log_max_size_mb" toml:"log_max_size_mb" mapstructure:"log_max_size_mb"`
	LogMaxBackups int           `yaml:"log_max_backups" toml:"log_max_backups" mapstructure:"log_max_backups"`
	Compile       CompileConfig `yaml:"compile" toml:"compile" mapstructure:"compile"`
	Graph         GraphConfig   `yaml:"graph" toml:"graph" mapstructure:"graph"`
	Apply         ApplyConfig   `yaml:"apply" toml:"apply" mapstructure:"apply"`
}

// CompileConfig holds statement rendering configuration.
type CompileConfig struct {
	Format      string `yaml:"format" toml:"format" mapstructure:"format"`
	EntityLabel string `yaml:"entity_label" toml:"entity_label" mapstructure:"entity_label"`
	KeyProperty string `yaml:"key_property" toml:"key_property" mapstructure:"key_property"`
}

// GraphConfig holds graph database connection configuration.
type GraphConfig struct {
	Backend               string `yaml:"backend" toml:"backend" mapstructure:"backend"`
	URI                   string `yaml:"uri" toml:"uri" mapstructure:"uri"`
	Username              string `yaml:"username" toml:"username" mapstructure:"username"`
	Password              string `yaml:"password,omitempty" toml:"password,omitempty" mapstructure:"password"`
	Database              string `yaml:"database" toml:"database" mapstructure:"database"`
	URIEnv                string `yaml:"uri_env" toml:"uri_env" mapstructure:"uri_env"`
	UsernameEnv           string `yaml:"username_env" toml:"username_env" mapstructure:"username_env"`
	PasswordEnv           string `yaml:"password_env" toml:"password_env" mapstructure:"password_env"`
	EnsureSchema          bool   `yaml:"ensure_schema" toml:"ensure_schema" mapstructure:"ensure_schema"`
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds" toml:"connect_timeout_seconds" mapstructure:"connect_timeout_seconds"`
}

// ResolveURI returns the URI from config or falls back to the environment variable.
func (c *GraphConfig) ResolveURI() string {
	return resolve(c.URI, c.URIEnv)
}

// ResolveUsername returns the username from config or falls back to the environment variable.
func (c *GraphConfig) ResolveUsername() string {
	return resolve(c.Username, c.UsernameEnv)
}

// ResolvePassword returns the password from config or falls back to the environment variable.
func (c *GraphConfig) ResolvePassword() string {
	return resolve(c.Password, c.PasswordEnv)
}

func resolve(value, env string) string {
	if value != "" {
		return value
	}
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}

// ConnectTimeout returns the connection verification timeout.
func (c *GraphConfig) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// ApplyConfig holds execution configuration.
type ApplyConfig struct {
	BatchSize        int     `yaml:"batch_size" toml:"batch_size" mapstructure:"batch_size"`
	MaxRetries       int     `yaml:"max_retries" toml:"max_retries" mapstructure:"max_retries"`
	InitialBackoffMs int     `yaml:"initial_backoff_ms" toml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs     int     `yaml:"max_backoff_ms" toml:"max_backoff_ms" mapstructure:"max_backoff_ms"`
	TimeoutMs        int     `yaml:"timeout_ms" toml:"timeout_ms" mapstructure:"timeout_ms"` // 0 = unbounded
	BatchTimeoutMs   int     `yaml:"batch_timeout_ms" toml:"batch_timeout_ms" mapstructure:"batch_timeout_ms"`
	RateLimit        float64 `yaml:"rate_limit" toml:"rate_limit" mapstructure:"rate_limit"` // statements/second, 0 = unlimited
	MetricsFile      string  `yaml:"metrics_file,omitempty" toml:"metrics_file,omitempty" mapstructure:"metrics_file"`
}

// InitialBackoff returns the initial retry interval.
func (c *ApplyConfig) InitialBackoff() time.Duration {
	return time.Duration(c.InitialBackoffMs) * time.Millisecond
}

// MaxBackoff returns the maximum retry interval.
func (c *ApplyConfig) MaxBackoff() time.Duration {
	return time.Duration(c.MaxBackoffMs) * time.Millisecond
}

// Timeout returns the whole-run timeout, zero when unbounded.
func (c *ApplyConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// BatchTimeout returns the per-batch timeout.
func (c *ApplyConfig) BatchTimeout() time.Duration {
	return time.Duration(c.BatchTimeoutMs) * time.Millisecond
}
