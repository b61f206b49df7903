package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// validLogLevels lists recognized log levels.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validFormats lists recognized compile output formats.
var validFormats = map[string]bool{
	"cypher": true,
	"json":   true,
}

// validBackends lists recognized graph backends.
var validBackends = map[string]bool{
	"neo4j":    true,
	"falkordb": true,
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of: debug, info, warn, error; got %q", cfg.LogLevel),
		})
	}

	if cfg.LogMaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "log_max_size_mb",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.LogMaxSizeMB),
		})
	}

	if cfg.LogMaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "log_max_backups",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.LogMaxBackups),
		})
	}

	// Validate compile config
	if !validFormats[cfg.Compile.Format] {
		errs = append(errs, ValidationError{
			Field:   "compile.format",
			Message: fmt.Sprintf("must be one of: cypher, json; got %q", cfg.Compile.Format),
		})
	}

	if cfg.Compile.EntityLabel == "" {
		errs = append(errs, ValidationError{
			Field:   "compile.entity_label",
			Message: "must not be empty",
		})
	}

	if cfg.Compile.KeyProperty == "" {
		errs = append(errs, ValidationError{
			Field:   "compile.key_property",
			Message: "must not be empty",
		})
	}

	// Validate graph config
	if !validBackends[strings.ToLower(cfg.Graph.Backend)] {
		errs = append(errs, ValidationError{
			Field:   "graph.backend",
			Message: fmt.Sprintf("must be one of: neo4j, falkordb; got %q", cfg.Graph.Backend),
		})
	}

	if cfg.Graph.ConnectTimeoutSeconds < 1 {
		errs = append(errs, ValidationError{
			Field:   "graph.connect_timeout_seconds",
			Message: fmt.Sprintf("must be at least 1 second, got %d", cfg.Graph.ConnectTimeoutSeconds),
		})
	}

	// Validate apply config
	if cfg.Apply.BatchSize < 1 {
		errs = append(errs, ValidationError{
			Field:   "apply.batch_size",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Apply.BatchSize),
		})
	}

	if cfg.Apply.MaxRetries < 0 {
		errs = append(errs, ValidationError{
			Field:   "apply.max_retries",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Apply.MaxRetries),
		})
	}

	if cfg.Apply.InitialBackoffMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "apply.initial_backoff_ms",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Apply.InitialBackoffMs),
		})
	}

	if cfg.Apply.MaxBackoffMs < cfg.Apply.InitialBackoffMs {
		errs = append(errs, ValidationError{
			Field:   "apply.max_backoff_ms",
			Message: fmt.Sprintf("must be at least initial_backoff_ms (%d), got %d", cfg.Apply.InitialBackoffMs, cfg.Apply.MaxBackoffMs),
		})
	}

	if cfg.Apply.TimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "apply.timeout_ms",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Apply.TimeoutMs),
		})
	}

	if cfg.Apply.BatchTimeoutMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "apply.batch_timeout_ms",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Apply.BatchTimeoutMs),
		})
	}

	if cfg.Apply.RateLimit < 0 {
		errs = append(errs, ValidationError{
			Field:   "apply.rate_limit",
			Message: fmt.Sprintf("must be non-negative, got %g", cfg.Apply.RateLimit),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateConnection checks that resolved connection parameters are present
// for the backend: Neo4j needs uri, username and password; FalkorDB needs
// uri. Call it after flags and environment fallbacks are applied.
func ValidateConnection(backend, uri, username, password string) error {
	var errs ValidationErrors

	missing := func(field, hint string) {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("is required for the %s backend (set %s)", backend, hint),
		})
	}

	switch strings.ToLower(backend) {
	case "neo4j", "":
		if uri == "" {
			missing("graph.uri", "--uri, graph.uri or the graph.uri_env variable")
		}
		if username == "" {
			missing("graph.username", "--user, graph.username or the graph.username_env variable")
		}
		if password == "" {
			missing("graph.password", "--password, graph.password or the graph.password_env variable")
		}
	case "falkordb":
		if uri == "" {
			missing("graph.uri", "--uri, graph.uri or the graph.uri_env variable")
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "graph.backend",
			Message: fmt.Sprintf("must be one of: neo4j, falkordb; got %q", backend),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}
