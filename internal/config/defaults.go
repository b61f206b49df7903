package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel      = "info"
	DefaultLogFile       = "~/.config/pl2cy/pl2cy.log"
	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3

	// Compile defaults.
	DefaultCompileFormat      = "cypher"
	DefaultCompileEntityLabel = "Entity"
	DefaultCompileKeyProperty = "id"

	// Graph defaults.
	DefaultGraphBackend               = "neo4j"
	DefaultGraphURIEnv                = "NEO4J_URI"
	DefaultGraphUsernameEnv           = "NEO4J_USER"
	DefaultGraphPasswordEnv           = "NEO4J_PASSWORD"
	DefaultGraphEnsureSchema          = true
	DefaultGraphConnectTimeoutSeconds = 10

	// Apply defaults.
	DefaultApplyBatchSize        = 100
	DefaultApplyMaxRetries       = 3
	DefaultApplyInitialBackoffMs = 200
	DefaultApplyMaxBackoffMs     = 5000
	DefaultApplyTimeoutMs        = 0
	DefaultApplyBatchTimeoutMs   = 30000
	DefaultApplyRateLimit        = 0
)

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() Config {
	return Config{
		LogLevel:      DefaultLogLevel,
		LogFile:       DefaultLogFile,
		LogMaxSizeMB:  DefaultLogMaxSizeMB,
		LogMaxBackups: DefaultLogMaxBackups,
		Compile: CompileConfig{
			Format:      DefaultCompileFormat,
			EntityLabel: DefaultCompileEntityLabel,
			KeyProperty: DefaultCompileKeyProperty,
		},
		Graph: GraphConfig{
			Backend:               DefaultGraphBackend,
			URIEnv:                DefaultGraphURIEnv,
			UsernameEnv:           DefaultGraphUsernameEnv,
			PasswordEnv:           DefaultGraphPasswordEnv,
			EnsureSchema:          DefaultGraphEnsureSchema,
			ConnectTimeoutSeconds: DefaultGraphConnectTimeoutSeconds,
		},
		Apply: ApplyConfig{
			BatchSize:        DefaultApplyBatchSize,
			MaxRetries:       DefaultApplyMaxRetries,
			InitialBackoffMs: DefaultApplyInitialBackoffMs,
			MaxBackoffMs:     DefaultApplyMaxBackoffMs,
			TimeoutMs:        DefaultApplyTimeoutMs,
			BatchTimeoutMs:   DefaultApplyBatchTimeoutMs,
			RateLimit:        DefaultApplyRateLimit,
		},
	}
}

// setViperDefaults registers all default configuration values with a viper instance.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("log_max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log_max_backups", DefaultLogMaxBackups)

	// Compile defaults
	v.SetDefault("compile.format", DefaultCompileFormat)
	v.SetDefault("compile.entity_label", DefaultCompileEntityLabel)
	v.SetDefault("compile.key_property", DefaultCompileKeyProperty)

	// Graph defaults
	v.SetDefault("graph.backend", DefaultGraphBackend)
	v.SetDefault("graph.uri", "")
	v.SetDefault("graph.username", "")
	v.SetDefault("graph.password", "")
	v.SetDefault("graph.database", "")
	v.SetDefault("graph.uri_env", DefaultGraphURIEnv)
	v.SetDefault("graph.username_env", DefaultGraphUsernameEnv)
	v.SetDefault("graph.password_env", DefaultGraphPasswordEnv)
	v.SetDefault("graph.ensure_schema", DefaultGraphEnsureSchema)
	v.SetDefault("graph.connect_timeout_seconds", DefaultGraphConnectTimeoutSeconds)

	// Apply defaults
	v.SetDefault("apply.batch_size", DefaultApplyBatchSize)
	v.SetDefault("apply.max_retries", DefaultApplyMaxRetries)
	v.SetDefault("apply.initial_backoff_ms", DefaultApplyInitialBackoffMs)
	v.SetDefault("apply.max_backoff_ms", DefaultApplyMaxBackoffMs)
	v.SetDefault("apply.timeout_ms", DefaultApplyTimeoutMs)
	v.SetDefault("apply.batch_timeout_ms", DefaultApplyBatchTimeoutMs)
	v.SetDefault("apply.rate_limit", DefaultApplyRateLimit)
	v.SetDefault("apply.metrics_file", "")
}
