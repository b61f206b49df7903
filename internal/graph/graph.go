// Package graph provides the graph database stores that compiled statements
// are applied to.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Supported backends.
const (
	BackendNeo4j    = "neo4j"
	BackendFalkorDB = "falkordb"
)

// Store applies batches of statements to a graph database. A Store owns its
// connection: Open acquires it and Close releases it.
type Store interface {
	// Name returns the backend name.
	Name() string

	// Open connects and verifies the connection.
	Open(ctx context.Context) error

	// EnsureSchema creates the entity key index or constraint if missing.
	EnsureSchema(ctx context.Context) error

	// ExecBatch applies statements in one transaction.
	ExecBatch(ctx context.Context, statements []Statement) error

	// Close releases the connection. Closing an unopened store is a no-op.
	Close(ctx context.Context) error
}

// Statement is one Cypher statement with its parameters.
type Statement struct {
	Cypher string
	Params map[string]any
}

// Config contains graph connection configuration.
type Config struct {
	Backend  string
	URI      string
	Username string
	Password string
	// Database selects the Neo4j database or the FalkorDB graph name.
	Database string
	// EntityLabel and KeyProperty identify the entity key for EnsureSchema.
	EntityLabel    string
	KeyProperty    string
	ConnectTimeout time.Duration
}

// DefaultGraphName is the FalkorDB graph used when Database is empty.
const DefaultGraphName = "facts"

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendNeo4j,
		EntityLabel:    "Entity",
		KeyProperty:    "id",
		ConnectTimeout: 10 * time.Second,
	}
}

// Redacted returns a copy of the config safe to log.
func (c Config) Redacted() Config {
	if c.Password != "" {
		c.Password = "********"
	}
	return c
}

type options struct {
	config Config
	logger *slog.Logger
}

// Option configures a store.
type Option func(*options)

// WithConfig sets the configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	d := DefaultConfig()
	if o.config.EntityLabel == "" {
		o.config.EntityLabel = d.EntityLabel
	}
	if o.config.KeyProperty == "" {
		o.config.KeyProperty = d.KeyProperty
	}
	if o.config.ConnectTimeout <= 0 {
		o.config.ConnectTimeout = d.ConnectTimeout
	}
	return o
}

// New creates the store for the configured backend.
func New(opts ...Option) (Store, error) {
	o := newOptions(opts)

	switch strings.ToLower(o.config.Backend) {
	case BackendNeo4j, "":
		return NewNeo4jStore(opts...), nil
	case BackendFalkorDB:
		return NewFalkorDBStore(opts...), nil
	default:
		return nil, fmt.Errorf("unknown graph backend %q", o.config.Backend)
	}
}
