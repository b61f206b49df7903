package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/GigaGaiaWorld/codex/internal/config"
	"github.com/GigaGaiaWorld/codex/internal/graph"
)

// ConnectionFlags holds command-line overrides for the graph connection.
type ConnectionFlags struct {
	Backend  string
	URI      string
	Username string
	Password string
	Database string
	EnvFile  string
}

// Register adds the connection flags to cmd.
func (f *ConnectionFlags) Register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.Backend, "backend", "", "Graph backend: neo4j or falkordb (default from config)")
	flags.StringVar(&f.URI, "uri", "", "Graph database URI")
	flags.StringVar(&f.Username, "user", "", "Graph database username")
	flags.StringVar(&f.Password, "password", "", "Graph database password")
	flags.StringVar(&f.Database, "database", "", "Neo4j database or FalkorDB graph name")
	flags.StringVar(&f.EnvFile, "env-file", "", "Dotenv file with connection variables (default ./.env if present)")
}

// ResolveGraphConfig builds the store configuration. Each parameter comes
// from the first non-empty source of: flag, config value, environment
// variable named in config. The dotenv file is loaded first and never
// overrides variables already set.
func ResolveGraphConfig(cfg *config.Config, flags ConnectionFlags) (graph.Config, error) {
	if err := config.LoadDotEnv(flags.EnvFile, flags.EnvFile != ""); err != nil {
		return graph.Config{}, err
	}

	gc := cfg.Graph
	resolved := graph.Config{
		Backend:        firstNonEmpty(flags.Backend, gc.Backend),
		URI:            firstNonEmpty(flags.URI, gc.ResolveURI()),
		Username:       firstNonEmpty(flags.Username, gc.ResolveUsername()),
		Password:       firstNonEmpty(flags.Password, gc.ResolvePassword()),
		Database:       firstNonEmpty(flags.Database, gc.Database),
		EntityLabel:    cfg.Compile.EntityLabel,
		KeyProperty:    cfg.Compile.KeyProperty,
		ConnectTimeout: gc.ConnectTimeout(),
	}

	if err := config.ValidateConnection(resolved.Backend, resolved.URI, resolved.Username, resolved.Password); err != nil {
		return graph.Config{}, err
	}

	return resolved, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
