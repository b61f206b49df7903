package graph

import (
	"fmt"

	"github.com/GigaGaiaWorld/codex/internal/emit"
)

// neo4jSchema returns the statements that make the entity key unique.
// IF NOT EXISTS makes them safe to run on every apply.
func neo4jSchema(cfg Config) []string {
	return []string{
		fmt.Sprintf("CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
			emit.QuoteIdentifier(cfg.EntityLabel), emit.QuoteIdentifier(cfg.KeyProperty)),
	}
}

// falkorSchema returns the index statements for FalkorDB. FalkorDB has no
// IF NOT EXISTS, so errors for existing indexes are ignored by the caller.
func falkorSchema(cfg Config) []string {
	return []string{
		fmt.Sprintf("CREATE INDEX FOR (n:%s) ON (n.%s)",
			emit.QuoteIdentifier(cfg.EntityLabel), emit.QuoteIdentifier(cfg.KeyProperty)),
	}
}
