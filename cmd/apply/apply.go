// Package apply implements the apply command.
package apply

import (
	"github.com/spf13/cobra"

	"github.com/GigaGaiaWorld/codex/internal/cmdutil"
	"github.com/GigaGaiaWorld/codex/internal/emit"
)

// Flag variables for the apply command.
var (
	applyConn  cmdutil.ConnectionFlags
	applyFlags cmdutil.ApplyFlags
)

// ApplyCmd executes a compiled statement file against a graph database.
var ApplyCmd = &cobra.Command{
	Use:   "apply <compiled-file>",
	Short: "Execute compiled statements against a graph database",
	Long: "Execute compiled statements against a graph database.\n\n" +
		"Reads a file produced by compile (.json files are read as statement documents, " +
		"anything else as Cypher) and applies it in order, --batch-size statements per " +
		"transaction. Transient failures are retried with exponential backoff; the run " +
		"stops at the first batch that cannot be committed and reports how many batches " +
		"were committed before it. Every statement is an upsert, so re-running after a " +
		"failure is safe.\n\n" +
		"Connection parameters come from flags, then the config file, then the " +
		"environment variables named in config (NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD " +
		"by default). A .env file is read first without overriding the environment.",
	Example: `  # Apply to Neo4j using NEO4J_* variables
  pl2cy apply kb.cypher

  # Apply to FalkorDB
  pl2cy apply kb.json --backend falkordb --uri redis://localhost:6379

  # Smaller batches with a deadline and metrics for node_exporter
  pl2cy apply kb.cypher --batch-size 20 --timeout 5m --metrics-file /var/lib/node_exporter/pl2cy.prom`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateApply,
	RunE:    runApply,
}

func init() {
	applyConn.Register(ApplyCmd)
	applyFlags.Register(ApplyCmd)
}

func validateApply(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	input, err := cmdutil.ResolvePath(args[0])
	if err != nil {
		return err
	}

	templates, err := emit.LoadTemplates(input)
	if err != nil {
		return err
	}

	_, err = cmdutil.RunApply(cmd.Context(), cmd, templates, applyConn, applyFlags)
	return err
}
