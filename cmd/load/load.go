// Package load implements the load command.
package load

import (
	"github.com/spf13/cobra"

	"github.com/GigaGaiaWorld/codex/internal/cmdutil"
	"github.com/GigaGaiaWorld/codex/internal/compile"
	"github.com/GigaGaiaWorld/codex/internal/config"
	"github.com/GigaGaiaWorld/codex/internal/emit"
)

// Flag variables for the load command.
var (
	loadConn  cmdutil.ConnectionFlags
	loadFlags cmdutil.ApplyFlags
)

// LoadCmd compiles a fact file and applies it in one step.
var LoadCmd = &cobra.Command{
	Use:   "load <facts-file>",
	Short: "Compile a fact file and apply it to a graph database",
	Long: "Compile a fact file and apply it to a graph database.\n\n" +
		"Equivalent to compile followed by apply, except that statements are sent as " +
		"parameterized queries instead of literal Cypher text. Accepts the same " +
		"connection and batching flags as apply.",
	Example: `  # Load facts into Neo4j
  pl2cy load kb.pl

  # Load into FalkorDB graph "kb"
  pl2cy load kb.pl --backend falkordb --uri redis://localhost:6379 --database kb`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateLoad,
	RunE:    runLoad,
}

func init() {
	loadConn.Register(LoadCmd)
	loadFlags.Register(LoadCmd)
}

func validateLoad(cmd *cobra.Command, args []string) error {
	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	input, err := cmdutil.ResolvePath(args[0])
	if err != nil {
		return err
	}

	program, err := compile.CompileFileAs(input, args[0])
	if err != nil {
		return err
	}

	templates := emit.Templates(program, emit.Options{
		EntityLabel: cfg.Compile.EntityLabel,
		KeyProperty: cfg.Compile.KeyProperty,
	})

	_, err = cmdutil.RunApply(cmd.Context(), cmd, templates, loadConn, loadFlags)
	return err
}
