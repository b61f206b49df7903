// Package compile implements the compile command.
package compile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GigaGaiaWorld/codex/internal/compile"
	"github.com/GigaGaiaWorld/codex/internal/config"
	"github.com/GigaGaiaWorld/codex/internal/cmdutil"
	"github.com/GigaGaiaWorld/codex/internal/emit"
	"github.com/GigaGaiaWorld/codex/internal/fsutil"
	"github.com/GigaGaiaWorld/codex/internal/report"
)

// Flag variables for the compile command.
var (
	compileOutput string
	compileFormat string
	compileQuiet  bool
)

// CompileCmd compiles a fact file into graph statements.
var CompileCmd = &cobra.Command{
	Use:   "compile <facts-file>",
	Short: "Compile a fact file into Cypher statements",
	Long: "Compile a fact file into Cypher statements.\n\n" +
		"Reads unary and binary ground facts, one per clause, and writes an ordered, " +
		"deduplicated list of idempotent upsert statements. Entities are created before " +
		"any label or relationship that references them. Use - to read from stdin.\n\n" +
		"The output goes to stdout unless --output is given, in which case the file is " +
		"replaced atomically and left untouched on any error. A summary is printed to " +
		"stderr unless --quiet is set.",
	Example: `  # Compile to stdout
  pl2cy compile kb.pl

  # Compile to a file
  pl2cy compile kb.pl -o kb.cypher

  # Compile to the JSON statement document
  pl2cy compile kb.pl -f json -o kb.json

  # Compile from stdin
  cat kb.pl | pl2cy compile -`,
	Args:    cobra.ExactArgs(1),
	PreRunE: validateCompile,
	RunE:    runCompile,
}

func init() {
	CompileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "Output file (default stdout)")
	CompileCmd.Flags().StringVarP(&compileFormat, "format", "f", "", "Output format: cypher or json (default from config)")
	CompileCmd.Flags().BoolVarP(&compileQuiet, "quiet", "q", false, "Suppress the summary")
}

func validateCompile(cmd *cobra.Command, args []string) error {
	if compileFormat != "" {
		formats := emit.NewEmitter(emit.DefaultOptions()).ListFormats()
		if !slices.Contains(formats, compileFormat) {
			return fmt.Errorf("invalid format %q; must be one of: %s", compileFormat, strings.Join(formats, ", "))
		}
	}

	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Get()
	if err != nil {
		return err
	}

	format := compileFormat
	if format == "" {
		format = cfg.Compile.Format
	}

	input, err := cmdutil.ResolvePath(args[0])
	if err != nil {
		return err
	}
	output, err := cmdutil.ResolvePath(compileOutput)
	if err != nil {
		return err
	}

	program, err := compile.CompileFileAs(input, args[0])
	if err != nil {
		return err
	}

	emitter := emit.NewEmitter(emit.Options{
		EntityLabel: cfg.Compile.EntityLabel,
		KeyProperty: cfg.Compile.KeyProperty,
	})
	data, result, err := emitter.Emit(program, format)
	if err != nil {
		return err
	}

	if fsutil.IsStdio(output) {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return fmt.Errorf("failed to write output; %w", err)
		}
	} else if err := fsutil.WriteFileAtomic(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write output %s; %w", output, err)
	}

	if !compileQuiet {
		report.New(cmd.ErrOrStderr()).Compile(program, result, compileOutput)
	}

	return nil
}
