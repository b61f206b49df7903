// Package report renders human-readable compile and apply summaries.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/GigaGaiaWorld/codex/internal/apply"
	"github.com/GigaGaiaWorld/codex/internal/compile"
	"github.com/GigaGaiaWorld/codex/internal/emit"
)

// Printer writes summaries to a terminal or any other writer. Color is
// enabled only when the writer is a terminal that supports it.
type Printer struct {
	w      io.Writer
	styles styles
}

// New creates a Printer for w.
func New(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

// Compile prints the summary of a compiled program. dest names where the
// output went; empty means stdout.
func (p *Printer) Compile(program *compile.Program, result *emit.Result, dest string) {
	if dest == "" || dest == "-" {
		dest = "stdout"
	}

	source := program.Source
	if source == "" || source == "-" {
		source = "stdin"
	}

	p.heading(fmt.Sprintf("compiled %s", source))
	s := program.Stats
	p.row("facts", fmt.Sprint(s.Facts))
	p.row("entities", fmt.Sprint(s.Entities))
	p.row("labels", fmt.Sprint(s.Labels))
	p.row("relationships", fmt.Sprint(s.Relationships))
	if s.DuplicateLabels > 0 || s.DuplicateRelationships > 0 {
		p.row("duplicates", p.styles.warning.Render(
			fmt.Sprintf("%d label(s), %d relationship(s) skipped", s.DuplicateLabels, s.DuplicateRelationships)))
	}
	if result != nil {
		p.row("statements", fmt.Sprintf("%d (%s, %d bytes)", result.Statements, result.Format, result.OutputSize))
	} else {
		p.row("statements", fmt.Sprint(len(program.Statements)))
	}
	p.row("output", dest)
}

// Apply prints the summary of a successful run.
func (p *Printer) Apply(r *apply.Report) {
	p.heading(fmt.Sprintf("applied %d statement(s) to %s", r.CommittedStatements, r.Backend))
	p.row("run", p.styles.muted.Render(r.RunID))
	p.row("batches", fmt.Sprintf("%d/%d committed", r.CommittedBatches, r.Batches))
	p.row("retries", fmt.Sprint(r.Retries))
	p.row("duration", r.Duration.Round(time.Millisecond).String())
}

func (p *Printer) heading(text string) {
	indicator := p.styles.success.Render(SuccessIndicator)
	fmt.Fprintf(p.w, "%s %s\n", indicator, p.styles.title.Render(text))
}

func (p *Printer) row(label, value string) {
	fmt.Fprintf(p.w, "%s%s\n", p.styles.label.Render(label), p.styles.value.Render(value))
}
