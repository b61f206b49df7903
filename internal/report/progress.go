package report

import (
	"fmt"
	"time"

	"github.com/GigaGaiaWorld/codex/internal/events"
)

// Progress prints one line per batch event. Run-level events are left to
// Apply and to the error the run returns.
func (p *Printer) Progress(e events.Event) {
	b, ok := e.Payload.(*events.BatchEvent)
	if !ok {
		return
	}

	switch e.Type {
	case events.BatchCommitted:
		fmt.Fprintf(p.w, "  %s batch %d/%d committed (%d statement(s))\n",
			p.styles.success.Render(SuccessIndicator), b.Batch, b.Batches, b.Statements)
	case events.BatchRetrying:
		fmt.Fprintf(p.w, "  %s\n", p.styles.warning.Render(fmt.Sprintf(
			"batch %d/%d attempt %d failed, retrying in %s: %s",
			b.Batch, b.Batches, b.Attempt, b.Backoff.Round(time.Millisecond), b.Error)))
	}
}
