package apply

import (
	"fmt"
	"time"
)

// Report summarizes a successful apply run.
type Report struct {
	RunID               string        `json:"run_id"`
	Backend             string        `json:"backend"`
	Batches             int           `json:"batches"`
	Statements          int           `json:"statements"`
	CommittedBatches    int           `json:"committed_batches"`
	CommittedStatements int           `json:"committed_statements"`
	Retries             int           `json:"retries"`
	Duration            time.Duration `json:"duration"`
}

// ExecutionFailure reports a run that stopped before committing every
// batch. Batches before Batch were committed; Batch and later were not.
type ExecutionFailure struct {
	RunID string
	// Batch is the 1-based number of the failing batch.
	Batch               int
	Batches             int
	CommittedBatches    int
	CommittedStatements int
	// Attempts is how often the failing batch was tried.
	Attempts int
	Err      error
}

func (e *ExecutionFailure) Error() string {
	return fmt.Sprintf("execution failed at batch %d of %d after %d attempt(s); %d batch(es) with %d statement(s) committed: %v",
		e.Batch, e.Batches, e.Attempts, e.CommittedBatches, e.CommittedStatements, e.Err)
}

func (e *ExecutionFailure) Unwrap() error { return e.Err }
