package events

import "time"

// RunEvent describes an apply run as a whole.
type RunEvent struct {
	RunID      string
	Backend    string
	Batches    int
	Statements int
}

// BatchEvent describes a single batch.
type BatchEvent struct {
	RunID string
	// Batch is 1-based.
	Batch      int
	Batches    int
	Statements int
	Attempt    int
	// Backoff is the wait before the next attempt; set on BatchRetrying only.
	Backoff time.Duration
	Error   string
}

// RunCompletedEvent summarizes a finished run.
type RunCompletedEvent struct {
	RunID               string
	Backend             string
	CommittedBatches    int
	CommittedStatements int
	Retries             int
	Duration            time.Duration
}

// RunFailedEvent summarizes a run that stopped early.
type RunFailedEvent struct {
	RunID               string
	Batch               int
	Batches             int
	CommittedBatches    int
	CommittedStatements int
	Error               string
}

// NewApplyStarted creates an ApplyStarted event.
func NewApplyStarted(runID, backend string, batches, statements int) Event {
	return NewEvent(ApplyStarted, &RunEvent{
		RunID:      runID,
		Backend:    backend,
		Batches:    batches,
		Statements: statements,
	})
}

// NewBatchCommitted creates a BatchCommitted event.
func NewBatchCommitted(runID string, batch, batches, statements, attempts int) Event {
	return NewEvent(BatchCommitted, &BatchEvent{
		RunID:      runID,
		Batch:      batch,
		Batches:    batches,
		Statements: statements,
		Attempt:    attempts,
	})
}

// NewBatchRetrying creates a BatchRetrying event.
func NewBatchRetrying(runID string, batch, batches, statements, attempt int, next time.Duration, err error) Event {
	return NewEvent(BatchRetrying, &BatchEvent{
		RunID:      runID,
		Batch:      batch,
		Batches:    batches,
		Statements: statements,
		Attempt:    attempt,
		Backoff:    next,
		Error:      errString(err),
	})
}

// NewApplyCompleted creates an ApplyCompleted event.
func NewApplyCompleted(runID, backend string, batches, statements, retries int, d time.Duration) Event {
	return NewEvent(ApplyCompleted, &RunCompletedEvent{
		RunID:               runID,
		Backend:             backend,
		CommittedBatches:    batches,
		CommittedStatements: statements,
		Retries:             retries,
		Duration:            d,
	})
}

// NewApplyFailed creates an ApplyFailed event.
func NewApplyFailed(runID string, batch, batches, committedBatches, committedStatements int, err error) Event {
	return NewEvent(ApplyFailed, &RunFailedEvent{
		RunID:               runID,
		Batch:               batch,
		Batches:             batches,
		CommittedBatches:    committedBatches,
		CommittedStatements: committedStatements,
		Error:               errString(err),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
