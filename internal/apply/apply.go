// Package apply executes compiled statements against a graph store in
// ordered transactional batches with bounded retry of transient failures.
package apply

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/GigaGaiaWorld/codex/internal/emit"
	"github.com/GigaGaiaWorld/codex/internal/events"
	"github.com/GigaGaiaWorld/codex/internal/graph"
	"github.com/GigaGaiaWorld/codex/internal/metrics"
)

// Defaults for an Applier.
const (
	DefaultBatchSize    = 100
	DefaultBatchTimeout = 30 * time.Second
	closeTimeout        = 10 * time.Second
)

// Applier applies statements to a store. It opens the store at the start of
// each Apply and closes it on every exit path.
type Applier struct {
	store        graph.Store
	batchSize    int
	retry        RetryPolicy
	rateLimit    float64
	limiter      *rate.Limiter
	timeout      time.Duration
	batchTimeout time.Duration
	ensureSchema bool
	logger       *slog.Logger
	metrics      *metrics.ApplyMetrics
	bus          events.Bus
}

// Option configures an Applier.
type Option func(*Applier)

// WithBatchSize sets the number of statements per transaction.
func WithBatchSize(n int) Option {
	return func(a *Applier) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

// WithRetryPolicy sets the retry policy for transient failures.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(a *Applier) {
		a.retry = p
	}
}

// WithRateLimit throttles execution to perSecond statements per second.
// Zero disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(a *Applier) {
		a.rateLimit = perSecond
	}
}

// WithTimeout bounds the whole run. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Applier) {
		a.timeout = d
	}
}

// WithBatchTimeout bounds each batch attempt. A batch attempt that exceeds
// it is treated as a transient failure.
func WithBatchTimeout(d time.Duration) Option {
	return func(a *Applier) {
		a.batchTimeout = d
	}
}

// WithEnsureSchema controls whether the store schema is created before the
// first batch.
func WithEnsureSchema(enabled bool) Option {
	return func(a *Applier) {
		a.ensureSchema = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Applier) {
		a.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.ApplyMetrics) Option {
	return func(a *Applier) {
		a.metrics = m
	}
}

// WithEvents publishes progress events to bus. The caller owns the bus.
func WithEvents(bus events.Bus) Option {
	return func(a *Applier) {
		a.bus = bus
	}
}

// New creates an Applier for store.
func New(store graph.Store, opts ...Option) *Applier {
	a := &Applier{
		store:        store,
		batchSize:    DefaultBatchSize,
		retry:        DefaultRetryPolicy(),
		batchTimeout: DefaultBatchTimeout,
		ensureSchema: true,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.rateLimit > 0 {
		burst := max(a.batchSize, int(math.Ceil(a.rateLimit)))
		a.limiter = rate.NewLimiter(rate.Limit(a.rateLimit), burst)
	}

	return a
}

// Apply executes templates in order, batchSize statements per transaction,
// one batch at a time. It returns a Report when every batch committed and
// an *ExecutionFailure otherwise, except that a store that cannot be opened
// yields its *graph.ConnectionError.
func (a *Applier) Apply(ctx context.Context, templates []emit.Template) (*Report, error) {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID, "backend", a.store.Name())
	start := time.Now()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	batches := splitBatches(toStatements(templates), a.batchSize)
	report := &Report{
		RunID:      runID,
		Backend:    a.store.Name(),
		Batches:    len(batches),
		Statements: len(templates),
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := a.store.Close(closeCtx); err != nil {
			logger.Warn("failed to close graph store", "error", err)
		}
	}()

	logger.Info("apply started",
		"statements", report.Statements,
		"batches", report.Batches,
		"batch_size", a.batchSize)

	if err := a.store.Open(ctx); err != nil {
		a.metrics.RecordRun(false, time.Now())
		a.publish(ctx, logger, events.NewApplyFailed(runID, 1, len(batches), 0, 0, err))
		return nil, err
	}

	if a.ensureSchema {
		if err := a.store.EnsureSchema(ctx); err != nil {
			logger.Warn("failed to ensure schema", "error", err)
		}
	}

	a.publish(ctx, logger, events.NewApplyStarted(runID, report.Backend, report.Batches, report.Statements))

	for i, batch := range batches {
		attempts, retries, err := a.applyBatch(ctx, logger, runID, i, len(batches), batch)
		report.Retries += retries
		if err != nil {
			failure := &ExecutionFailure{
				RunID:               runID,
				Batch:               i + 1,
				Batches:             len(batches),
				CommittedBatches:    report.CommittedBatches,
				CommittedStatements: report.CommittedStatements,
				Attempts:            attempts,
				Err:                 err,
			}
			logger.Error("apply failed",
				"batch", failure.Batch,
				"attempts", attempts,
				"committed_batches", failure.CommittedBatches,
				"error", err)
			a.metrics.RecordRun(false, time.Now())
			a.publish(ctx, logger, events.NewApplyFailed(runID, failure.Batch, failure.Batches,
				failure.CommittedBatches, failure.CommittedStatements, err))
			return nil, failure
		}

		report.CommittedBatches++
		report.CommittedStatements += len(batch)
		logger.Debug("batch committed",
			"batch", i+1,
			"statements", len(batch),
			"attempts", attempts)
		a.publish(ctx, logger, events.NewBatchCommitted(runID, i+1, len(batches), len(batch), attempts))
	}

	report.Duration = time.Since(start)
	a.metrics.RecordRun(true, time.Now())
	logger.Info("apply finished",
		"committed_batches", report.CommittedBatches,
		"committed_statements", report.CommittedStatements,
		"retries", report.Retries,
		"duration", report.Duration)
	a.publish(ctx, logger, events.NewApplyCompleted(runID, report.Backend,
		report.CommittedBatches, report.CommittedStatements, report.Retries, report.Duration))

	return report, nil
}

// publish sends a progress event if a bus is configured. Progress is
// advisory; a publish failure never affects the run.
func (a *Applier) publish(ctx context.Context, logger *slog.Logger, event events.Event) {
	if a.bus == nil {
		return
	}
	if err := a.bus.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.Debug("failed to publish progress event", "event_type", event.Type, "error", err)
	}
}

// applyBatch runs one batch with retry. It returns the number of attempts
// and retries alongside the final error.
func (a *Applier) applyBatch(ctx context.Context, logger *slog.Logger, runID string, index, total int, batch []graph.Statement) (int, int, error) {
	var (
		attempts int
		retries  int
		lastErr  error
	)

	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempts++

		if a.limiter != nil {
			if err := a.limiter.WaitN(ctx, len(batch)); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to wait for rate limiter; %w", err))
			}
		}

		batchCtx, cancel := ctx, context.CancelFunc(func() {})
		if a.batchTimeout > 0 {
			batchCtx, cancel = context.WithTimeout(ctx, a.batchTimeout)
		}
		started := time.Now()
		err := a.store.ExecBatch(batchCtx, batch)
		cancel()

		if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			err = &graph.TransientError{Err: fmt.Errorf("batch timed out after %s; %w", a.batchTimeout, err)}
		}
		a.metrics.RecordBatch(len(batch), time.Since(started), err, errorClass(err))
		if err == nil {
			return nil
		}

		lastErr = err
		if cerr := ctx.Err(); cerr != nil && !errors.Is(err, cerr) {
			lastErr = fmt.Errorf("%w; last error: %w", cerr, err)
			return backoff.Permanent(lastErr)
		}
		if !graph.IsTransient(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		retries++
		a.metrics.RecordRetry()
		logger.Warn("transient batch failure; retrying",
			"batch", index+1,
			"batches", total,
			"attempt", attempts,
			"backoff", next,
			"error", err)
		a.publish(ctx, logger, events.NewBatchRetrying(runID, index+1, total, len(batch), attempts, next, err))
	}

	err := backoff.RetryNotify(op, backoff.WithContext(a.retry.newBackOff(), ctx), notify)
	if err != nil && lastErr != nil && !errors.Is(err, lastErr) {
		// Cancellation while waiting to retry surfaces the context error;
		// keep the batch error that caused the wait.
		err = fmt.Errorf("%w; last error: %w", err, lastErr)
	}
	return attempts, retries, err
}

func errorClass(err error) string {
	switch {
	case err == nil:
		return ""
	case graph.IsConnection(err):
		return "connection"
	case graph.IsTransient(err):
		return "transient"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "permanent"
	}
}

func toStatements(templates []emit.Template) []graph.Statement {
	out := make([]graph.Statement, len(templates))
	for i, t := range templates {
		out[i] = graph.Statement{Cypher: t.Cypher, Params: t.Params}
	}
	return out
}

func splitBatches(statements []graph.Statement, size int) [][]graph.Statement {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var batches [][]graph.Statement
	for start := 0; start < len(statements); start += size {
		end := min(start+size, len(statements))
		batches = append(batches, statements[start:end])
	}
	return batches
}
