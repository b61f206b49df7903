package cmdutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/GigaGaiaWorld/codex/internal/apply"
	"github.com/GigaGaiaWorld/codex/internal/config"
	"github.com/GigaGaiaWorld/codex/internal/emit"
	"github.com/GigaGaiaWorld/codex/internal/events"
	"github.com/GigaGaiaWorld/codex/internal/graph"
	"github.com/GigaGaiaWorld/codex/internal/metrics"
	"github.com/GigaGaiaWorld/codex/internal/report"
	"github.com/GigaGaiaWorld/codex/internal/version"
)

// newStore is replaced in tests.
var newStore = func(cfg graph.Config, logger *slog.Logger) (graph.Store, error) {
	return graph.New(graph.WithConfig(cfg), graph.WithLogger(logger))
}

// ApplyFlags holds command-line overrides for apply settings. Only flags
// the user actually set override the config.
type ApplyFlags struct {
	BatchSize    int
	MaxRetries   int
	Timeout      time.Duration
	BatchTimeout time.Duration
	RateLimit    float64
	MetricsFile  string
	NoSchema     bool
	Progress     bool
	Quiet        bool
}

// Register adds the apply flags to cmd.
func (f *ApplyFlags) Register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVar(&f.BatchSize, "batch-size", config.DefaultApplyBatchSize, "Statements per transaction")
	flags.IntVar(&f.MaxRetries, "max-retries", config.DefaultApplyMaxRetries, "Retries per batch after transient failures")
	flags.DurationVar(&f.Timeout, "timeout", 0, "Deadline for the whole run (0 = unbounded)")
	flags.DurationVar(&f.BatchTimeout, "batch-timeout", time.Duration(config.DefaultApplyBatchTimeoutMs)*time.Millisecond, "Deadline for one batch attempt")
	flags.Float64Var(&f.RateLimit, "rate-limit", 0, "Maximum statements per second (0 = unlimited)")
	flags.StringVar(&f.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	flags.BoolVar(&f.NoSchema, "no-schema", false, "Skip creating the entity key index or constraint")
	flags.BoolVar(&f.Progress, "progress", false, "Print a line per committed or retried batch")
	flags.BoolVarP(&f.Quiet, "quiet", "q", false, "Suppress the run summary and progress")
}

// Overlay returns a copy of base with every flag the user set on cmd
// applied on top.
func (f *ApplyFlags) Overlay(cmd *cobra.Command, base config.ApplyConfig) config.ApplyConfig {
	changed := cmd.Flags().Changed

	if changed("batch-size") {
		base.BatchSize = f.BatchSize
	}
	if changed("max-retries") {
		base.MaxRetries = f.MaxRetries
	}
	if changed("timeout") {
		base.TimeoutMs = durationMs(f.Timeout)
	}
	if changed("batch-timeout") {
		base.BatchTimeoutMs = durationMs(f.BatchTimeout)
	}
	if changed("rate-limit") {
		base.RateLimit = f.RateLimit
	}
	if changed("metrics-file") {
		base.MetricsFile = f.MetricsFile
	}
	return base
}

// durationMs converts d to whole milliseconds, rounding up so that a
// positive duration never becomes zero (unbounded).
func durationMs(d time.Duration) int {
	ms := d / time.Millisecond
	if d%time.Millisecond > 0 {
		ms++
	}
	return int(ms)
}

// ApplierOptions converts apply configuration into applier options.
func ApplierOptions(ac config.ApplyConfig, ensureSchema bool, logger *slog.Logger, m *metrics.ApplyMetrics) []apply.Option {
	policy := apply.DefaultRetryPolicy()
	policy.MaxRetries = ac.MaxRetries
	if ac.InitialBackoffMs > 0 {
		policy.InitialInterval = ac.InitialBackoff()
	}
	if ac.MaxBackoffMs > 0 {
		policy.MaxInterval = ac.MaxBackoff()
	}

	return []apply.Option{
		apply.WithBatchSize(ac.BatchSize),
		apply.WithRetryPolicy(policy),
		apply.WithRateLimit(ac.RateLimit),
		apply.WithTimeout(ac.Timeout()),
		apply.WithBatchTimeout(ac.BatchTimeout()),
		apply.WithEnsureSchema(ensureSchema),
		apply.WithLogger(logger),
		apply.WithMetrics(m),
	}
}

// RunApply applies templates with settings resolved from config, the
// connection flags, and the apply flags. The summary goes to the command's
// stderr and metrics, when requested, are written on success and failure.
func RunApply(ctx context.Context, cmd *cobra.Command, templates []emit.Template, conn ConnectionFlags, af ApplyFlags) (*apply.Report, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}

	graphCfg, err := ResolveGraphConfig(cfg, conn)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "apply")
	store, err := newStore(graphCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph store; %w", err)
	}

	ac := af.Overlay(cmd, cfg.Apply)
	if err := validateApply(ac); err != nil {
		return nil, err
	}

	m := metrics.NewApplyMetrics(store.Name(), version.Get().Version)
	ensureSchema := cfg.Graph.EnsureSchema && !af.NoSchema
	opts := ApplierOptions(ac, ensureSchema, logger, m)

	printer := report.New(cmd.ErrOrStderr())
	var bus *events.EventBus
	if af.Progress && !af.Quiet {
		bus = events.NewBus(events.WithLogger(logger))
		bus.SubscribeAll(printer.Progress)
		opts = append(opts, apply.WithEvents(bus))
	}

	rep, applyErr := apply.New(store, opts...).Apply(ctx, templates)
	if bus != nil {
		bus.Close()
	}

	if err := m.WriteTextfile(config.ExpandPath(ac.MetricsFile)); err != nil {
		logger.Warn("failed to write metrics file", "path", ac.MetricsFile, "error", err)
	}

	// A failed run is reported once, by the caller printing the error.
	if !af.Quiet && applyErr == nil {
		printer.Apply(rep)
	}

	return rep, applyErr
}

// validateApply re-checks apply settings after flag overrides.
func validateApply(ac config.ApplyConfig) error {
	cfg := config.NewDefaultConfig()
	cfg.Apply = ac
	return config.Validate(&cfg)
}
