package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation settings for the log file.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
)

// rotation holds log file rotation settings.
type rotation struct {
	maxSizeMB  int
	maxBackups int
}

// FileOption configures the file sink installed by Upgrade.
type FileOption func(*rotation)

// WithRotation sets the size threshold in megabytes and the number of
// rotated files to retain.
func WithRotation(maxSizeMB, maxBackups int) FileOption {
	return func(r *rotation) {
		if maxSizeMB > 0 {
			r.maxSizeMB = maxSizeMB
		}
		if maxBackups >= 0 {
			r.maxBackups = maxBackups
		}
	}
}

// Manager handles logger lifecycle including bootstrap-to-full mode transitions.
// Components should obtain a logger via Logger() and use it for all logging.
type Manager struct {
	handler *SwappableHandler
	logger  *slog.Logger
	logFile io.WriteCloser
	stderr  io.Writer
	level   *slog.LevelVar
	mu      sync.Mutex
}

// NewManager creates a logging manager in bootstrap mode.
// Bootstrap mode writes only to stderr using text format.
// Call Upgrade() after config is available to enable file logging.
func NewManager() *Manager {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	// Bootstrap mode: text to stderr only
	opts := &slog.HandlerOptions{Level: level}
	bootstrap := slog.NewTextHandler(os.Stderr, opts)

	handler := NewSwappableHandler(bootstrap)
	logger := slog.New(handler)

	return &Manager{
		handler: handler,
		logger:  logger,
		stderr:  os.Stderr,
		level:   level,
	}
}

// Logger returns the current logger instance.
// The returned logger is stable across Upgrade calls.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// Upgrade transitions from bootstrap mode (stderr-only) to full mode
// (stderr text + rotated JSON file). An empty logFilePath keeps stderr as
// the only sink and only applies the level. Call after the config
// subsystem is initialized. Returns error if the log file cannot be
// opened or created.
func (m *Manager) Upgrade(logFilePath string, level slog.Level, opts ...FileOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.level.Set(level)
	handlerOpts := &slog.HandlerOptions{Level: m.level}

	if logFilePath == "" {
		m.closeFile()
		m.handler.Swap(slog.NewTextHandler(m.stderr, handlerOpts))
		return nil
	}

	rot := rotation{maxSizeMB: DefaultMaxSizeMB, maxBackups: DefaultMaxBackups}
	for _, opt := range opts {
		opt(&rot)
	}

	// Create parent directories if needed
	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q; %w", dir, err)
	}

	// lumberjack opens lazily; probe now so a bad path fails at startup
	probe, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q; %w", logFilePath, err)
	}
	_ = probe.Close()

	m.closeFile()
	file := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    rot.maxSizeMB,
		MaxBackups: rot.maxBackups,
	}
	m.logFile = file

	// Full mode: text to stderr + JSON to file
	fullHandler := slogmulti.Fanout(
		slog.NewTextHandler(m.stderr, handlerOpts),
		slog.NewJSONHandler(file, handlerOpts),
	)

	// Atomic swap - all future log calls use the new handler
	m.handler.Swap(fullHandler)

	return nil
}

// SetLevel changes the log level at runtime.
// Applies immediately to all future log calls.
func (m *Manager) SetLevel(level slog.Level) {
	m.level.Set(level)
}

// Close cleanly shuts down the logger, closing any open file handles.
// Should be called during application shutdown.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.closeFile()
}

func (m *Manager) closeFile() error {
	if m.logFile == nil {
		return nil
	}
	err := m.logFile.Close()
	m.logFile = nil
	return err
}
