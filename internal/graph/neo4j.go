package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jStore implements Store using the Neo4j Bolt driver. One driver and
// one write session live for the duration of a run; each batch is one
// explicit transaction.
type Neo4jStore struct {
	mu      sync.Mutex
	config  Config
	logger  *slog.Logger
	driver  neo4j.DriverWithContext
	session neo4j.SessionWithContext
}

// NewNeo4jStore creates a new Neo4j store.
func NewNeo4jStore(opts ...Option) *Neo4jStore {
	o := newOptions(opts)
	return &Neo4jStore{
		config: o.config,
		logger: o.logger,
	}
}

// Name returns the backend name.
func (s *Neo4jStore) Name() string {
	return BackendNeo4j
}

// Open creates the driver, verifies connectivity and opens a write session.
func (s *Neo4jStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		return nil
	}

	driver, err := neo4j.NewDriverWithContext(s.config.URI,
		neo4j.BasicAuth(s.config.Username, s.config.Password, ""))
	if err != nil {
		return s.connectionError(err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, s.config.ConnectTimeout)
	defer cancel()

	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		driver.Close(context.WithoutCancel(ctx))
		return s.connectionError(err)
	}

	s.driver = driver
	s.session = driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.config.Database,
	})

	s.logger.Info("connected to Neo4j",
		"uri", s.config.URI,
		"database", s.config.Database)

	return nil
}

func (s *Neo4jStore) connectionError(err error) error {
	return &ConnectionError{Backend: BackendNeo4j, URI: s.config.URI, Err: err}
}

// EnsureSchema creates the entity key uniqueness constraint.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNotConnected
	}

	for _, q := range neo4jSchema(s.config) {
		res, err := s.session.Run(ctx, q, nil)
		if err == nil {
			_, err = res.Consume(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to create schema; %w", classifyNeo4jError(err))
		}
	}
	return nil
}

// ExecBatch applies statements in one explicit transaction. The transaction
// is rolled back if any statement fails.
func (s *Neo4jStore) ExecBatch(ctx context.Context, statements []Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrNotConnected
	}

	tx, err := s.session.BeginTransaction(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction; %w", classifyNeo4jError(err))
	}
	// Close rolls back when the transaction was not committed.
	defer tx.Close(context.WithoutCancel(ctx))

	for i, st := range statements {
		res, err := tx.Run(ctx, st.Cypher, st.Params)
		if err == nil {
			_, err = res.Consume(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to run statement %d of batch; %w", i+1, classifyNeo4jError(err))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction; %w", classifyNeo4jError(err))
	}
	return nil
}

// Close closes the session and the driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.driver == nil {
		return nil
	}

	var errs []error
	if s.session != nil {
		errs = append(errs, s.session.Close(ctx))
	}
	errs = append(errs, s.driver.Close(ctx))

	s.session = nil
	s.driver = nil
	s.logger.Info("disconnected from Neo4j")

	return errors.Join(errs...)
}

// classifyNeo4jError maps driver errors onto the store error taxonomy.
func classifyNeo4jError(err error) error {
	if err == nil {
		return nil
	}

	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		switch {
		case strings.HasPrefix(neoErr.Code, "Neo.ClientError.Security."):
			return &ConnectionError{Backend: BackendNeo4j, Err: err}
		case strings.HasPrefix(neoErr.Code, "Neo.TransientError."):
			return &TransientError{Err: err}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	if neo4j.IsConnectivityError(err) || neo4j.IsRetryable(err) {
		return &TransientError{Err: err}
	}
	return err
}
