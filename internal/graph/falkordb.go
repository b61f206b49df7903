package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"

	"github.com/FalkorDB/falkordb-go/v2"
	"github.com/redis/go-redis/v9"
)

// FalkorDBStore implements Store using FalkorDB over the Redis protocol.
// A batch is sent as one MULTI/EXEC block of GRAPH.QUERY commands. FalkorDB
// does not roll back earlier commands of a block when a later one fails;
// statements are idempotent upserts, so a retried batch converges.
type FalkorDBStore struct {
	mu     sync.Mutex
	config Config
	logger *slog.Logger
	db     *falkordb.FalkorDB
}

// NewFalkorDBStore creates a new FalkorDB store.
func NewFalkorDBStore(opts ...Option) *FalkorDBStore {
	o := newOptions(opts)
	return &FalkorDBStore{
		config: o.config,
		logger: o.logger,
	}
}

// Name returns the backend name.
func (s *FalkorDBStore) Name() string {
	return BackendFalkorDB
}

func (s *FalkorDBStore) graphName() string {
	if s.config.Database != "" {
		return s.config.Database
	}
	return DefaultGraphName
}

// Open connects to FalkorDB and verifies the connection with PING.
func (s *FalkorDBStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	redisURL, err := falkorURL(s.config.URI, s.config.Username, s.config.Password)
	if err != nil {
		return s.connectionError(err)
	}

	db, err := falkordb.FromURL(redisURL)
	if err != nil {
		return s.connectionError(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.config.ConnectTimeout)
	defer cancel()

	if err := db.Conn.Ping(pingCtx).Err(); err != nil {
		db.Conn.Close()
		return s.connectionError(err)
	}

	s.db = db
	s.logger.Info("connected to FalkorDB",
		"uri", redactURL(redisURL),
		"graph", s.graphName())

	return nil
}

func (s *FalkorDBStore) connectionError(err error) error {
	return &ConnectionError{Backend: BackendFalkorDB, URI: s.config.URI, Err: err}
}

// EnsureSchema creates the entity key index. Errors for an index that
// already exists are ignored.
func (s *FalkorDBStore) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrNotConnected
	}

	g := s.db.SelectGraph(s.graphName())
	for _, q := range falkorSchema(s.config) {
		if _, err := g.Query(q, nil, nil); err != nil {
			// Ignore errors for existing indexes
			s.logger.Debug("schema query", "query", q, "error", err)
		}
	}
	return nil
}

// ExecBatch sends statements as one MULTI/EXEC block.
func (s *FalkorDBStore) ExecBatch(ctx context.Context, statements []Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrNotConnected
	}

	name := s.graphName()
	_, err := s.db.Conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, st := range statements {
			pipe.Do(ctx, "GRAPH.QUERY", name, queryText(st))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to execute batch; %w", classifyRedisError(err))
	}
	return nil
}

// Close closes the client.
func (s *FalkorDBStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Conn.Close()
	s.db = nil
	s.logger.Info("disconnected from FalkorDB")

	return err
}

// falkorURL normalizes uri into a redis:// URL with credentials injected
// when the URI carries none.
func falkorURL(uri, username, password string) (string, error) {
	if uri == "" {
		return "", errors.New("empty URI")
	}
	if !strings.Contains(uri, "://") {
		uri = "redis://" + uri
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI; %w", err)
	}

	switch u.Scheme {
	case "redis", "rediss":
	case "falkor", "falkordb":
		u.Scheme = "redis"
	case "falkors":
		u.Scheme = "rediss"
	default:
		return "", fmt.Errorf("unsupported URI scheme %q", u.Scheme)
	}

	if u.User == nil && password != "" {
		if username != "" {
			u.User = url.UserPassword(username, password)
		} else {
			u.User = url.UserPassword("default", password)
		}
	}
	return u.String(), nil
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}

// queryText prefixes the statement with its parameters in the
// "CYPHER k=v" form GRAPH.QUERY expects.
func queryText(st Statement) string {
	if len(st.Params) == 0 {
		return st.Cypher
	}
	return falkordb.BuildParamsHeader(st.Params) + st.Cypher
}

// classifyRedisError maps Redis client errors onto the store error taxonomy.
func classifyRedisError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "NOAUTH"), strings.HasPrefix(msg, "WRONGPASS"):
		return &ConnectionError{Backend: BackendFalkorDB, Err: err}
	case strings.HasPrefix(msg, "BUSY"), strings.HasPrefix(msg, "LOADING"),
		strings.HasPrefix(msg, "TRYAGAIN"), strings.HasPrefix(msg, "CLUSTERDOWN"):
		return &TransientError{Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &TransientError{Err: err}
	}
	return err
}
