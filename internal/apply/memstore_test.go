package apply

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/GigaGaiaWorld/codex/internal/graph"
)

// memoryStore interprets the three template shapes with MERGE semantics so
// replays can be compared.
type memoryStore struct {
	mu    sync.Mutex
	nodes map[string][]string
	edges map[string]struct{}
}

type memorySnapshot struct {
	nodes map[string][]string
	edges map[string]struct{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{nodes: map[string][]string{}, edges: map[string]struct{}{}}
}

func (s *memoryStore) Name() string { return "memory" }

func (s *memoryStore) Open(context.Context) error { return nil }

func (s *memoryStore) EnsureSchema(context.Context) error { return nil }

func (s *memoryStore) Close(context.Context) error { return nil }

func (s *memoryStore) ExecBatch(_ context.Context, batch []graph.Statement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range batch {
		switch {
		case strings.Contains(st.Cypher, "$subject"):
			subject := st.Params["subject"].(string)
			object := st.Params["object"].(string)
			s.mergeNode(subject)
			s.mergeNode(object)
			s.edges[subject+"|"+between(st.Cypher, "[:`", "`]")+"|"+object] = struct{}{}
		case strings.Contains(st.Cypher, " SET n:"):
			id := st.Params["id"].(string)
			s.mergeNode(id)
			label := between(st.Cypher, "SET n:`", "`")
			if !slices.Contains(s.nodes[id], label) {
				s.nodes[id] = append(s.nodes[id], label)
			}
		default:
			s.mergeNode(st.Params["id"].(string))
		}
	}
	return nil
}

func (s *memoryStore) mergeNode(id string) {
	if _, ok := s.nodes[id]; !ok {
		s.nodes[id] = nil
	}
}

func (s *memoryStore) snapshot() memorySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memorySnapshot{nodes: map[string][]string{}, edges: map[string]struct{}{}}
	for k, v := range s.nodes {
		snap.nodes[k] = slices.Clone(v)
	}
	for k := range s.edges {
		snap.edges[k] = struct{}{}
	}
	return snap
}

func between(s, start, end string) string {
	i := strings.Index(s, start)
	if i < 0 {
		return ""
	}
	rest := s[i+len(start):]
	j := strings.Index(rest, end)
	if j < 0 {
		return ""
	}
	return rest[:j]
}
