package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/andor/pkg/andor/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	weights  map[string]float64
	episodes map[string]store.Episode
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		weights:  make(map[string]float64),
		episodes: make(map[string]store.Episode),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertWeight sets the learned weight for a rule key.
func (s *Store) UpsertWeight(ctx context.Context, key string, weight float64) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights[key] = weight
	return nil
}

// GetWeight returns the learned weight for a rule key.
func (s *Store) GetWeight(ctx context.Context, key string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.weights[key]
	return w, ok, nil
}

// Weights returns a copy of every learned weight.
func (s *Store) Weights(ctx context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out, nil
}

// RecordEpisode inserts or replaces an episode, keyed by ID.
func (s *Store) RecordEpisode(ctx context.Context, e store.Episode) error {
	if e.ID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.episodes[e.ID] = copyEpisode(e)
	return nil
}

// Episodes returns up to limit episodes, newest ID first.
func (s *Store) Episodes(ctx context.Context, limit int) ([]store.Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = store.DefaultEpisodeLimit
	}

	out := make([]store.Episode, 0, len(s.episodes))
	for _, e := range s.episodes {
		out = append(out, copyEpisode(e))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyEpisode(e store.Episode) store.Episode {
	e.Goals = append([]string(nil), e.Goals...)
	return e
}
