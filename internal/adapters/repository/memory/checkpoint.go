// Package memory provides the reference in-memory checkpoint store.
// It exists to define the Store contract, not to be production
// storage: isolation is whatever a mutex-guarded Go map gives you.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/stategraph/stategraph/internal/core/checkpoint"
	"github.com/stategraph/stategraph/internal/infrastructure/metrics"
)

// Store implements checkpoint.Store with a mutex-guarded map.
// PRINCIPLES:
// - KISS: id -> checkpoint map, nothing else
// - DIP: implements the checkpoint.Store interface
type Store[S any] struct {
	mu          sync.RWMutex
	checkpoints map[string]*checkpoint.Checkpoint[S]
}

// NewStore creates an empty in-memory store.
func NewStore[S any]() *Store[S] {
	return &Store[S]{checkpoints: make(map[string]*checkpoint.Checkpoint[S])}
}

// Save stores a copy of the checkpoint under id, replacing any
// previous entry. The State field is copied by value; interior
// reference types stay shared with the caller.
func (s *Store[S]) Save(_ context.Context, id string, cp *checkpoint.Checkpoint[S]) error {
	if id == "" {
		return checkpoint.ErrInvalidID
	}
	if err := cp.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.checkpoints[id] = clone(cp)
	s.mu.Unlock()
	metrics.IncCheckpointSaves("memory")
	return nil
}

// Load returns a copy of the checkpoint stored under id.
func (s *Store[S]) Load(_ context.Context, id string) (*checkpoint.Checkpoint[S], error) {
	if id == "" {
		return nil, checkpoint.ErrInvalidID
	}
	s.mu.RLock()
	cp, ok := s.checkpoints[id]
	s.mu.RUnlock()
	if !ok {
		return nil, checkpoint.ErrNotFound
	}
	metrics.IncCheckpointLoads("memory")
	return clone(cp), nil
}

// Delete removes the checkpoint under id; absent ids are a no-op.
func (s *Store[S]) Delete(_ context.Context, id string) error {
	if id == "" {
		return checkpoint.ErrInvalidID
	}
	s.mu.Lock()
	delete(s.checkpoints, id)
	s.mu.Unlock()
	return nil
}

// List returns all ids in lexicographic order.
func (s *Store[S]) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.checkpoints))
	for id := range s.checkpoints {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids, nil
}

// Clear removes every stored checkpoint.
func (s *Store[S]) Clear(_ context.Context) error {
	s.mu.Lock()
	s.checkpoints = make(map[string]*checkpoint.Checkpoint[S])
	s.mu.Unlock()
	return nil
}

// clone copies the checkpoint so callers and the store never share the
// path slice or metadata map.
func clone[S any](cp *checkpoint.Checkpoint[S]) *checkpoint.Checkpoint[S] {
	out := *cp
	out.Path = make([]string, len(cp.Path))
	copy(out.Path, cp.Path)
	if cp.Metadata != nil {
		out.Metadata = make(map[string]any, len(cp.Metadata))
		for k, v := range cp.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
