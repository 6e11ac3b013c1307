// Package checkpoint provides the caller-driven snapshot/resume
// contract on top of the traversal engine, following Clean Architecture
// principles with zero external dependencies.
//
// The engine never creates checkpoints on its own: a checkpoint is
// built by caller code (typically inside a node body after important
// work completes), persisted through a Store, and consulted later to
// seed a fresh Invoke. Resumption is entirely the caller's
// responsibility.
package checkpoint

import "time"

// Checkpoint is an immutable snapshot of execution progress.
// PRINCIPLES:
// - KISS: plain value, no behavior beyond validation
// - SRP: only responsible for the snapshot data structure
type Checkpoint[S any] struct {
	State     S              `json:"state" msgpack:"state"`
	Node      string         `json:"node" msgpack:"node"`
	Path      []string       `json:"path" msgpack:"path"`
	Iteration int            `json:"iteration" msgpack:"iteration"`
	Timestamp time.Time      `json:"timestamp" msgpack:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// New captures a snapshot at the given node. The path slice is copied
// so later appends by the caller cannot leak into the checkpoint.
func New[S any](state S, node string, path []string, iteration int) *Checkpoint[S] {
	p := make([]string, len(path))
	copy(p, path)
	return &Checkpoint[S]{
		State:     state,
		Node:      node,
		Path:      p,
		Iteration: iteration,
		Timestamp: time.Now().UTC(),
	}
}

// WithMetadata returns a copy of the checkpoint carrying the extra
// metadata entry. The receiver is left untouched.
func (c *Checkpoint[S]) WithMetadata(key string, value any) *Checkpoint[S] {
	out := *c
	out.Metadata = make(map[string]any, len(c.Metadata)+1)
	for k, v := range c.Metadata {
		out.Metadata[k] = v
	}
	out.Metadata[key] = value
	return &out
}

// Validate ensures checkpoint integrity before persistence.
func (c *Checkpoint[S]) Validate() error {
	if c == nil {
		return ErrNilCheckpoint
	}
	if c.Node == "" {
		return ErrInvalidNode
	}
	if c.Iteration < 0 {
		return ErrInvalidIteration
	}
	return nil
}
