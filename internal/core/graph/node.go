// Package graph provides the core graph domain entities and the
// traversal engine, following Clean Architecture principles with zero
// external dependencies.
package graph

import "context"

// Reserved node-name sentinels. They are valid routing targets but can
// never be registered as node names.
const (
	// START marks the conceptual beginning of a traversal.
	START = "__start__"
	// END terminates a traversal when reached as the current node.
	END = "__end__"
)

// Transform is the single execution contract for a node: it receives a
// state snapshot and returns the next snapshot. Implementations must
// not mutate the input in place.
type Transform[S any] func(ctx context.Context, state S) (S, error)

// Node represents one named transformation step in the graph.
// PRINCIPLES:
// - KISS: name + function, nothing else
// - SRP: only responsible for node data, not routing or execution
type Node[S any] struct {
	Name        string
	Description string
	Run         Transform[S]
}

// Validate ensures node integrity.
func (n *Node[S]) Validate() error {
	if n.Name == "" {
		return ErrInvalidNodeName
	}
	if n.Name == START || n.Name == END {
		return ErrReservedName
	}
	if n.Run == nil {
		return ErrNilTransform
	}
	return nil
}
