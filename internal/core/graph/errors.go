// Package graph defines domain-specific errors
package graph

import "errors"

// Domain errors - DRY principle: defined once, used everywhere
var (
	// Construction errors (returned while wiring the topology)
	ErrInvalidNodeName      = errors.New("invalid node name")
	ErrReservedName         = errors.New("node name is reserved")
	ErrNilTransform         = errors.New("node transform cannot be nil")
	ErrNilRouter            = errors.New("router cannot be nil")
	ErrDuplicateNode        = errors.New("duplicate node name")
	ErrNodeNotFound         = errors.New("node not found")
	ErrEdgeExists           = errors.New("source node already has an outgoing edge")
	ErrNoTargets            = errors.New("parallel edge requires at least one target")
	ErrNoEntryPoint         = errors.New("no entry point specified")
	ErrInvalidMaxIterations = errors.New("max iterations must be positive")

	// Traversal errors
	ErrMaxIterationsExceeded = errors.New("max iterations exceeded")
	ErrInvalidRoute          = errors.New("router returned an unregistered node")
)
