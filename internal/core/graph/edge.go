package graph

import "context"

// Router selects the next node name from the current state. The
// returned name must be a registered node or END.
type Router[S any] func(ctx context.Context, state S) (string, error)

// Merger combines the pre-branch state with the ordered branch results
// of a parallel edge into the continuation state.
type Merger[S any] func(ctx context.Context, original S, branches []S) (S, error)

// Predicate is a pure boolean test over the state, used by the
// named-route sugar on top of conditional edges.
type Predicate[S any] func(state S) bool

// Route pairs a predicate with the node it selects. Routes are
// evaluated in declaration order; the first match wins.
type Route[S any] struct {
	When Predicate[S]
	To   string
}

// edgeKind tags the edge variants. All variants share one struct
// dispatched by this tag inside the traversal step (sum type, not
// virtual dispatch).
type edgeKind int

const (
	edgeDirect edgeKind = iota
	edgeConditional
	edgeParallel
)

// Edge is the single outgoing routing rule of a source node.
// Exactly one variant payload is populated, selected by kind.
type Edge[S any] struct {
	From string
	kind edgeKind

	// Direct
	target string

	// Conditional (also backs the ConditionalRouter sugar)
	router Router[S]

	// Parallel fan-out: every target runs one transform step
	// concurrently from the same pre-branch state, then the results
	// merge and traversal continues at join (END by default).
	targets []string
	merger  Merger[S]
	join    string
}

// Kind reports the variant name, used by diagnostics only.
func (e *Edge[S]) Kind() string {
	switch e.kind {
	case edgeDirect:
		return "direct"
	case edgeConditional:
		return "conditional"
	case edgeParallel:
		return "parallel"
	}
	return "unknown"
}

// StaticTargets returns the statically known destinations of the edge.
// Conditional edges have none: their target exists only at runtime.
func (e *Edge[S]) StaticTargets() []string {
	switch e.kind {
	case edgeDirect:
		return []string{e.target}
	case edgeParallel:
		out := make([]string, 0, len(e.targets)+1)
		out = append(out, e.targets...)
		out = append(out, e.join)
		return out
	}
	return nil
}

// routerFor compiles an ordered route table into a plain Router. This
// keeps ConditionalRouter pure sugar over the conditional variant.
func routerFor[S any](routes []Route[S], fallback string) Router[S] {
	return func(_ context.Context, state S) (string, error) {
		for _, r := range routes {
			if r.When != nil && r.When(state) {
				return r.To, nil
			}
		}
		return fallback, nil
	}
}
