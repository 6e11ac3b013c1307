package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/stategraph/stategraph/internal/infrastructure/metrics"
)

// Invoke runs the graph from the entry point until END (explicit or
// implicit) and returns the final state, the path of executed node
// names, and run metadata.
//
// The driver is a single sequential loop; concurrency happens only
// inside one parallel fan-out step, never across the outer loop. Node,
// router, and merger errors abort the run and propagate wrapped with
// %w, so errors.Is/As still see the original error.
func (g *Graph[S]) Invoke(ctx context.Context, initial S) (*Result[S], error) {
	if g.entryPoint == "" {
		return nil, ErrNoEntryPoint
	}
	metrics.IncInvocations()

	state := initial
	current := g.entryPoint
	path := make([]string, 0, 8)
	iterations := 0

	for current != END {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations++
		if iterations > g.maxIterations {
			return nil, fmt.Errorf("%w after %d steps (cap %d)",
				ErrMaxIterationsExceeded, iterations-1, g.maxIterations)
		}

		node, ok := g.nodes[current]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, current)
		}
		next, err := node.Run(ctx, state)
		if err != nil {
			metrics.IncNodeFailures()
			return nil, fmt.Errorf("node %q: %w", current, err)
		}
		metrics.IncSteps(1)
		state = next
		path = append(path, current)

		edge, ok := g.edges[current]
		if !ok {
			break // no outgoing edge: implicit END
		}
		switch edge.kind {
		case edgeDirect:
			current = edge.target
		case edgeConditional:
			route, rerr := edge.router(ctx, state)
			if rerr != nil {
				return nil, fmt.Errorf("router for %q: %w", current, rerr)
			}
			if route != END {
				if _, known := g.nodes[route]; !known {
					return nil, fmt.Errorf("%w: %q returned by router for %q",
						ErrInvalidRoute, route, current)
				}
			}
			current = route
		case edgeParallel:
			state, err = g.runParallel(ctx, edge, state, &path)
			if err != nil {
				return nil, err
			}
			current = edge.join
		}
	}

	return &Result[S]{
		FinalState: state,
		Path:       path,
		Metadata:   map[string]any{MetaIterations: iterations},
	}, nil
}

// runParallel executes every branch target concurrently from the same
// pre-branch state (fork-join, one transform step per branch, not a
// sub-traversal), waits for all of them, and merges the results.
// Any branch failure fails the whole step; sibling branches are
// cancelled and their results discarded.
func (g *Graph[S]) runParallel(ctx context.Context, e *Edge[S], state S, path *[]string) (S, error) {
	branchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]S, len(e.targets))
	errs := make([]error, len(e.targets))
	var wg sync.WaitGroup
	for i, name := range e.targets {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			out, err := g.nodes[name].Run(branchCtx, state)
			if err != nil {
				errs[i] = fmt.Errorf("branch %q: %w", name, err)
				cancel()
				return
			}
			results[i] = out
		}(i, name)
	}
	wg.Wait()
	metrics.IncParallelBranches(int64(len(e.targets)))

	var zero S
	for _, err := range errs {
		if err != nil {
			metrics.IncNodeFailures()
			return zero, err
		}
	}
	metrics.IncSteps(int64(len(e.targets)))
	*path = append(*path, e.targets...)

	if e.merger != nil {
		merged, err := e.merger(ctx, state, results)
		if err != nil {
			return zero, fmt.Errorf("merger for %q: %w", e.From, err)
		}
		return merged, nil
	}
	// Tie-break without a merger: the last declared branch wins.
	return results[len(results)-1], nil
}
