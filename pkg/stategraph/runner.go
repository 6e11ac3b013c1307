package stategraph

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// MetaExecutionID is the metadata key carrying the Runner-assigned run
// identifier.
const MetaExecutionID = "execution_id"

// Runner adapts a frozen graph to the generic execution-unit protocol:
// single-shot invoke, a streaming mode (which for this engine emits
// exactly one result), batch, and batch-parallel over many initial
// states. The engine stays a black box underneath.
type Runner[S any] struct {
	graph *Graph[S]
}

// NewRunner wraps a frozen graph.
func NewRunner[S any](g *Graph[S]) *Runner[S] {
	return &Runner[S]{graph: g}
}

// Invoke runs the graph once and stamps the result with a unique
// execution id.
func (r *Runner[S]) Invoke(ctx context.Context, input S) (*Result[S], error) {
	res, err := r.graph.Invoke(ctx, input)
	if err != nil {
		return nil, err
	}
	res.Metadata[MetaExecutionID] = uuid.NewString()
	return res, nil
}

// StreamItem is one element of a Stream: a result or a terminal error.
type StreamItem[S any] struct {
	Result *Result[S]
	Err    error
}

// Stream runs the graph and emits exactly one item before closing the
// channel. The single-item stream keeps the graph usable in pipeline
// protocols that consume streams uniformly.
func (r *Runner[S]) Stream(ctx context.Context, input S) <-chan StreamItem[S] {
	out := make(chan StreamItem[S], 1)
	go func() {
		defer close(out)
		res, err := r.Invoke(ctx, input)
		out <- StreamItem[S]{Result: res, Err: err}
	}()
	return out
}

// Batch runs the graph sequentially over many initial states, failing
// fast on the first error.
func (r *Runner[S]) Batch(ctx context.Context, inputs []S) ([]*Result[S], error) {
	results := make([]*Result[S], 0, len(inputs))
	for _, input := range inputs {
		res, err := r.Invoke(ctx, input)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// BatchParallel runs the graph over many initial states with a bounded
// worker pool. Results keep input order. The first error cancels the
// remaining work and is returned.
func (r *Runner[S]) BatchParallel(ctx context.Context, inputs []S, workers int) ([]*Result[S], error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result[S], len(inputs))
	errs := make([]error, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := r.Invoke(runCtx, inputs[i])
				if err != nil {
					errs[i] = err
					cancel()
					continue
				}
				results[i] = res
			}
		}()
	}

feed:
	for i := range inputs {
		select {
		case jobs <- i:
		case <-runCtx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	// Prefer the root cause over cancellations it triggered in
	// sibling workers.
	var firstErr error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if firstErr == nil || errors.Is(firstErr, context.Canceled) {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
