package prebuilt

import (
	"context"
	"errors"

	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/pkg/validation"
)

// ErrNoSteps is returned by templates that need at least one step.
var ErrNoSteps = errors.New("template requires at least one step")

// Step names one transform for a template.
type Step[S any] struct {
	Name        string `validate:"required"`
	Description string
	Run         graph.Transform[S] `validate:"required"`
}

// Linear chains the steps in order: the first step is the entry point,
// the last one routes to END.
func Linear[S any](steps ...Step[S]) (*graph.Graph[S], error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	b := graph.NewBuilder[S]()
	for _, s := range steps {
		if err := validation.Struct(s); err != nil {
			return nil, err
		}
		if err := b.AddNode(s.Name, s.Run, s.Description); err != nil {
			return nil, err
		}
	}
	for i := 0; i < len(steps)-1; i++ {
		if err := b.AddEdge(steps[i].Name, steps[i+1].Name); err != nil {
			return nil, err
		}
	}
	if err := b.AddEdge(steps[len(steps)-1].Name, graph.END); err != nil {
		return nil, err
	}
	if err := b.SetEntryPoint(steps[0].Name); err != nil {
		return nil, err
	}
	return b.Build()
}

// loopParams backs the Loop and Retry templates.
type loopParams struct {
	Node string `validate:"required"`
	Cap  int    `validate:"gte=1"`
}

// Loop runs body repeatedly while the predicate holds, bounded by
// maxIterations (the run fails with the loop-guard error when the
// predicate never releases).
func Loop[S any](body Step[S], while graph.Predicate[S], maxIterations int) (*graph.Graph[S], error) {
	if err := validation.Struct(body); err != nil {
		return nil, err
	}
	if err := validation.Struct(loopParams{Node: body.Name, Cap: maxIterations}); err != nil {
		return nil, err
	}
	b := graph.NewBuilder[S]()
	if err := b.AddNode(body.Name, body.Run, body.Description); err != nil {
		return nil, err
	}
	err := b.AddConditionalRouter(body.Name, []graph.Route[S]{
		{When: while, To: body.Name},
	}, graph.END)
	if err != nil {
		return nil, err
	}
	if err := b.SetEntryPoint(body.Name); err != nil {
		return nil, err
	}
	if err := b.SetMaxIterations(maxIterations); err != nil {
		return nil, err
	}
	return b.Build()
}

// Retry re-runs op while failed reports the state as failed, giving up
// after maxAttempts with the loop-guard error. The engine itself never
// retries; this is the sanctioned retry-by-looping topology.
func Retry[S any](op Step[S], failed graph.Predicate[S], maxAttempts int) (*graph.Graph[S], error) {
	return Loop(op, failed, maxAttempts)
}

// MapReduceConfig names the synthetic nodes of a MapReduce topology.
type MapReduceConfig struct {
	FanName    string `validate:"required"`
	ReduceName string `validate:"required"`
}

// DefaultMapReduceConfig returns the conventional node names.
func DefaultMapReduceConfig() MapReduceConfig {
	return MapReduceConfig{FanName: "fan", ReduceName: "reduce"}
}

// MapReduce fans the state out to every mapper concurrently, merges
// the branch results, and finishes with one reduce step. The merge
// happens at the parallel join; reduce runs on the merged state and
// routes to END.
func MapReduce[S any](cfg MapReduceConfig, mappers []Step[S], merge graph.Merger[S], reduce graph.Transform[S]) (*graph.Graph[S], error) {
	if err := validation.Struct(cfg); err != nil {
		return nil, err
	}
	if len(mappers) == 0 {
		return nil, ErrNoSteps
	}
	b := graph.NewBuilder[S]()

	identity := graph.Transform[S](func(_ context.Context, s S) (S, error) { return s, nil })
	if err := b.AddNode(cfg.FanName, identity, "fan-out seed"); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(mappers))
	for _, m := range mappers {
		if err := validation.Struct(m); err != nil {
			return nil, err
		}
		if err := b.AddNode(m.Name, m.Run, m.Description); err != nil {
			return nil, err
		}
		names = append(names, m.Name)
	}
	if err := b.AddNode(cfg.ReduceName, reduce); err != nil {
		return nil, err
	}
	if err := b.AddParallelEdgeWithJoin(cfg.FanName, names, merge, cfg.ReduceName); err != nil {
		return nil, err
	}
	if err := b.AddEdge(cfg.ReduceName, graph.END); err != nil {
		return nil, err
	}
	if err := b.SetEntryPoint(cfg.FanName); err != nil {
		return nil, err
	}
	return b.Build()
}
