package graph

// Metadata keys populated by Invoke.
const (
	// MetaIterations is the number of driver-loop steps the run consumed.
	MetaIterations = "iterations"
)

// Result is the outcome of one Invoke call.
// PRINCIPLES:
// - KISS: final state, the path actually walked, and a metadata bag
// - Produced fresh per call, never shared between runs
type Result[S any] struct {
	FinalState S
	Path       []string
	Metadata   map[string]any
}

// Iterations returns the driver-loop step count recorded in Metadata.
func (r *Result[S]) Iterations() int {
	n, _ := r.Metadata[MetaIterations].(int)
	return n
}
