package metrics

import "expvar"

// Engine counters. The engine itself performs no logging or retries;
// these counters are the only ambient observability it carries.
var (
	invocationsTotal      = new(expvar.Int)
	stepsTotal            = new(expvar.Int)
	parallelBranchesTotal = new(expvar.Int)
	nodeFailuresTotal     = new(expvar.Int)
)

// Checkpoint store counters, keyed by store implementation.
var (
	checkpointSaves = expvar.NewMap("stategraph_checkpoint_saves_total")
	checkpointLoads = expvar.NewMap("stategraph_checkpoint_loads_total")
)

func init() {
	expvar.Publish("stategraph_invocations_total", invocationsTotal)
	expvar.Publish("stategraph_steps_total", stepsTotal)
	expvar.Publish("stategraph_parallel_branches_total", parallelBranchesTotal)
	expvar.Publish("stategraph_node_failures_total", nodeFailuresTotal)
}

// Engine helpers
func IncInvocations()             { invocationsTotal.Add(1) }
func IncSteps(n int64)            { stepsTotal.Add(n) }
func IncParallelBranches(n int64) { parallelBranchesTotal.Add(n) }
func IncNodeFailures()            { nodeFailuresTotal.Add(1) }

// Store helpers
func IncCheckpointSaves(kind string) { checkpointSaves.Add(kind, 1) }
func IncCheckpointLoads(kind string) { checkpointLoads.Add(kind, 1) }
