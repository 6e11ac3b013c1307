package graph

// Graph is the frozen, validated topology produced by Builder.Build.
// It carries no per-run state: any number of Invoke calls may run
// against the same Graph concurrently.
// PRINCIPLES:
// - SRP: owns structure and traversal, never persistence
// - Immutability: registries are private copies, never mutated
type Graph[S any] struct {
	nodes         map[string]*Node[S]
	order         []string
	edges         map[string]*Edge[S]
	entryPoint    string
	maxIterations int
}

// EntryPoint returns the node name where traversal begins.
func (g *Graph[S]) EntryPoint() string { return g.entryPoint }

// MaxIterations returns the loop-guard budget.
func (g *Graph[S]) MaxIterations() int { return g.maxIterations }

// NodeInfo is a read-only view of one registered node.
type NodeInfo struct {
	Name        string
	Description string
}

// EdgeInfo is a read-only view of one registered edge. Targets holds
// the statically known destinations; conditional edges leave it empty.
type EdgeInfo struct {
	From      string
	Kind      string
	Targets   []string
	HasMerger bool
	Join      string
}

// Topology is a snapshot of the frozen registries for diagnostics and
// offline validation. Nodes appear in registration order.
type Topology struct {
	EntryPoint    string
	MaxIterations int
	Nodes         []NodeInfo
	Edges         []EdgeInfo
}

// Topology renders the read-only snapshot. It never exposes the
// transform or router functions.
func (g *Graph[S]) Topology() Topology {
	t := Topology{
		EntryPoint:    g.entryPoint,
		MaxIterations: g.maxIterations,
		Nodes:         make([]NodeInfo, 0, len(g.order)),
		Edges:         make([]EdgeInfo, 0, len(g.edges)),
	}
	for _, name := range g.order {
		n := g.nodes[name]
		t.Nodes = append(t.Nodes, NodeInfo{Name: n.Name, Description: n.Description})
		e, ok := g.edges[name]
		if !ok {
			continue
		}
		info := EdgeInfo{From: name, Kind: e.Kind()}
		switch e.kind {
		case edgeDirect:
			info.Targets = []string{e.target}
		case edgeParallel:
			info.Targets = append(info.Targets, e.targets...)
			info.HasMerger = e.merger != nil
			info.Join = e.join
		}
		t.Edges = append(t.Edges, info)
	}
	return t
}
