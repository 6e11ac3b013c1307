package graph

import "fmt"

// DefaultMaxIterations bounds traversals whose builder did not set an
// explicit cap. The cap is the only cycle-termination mechanism; there
// is no cycle detection in the engine.
const DefaultMaxIterations = 100

// Builder accumulates the topology and produces an immutable Graph via
// Build. All registration methods fail fast with construction errors;
// a Graph that builds successfully is fully validated.
// PRINCIPLES:
// - SRP: only topology assembly, no execution concerns
// - KISS: plain maps guarded by lookup checks
type Builder[S any] struct {
	nodes         map[string]*Node[S]
	order         []string
	edges         map[string]*Edge[S]
	entryPoint    string
	maxIterations int
}

// NewBuilder creates an empty topology builder.
func NewBuilder[S any]() *Builder[S] {
	return &Builder[S]{
		nodes:         make(map[string]*Node[S]),
		edges:         make(map[string]*Edge[S]),
		maxIterations: DefaultMaxIterations,
	}
}

// AddNode registers a named transformation step. An optional single
// description is kept for diagnostics.
func (b *Builder[S]) AddNode(name string, fn Transform[S], description ...string) error {
	n := &Node[S]{Name: name, Run: fn}
	if len(description) > 0 {
		n.Description = description[0]
	}
	if err := n.Validate(); err != nil {
		return err
	}
	if _, exists := b.nodes[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	b.nodes[name] = n
	b.order = append(b.order, name)
	return nil
}

// AddEdge registers a direct edge from one node to another node or END.
func (b *Builder[S]) AddEdge(from, to string) error {
	if err := b.checkSource(from); err != nil {
		return err
	}
	if err := b.checkTarget(to); err != nil {
		return err
	}
	b.edges[from] = &Edge[S]{From: from, kind: edgeDirect, target: to}
	return nil
}

// AddConditionalEdge registers a router function that picks the next
// node from the state at traversal time.
func (b *Builder[S]) AddConditionalEdge(from string, router Router[S]) error {
	if err := b.checkSource(from); err != nil {
		return err
	}
	if router == nil {
		return ErrNilRouter
	}
	b.edges[from] = &Edge[S]{From: from, kind: edgeConditional, router: router}
	return nil
}

// AddConditionalRouter registers an ordered predicate table. The first
// matching route wins; no match falls through to defaultRoute (END when
// empty). Sugar over AddConditionalEdge: statically known route targets
// are validated here, then compiled into a plain router.
func (b *Builder[S]) AddConditionalRouter(from string, routes []Route[S], defaultRoute string) error {
	if err := b.checkSource(from); err != nil {
		return err
	}
	if defaultRoute == "" {
		defaultRoute = END
	}
	if err := b.checkTarget(defaultRoute); err != nil {
		return err
	}
	for _, r := range routes {
		if err := b.checkTarget(r.To); err != nil {
			return err
		}
	}
	b.edges[from] = &Edge[S]{From: from, kind: edgeConditional, router: routerFor(routes, defaultRoute)}
	return nil
}

// AddParallelEdge registers a fan-out over targets with an optional
// merger; traversal continues at END after the join. Without a merger,
// the last declared target's result becomes the continuation state.
func (b *Builder[S]) AddParallelEdge(from string, targets []string, merger Merger[S]) error {
	return b.AddParallelEdgeWithJoin(from, targets, merger, END)
}

// AddParallelEdgeWithJoin is AddParallelEdge with an explicit
// continuation node. A parallel step always produces one merged state
// and one continuation point; any routing beyond the join belongs to
// the join node's own edge.
func (b *Builder[S]) AddParallelEdgeWithJoin(from string, targets []string, merger Merger[S], join string) error {
	if err := b.checkSource(from); err != nil {
		return err
	}
	if len(targets) == 0 {
		return ErrNoTargets
	}
	for _, t := range targets {
		// Branch targets execute a transform, so END cannot appear here.
		if _, ok := b.nodes[t]; !ok {
			return fmt.Errorf("%w: parallel target %q", ErrNodeNotFound, t)
		}
	}
	if join == "" {
		join = END
	}
	if err := b.checkTarget(join); err != nil {
		return err
	}
	ts := make([]string, len(targets))
	copy(ts, targets)
	b.edges[from] = &Edge[S]{From: from, kind: edgeParallel, targets: ts, merger: merger, join: join}
	return nil
}

// SetEntryPoint designates the node where traversal begins.
func (b *Builder[S]) SetEntryPoint(name string) error {
	if _, ok := b.nodes[name]; !ok {
		return fmt.Errorf("%w: entry point %q", ErrNodeNotFound, name)
	}
	b.entryPoint = name
	return nil
}

// SetMaxIterations overrides the loop-guard budget.
func (b *Builder[S]) SetMaxIterations(n int) error {
	if n <= 0 {
		return ErrInvalidMaxIterations
	}
	b.maxIterations = n
	return nil
}

// Build validates the assembled topology and freezes it into a Graph.
// The builder stays usable afterwards; the Graph owns private copies.
func (b *Builder[S]) Build() (*Graph[S], error) {
	if b.entryPoint == "" {
		return nil, ErrNoEntryPoint
	}
	if _, ok := b.nodes[b.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: entry point %q", ErrNodeNotFound, b.entryPoint)
	}
	nodes := make(map[string]*Node[S], len(b.nodes))
	for name, n := range b.nodes {
		nodes[name] = n
	}
	edges := make(map[string]*Edge[S], len(b.edges))
	for from, e := range b.edges {
		edges[from] = e
	}
	order := make([]string, len(b.order))
	copy(order, b.order)
	return &Graph[S]{
		nodes:         nodes,
		order:         order,
		edges:         edges,
		entryPoint:    b.entryPoint,
		maxIterations: b.maxIterations,
	}, nil
}

// checkSource ensures from references a registered node.
func (b *Builder[S]) checkSource(from string) error {
	if _, ok := b.nodes[from]; !ok {
		return fmt.Errorf("%w: source %q", ErrNodeNotFound, from)
	}
	if _, wired := b.edges[from]; wired {
		return fmt.Errorf("%w: %q", ErrEdgeExists, from)
	}
	return nil
}

// checkTarget ensures a statically known destination is a registered
// node or the END sentinel.
func (b *Builder[S]) checkTarget(to string) error {
	if to == END {
		return nil
	}
	if _, ok := b.nodes[to]; !ok {
		return fmt.Errorf("%w: target %q", ErrNodeNotFound, to)
	}
	return nil
}
