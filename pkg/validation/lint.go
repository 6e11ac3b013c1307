// Package validation provides offline diagnostics for frozen
// topologies and struct-tag validation for configuration types. The
// engine never runs any of this during traversal.
package validation

import (
	"fmt"

	"github.com/stategraph/stategraph/internal/core/graph"
)

// Severity ranks lint findings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is one lint finding about the topology.
type Issue struct {
	Severity Severity
	Node     string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Node, i.Message)
}

// LintTopology inspects a frozen topology snapshot and reports
// structural findings. Cycles are reported as info only: the engine has
// no cycle detection, just the iteration cap, and loop topologies are a
// supported pattern.
func LintTopology(t graph.Topology) []Issue {
	var issues []Issue

	adj := make(map[string][]string, len(t.Edges))
	dynamic := make(map[string]bool)
	wired := make(map[string]bool, len(t.Edges))
	branch := make(map[string]bool)
	for _, e := range t.Edges {
		wired[e.From] = true
		if e.Kind == "conditional" {
			// Targets exist only at runtime; reachability past this
			// node cannot be decided statically.
			dynamic[e.From] = true
			continue
		}
		for _, to := range e.Targets {
			if to == graph.END {
				continue
			}
			adj[e.From] = append(adj[e.From], to)
		}
		if e.Kind == "parallel" {
			// Traversal continues at the join node after the merge, and
			// branch targets hand off to the join rather than ending
			// (or routing) on their own.
			if e.Join != "" && e.Join != graph.END {
				adj[e.From] = append(adj[e.From], e.Join)
			}
			for _, to := range e.Targets {
				branch[to] = true
			}
		}
	}

	reachable := walk(t.EntryPoint, adj)
	hasDynamic := len(dynamic) > 0
	for _, n := range t.Nodes {
		if reachable[n.Name] {
			continue
		}
		if hasDynamic {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Node:     n.Name,
				Message:  "not statically reachable from the entry point (may be routed dynamically)",
			})
		} else {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Node:     n.Name,
				Message:  "unreachable from the entry point",
			})
		}
	}

	for _, n := range t.Nodes {
		if !wired[n.Name] && !branch[n.Name] {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Node:     n.Name,
				Message:  "no outgoing edge: traversal ends here implicitly",
			})
		}
	}

	if cycleNode := findCycle(adj); cycleNode != "" {
		issues = append(issues, Issue{
			Severity: SeverityInfo,
			Node:     cycleNode,
			Message: fmt.Sprintf(
				"participates in a static cycle; runs are bounded only by the iteration cap (%d)",
				t.MaxIterations),
		})
	}

	return issues
}

// walk collects every node reachable from start over static edges.
func walk(start string, adj map[string][]string) map[string]bool {
	seen := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// findCycle returns one node on a static cycle, or "" when the static
// edges are acyclic. DFS with coloring.
func findCycle(adj map[string][]string) string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var found string
	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range adj[u] {
			if color[v] == gray {
				found = v
				return true
			}
			if color[v] == white && dfs(v) {
				return true
			}
		}
		color[u] = black
		return false
	}
	for u := range adj {
		if color[u] == white && dfs(u) {
			return found
		}
	}
	return ""
}
