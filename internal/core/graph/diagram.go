package graph

import (
	"fmt"
	"strings"
)

// Diagram renders the frozen topology as a Mermaid flowchart. It is a
// pure function of the registries: rendering never executes a node and
// never mutates the graph.
//
// The entry marker is a START bubble feeding the entry point; END is
// rendered as a terminal bubble. Conditional edges draw a dashed arrow
// to a choice marker because their targets exist only at runtime.
func (g *Graph[S]) Diagram() string {
	t := g.Topology()
	var b strings.Builder
	b.WriteString("flowchart TD\n")
	fmt.Fprintf(&b, "    %s((start)) --> %s\n", START, t.EntryPoint)

	for _, n := range t.Nodes {
		if n.Description != "" {
			fmt.Fprintf(&b, "    %s[\"%s: %s\"]\n", n.Name, n.Name, n.Description)
		} else {
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", n.Name, n.Name)
		}
	}

	wired := make(map[string]bool, len(t.Edges))
	for _, e := range t.Edges {
		wired[e.From] = true
		switch e.Kind {
		case "direct":
			fmt.Fprintf(&b, "    %s --> %s\n", e.From, e.Targets[0])
		case "conditional":
			fmt.Fprintf(&b, "    %s -.-> %s_choice{route}\n", e.From, e.From)
		case "parallel":
			for _, target := range e.Targets {
				fmt.Fprintf(&b, "    %s ==> %s\n", e.From, target)
			}
			join := e.Join
			label := "join"
			if e.HasMerger {
				label = "merge"
			}
			for _, target := range e.Targets {
				fmt.Fprintf(&b, "    %s -- %s --> %s\n", target, label, join)
			}
		}
	}

	// Nodes without an outgoing edge terminate implicitly.
	for _, n := range t.Nodes {
		if !wired[n.Name] {
			fmt.Fprintf(&b, "    %s --> %s\n", n.Name, END)
		}
	}
	fmt.Fprintf(&b, "    %s((end))\n", END)
	return b.String()
}
