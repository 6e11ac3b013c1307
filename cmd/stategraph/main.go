// Package main provides the stategraph CLI application
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stategraph/stategraph/pkg/stategraph"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// demoState is the state flowing through the demo pipeline.
type demoState struct {
	Text  string
	Words int
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("stategraph %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return
	}

	fmt.Println("⚡ stategraph - Typed Graph Execution Engine")
	if err := runDemo(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "demo failed: %v\n", err)
		os.Exit(1)
	}
}

// runDemo builds a small pipeline, prints its diagram, and executes it.
func runDemo(out *os.File) error {
	b := stategraph.New[demoState]()
	if err := b.AddNode("normalize", normalize, "lowercase + trim"); err != nil {
		return err
	}
	if err := b.AddNode("count", countWords, "count words"); err != nil {
		return err
	}
	if err := b.AddEdge("normalize", "count"); err != nil {
		return err
	}
	if err := b.AddEdge("count", stategraph.END); err != nil {
		return err
	}
	if err := b.SetEntryPoint("normalize"); err != nil {
		return err
	}
	g, err := b.Build()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "\nTopology:")
	fmt.Fprintln(out, g.Diagram())

	res, err := g.Invoke(context.Background(), demoState{Text: "  Hello Graph World  "})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Result: %q (%d words)\n", res.FinalState.Text, res.FinalState.Words)
	fmt.Fprintf(out, "Path: %v, iterations: %d\n", res.Path, res.Iterations())
	return nil
}

func normalize(_ context.Context, s demoState) (demoState, error) {
	s.Text = strings.ToLower(strings.TrimSpace(s.Text))
	return s, nil
}

func countWords(_ context.Context, s demoState) (demoState, error) {
	s.Words = len(strings.Fields(s.Text))
	return s, nil
}
