package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagram(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("fetch", passthrough, "pull raw input"))
	require.NoError(t, b.AddNode("score", passthrough))
	require.NoError(t, b.AddNode("left", passthrough))
	require.NoError(t, b.AddNode("right", passthrough))
	require.NoError(t, b.AddNode("reduce", passthrough))
	require.NoError(t, b.AddEdge("fetch", "score"))
	require.NoError(t, b.AddConditionalEdge("score", func(context.Context, counter) (string, error) {
		return END, nil
	}))
	require.NoError(t, b.AddParallelEdgeWithJoin("reduce", []string{"left", "right"}, nil, END))
	require.NoError(t, b.SetEntryPoint("fetch"))
	g, err := b.Build()
	require.NoError(t, err)

	out := g.Diagram()

	assert.Contains(t, out, START+"((start))", "entry marker")
	assert.Contains(t, out, END+"((end))", "terminal marker")
	assert.Contains(t, out, "fetch --> score")
	assert.Contains(t, out, "score -.->", "conditional edge renders a choice marker")
	assert.Contains(t, out, "reduce ==> left")
	assert.Contains(t, out, "reduce ==> right")
	assert.Contains(t, out, "pull raw input", "node description is kept")
	// One line per node.
	for _, name := range []string{"fetch", "score", "left", "right", "reduce"} {
		assert.Contains(t, out, name+"[\"")
	}
}

func TestDiagram_MinimalGraph(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("solo", passthrough))
	require.NoError(t, b.SetEntryPoint("solo"))
	g, err := b.Build()
	require.NoError(t, err)

	out := g.Diagram()
	assert.True(t, strings.HasPrefix(out, "flowchart TD"))
	assert.Contains(t, out, START+"((start)) --> solo")
	assert.Contains(t, out, "solo --> "+END, "implicit END is drawn")
}
