package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func add(n int) Transform[counter] {
	return func(_ context.Context, s counter) (counter, error) {
		s.Value += n
		return s, nil
	}
}

func mul(n int) Transform[counter] {
	return func(_ context.Context, s counter) (counter, error) {
		s.Value *= n
		return s, nil
	}
}

func TestInvoke_Linear(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("a", add(1)))
	require.NoError(t, b.AddNode("b", mul(2)))
	require.NoError(t, b.AddNode("c", add(10)))
	require.NoError(t, b.AddEdge("a", "b"))
	require.NoError(t, b.AddEdge("b", "c"))
	require.NoError(t, b.AddEdge("c", END))
	require.NoError(t, b.SetEntryPoint("a"))
	g, err := b.Build()
	require.NoError(t, err)

	res, err := g.Invoke(context.Background(), counter{Value: 0})
	require.NoError(t, err)
	assert.Equal(t, 12, res.FinalState.Value)
	assert.Equal(t, []string{"a", "b", "c"}, res.Path)
	assert.Equal(t, 3, res.Iterations())
}

func TestInvoke_ImplicitEnd(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("only", add(5)))
	require.NoError(t, b.SetEntryPoint("only"))
	g, err := b.Build()
	require.NoError(t, err)

	res, err := g.Invoke(context.Background(), counter{})
	require.NoError(t, err)
	assert.Equal(t, 5, res.FinalState.Value)
	assert.Equal(t, []string{"only"}, res.Path)
}

func TestInvoke_LoopGuard(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("spin", add(1)))
	require.NoError(t, b.AddEdge("spin", "spin"))
	require.NoError(t, b.SetEntryPoint("spin"))
	require.NoError(t, b.SetMaxIterations(10))
	g, err := b.Build()
	require.NoError(t, err)

	_, err = g.Invoke(context.Background(), counter{})
	assert.ErrorIs(t, err, ErrMaxIterationsExceeded)
}

func TestInvoke_ConditionalLoop(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("inc", add(1)))
	require.NoError(t, b.AddConditionalEdge("inc", func(_ context.Context, s counter) (string, error) {
		if s.Value < 5 {
			return "inc", nil
		}
		return END, nil
	}))
	require.NoError(t, b.SetEntryPoint("inc"))
	g, err := b.Build()
	require.NoError(t, err)

	res, err := g.Invoke(context.Background(), counter{Value: 0})
	require.NoError(t, err)
	assert.Equal(t, 5, res.FinalState.Value)
	assert.Len(t, res.Path, 5)
	assert.Equal(t, []string{"inc", "inc", "inc", "inc", "inc"}, res.Path)
}

func TestInvoke_ConditionalRouter(t *testing.T) {
	build := func(t *testing.T, routes []Route[counter], fallback string) *Graph[counter] {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("route", passthrough))
		require.NoError(t, b.AddNode("low", add(100)))
		require.NoError(t, b.AddNode("high", add(1000)))
		require.NoError(t, b.AddConditionalRouter("route", routes, fallback))
		require.NoError(t, b.SetEntryPoint("route"))
		g, err := b.Build()
		require.NoError(t, err)
		return g
	}

	isLow := func(s counter) bool { return s.Value < 10 }
	always := func(counter) bool { return true }

	t.Run("first matching predicate wins", func(t *testing.T) {
		g := build(t, []Route[counter]{
			{When: isLow, To: "low"},
			{When: always, To: "high"},
		}, "")
		res, err := g.Invoke(context.Background(), counter{Value: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"route", "low"}, res.Path)
		assert.Equal(t, 103, res.FinalState.Value)
	})

	t.Run("declaration order decides between overlapping predicates", func(t *testing.T) {
		g := build(t, []Route[counter]{
			{When: always, To: "high"},
			{When: isLow, To: "low"},
		}, "")
		res, err := g.Invoke(context.Background(), counter{Value: 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"route", "high"}, res.Path)
	})

	t.Run("no match falls through to default END", func(t *testing.T) {
		g := build(t, []Route[counter]{
			{When: isLow, To: "low"},
		}, "")
		res, err := g.Invoke(context.Background(), counter{Value: 50})
		require.NoError(t, err)
		assert.Equal(t, []string{"route"}, res.Path)
		assert.Equal(t, 50, res.FinalState.Value)
	})

	t.Run("no match uses explicit default route", func(t *testing.T) {
		g := build(t, []Route[counter]{
			{When: isLow, To: "low"},
		}, "high")
		res, err := g.Invoke(context.Background(), counter{Value: 50})
		require.NoError(t, err)
		assert.Equal(t, []string{"route", "high"}, res.Path)
	})
}

func TestInvoke_Parallel(t *testing.T) {
	t.Run("without merger the last declared branch wins", func(t *testing.T) {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("fan", passthrough))
		require.NoError(t, b.AddNode("plus10", add(10)))
		require.NoError(t, b.AddNode("plus20", add(20)))
		require.NoError(t, b.AddParallelEdge("fan", []string{"plus10", "plus20"}, nil))
		require.NoError(t, b.SetEntryPoint("fan"))
		g, err := b.Build()
		require.NoError(t, err)

		res, err := g.Invoke(context.Background(), counter{Value: 0})
		require.NoError(t, err)
		assert.Equal(t, 20, res.FinalState.Value)
		assert.ElementsMatch(t, []string{"fan", "plus10", "plus20"}, res.Path)
	})

	t.Run("merger sums branch results", func(t *testing.T) {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("fan", passthrough))
		require.NoError(t, b.AddNode("double", mul(2)))
		require.NoError(t, b.AddNode("square", func(_ context.Context, s counter) (counter, error) {
			s.Value *= s.Value
			return s, nil
		}))
		sum := func(_ context.Context, _ counter, branches []counter) (counter, error) {
			var out counter
			for _, br := range branches {
				out.Value += br.Value
			}
			return out, nil
		}
		require.NoError(t, b.AddParallelEdge("fan", []string{"double", "square"}, sum))
		require.NoError(t, b.SetEntryPoint("fan"))
		g, err := b.Build()
		require.NoError(t, err)

		res, err := g.Invoke(context.Background(), counter{Value: 3})
		require.NoError(t, err)
		assert.Equal(t, 15, res.FinalState.Value, "3*2 + 3*3")
	})

	t.Run("branches start from the same pre-branch state", func(t *testing.T) {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("fan", add(1)))
		require.NoError(t, b.AddNode("left", add(0)))
		require.NoError(t, b.AddNode("right", add(0)))
		keepBoth := func(_ context.Context, _ counter, branches []counter) (counter, error) {
			require.Len(t, branches, 2)
			assert.Equal(t, branches[0].Value, branches[1].Value)
			return branches[0], nil
		}
		require.NoError(t, b.AddParallelEdge("fan", []string{"left", "right"}, keepBoth))
		require.NoError(t, b.SetEntryPoint("fan"))
		g, err := b.Build()
		require.NoError(t, err)

		res, err := g.Invoke(context.Background(), counter{Value: 4})
		require.NoError(t, err)
		assert.Equal(t, 5, res.FinalState.Value)
	})

	t.Run("branch failure fails the whole run", func(t *testing.T) {
		boom := errors.New("branch exploded")
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("fan", passthrough))
		require.NoError(t, b.AddNode("ok", add(1)))
		require.NoError(t, b.AddNode("bad", func(_ context.Context, s counter) (counter, error) {
			return s, boom
		}))
		require.NoError(t, b.AddParallelEdge("fan", []string{"ok", "bad"}, nil))
		require.NoError(t, b.SetEntryPoint("fan"))
		g, err := b.Build()
		require.NoError(t, err)

		_, err = g.Invoke(context.Background(), counter{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("join node continues traversal through its own edge", func(t *testing.T) {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("fan", passthrough))
		require.NoError(t, b.AddNode("left", add(10)))
		require.NoError(t, b.AddNode("right", add(20)))
		require.NoError(t, b.AddNode("reduce", mul(2)))
		require.NoError(t, b.AddNode("tail", add(1)))
		sum := func(_ context.Context, _ counter, branches []counter) (counter, error) {
			var out counter
			for _, br := range branches {
				out.Value += br.Value
			}
			return out, nil
		}
		require.NoError(t, b.AddParallelEdgeWithJoin("fan", []string{"left", "right"}, sum, "reduce"))
		require.NoError(t, b.AddEdge("reduce", "tail"))
		require.NoError(t, b.SetEntryPoint("fan"))
		g, err := b.Build()
		require.NoError(t, err)

		res, err := g.Invoke(context.Background(), counter{Value: 0})
		require.NoError(t, err)
		// (10 + 20) * 2 + 1
		assert.Equal(t, 61, res.FinalState.Value)
		assert.Equal(t, "reduce", res.Path[len(res.Path)-2])
		assert.Equal(t, "tail", res.Path[len(res.Path)-1])
	})
}

func TestInvoke_ErrorPropagation(t *testing.T) {
	boom := errors.New("transform exploded")

	t.Run("node error aborts the run unmodified", func(t *testing.T) {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("bad", func(_ context.Context, s counter) (counter, error) {
			return s, boom
		}))
		require.NoError(t, b.SetEntryPoint("bad"))
		g, err := b.Build()
		require.NoError(t, err)

		res, err := g.Invoke(context.Background(), counter{})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, res, "no partial result on failure")
	})

	t.Run("router error aborts the run", func(t *testing.T) {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("a", passthrough))
		require.NoError(t, b.AddConditionalEdge("a", func(context.Context, counter) (string, error) {
			return "", boom
		}))
		require.NoError(t, b.SetEntryPoint("a"))
		g, err := b.Build()
		require.NoError(t, err)

		_, err = g.Invoke(context.Background(), counter{})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("router returning unregistered node", func(t *testing.T) {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("a", passthrough))
		require.NoError(t, b.AddConditionalEdge("a", func(context.Context, counter) (string, error) {
			return "ghost", nil
		}))
		require.NoError(t, b.SetEntryPoint("a"))
		g, err := b.Build()
		require.NoError(t, err)

		_, err = g.Invoke(context.Background(), counter{})
		assert.ErrorIs(t, err, ErrInvalidRoute)
	})

	t.Run("merger error aborts the run", func(t *testing.T) {
		b := NewBuilder[counter]()
		require.NoError(t, b.AddNode("fan", passthrough))
		require.NoError(t, b.AddNode("branch", add(1)))
		require.NoError(t, b.AddParallelEdge("fan", []string{"branch"}, func(context.Context, counter, []counter) (counter, error) {
			return counter{}, boom
		}))
		require.NoError(t, b.SetEntryPoint("fan"))
		g, err := b.Build()
		require.NoError(t, err)

		_, err = g.Invoke(context.Background(), counter{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestInvoke_ContextCancellation(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("spin", add(1)))
	require.NoError(t, b.AddEdge("spin", "spin"))
	require.NoError(t, b.SetEntryPoint("spin"))
	g, err := b.Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Invoke(ctx, counter{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvoke_Idempotence(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("a", add(2)))
	require.NoError(t, b.AddNode("b", mul(3)))
	require.NoError(t, b.AddEdge("a", "b"))
	require.NoError(t, b.AddEdge("b", END))
	require.NoError(t, b.SetEntryPoint("a"))
	g, err := b.Build()
	require.NoError(t, err)

	first, err := g.Invoke(context.Background(), counter{Value: 1})
	require.NoError(t, err)
	second, err := g.Invoke(context.Background(), counter{Value: 1})
	require.NoError(t, err)
	assert.Equal(t, first.FinalState, second.FinalState)
	assert.Equal(t, first.Path, second.Path)
	assert.Equal(t, first.Metadata, second.Metadata)
}

func TestInvoke_ConcurrentRuns(t *testing.T) {
	b := NewBuilder[counter]()
	require.NoError(t, b.AddNode("inc", add(1)))
	require.NoError(t, b.AddConditionalEdge("inc", func(_ context.Context, s counter) (string, error) {
		if s.Value < 20 {
			return "inc", nil
		}
		return END, nil
	}))
	require.NoError(t, b.SetEntryPoint("inc"))
	g, err := b.Build()
	require.NoError(t, err)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			res, err := g.Invoke(context.Background(), counter{})
			if err == nil && res.FinalState.Value != 20 {
				err = errors.New("wrong final value")
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		assert.NoError(t, <-done)
	}
}
