// Package stategraph is the public façade over the internal engine:
// construct a topology with a Builder, freeze it with Build, and run it
// with Invoke or through a Runner. Callers never import internal
// packages.
//
// Minimal usage:
//
//	b := stategraph.New[MyState]()
//	_ = b.AddNode("work", work)
//	_ = b.SetEntryPoint("work")
//	g, _ := b.Build()
//	res, err := g.Invoke(ctx, MyState{})
package stategraph
