// Package manifest builds frozen graphs from declarative YAML
// topology documents. Behavior (transforms, routers, predicates,
// mergers) stays in code: the document references them by name and the
// caller supplies the bindings.
//
// Example document:
//
//	name: scoring
//	entry: fetch
//	max_iterations: 50
//	nodes:
//	  - name: fetch
//	  - name: score
//	    description: assign a quality score
//	edges:
//	  - from: fetch
//	    to: score
//	  - from: score
//	    routes:
//	      - when: low_quality
//	        to: fetch
//	    default: __end__
package manifest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/stategraph/stategraph/internal/core/graph"
	"github.com/stategraph/stategraph/pkg/validation"
)

var (
	ErrUnboundTransform = errors.New("manifest references an unbound transform")
	ErrUnboundRouter    = errors.New("manifest references an unbound router")
	ErrUnboundPredicate = errors.New("manifest references an unbound predicate")
	ErrUnboundMerger    = errors.New("manifest references an unbound merger")
	ErrAmbiguousEdge    = errors.New("edge declares more than one variant")
	ErrEmptyEdge        = errors.New("edge declares no variant")
)

// Document is the YAML topology schema.
type Document struct {
	Name          string     `yaml:"name" validate:"required"`
	EntryPoint    string     `yaml:"entry" validate:"required"`
	MaxIterations int        `yaml:"max_iterations" validate:"gte=0"`
	Nodes         []NodeDecl `yaml:"nodes" validate:"required,min=1,dive"`
	Edges         []EdgeDecl `yaml:"edges" validate:"dive"`
}

// NodeDecl declares one node. Transform defaults to the node name.
type NodeDecl struct {
	Name        string `yaml:"name" validate:"required"`
	Transform   string `yaml:"transform"`
	Description string `yaml:"description"`
}

// EdgeDecl declares the outgoing edge of one source node. Exactly one
// variant must be populated: To (direct), Router (bound router
// function), Routes (+optional Default), or Parallel (+optional
// Merger/Join).
type EdgeDecl struct {
	From     string      `yaml:"from" validate:"required"`
	To       string      `yaml:"to"`
	Router   string      `yaml:"router"`
	Routes   []RouteDecl `yaml:"routes" validate:"dive"`
	Default  string      `yaml:"default"`
	Parallel []string    `yaml:"parallel"`
	Merger   string      `yaml:"merger"`
	Join     string      `yaml:"join"`
}

// RouteDecl pairs a bound predicate name with a target node.
type RouteDecl struct {
	When string `yaml:"when" validate:"required"`
	To   string `yaml:"to" validate:"required"`
}

// Bindings supplies the behavior referenced by name in a document.
type Bindings[S any] struct {
	Transforms map[string]graph.Transform[S]
	Routers    map[string]graph.Router[S]
	Predicates map[string]graph.Predicate[S]
	Mergers    map[string]graph.Merger[S]
}

// Parse decodes and validates a document without building it.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := validation.Struct(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load parses a document and builds the frozen graph in one step.
func Load[S any](data []byte, bind Bindings[S]) (*graph.Graph[S], error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(doc, bind)
}

// Build assembles a frozen graph from a parsed document and bindings.
// Construction errors from the underlying builder surface unchanged.
func Build[S any](doc *Document, bind Bindings[S]) (*graph.Graph[S], error) {
	b := graph.NewBuilder[S]()

	for _, n := range doc.Nodes {
		key := n.Transform
		if key == "" {
			key = n.Name
		}
		fn, ok := bind.Transforms[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q (node %q)", ErrUnboundTransform, key, n.Name)
		}
		if err := b.AddNode(n.Name, fn, n.Description); err != nil {
			return nil, err
		}
	}

	for _, e := range doc.Edges {
		if err := addEdge(b, e, bind); err != nil {
			return nil, err
		}
	}

	if err := b.SetEntryPoint(doc.EntryPoint); err != nil {
		return nil, err
	}
	if doc.MaxIterations > 0 {
		if err := b.SetMaxIterations(doc.MaxIterations); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func addEdge[S any](b *graph.Builder[S], e EdgeDecl, bind Bindings[S]) error {
	variants := 0
	if e.To != "" {
		variants++
	}
	if e.Router != "" {
		variants++
	}
	if len(e.Routes) > 0 {
		variants++
	}
	if len(e.Parallel) > 0 {
		variants++
	}
	switch {
	case variants == 0:
		return fmt.Errorf("%w: from %q", ErrEmptyEdge, e.From)
	case variants > 1:
		return fmt.Errorf("%w: from %q", ErrAmbiguousEdge, e.From)
	}

	switch {
	case e.To != "":
		return b.AddEdge(e.From, e.To)

	case e.Router != "":
		router, ok := bind.Routers[e.Router]
		if !ok {
			return fmt.Errorf("%w: %q (edge from %q)", ErrUnboundRouter, e.Router, e.From)
		}
		return b.AddConditionalEdge(e.From, router)

	case len(e.Routes) > 0:
		routes := make([]graph.Route[S], 0, len(e.Routes))
		for _, r := range e.Routes {
			pred, ok := bind.Predicates[r.When]
			if !ok {
				return fmt.Errorf("%w: %q (edge from %q)", ErrUnboundPredicate, r.When, e.From)
			}
			routes = append(routes, graph.Route[S]{When: pred, To: r.To})
		}
		return b.AddConditionalRouter(e.From, routes, e.Default)

	default:
		var merger graph.Merger[S]
		if e.Merger != "" {
			m, ok := bind.Mergers[e.Merger]
			if !ok {
				return fmt.Errorf("%w: %q (edge from %q)", ErrUnboundMerger, e.Merger, e.From)
			}
			merger = m
		}
		if e.Join != "" {
			return b.AddParallelEdgeWithJoin(e.From, e.Parallel, merger, e.Join)
		}
		return b.AddParallelEdge(e.From, e.Parallel, merger)
	}
}
