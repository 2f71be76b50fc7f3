// Package graph builds the import dependency graph of a set of entry
// files and orders it so every file follows everything it depends on.
package graph

import (
	"weld/internal/importpath"
)

// Source supplies file contents for an import identifier. The returned
// path is the resolved, root-relative location of the file; relative
// imports inside the contents normalize against it.
type Source interface {
	Resolve(identifier string) (contents string, resolvedPath string, err error)
}

// Extractor yields the raw import paths of a file in source order.
type Extractor interface {
	Imports(contents string) ([]string, error)
}

// Edge is a directed dependency: Dependent's contents import Dependency.
type Edge struct {
	Dependency string
	Dependent  string
}

// Graph is the set of discovered edges plus every identifier seen during
// traversal, both in deterministic discovery order.
type Graph struct {
	nodes   []string
	nodeIDs map[string]int
	edges   []Edge
	edgeSet map[Edge]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIDs: make(map[string]int),
		edgeSet: make(map[Edge]struct{}),
	}
}

// Nodes returns identifiers in discovery order.
func (g *Graph) Nodes() []string { return g.nodes }

// Edges returns unique edges in discovery order.
func (g *Graph) Edges() []Edge { return g.edges }

func (g *Graph) addNode(identifier string) int {
	if id, ok := g.nodeIDs[identifier]; ok {
		return id
	}
	id := len(g.nodes)
	g.nodes = append(g.nodes, identifier)
	g.nodeIDs[identifier] = id
	return id
}

// AddEdge records that dependent imports dependency. Re-recording the same
// edge (diamond imports discover edges repeatedly) is idempotent.
func (g *Graph) AddEdge(dependency, dependent string) {
	g.addNode(dependency)
	g.addNode(dependent)
	e := Edge{Dependency: dependency, Dependent: dependent}
	if _, dup := g.edgeSet[e]; dup {
		return
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
}

type builder struct {
	source    Source
	extractor Extractor
	graph     *Graph
	visited   map[string]struct{}
}

// Build walks the transitive imports of the entry identifiers depth-first
// and returns the dependency graph. One visited set and one graph are
// shared across all entry points, so diamond dependencies are traversed
// once. The first resolution or parse failure aborts the whole build.
func Build(source Source, extractor Extractor, entries []string) (*Graph, error) {
	b := &builder{
		source:    source,
		extractor: extractor,
		graph:     NewGraph(),
		visited:   make(map[string]struct{}),
	}
	for _, entry := range entries {
		if _, seen := b.visited[entry]; seen {
			continue
		}
		if err := b.visit(entry, nil); err != nil {
			return nil, err
		}
	}
	return b.graph, nil
}

func (b *builder) visit(identifier string, chain []string) error {
	// Mark before recursing so cycles terminate.
	b.visited[identifier] = struct{}{}
	b.graph.addNode(identifier)

	contents, resolvedPath, err := b.source.Resolve(identifier)
	if err != nil {
		return &ResolutionError{Identifier: identifier, Chain: chain, Err: err}
	}
	imports, err := b.extractor.Imports(contents)
	if err != nil {
		return &ParseError{Path: resolvedPath, Err: err}
	}

	chain = append(chain[:len(chain):len(chain)], identifier)
	for _, raw := range imports {
		dep := importpath.Normalize(raw, resolvedPath)
		// The edge is recorded on every discovery; traversal happens once.
		b.graph.AddEdge(dep, identifier)
		if _, seen := b.visited[dep]; seen {
			continue
		}
		if err := b.visit(dep, chain); err != nil {
			return err
		}
	}
	return nil
}
