package graph

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// NodeID indexes a node in discovery order.
type NodeID uint32

// Sort produces a linear order of the graph's identifiers in which every
// dependency precedes its dependents, using Kahn's algorithm with
// discovery-order tie-breaking so identical inputs always yield identical
// output. Entry identifiers that never made it into the graph are
// appended, and the result is deduplicated preserving first occurrence, so
// every entry appears exactly once even for a single import-free file.
// Fails with CycleError when the graph has no valid order.
func Sort(g *Graph, entries []string) ([]string, error) {
	nodeCount := len(g.nodes)
	indeg := make([]int, nodeCount)
	adj := make([][]NodeID, nodeCount)
	for _, e := range g.edges {
		from := g.nodeIDs[e.Dependency]
		to := g.nodeIDs[e.Dependent]
		adj[from] = append(adj[from], toNodeID(to))
		indeg[to]++
	}

	current := make([]NodeID, 0, nodeCount)
	for i := 0; i < nodeCount; i++ {
		if indeg[i] == 0 {
			current = append(current, toNodeID(i))
		}
	}
	slices.Sort(current)

	order := make([]string, 0, nodeCount)
	visited := 0
	for len(current) > 0 {
		next := make([]NodeID, 0)
		for _, id := range current {
			order = append(order, g.nodes[int(id)])
			visited++
			for _, to := range adj[int(id)] {
				indeg[int(to)]--
				if indeg[int(to)] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != nodeCount {
		return nil, &CycleError{Visited: g.Nodes()}
	}

	for _, entry := range entries {
		if !slices.Contains(order, entry) {
			order = append(order, entry)
		}
	}
	return dedup(order), nil
}

func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func toNodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("node id overflow: %w", err))
	}
	return id
}
