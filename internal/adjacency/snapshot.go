// Package adjacency provides an index-based view of a graph for the hot
// loops of entropy estimation: node removal becomes a boolean mask and
// connected components are labeled by iterative depth-first search, with no
// per-trial graph copies.
package adjacency

import (
	"github.com/presilience-net/resilience-core/pkg/graph"
)

// Snapshot is an immutable index-based adjacency view of a graph. Indexes
// follow the graph's insertion order, so draws made over them are
// deterministic for a fixed random stream.
type Snapshot struct {
	ids       []graph.NodeID
	neighbors [][]int
}

// Build captures the graph's current structure. Later mutations of the
// graph are not reflected in the snapshot.
func Build(g *graph.Graph) *Snapshot {
	ids := g.Nodes()
	index := make(map[graph.NodeID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	neighbors := make([][]int, len(ids))
	for i, id := range ids {
		nbs := g.Neighbors(id)
		row := make([]int, len(nbs))
		for j, nb := range nbs {
			row[j] = index[nb]
		}
		neighbors[i] = row
	}

	return &Snapshot{ids: ids, neighbors: neighbors}
}

// Len returns the number of nodes in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.ids)
}

// ID returns the node ID at the given index.
func (s *Snapshot) ID(i int) graph.NodeID {
	return s.ids[i]
}

// ComponentSizes returns the sizes of the connected components induced by
// the nodes NOT marked in removed. A nil mask keeps every node. removed, when
// non-nil, must have length Len().
func (s *Snapshot) ComponentSizes(removed []bool) []int {
	n := len(s.ids)
	sizes := make([]int, 0)
	if n == 0 {
		return sizes
	}

	visited := make([]bool, n)
	stack := make([]int, 0, n)

	for start := 0; start < n; start++ {
		if visited[start] || (removed != nil && removed[start]) {
			continue
		}

		size := 0
		visited[start] = true
		stack = append(stack, start)
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			for _, nb := range s.neighbors[v] {
				if visited[nb] || (removed != nil && removed[nb]) {
					continue
				}
				visited[nb] = true
				stack = append(stack, nb)
			}
		}
		sizes = append(sizes, size)
	}

	return sizes
}
