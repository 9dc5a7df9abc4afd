// Package graph provides the undirected simple graph the resilience
// estimators and growth models operate on. Nodes are string identifiers and
// may carry a gene expression weight used by expression-preferential growth.
//
// The type is not safe for concurrent use; callers running parallel
// evaluations work on independent Clone()s.
package graph

import (
	"errors"
	"fmt"
	"sort"
)

// NodeID identifies a node in the graph.
type NodeID string

var (
	// ErrSelfLoop is returned when an edge would connect a node to itself.
	ErrSelfLoop = errors.New("self-loops are not allowed")
	// ErrNodeNotFound is returned when an operation references a missing node.
	ErrNodeNotFound = errors.New("node not found")
)

// Graph is a mutable undirected simple graph. Nodes() enumerates in
// insertion order, which keeps stochastic draws over the node set
// reproducible under a fixed seed.
type Graph struct {
	adj   map[NodeID]map[NodeID]struct{}
	order []NodeID
	expr  map[NodeID]float64
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		adj:  make(map[NodeID]map[NodeID]struct{}),
		expr: make(map[NodeID]float64),
	}
}

// AddNode inserts a node if it is not already present.
// It returns true when the node was newly added.
func (g *Graph) AddNode(id NodeID) bool {
	if _, ok := g.adj[id]; ok {
		return false
	}
	g.adj[id] = make(map[NodeID]struct{})
	g.order = append(g.order, id)
	return true
}

// AddEdge inserts the undirected edge {u, v}, creating missing endpoints.
// Adding an existing edge is a no-op. Self-loops are rejected.
func (g *Graph) AddEdge(u, v NodeID) error {
	if u == v {
		return fmt.Errorf("%w: %s", ErrSelfLoop, u)
	}
	g.AddNode(u)
	g.AddNode(v)
	if _, ok := g.adj[u][v]; ok {
		return nil
	}
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
	g.edges++
	return nil
}

// RemoveNode deletes a node and every incident edge.
// It returns false when the node is not present.
func (g *Graph) RemoveNode(id NodeID) bool {
	neighbors, ok := g.adj[id]
	if !ok {
		return false
	}
	for nb := range neighbors {
		delete(g.adj[nb], id)
		g.edges--
	}
	delete(g.adj, id)
	delete(g.expr, id)
	for i, n := range g.order {
		if n == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.adj[id]
	return ok
}

// HasEdge reports whether the undirected edge {u, v} exists.
func (g *Graph) HasEdge(u, v NodeID) bool {
	_, ok := g.adj[u][v]
	return ok
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.order)
}

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int {
	return g.edges
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, len(g.order))
	copy(out, g.order)
	return out
}

// Degree returns the number of edges incident to the node, or 0 for a
// missing node.
func (g *Graph) Degree(id NodeID) int {
	return len(g.adj[id])
}

// Neighbors returns the node's neighbors sorted by ID.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	set, ok := g.adj[id]
	if !ok {
		return nil
	}
	out := make([]NodeID, 0, len(set))
	for nb := range set {
		out = append(out, nb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a deep copy sharing no state with the original.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		adj:   make(map[NodeID]map[NodeID]struct{}, len(g.adj)),
		order: make([]NodeID, len(g.order)),
		expr:  make(map[NodeID]float64, len(g.expr)),
		edges: g.edges,
	}
	copy(c.order, g.order)
	for id, set := range g.adj {
		nbs := make(map[NodeID]struct{}, len(set))
		for nb := range set {
			nbs[nb] = struct{}{}
		}
		c.adj[id] = nbs
	}
	for id, v := range g.expr {
		c.expr[id] = v
	}
	return c
}

// SetGeneExpression attaches a non-negative expression weight to a node.
func (g *Graph) SetGeneExpression(id NodeID, value float64) error {
	if !g.HasNode(id) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if value < 0 {
		return fmt.Errorf("gene expression for %s must be non-negative, got %v", id, value)
	}
	g.expr[id] = value
	return nil
}

// GeneExpression returns the node's expression weight and whether one is set.
func (g *Graph) GeneExpression(id NodeID) (float64, bool) {
	v, ok := g.expr[id]
	return v, ok
}
