// Package growth adds nodes to a network under preferential-attachment
// policies. Each new node attaches to m distinct existing nodes chosen by
// weighted sampling without replacement; the attachment strategy decides the
// weights (uniform, degree^alpha, or per-node gene expression).
package growth

import (
	"fmt"
	"math"

	"github.com/presilience-net/resilience-core/pkg/graph"
)

// Method names accepted by NewAttachmentStrategy.
const (
	MethodRandom   = "random"
	MethodDegree   = "degree"
	MethodBioSmart = "bio_smart"
)

// AttachmentStrategy scores candidate target nodes for a new node's edges.
// Weights align with g.Nodes() order and need not be normalized; sampling is
// scale invariant.
type AttachmentStrategy interface {
	Name() string
	Weights(g *graph.Graph) ([]float64, error)
}

// RandomAttachment weighs every existing node equally.
type RandomAttachment struct{}

func (RandomAttachment) Name() string {
	return MethodRandom
}

func (RandomAttachment) Weights(g *graph.Graph) ([]float64, error) {
	weights := make([]float64, g.NumNodes())
	for i := range weights {
		weights[i] = 1
	}
	return weights, nil
}

// DegreeAttachment weighs each node by degree^Alpha. Alpha = 1 is classic
// preferential attachment; larger Alpha concentrates edges on hubs, negative
// Alpha inverts the preference.
type DegreeAttachment struct {
	Alpha float64
}

func (DegreeAttachment) Name() string {
	return MethodDegree
}

func (s DegreeAttachment) Weights(g *graph.Graph) ([]float64, error) {
	nodes := g.Nodes()
	weights := make([]float64, len(nodes))
	for i, id := range nodes {
		weights[i] = math.Pow(float64(g.Degree(id)), s.Alpha)
	}
	return weights, nil
}

// GeneExpressionAttachment weighs each node by its raw gene_expression
// value. Every existing node must carry the attribute.
type GeneExpressionAttachment struct{}

func (GeneExpressionAttachment) Name() string {
	return MethodBioSmart
}

func (GeneExpressionAttachment) Weights(g *graph.Graph) ([]float64, error) {
	nodes := g.Nodes()
	weights := make([]float64, len(nodes))
	for i, id := range nodes {
		value, ok := g.GeneExpression(id)
		if !ok {
			return nil, &MissingExpressionError{Node: id}
		}
		weights[i] = value
	}
	return weights, nil
}

// UnknownGrowthMethodError reports a growth method name the factory does not
// recognize. Unlike removal policies, growth has no safe default to fall
// back to, so this is fatal.
type UnknownGrowthMethodError struct {
	Method string
}

func (e *UnknownGrowthMethodError) Error() string {
	return fmt.Sprintf("unknown growth method %q: valid methods are %s, %s, %s",
		e.Method, MethodRandom, MethodDegree, MethodBioSmart)
}

// MissingExpressionError reports the first node encountered without a
// gene_expression value during bio_smart growth.
type MissingExpressionError struct {
	Node graph.NodeID
}

func (e *MissingExpressionError) Error() string {
	return fmt.Sprintf("node %q has no gene_expression value, required by %s growth",
		e.Node, MethodBioSmart)
}

// NewAttachmentStrategy resolves a method name to a strategy. An empty name
// selects random attachment.
func NewAttachmentStrategy(method string, alpha float64) (AttachmentStrategy, error) {
	switch method {
	case MethodRandom, "":
		return RandomAttachment{}, nil
	case MethodDegree:
		return DegreeAttachment{Alpha: alpha}, nil
	case MethodBioSmart:
		return GeneExpressionAttachment{}, nil
	default:
		return nil, &UnknownGrowthMethodError{Method: method}
	}
}
