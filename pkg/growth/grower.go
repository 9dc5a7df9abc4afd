package growth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/presilience-net/resilience-core/pkg/graph"
	"github.com/presilience-net/resilience-core/pkg/logger"
	"github.com/presilience-net/resilience-core/pkg/utils"
)

// DefaultAlpha is the preferential-attachment exponent applied when the
// Options field is zero.
const DefaultAlpha = 1.0

// BioSmartPrefix prefixes the IDs of nodes added by bio_smart growth.
const BioSmartPrefix = "added_protein_"

// Options configures a single AddNode call.
type Options struct {
	// Method selects the attachment strategy; empty selects random.
	Method string

	// Alpha is the degree exponent for degree attachment. Zero selects
	// DefaultAlpha.
	Alpha float64

	// Rand is the random stream for target sampling. Nil selects the
	// process-wide default source.
	Rand *utils.RandSource

	// Logger used for growth diagnostics. Nil selects the package default.
	Logger *slog.Logger
}

// AddNode grows g by one node attached to m distinct existing nodes chosen
// by the configured strategy, and returns the ID of the node actually added.
// For random and degree growth that is newNodeID itself; bio_smart derives
// the ID by prefixing BioSmartPrefix and additionally assigns the new node a
// gene_expression equal to the 10th percentile of the distribution observed
// before the addition.
//
// The graph is mutated in place: exactly one node and exactly m edges.
// Sampling without replacement fails when m exceeds the number of existing
// nodes, or the number of nodes with positive weight; the error propagates
// unclamped.
func AddNode(g *graph.Graph, m int, newNodeID graph.NodeID, opts Options) (graph.NodeID, error) {
	if g == nil {
		return "", errors.New("graph must not be nil")
	}
	if m < 0 {
		return "", fmt.Errorf("edge count must be non-negative, got %d", m)
	}

	alpha := opts.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	strategy, err := NewAttachmentStrategy(opts.Method, alpha)
	if err != nil {
		return "", err
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default
	}

	nodeID := newNodeID
	bio := strategy.Name() == MethodBioSmart
	if bio {
		nodeID = BioSmartPrefix + newNodeID
	}
	if g.HasNode(nodeID) {
		return "", fmt.Errorf("node %q already present in graph", nodeID)
	}

	// Snapshot candidates and weights before mutating; bio_smart's weights
	// double as the pre-addition expression distribution.
	nodes := g.Nodes()
	weights, err := strategy.Weights(g)
	if err != nil {
		return "", err
	}
	var decile float64
	if bio {
		decile = utils.Percentile(weights, 10)
	}

	rng := opts.Rand
	if rng == nil {
		rng = utils.Default()
	}
	picks, err := rng.WeightedSampleWithoutReplacement(weights, m)
	if err != nil {
		return "", fmt.Errorf("sampling %d attachment targets: %w", m, err)
	}

	g.AddNode(nodeID)
	for _, idx := range picks {
		if err := g.AddEdge(nodeID, nodes[idx]); err != nil {
			return "", fmt.Errorf("attaching %q to %q: %w", nodeID, nodes[idx], err)
		}
	}
	if bio {
		if err := g.SetGeneExpression(nodeID, decile); err != nil {
			return "", err
		}
	}

	log.Debug("node added",
		"node", string(nodeID), "method", strategy.Name(), "edges", m)

	return nodeID, nil
}
