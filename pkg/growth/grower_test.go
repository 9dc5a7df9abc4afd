package growth

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/presilience-net/resilience-core/pkg/graph"
	"github.com/presilience-net/resilience-core/pkg/utils"
)

func pathGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.New()
	ids := make([]graph.NodeID, n)
	for i := 0; i < n; i++ {
		ids[i] = graph.NodeID("n" + strconv.Itoa(i))
		g.AddNode(ids[i])
	}
	for i := 0; i+1 < n; i++ {
		if err := g.AddEdge(ids[i], ids[i+1]); err != nil {
			t.Fatalf("unexpected error adding edge: %v", err)
		}
	}
	return g
}

func expressedGraph(t *testing.T, values []float64) *graph.Graph {
	t.Helper()
	g := graph.New()
	for i, v := range values {
		id := graph.NodeID("p" + strconv.Itoa(i))
		g.AddNode(id)
		if err := g.SetGeneExpression(id, v); err != nil {
			t.Fatalf("unexpected error setting expression: %v", err)
		}
	}
	return g
}

func TestAddNodeRandomInvariants(t *testing.T) {
	g := pathGraph(t, 6)
	nodesBefore := g.NumNodes()
	edgesBefore := g.NumEdges()

	id, err := AddNode(g, 3, "fresh", Options{Rand: utils.NewRandSource(42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "fresh" {
		t.Errorf("expected returned ID %q, got %q", "fresh", id)
	}
	if g.NumNodes() != nodesBefore+1 {
		t.Errorf("expected node count %d, got %d", nodesBefore+1, g.NumNodes())
	}
	if g.NumEdges() != edgesBefore+3 {
		t.Errorf("expected edge count %d, got %d", edgesBefore+3, g.NumEdges())
	}
	if got := g.Degree(id); got != 3 {
		t.Errorf("expected new node degree 3, got %d", got)
	}
	if g.HasEdge(id, id) {
		t.Error("expected no self edge on new node")
	}
}

func TestAddNodeZeroEdges(t *testing.T) {
	g := pathGraph(t, 3)
	edgesBefore := g.NumEdges()

	id, err := AddNode(g, 0, "isolated", Options{Rand: utils.NewRandSource(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Degree(id) != 0 {
		t.Errorf("expected isolated node, got degree %d", g.Degree(id))
	}
	if g.NumEdges() != edgesBefore {
		t.Errorf("expected edge count unchanged at %d, got %d", edgesBefore, g.NumEdges())
	}
}

func TestAddNodeDefaultMethodIsRandom(t *testing.T) {
	g := pathGraph(t, 4)

	id, err := AddNode(g, 2, "x", Options{Rand: utils.NewRandSource(9)})
	if err != nil {
		t.Fatalf("unexpected error with default method: %v", err)
	}
	if g.Degree(id) != 2 {
		t.Errorf("expected degree 2, got %d", g.Degree(id))
	}
}

func TestAddNodeDegreePrefersHubs(t *testing.T) {
	rng := utils.NewRandSource(314)
	hubPicks := 0
	trials := 200

	for i := 0; i < trials; i++ {
		g := graph.New()
		g.AddNode("hub")
		for j := 0; j < 9; j++ {
			leaf := graph.NodeID("l" + strconv.Itoa(j))
			if err := g.AddEdge("hub", leaf); err != nil {
				t.Fatalf("unexpected error adding edge: %v", err)
			}
		}

		id, err := AddNode(g, 1, "new", Options{Method: MethodDegree, Alpha: 3, Rand: rng})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if g.HasEdge(id, "hub") {
			hubPicks++
		}
	}

	// With alpha 3 the hub's weight is 9^3 against nine 1s, so the hub
	// should win the single pick about 99% of the time.
	if proportion := float64(hubPicks) / float64(trials); proportion < 0.9 {
		t.Errorf("expected hub picked in at least 90%% of trials, got %.2f", proportion)
	}
}

func TestAddNodeDegreeSkipsIsolatedNodes(t *testing.T) {
	g := pathGraph(t, 4)
	g.AddNode("iso")

	// Only the four path nodes carry positive degree weight, so m = 4 must
	// select exactly those and never the isolated node.
	id, err := AddNode(g, 4, "new", Options{Method: MethodDegree, Rand: utils.NewRandSource(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.HasEdge(id, "iso") {
		t.Error("expected zero-weight isolated node to never be targeted")
	}
	for i := 0; i < 4; i++ {
		target := graph.NodeID("n" + strconv.Itoa(i))
		if !g.HasEdge(id, target) {
			t.Errorf("expected edge to %q", target)
		}
	}
}

func TestAddNodeDegreeAllIsolatedFails(t *testing.T) {
	g := graph.New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")

	_, err := AddNode(g, 1, "new", Options{Method: MethodDegree, Rand: utils.NewRandSource(2)})
	if !errors.Is(err, utils.ErrInsufficientPopulation) {
		t.Errorf("expected insufficient population error for all-zero degrees, got %v", err)
	}
}

func TestAddNodeInsufficientPopulation(t *testing.T) {
	g := pathGraph(t, 3)

	_, err := AddNode(g, 5, "new", Options{Rand: utils.NewRandSource(2)})
	if !errors.Is(err, utils.ErrInsufficientPopulation) {
		t.Errorf("expected insufficient population error, got %v", err)
	}
	if g.NumNodes() != 3 {
		t.Errorf("expected graph unchanged after failed growth, got %d nodes", g.NumNodes())
	}
	if g.HasNode("new") {
		t.Error("expected new node absent after failed growth")
	}
}

func TestAddNodeNegativeEdgeCount(t *testing.T) {
	g := pathGraph(t, 3)

	if _, err := AddNode(g, -1, "new", Options{}); err == nil {
		t.Error("expected error for negative edge count, got nil")
	}
}

func TestAddNodeNilGraph(t *testing.T) {
	if _, err := AddNode(nil, 1, "new", Options{}); err == nil {
		t.Error("expected error for nil graph, got nil")
	}
}

func TestAddNodeDuplicateID(t *testing.T) {
	g := pathGraph(t, 3)

	if _, err := AddNode(g, 1, "n1", Options{Rand: utils.NewRandSource(3)}); err == nil {
		t.Error("expected error for duplicate node ID, got nil")
	}
	if g.NumNodes() != 3 {
		t.Errorf("expected graph unchanged, got %d nodes", g.NumNodes())
	}
}

func TestAddNodeUnknownMethod(t *testing.T) {
	g := pathGraph(t, 3)

	_, err := AddNode(g, 1, "new", Options{Method: "smart"})
	var unknownErr *UnknownGrowthMethodError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownGrowthMethodError, got %v", err)
	}
	if unknownErr.Method != "smart" {
		t.Errorf("expected offending method %q, got %q", "smart", unknownErr.Method)
	}
}

func TestAddNodeBioSmart(t *testing.T) {
	values := []float64{2, 4, 6, 8, 10}
	g := expressedGraph(t, values)

	id, err := AddNode(g, 2, "1", Options{Method: MethodBioSmart, Rand: utils.NewRandSource(77)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "added_protein_1" {
		t.Errorf("expected derived ID %q, got %q", "added_protein_1", id)
	}
	if g.Degree(id) != 2 {
		t.Errorf("expected degree 2, got %d", g.Degree(id))
	}

	// 10th percentile of {2,4,6,8,10} interpolates between the two lowest
	// values at rank 0.4.
	got, ok := g.GeneExpression(id)
	if !ok {
		t.Fatal("expected new node to carry a gene_expression value")
	}
	if want := 2.8; math.Abs(got-want) > 1e-9 {
		t.Errorf("expected expression %v, got %v", want, got)
	}
}

func TestAddNodeBioSmartUsesPreAdditionDistribution(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	g := expressedGraph(t, values)

	want := utils.Percentile(values, 10)
	id, err := AddNode(g, 1, "a", Options{Method: MethodBioSmart, Rand: utils.NewRandSource(8)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := g.GeneExpression(id)
	if got != want {
		t.Errorf("expected decile of pre-addition distribution %v, got %v", want, got)
	}
}

func TestAddNodeBioSmartMissingExpression(t *testing.T) {
	g := expressedGraph(t, []float64{1, 2})
	g.AddNode("bare")

	_, err := AddNode(g, 1, "new", Options{Method: MethodBioSmart, Rand: utils.NewRandSource(4)})
	var missingErr *MissingExpressionError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected MissingExpressionError, got %v", err)
	}
	if missingErr.Node != "bare" {
		t.Errorf("expected offending node %q, got %q", "bare", missingErr.Node)
	}
	if g.HasNode("added_protein_new") {
		t.Error("expected graph unchanged after failed growth")
	}
}

func TestAddNodeBioSmartZeroExpressionNeverTargeted(t *testing.T) {
	g := expressedGraph(t, []float64{0, 5, 5})

	id, err := AddNode(g, 2, "z", Options{Method: MethodBioSmart, Rand: utils.NewRandSource(6)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.HasEdge(id, "p0") {
		t.Error("expected zero-expression node to never be targeted")
	}
	if !g.HasEdge(id, "p1") || !g.HasEdge(id, "p2") {
		t.Error("expected both positive-expression nodes to be targeted")
	}
}

func TestAddNodeBioSmartDuplicateDerivedID(t *testing.T) {
	g := expressedGraph(t, []float64{1, 2, 3})
	g.AddNode("added_protein_7")
	if err := g.SetGeneExpression("added_protein_7", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := AddNode(g, 1, "7", Options{Method: MethodBioSmart, Rand: utils.NewRandSource(11)}); err == nil {
		t.Error("expected error for colliding derived ID, got nil")
	}
}

func TestAddNodeDeterministic(t *testing.T) {
	run := func(seed int64) []graph.NodeID {
		g := pathGraph(t, 8)
		id, err := AddNode(g, 3, "new", Options{Rand: utils.NewRandSource(seed)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return g.Neighbors(id)
	}

	first := run(2024)
	second := run(2024)
	if len(first) != len(second) {
		t.Fatalf("expected identical neighbor counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("neighbor %d: expected %q, got %q", i, first[i], second[i])
		}
	}
}

func TestNewAttachmentStrategy(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		want    string
		wantErr bool
	}{
		{name: "random", method: "random", want: MethodRandom},
		{name: "empty defaults to random", method: "", want: MethodRandom},
		{name: "degree", method: "degree", want: MethodDegree},
		{name: "bio smart", method: "bio_smart", want: MethodBioSmart},
		{name: "unknown", method: "targeted", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewAttachmentStrategy(tt.method, 1.0)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Name() != tt.want {
				t.Errorf("expected strategy %q, got %q", tt.want, s.Name())
			}
		})
	}
}
