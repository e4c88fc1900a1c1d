package graphedit_test

import (
	"testing"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
)

// buildStackedDocument builds one level exercising every position mode:
//
//	export 0 <- layerA.out0
//	layerA.in0 <- layerB.out0     (layerB stacked above layerA, offset 1)
//	layerA.in1 <- chain1.out0     (horizontal chain into layerA)
//	chain1.in0 <- chain2.out0
//
// layerA sits at absolute (10, 10).
func buildStackedDocument() *document.Document {
	doc := document.NewDocument()
	level := doc.Level("")

	doc.Network.Nodes["layerA"] = &document.Node{
		Inputs: []document.Input{
			document.NodeInput("layerB", 0),
			document.NodeInput("chain1", 0),
		},
		Implementation: document.ProtoImplementation("merge"),
	}
	level.Nodes["layerA"] = &document.NodeMetadata{
		DisplayName:      "Layer A",
		Reference:        "merge",
		HasPrimaryOutput: true,
		Position:         document.AbsoluteLayerPosition(document.GridPoint{X: 10, Y: 10}),
	}

	doc.Network.Nodes["layerB"] = &document.Node{
		Inputs: []document.Input{
			document.ValueInput(document.UnitValue(), true),
			document.ValueInput(document.UnitValue(), true),
		},
		Implementation: document.ProtoImplementation("merge"),
	}
	level.Nodes["layerB"] = &document.NodeMetadata{
		DisplayName:      "Layer B",
		Reference:        "merge",
		HasPrimaryOutput: true,
		Position:         document.StackPosition(1),
	}

	doc.Network.Nodes["chain1"] = &document.Node{
		Inputs:         []document.Input{document.NodeInput("chain2", 0)},
		Implementation: document.ProtoImplementation("opacity"),
	}
	level.Nodes["chain1"] = &document.NodeMetadata{
		Reference:        "opacity",
		HasPrimaryOutput: true,
		Position:         document.ChainPosition(),
	}

	doc.Network.Nodes["chain2"] = &document.Node{
		Inputs:         []document.Input{document.ValueInput(document.UnitValue(), true)},
		Implementation: document.ProtoImplementation("opacity"),
	}
	level.Nodes["chain2"] = &document.NodeMetadata{
		Reference:        "opacity",
		HasPrimaryOutput: true,
		Position:         document.ChainPosition(),
	}

	doc.Network.Exports = []document.Input{document.NodeInput("layerA", 0)}
	return doc
}

func newStackedInterface() *graphedit.NetworkInterface {
	return graphedit.New(buildStackedDocument(), nil)
}

func TestPositionDerivation(t *testing.T) {
	n := newStackedInterface()

	tests := []struct {
		node document.NodeID
		want document.GridPoint
	}{
		{"layerA", document.GridPoint{X: 10, Y: 10}},
		// Downstream layer height 2 plus stack offset 1.
		{"layerB", document.GridPoint{X: 10, Y: 13}},
		// One chain hop left of the layer.
		{"chain1", document.GridPoint{X: 10 - graphedit.ChainSpacingCells, Y: 10}},
		{"chain2", document.GridPoint{X: 10 - 2*graphedit.ChainSpacingCells, Y: 10}},
	}
	for _, tt := range tests {
		t.Run(string(tt.node), func(t *testing.T) {
			got, ok := n.Position(tt.node, nil)
			if !ok {
				t.Fatalf("Position(%s) failed", tt.node)
			}
			if got != tt.want {
				t.Errorf("Position(%s) = %s, want %s", tt.node, got, tt.want)
			}
		})
	}
}

func TestNodeDimensions(t *testing.T) {
	n := newStackedInterface()

	if got := n.HeightInCells("layerA", nil); got != graphedit.LayerHeightCells {
		t.Errorf("layer height = %d, want %d", got, graphedit.LayerHeightCells)
	}
	if got := n.WidthInCells("layerA", nil); got != graphedit.DefaultLayerWidthCells {
		t.Errorf("layer width = %d, want %d", got, graphedit.DefaultLayerWidthCells)
	}
	if got := n.HeightInCells("chain1", nil); got != 1 {
		t.Errorf("chain node height = %d, want 1", got)
	}
	if got := n.WidthInCells("chain1", nil); got != graphedit.NodeWidthCells {
		t.Errorf("chain node width = %d, want %d", got, graphedit.NodeWidthCells)
	}
}

func TestLongLayerNameWidens(t *testing.T) {
	n := newStackedInterface()
	m, _ := n.NodeMetadata("layerA", nil)
	m.DisplayName = "An Exceedingly Long Layer Name"
	n.Invalidate(graphedit.CacheLayerWidth, nil, "layerA")

	if got := n.WidthInCells("layerA", nil); got <= graphedit.DefaultLayerWidthCells {
		t.Errorf("width = %d, want wider than default %d", got, graphedit.DefaultLayerWidthCells)
	}
}

func TestIsEligibleToBeLayer(t *testing.T) {
	n := newStackedInterface()

	if !n.IsEligibleToBeLayer("chain1", nil) {
		t.Error("chain1 should be eligible: one output, one displayed input")
	}
	if !n.IsEligibleToBeLayer("layerA", nil) {
		t.Error("layerA should be eligible")
	}

	// A third displayed input breaks eligibility.
	node, _ := n.Node("layerB", nil)
	node.Inputs = append(node.Inputs, document.ValueInput(document.UnitValue(), true))
	if n.IsEligibleToBeLayer("layerB", nil) {
		t.Error("layerB with three displayed inputs should not be eligible")
	}
}

func TestSetUpstreamChainToAbsolute(t *testing.T) {
	n := newStackedInterface()

	n.SetUpstreamChainToAbsolute("chain1", nil)

	for _, tt := range []struct {
		node document.NodeID
		want document.GridPoint
	}{
		{"chain1", document.GridPoint{X: 3, Y: 10}},
		{"chain2", document.GridPoint{X: -4, Y: 10}},
	} {
		m, ok := n.NodeMetadata(tt.node, nil)
		if !ok {
			t.Fatalf("metadata for %s missing", tt.node)
		}
		if m.Position.Mode != document.PositionAbsolute {
			t.Errorf("%s mode = %s, want absolute", tt.node, m.Position.Mode)
		}
		if m.Position.Coord != tt.want {
			t.Errorf("%s pinned at %s, want %s", tt.node, m.Position.Coord, tt.want)
		}
	}
}

func TestTrySetNodeToChain(t *testing.T) {
	n := newStackedInterface()

	// Pin the chain, then let it reform.
	n.SetUpstreamChainToAbsolute("chain1", nil)
	n.TrySetNodeToChain("chain1", nil)

	for _, id := range []document.NodeID{"chain1", "chain2"} {
		m, _ := n.NodeMetadata(id, nil)
		if m.Position.Mode != document.PositionChain {
			t.Errorf("%s mode = %s, want chain after reforming", id, m.Position.Mode)
		}
	}
}

func TestChainRefusedOffRow(t *testing.T) {
	n := newStackedInterface()
	n.SetUpstreamChainToAbsolute("chain1", nil)

	// Drag chain2 well below the chain row; only chain1 may rejoin.
	m, _ := n.NodeMetadata("chain2", nil)
	m.Position.Coord.Y += 5

	n.TrySetNodeToChain("chain1", nil)

	m1, _ := n.NodeMetadata("chain1", nil)
	if m1.Position.Mode != document.PositionChain {
		t.Errorf("chain1 mode = %s, want chain", m1.Position.Mode)
	}
	m2, _ := n.NodeMetadata("chain2", nil)
	if m2.Position.Mode != document.PositionAbsolute {
		t.Errorf("chain2 mode = %s, want absolute: it sits off the chain row", m2.Position.Mode)
	}
}

func TestChainRefusedOnFanOut(t *testing.T) {
	n := newStackedInterface()
	n.SetUpstreamChainToAbsolute("chain1", nil)

	// A second consumer of chain1 disqualifies it.
	network, _ := n.Network(nil)
	network.Nodes["tap"] = &document.Node{
		Inputs:         []document.Input{document.NodeInput("chain1", 0)},
		Implementation: document.ProtoImplementation("opacity"),
	}
	n.Document().Level("").Nodes["tap"] = &document.NodeMetadata{
		Reference:        "opacity",
		HasPrimaryOutput: true,
		Position:         document.AbsoluteNodePosition(document.GridPoint{X: 0, Y: 20}),
	}
	n.Invalidate(graphedit.CacheOutwardWires, nil)

	n.TrySetNodeToChain("chain1", nil)

	m, _ := n.NodeMetadata("chain1", nil)
	if m.Position.Mode != document.PositionAbsolute {
		t.Errorf("chain1 mode = %s, want absolute: it has two consumers", m.Position.Mode)
	}
}

func TestConnectedToOutput(t *testing.T) {
	n := newStackedInterface()

	for _, id := range []document.NodeID{"layerA", "layerB", "chain1", "chain2"} {
		if !n.ConnectedToOutput(id, nil) {
			t.Errorf("%s should reach the export", id)
		}
	}

	network, _ := n.Network(nil)
	network.Nodes["island"] = &document.Node{
		Implementation: document.ProtoImplementation("opacity"),
	}
	n.Invalidate(graphedit.CacheRootConnected, nil)
	if n.ConnectedToOutput("island", nil) {
		t.Error("island has no path to the export")
	}
}
