package graphedit_test

import (
	"testing"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
	"github.com/mhalter/nodeloom/pkg/registry"
)

// buildParentDocument builds a root stack with one parent layer:
//
//	export 0 <- parentL.out0
//	child and child2 are free-standing absolute layers.
func buildParentDocument() *document.Document {
	doc := document.NewDocument()
	level := doc.Level("")

	addLayer := func(id document.NodeID, x, y int) {
		doc.Network.Nodes[id] = &document.Node{
			Inputs: []document.Input{
				document.ValueInput(document.UnitValue(), true),
				document.ValueInput(document.UnitValue(), true),
			},
			Implementation: document.ProtoImplementation(registry.ReferenceMerge),
		}
		level.Nodes[id] = &document.NodeMetadata{
			Reference:        registry.ReferenceMerge,
			HasPrimaryOutput: true,
			Position:         document.AbsoluteLayerPosition(document.GridPoint{X: x, Y: y}),
		}
	}
	addLayer("parentL", 0, 0)
	addLayer("child", 20, 20)
	addLayer("child2", 30, 30)

	doc.Network.Exports = []document.Input{document.NodeInput("parentL", 0)}
	return doc
}

func TestMoveLayerToStackUnderParent(t *testing.T) {
	n := graphedit.New(buildParentDocument(), nil)

	if !n.MoveLayerToStack("child", "parentL", 0, nil) {
		t.Fatal("MoveLayerToStack failed")
	}

	parent, _ := n.Node("parentL", nil)
	if upstream, _, _ := parent.Inputs[1].AsNode(); upstream != "child" {
		t.Fatalf("parent child slot fed by %s, want child", upstream)
	}
	m, _ := n.NodeMetadata("child", nil)
	if m.Position.Mode != document.PositionStack {
		t.Fatalf("child mode = %s, want stack", m.Position.Mode)
	}
	got, ok := n.Position("child", nil)
	if !ok {
		t.Fatal("child position does not derive")
	}
	// Directly below the parent: its position plus the layer height.
	if want := (document.GridPoint{X: 0, Y: 2}); got != want {
		t.Errorf("Position(child) = %s, want %s", got, want)
	}
}

func TestMoveLayerToStackClampsPastEnd(t *testing.T) {
	n := graphedit.New(buildParentDocument(), nil)
	n.MoveLayerToStack("child", "parentL", 0, nil)

	// Slot 5 does not exist; the layer lands at the stack's end instead.
	if !n.MoveLayerToStack("child2", "parentL", 5, nil) {
		t.Fatal("MoveLayerToStack failed")
	}

	child, _ := n.Node("child", nil)
	if upstream, _, _ := child.Inputs[0].AsNode(); upstream != "child2" {
		t.Fatalf("child stack input fed by %s, want child2", upstream)
	}
	got, _ := n.Position("child2", nil)
	if want := (document.GridPoint{X: 0, Y: 4}); got != want {
		t.Errorf("Position(child2) = %s, want %s", got, want)
	}
}

func TestMoveLayerToRootStack(t *testing.T) {
	n := newStackedInterface()

	if !n.MoveLayerToStack("layerB", "", 0, nil) {
		t.Fatal("MoveLayerToStack failed")
	}

	network, _ := n.Network(nil)
	if upstream, _, _ := network.Exports[0].AsNode(); upstream != "layerB" {
		t.Fatalf("export fed by %s, want layerB", upstream)
	}
	// The previous export occupant stacks above the moved layer.
	layerB, _ := n.Node("layerB", nil)
	if upstream, _, _ := layerB.Inputs[0].AsNode(); upstream != "layerA" {
		t.Errorf("layerB stack input fed by %s, want layerA", upstream)
	}
	// Nothing downstream of the export to hang from.
	m, _ := n.NodeMetadata("layerB", nil)
	if m.Position.Mode != document.PositionAbsolute {
		t.Errorf("layerB mode = %s, want absolute at the stack bottom", m.Position.Mode)
	}
}

func TestMoveLayerToStackRejections(t *testing.T) {
	n := newStackedInterface()

	if n.MoveLayerToStack("chain1", "", 0, nil) {
		t.Error("plain nodes must not move between stacks")
	}
	if n.MoveLayerToStack("layerB", "layerB", 0, nil) {
		t.Error("a layer must not move into its own stack")
	}

	m, _ := n.NodeMetadata("layerB", nil)
	m.Reference = registry.ReferenceArtboard
	if n.MoveLayerToStack("layerB", "layerA", 0, nil) {
		t.Error("artboards may only live in the root stack")
	}
}

func TestMoveLayerToStackRejectsCycle(t *testing.T) {
	n := graphedit.New(buildParentDocument(), nil)
	if !n.CreateWire(document.OutputAt("child", 0), document.InputAt("parentL", 1), nil) {
		t.Fatal("CreateWire failed")
	}

	// child feeds parentL, so parentL cannot move under child. The refusal
	// must come before any wiring is touched.
	if n.MoveLayerToStack("parentL", "child", 0, nil) {
		t.Fatal("moving a layer under its own upstream must be refused")
	}

	network, _ := n.Network(nil)
	if upstream, _, _ := network.Exports[0].AsNode(); upstream != "parentL" {
		t.Errorf("export fed by %s, want parentL untouched", upstream)
	}
	parent, _ := n.Node("parentL", nil)
	if upstream, _, _ := parent.Inputs[1].AsNode(); upstream != "child" {
		t.Errorf("parentL child slot fed by %s, want child untouched", upstream)
	}
}

func TestMoveNodeToChainStart(t *testing.T) {
	n := newStackedInterface()
	addPlainNode(n, "filter", 20, 10)

	if !n.MoveNodeToChainStart("filter", "layerA", nil) {
		t.Fatal("MoveNodeToChainStart failed")
	}

	chain2, _ := n.Node("chain2", nil)
	if upstream, _, _ := chain2.Inputs[0].AsNode(); upstream != "filter" {
		t.Fatalf("chain start fed by %s, want filter", upstream)
	}
	m, _ := n.NodeMetadata("filter", nil)
	if m.Position.Mode != document.PositionChain {
		t.Fatalf("filter mode = %s, want absorbed into the chain", m.Position.Mode)
	}
	got, _ := n.Position("filter", nil)
	if want := (document.GridPoint{X: 10 - 3*graphedit.ChainSpacingCells, Y: 10}); got != want {
		t.Errorf("Position(filter) = %s, want %s", got, want)
	}
}

func TestMoveNodeToChainStartRejectsLayer(t *testing.T) {
	n := newStackedInterface()
	if n.MoveNodeToChainStart("layerB", "layerA", nil) {
		t.Error("layers must not join a chain")
	}
}

func TestSetToNodeOrLayerDemote(t *testing.T) {
	n := newStackedInterface()

	n.SetToNodeOrLayer("layerA", false, nil)

	if n.IsLayer("layerA", nil) {
		t.Fatal("layerA still a layer")
	}
	m, _ := n.NodeMetadata("layerA", nil)
	if want := (document.GridPoint{X: 10, Y: 10}); m.Position.Coord != want {
		t.Errorf("layerA pinned at %s, want %s", m.Position.Coord, want)
	}

	// The chain and the stacked layer hung off the layer representation.
	for _, tt := range []struct {
		node document.NodeID
		want document.GridPoint
	}{
		{"chain1", document.GridPoint{X: 3, Y: 10}},
		{"chain2", document.GridPoint{X: -4, Y: 10}},
		{"layerB", document.GridPoint{X: 10, Y: 13}},
	} {
		m, _ := n.NodeMetadata(tt.node, nil)
		if m.Position.Mode != document.PositionAbsolute {
			t.Errorf("%s mode = %s, want pinned absolute", tt.node, m.Position.Mode)
		}
		if m.Position.Coord != tt.want {
			t.Errorf("%s pinned at %s, want %s", tt.node, m.Position.Coord, tt.want)
		}
	}
}

func TestSetToNodeOrLayerPromote(t *testing.T) {
	n := newStackedInterface()
	n.SetToNodeOrLayer("layerA", false, nil)

	n.SetToNodeOrLayer("layerA", true, nil)

	if !n.IsLayer("layerA", nil) {
		t.Fatal("layerA did not become a layer again")
	}
	// Promotion lets the pinned upstream run collapse back into a chain.
	for _, id := range []document.NodeID{"chain1", "chain2"} {
		m, _ := n.NodeMetadata(id, nil)
		if m.Position.Mode != document.PositionChain {
			t.Errorf("%s mode = %s, want chain reformed", id, m.Position.Mode)
		}
	}
}

func TestSetToNodeOrLayerRejectsIneligible(t *testing.T) {
	n := newStackedInterface()
	network, _ := n.Network(nil)
	network.Nodes["wide"] = &document.Node{
		Inputs: []document.Input{
			document.ValueInput(document.UnitValue(), true),
			document.ValueInput(document.UnitValue(), true),
			document.ValueInput(document.UnitValue(), true),
		},
		Implementation: document.ProtoImplementation(registry.ReferenceMerge),
	}
	n.Document().Level("").Nodes["wide"] = &document.NodeMetadata{
		Reference:        registry.ReferenceMerge,
		HasPrimaryOutput: true,
		Position:         document.AbsoluteNodePosition(document.GridPoint{X: 0, Y: 30}),
	}

	n.SetToNodeOrLayer("wide", true, nil)
	if n.IsLayer("wide", nil) {
		t.Error("a node with three displayed inputs must not become a layer")
	}
}
