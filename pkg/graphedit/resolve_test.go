package graphedit_test

import (
	"testing"

	"github.com/zclconf/go-cty/cty"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
	"github.com/mhalter/nodeloom/pkg/registry"
)

// buildGroupedDocument nests one level:
//
//	root:  group.in0 = value 5;  group.out0 -> export 0
//	group: export 0 <- import 0
func buildGroupedDocument() *document.Document {
	doc := document.NewDocument()

	inner := document.NewNetwork()
	inner.Exports = []document.Input{document.NetworkInput(0)}

	doc.Network.Nodes["group"] = &document.Node{
		Inputs: []document.Input{
			document.ValueInput(document.NewValue(cty.NumberIntVal(5)), true),
		},
		Implementation: document.NetworkImplementation(inner),
	}
	doc.Network.Exports = []document.Input{document.NodeInput("group", 0)}

	doc.Level("").Nodes["group"] = &document.NodeMetadata{
		HasPrimaryOutput: true,
		Position:         document.AbsoluteNodePosition(document.GridPoint{X: 10, Y: 0}),
	}
	return doc
}

func TestInputTypeFromValue(t *testing.T) {
	n := graphedit.New(buildGroupedDocument(), registry.Builtin())

	got := n.InputType(document.InputAt("group", 0), nil)
	if got.Source != graphedit.TypeSourceValue {
		t.Fatalf("source = %s, want value", got.Source)
	}
	if !got.Type.Equals(cty.Number) {
		t.Errorf("type = %s, want number", got.Type.FriendlyName())
	}
}

func TestInputTypeFollowsWire(t *testing.T) {
	n := graphedit.New(buildStackedDocument(), registry.Builtin())

	// layerA's chain input is wired to an opacity node; the catalog says
	// opacity produces a graphic.
	got := n.InputType(document.InputAt("layerA", 1), nil)
	if got.Source != graphedit.TypeSourceDefinition {
		t.Fatalf("source = %s, want definition", got.Source)
	}
	if !got.Type.Equals(registry.TypeGraphic) {
		t.Errorf("type = %s, want graphic", got.Type.FriendlyName())
	}
}

func TestOutputTypeRecursesIntoSubnetwork(t *testing.T) {
	n := graphedit.New(buildGroupedDocument(), registry.Builtin())

	// group's output follows the inner export to import 0, which resolves
	// to the number wired into group at the root level.
	got := n.OutputType(document.OutputAt("group", 0), nil)
	if got.Source != graphedit.TypeSourceValue {
		t.Fatalf("source = %s, want value", got.Source)
	}
	if !got.Type.Equals(cty.Number) {
		t.Errorf("type = %s, want number", got.Type.FriendlyName())
	}
}

func TestImportTypeAtRootFails(t *testing.T) {
	n := graphedit.New(buildGroupedDocument(), registry.Builtin())

	got := n.OutputType(document.ImportAt(0), nil)
	if got.Source != graphedit.TypeSourceError {
		t.Errorf("source = %s, want error: the root network has no imports", got.Source)
	}
	if !got.Type.Equals(document.UnitType) {
		t.Errorf("type = %s, want unit", got.Type.FriendlyName())
	}
}

func TestSignatureFallback(t *testing.T) {
	doc := document.NewDocument()
	doc.Network.Nodes["fade"] = &document.Node{
		Inputs:         []document.Input{document.ScopeInput("graphic")},
		Implementation: document.ProtoImplementation("opacity"),
	}
	doc.Level("").Nodes["fade"] = &document.NodeMetadata{
		Reference:        "opacity",
		HasPrimaryOutput: true,
		Position:         document.AbsoluteNodePosition(document.GridPoint{}),
	}
	n := graphedit.New(doc, registry.Builtin())

	// A scope input carries no value and no wire, so only the catalog
	// signature can answer.
	got := n.InputType(document.InputAt("fade", 0), nil)
	if got.Source != graphedit.TypeSourceDefinition {
		t.Fatalf("source = %s, want definition", got.Source)
	}
	if !got.Type.Equals(registry.TypeGraphic) {
		t.Errorf("type = %s, want graphic", got.Type.FriendlyName())
	}
}

func TestHashedSignatureIsStable(t *testing.T) {
	doc := document.NewDocument()
	for _, id := range []document.NodeID{"sum1", "sum2"} {
		doc.Network.Nodes[id] = &document.Node{
			Inputs:         []document.Input{document.ScopeInput("a"), document.ScopeInput("b")},
			Implementation: document.ProtoImplementation("add"),
		}
		doc.Level("").Nodes[id] = &document.NodeMetadata{
			Reference:        "add",
			HasPrimaryOutput: true,
			Position:         document.AbsoluteNodePosition(document.GridPoint{}),
		}
	}
	n := graphedit.New(doc, registry.Builtin())

	// The add catalog entry declares two signatures; the pick is hashed from
	// the node id, so repeated reads of the same node never flicker.
	first := n.InputType(document.InputAt("sum1", 0), nil)
	if first.Source != graphedit.TypeSourceHashedSignature {
		t.Fatalf("source = %s, want hashed-signature", first.Source)
	}
	for i := 0; i < 5; i++ {
		again := n.InputType(document.InputAt("sum1", 0), nil)
		if !again.Type.Equals(first.Type) || again.Source != first.Source {
			t.Fatalf("resolution flickered: %s/%s then %s/%s",
				first.Type.FriendlyName(), first.Source,
				again.Type.FriendlyName(), again.Source)
		}
	}
}

func TestCompiledTypesTakePrecedence(t *testing.T) {
	n := graphedit.New(buildStackedDocument(), registry.Builtin())

	n.SetCompiledTypes(map[string]graphedit.NodeTypes{
		"chain1": {Inputs: []cty.Type{cty.Bool}, Output: cty.String},
	})

	in := n.InputType(document.InputAt("chain1", 0), nil)
	if in.Source != graphedit.TypeSourceCompiled || !in.Type.Equals(cty.Bool) {
		t.Errorf("input = %s/%s, want compiled bool", in.Type.FriendlyName(), in.Source)
	}
	out := n.OutputType(document.OutputAt("chain1", 0), nil)
	if out.Source != graphedit.TypeSourceCompiled || !out.Type.Equals(cty.String) {
		t.Errorf("output = %s/%s, want compiled string", out.Type.FriendlyName(), out.Source)
	}

	// A later call replaces the table entirely; the wire resolves through
	// the catalog again.
	n.SetCompiledTypes(nil)
	in = n.InputType(document.InputAt("chain1", 0), nil)
	if in.Source != graphedit.TypeSourceDefinition {
		t.Errorf("source after reset = %s, want definition", in.Source)
	}
}

func TestValueInputBeatsCompiledTypes(t *testing.T) {
	n := graphedit.New(buildGroupedDocument(), registry.Builtin())

	// group's input 0 holds the literal number 5; the stored value stays
	// authoritative for that input even with compiled types installed.
	n.SetCompiledTypes(map[string]graphedit.NodeTypes{
		"group": {Inputs: []cty.Type{cty.String}, Output: cty.String},
	})

	got := n.InputType(document.InputAt("group", 0), nil)
	if got.Source != graphedit.TypeSourceValue {
		t.Fatalf("source = %s, want value", got.Source)
	}
	if !got.Type.Equals(cty.Number) {
		t.Errorf("type = %s, want number", got.Type.FriendlyName())
	}
}

func TestInputTypeMissingConnector(t *testing.T) {
	n := graphedit.New(buildStackedDocument(), registry.Builtin())

	got := n.InputType(document.InputAt("ghost", 0), nil)
	if got.Source != graphedit.TypeSourceError {
		t.Errorf("source = %s, want error", got.Source)
	}
}
