package document

import (
	"testing"

	"github.com/zclconf/go-cty/cty"
)

// buildNestedDocument returns a two-level document: a sub-network node "group"
// containing "inner", wired through to the root export.
func buildNestedDocument() *Document {
	inner := NewNetwork()
	inner.Nodes["inner"] = &Node{
		Inputs:         []Input{NetworkInput(0)},
		Implementation: ProtoImplementation("identity"),
	}
	inner.Exports = []Input{NodeInput("inner", 0)}

	doc := NewDocument()
	doc.Network.Nodes["group"] = &Node{
		Inputs:         []Input{ValueInput(NewValue(cty.NumberIntVal(7)), true)},
		Implementation: NetworkImplementation(inner),
	}
	doc.Network.Exports = []Input{NodeInput("group", 0)}

	doc.Level("").Nodes["group"] = &NodeMetadata{
		DisplayName:      "Group",
		HasPrimaryOutput: true,
		Position:         AbsoluteNodePosition(GridPoint{X: 3, Y: 4}),
	}
	doc.Level("group").Nodes["inner"] = &NodeMetadata{
		Reference:        "identity",
		HasPrimaryOutput: true,
		Position:         AbsoluteNodePosition(GridPoint{}),
	}
	return doc
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := buildNestedDocument()

	data, err := MarshalDocument(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Version != FormatVersion {
		t.Errorf("version = %d, want %d", got.Version, FormatVersion)
	}
	group, ok := got.Network.Node("group")
	if !ok {
		t.Fatal("group node missing after round trip")
	}
	sub, ok := group.Subnetwork()
	if !ok {
		t.Fatal("group lost its sub-network")
	}
	inner, ok := sub.Node("inner")
	if !ok {
		t.Fatal("inner node missing after round trip")
	}
	if inner.Inputs[0].Kind != InputNetwork || inner.Inputs[0].ImportIndex != 0 {
		t.Errorf("inner input = %+v, want import 0", inner.Inputs[0])
	}

	v, ok := group.Inputs[0].AsValue()
	if !ok {
		t.Fatal("group input lost its value")
	}
	if v.Type() != cty.Number {
		t.Errorf("value type = %s, want number", v.Type().FriendlyName())
	}
	if !v.Value().RawEquals(cty.NumberIntVal(7)) {
		t.Errorf("value = %s, want 7", v.String())
	}

	meta := got.Metadata["group"]
	if meta == nil || meta.Nodes["inner"] == nil {
		t.Fatal("nested metadata level missing after round trip")
	}
	rootMeta := got.Metadata[""].Nodes["group"]
	if rootMeta.Position.Coord != (GridPoint{X: 3, Y: 4}) {
		t.Errorf("position = %s, want (3, 4)", rootMeta.Position.Coord)
	}
}

func TestReadDocumentUpgradesLegacy(t *testing.T) {
	legacy := []byte(`{
		"version": 1,
		"nodes": [
			{"id": "a", "name": "Source", "reference": "identity", "x": 1, "y": 2, "inputs": []},
			{"id": "b", "name": "Sink", "reference": "merge", "x": 8, "y": 2, "layer": true,
			 "inputs": [{"node": "a"}]}
		],
		"exports": [{"node": "b"}]
	}`)

	doc, err := UnmarshalDocument(legacy)
	if err != nil {
		t.Fatalf("unmarshal legacy: %v", err)
	}
	if doc.Version != FormatVersion {
		t.Errorf("version = %d, want %d", doc.Version, FormatVersion)
	}

	b, ok := doc.Network.Node("b")
	if !ok {
		t.Fatal("node b missing")
	}
	if b.Inputs[0].Kind != InputNode || b.Inputs[0].Node != "a" {
		t.Errorf("b input = %+v, want wire from a", b.Inputs[0])
	}

	meta := doc.Metadata[""].Nodes["b"]
	if meta == nil {
		t.Fatal("metadata for b missing")
	}
	if !meta.IsLayer() {
		t.Error("b should have the layer representation")
	}
	if meta.Position.Coord != (GridPoint{X: 8, Y: 2}) {
		t.Errorf("b position = %s, want (8, 2)", meta.Position.Coord)
	}
	if meta.Name() != "Sink" {
		t.Errorf("b name = %q, want Sink", meta.Name())
	}

	if len(doc.Network.Exports) != 1 || doc.Network.Exports[0].Node != "b" {
		t.Errorf("exports = %+v, want wire from b", doc.Network.Exports)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("upgraded document should validate: %v", err)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalDocument([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
