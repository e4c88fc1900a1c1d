package document

import (
	"encoding/json"
	"fmt"
)

// Version 1 stored a single flat network with names and positions embedded
// directly on each node. Version 2 split author-controlled metadata into the
// path-keyed table so nested levels and derived caches stay separate.

type legacyDocument struct {
	Version int          `json:"version"`
	Nodes   []legacyNode `json:"nodes"`
	Exports []legacyWire `json:"exports"`
}

type legacyNode struct {
	ID        NodeID       `json:"id"`
	Name      string       `json:"name"`
	Reference string       `json:"reference"`
	X         int          `json:"x"`
	Y         int          `json:"y"`
	Layer     bool         `json:"layer"`
	Inputs    []legacyWire `json:"inputs"`
}

// legacyWire is either a node reference (Node non-empty) or a literal value.
type legacyWire struct {
	Node   NodeID       `json:"node,omitempty"`
	Output int          `json:"output,omitempty"`
	Value  *TaggedValue `json:"value,omitempty"`
}

func (w legacyWire) input() Input {
	if w.Node != "" {
		return NodeInput(w.Node, w.Output)
	}
	if w.Value != nil {
		return ValueInput(*w.Value, true)
	}
	return ValueInput(UnitValue(), false)
}

// upgradeLegacy converts a version-1 flat document into the current shape.
// Every legacy node becomes a primitive node with absolute position metadata
// at the root level.
func upgradeLegacy(data []byte) (*Document, error) {
	var legacy legacyDocument
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("decode legacy document: %w", err)
	}

	doc := NewDocument()
	level := doc.Level("")

	for _, old := range legacy.Nodes {
		if old.ID == "" {
			return nil, fmt.Errorf("legacy node with empty id")
		}
		node := &Node{Implementation: ProtoImplementation(old.Reference)}
		for _, wire := range old.Inputs {
			node.Inputs = append(node.Inputs, wire.input())
		}
		doc.Network.Nodes[old.ID] = node

		position := AbsoluteNodePosition(GridPoint{X: old.X, Y: old.Y})
		if old.Layer {
			position = AbsoluteLayerPosition(GridPoint{X: old.X, Y: old.Y})
		}
		level.Nodes[old.ID] = &NodeMetadata{
			DisplayName:      old.Name,
			Reference:        old.Reference,
			HasPrimaryOutput: true,
			Position:         position,
		}
	}

	for _, wire := range legacy.Exports {
		doc.Network.Exports = append(doc.Network.Exports, wire.input())
	}

	return doc, nil
}
