package document

import "fmt"

// InputConnector addresses a wire destination: either input Index of node
// Node, or export slot Index of the current network level when Export is set.
// Connectors are comparable and safe to use as map keys.
type InputConnector struct {
	Node   NodeID `json:"node,omitempty" bson:"node,omitempty"`
	Index  int    `json:"index" bson:"index"`
	Export bool   `json:"export,omitempty" bson:"export,omitempty"`
}

// InputAt addresses input index of a node.
func InputAt(node NodeID, index int) InputConnector {
	return InputConnector{Node: node, Index: index}
}

// ExportAt addresses an export slot of the current network level.
func ExportAt(index int) InputConnector {
	return InputConnector{Index: index, Export: true}
}

func (c InputConnector) String() string {
	if c.Export {
		return fmt.Sprintf("export(%d)", c.Index)
	}
	return fmt.Sprintf("%s.in[%d]", c.Node, c.Index)
}

// OutputConnector addresses a wire source: either output Index of node Node,
// or import slot Index of the current network level when Import is set.
type OutputConnector struct {
	Node   NodeID `json:"node,omitempty" bson:"node,omitempty"`
	Index  int    `json:"index" bson:"index"`
	Import bool   `json:"import,omitempty" bson:"import,omitempty"`
}

// OutputAt addresses output index of a node.
func OutputAt(node NodeID, index int) OutputConnector {
	return OutputConnector{Node: node, Index: index}
}

// ImportAt addresses an import slot of the current network level.
func ImportAt(index int) OutputConnector {
	return OutputConnector{Index: index, Import: true}
}

func (c OutputConnector) String() string {
	if c.Import {
		return fmt.Sprintf("import(%d)", c.Index)
	}
	return fmt.Sprintf("%s.out[%d]", c.Node, c.Index)
}
