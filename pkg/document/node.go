package document

import (
	"slices"

	"github.com/google/uuid"
)

// NodeID is an opaque stable identifier for a node, unique within one
// network level. IDs are never reused; fresh ones come from [NewNodeID].
type NodeID string

// NewNodeID allocates a fresh random node identifier.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// InputKind discriminates the variants of the [Input] tagged union.
type InputKind int

const (
	// InputValue is a literal value stored directly in the input.
	InputValue InputKind = iota
	// InputNode is a wire from another node's output in the same network.
	InputNode
	// InputNetwork is a reference to an import of the enclosing network.
	InputNetwork
	// InputScope injects a named value from an ancestor network's scope.
	InputScope
	// InputInline is an inline expression compiled in place of a wire.
	InputInline
	// InputReflection marks an input that receives the node's own metadata
	// at compile time.
	InputReflection
)

var inputKindNames = map[InputKind]string{
	InputValue:      "value",
	InputNode:       "node",
	InputNetwork:    "network",
	InputScope:      "scope",
	InputInline:     "inline",
	InputReflection: "reflection",
}

func (k InputKind) String() string {
	if name, ok := inputKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the kind as its name for readable serialized documents.
func (k InputKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name. Unknown names decode to InputValue.
func (k *InputKind) UnmarshalText(data []byte) error {
	for kind, name := range inputKindNames {
		if name == string(data) {
			*k = kind
			return nil
		}
	}
	*k = InputValue
	return nil
}

// Input is one slot of a node's ordered input list. Exactly one variant is
// active, selected by Kind; the other fields are ignored.
type Input struct {
	Kind InputKind `json:"kind" bson:"kind"`

	// Value and Exposed are used when Kind is InputValue. Exposed controls
	// whether the input is displayed as a connectable port.
	Value   *TaggedValue `json:"value,omitempty" bson:"value,omitempty"`
	Exposed bool         `json:"exposed,omitempty" bson:"exposed,omitempty"`

	// Node and OutputIndex identify the upstream output when Kind is InputNode.
	Node        NodeID `json:"node,omitempty" bson:"node,omitempty"`
	OutputIndex int    `json:"output_index,omitempty" bson:"output_index,omitempty"`

	// ImportIndex identifies the enclosing network's import when Kind is InputNetwork.
	ImportIndex int `json:"import_index,omitempty" bson:"import_index,omitempty"`

	// Scope names the injected value when Kind is InputScope.
	Scope string `json:"scope,omitempty" bson:"scope,omitempty"`

	// Expression holds the inline source when Kind is InputInline.
	Expression string `json:"expression,omitempty" bson:"expression,omitempty"`
}

// ValueInput builds a literal-value input.
func ValueInput(v TaggedValue, exposed bool) Input {
	return Input{Kind: InputValue, Value: &v, Exposed: exposed}
}

// NodeInput builds a wire from the given node output.
func NodeInput(node NodeID, outputIndex int) Input {
	return Input{Kind: InputNode, Node: node, OutputIndex: outputIndex}
}

// NetworkInput builds a reference to an enclosing network import.
func NetworkInput(importIndex int) Input {
	return Input{Kind: InputNetwork, ImportIndex: importIndex}
}

// ScopeInput builds a named scope injection.
func ScopeInput(name string) Input {
	return Input{Kind: InputScope, Scope: name}
}

// InlineInput builds an inline expression input.
func InlineInput(expression string) Input {
	return Input{Kind: InputInline, Expression: expression}
}

// ReflectionInput builds a reflection marker input.
func ReflectionInput() Input {
	return Input{Kind: InputReflection}
}

// IsExposed reports whether the input is displayed as a connectable port.
// Wires and network references are always exposed; literal values only when
// flagged; scope, inline, and reflection inputs never.
func (in Input) IsExposed() bool {
	switch in.Kind {
	case InputNode, InputNetwork:
		return true
	case InputValue:
		return in.Exposed
	default:
		return false
	}
}

// IsWire reports whether the input references another node or an import.
func (in Input) IsWire() bool {
	return in.Kind == InputNode || in.Kind == InputNetwork
}

// AsNode returns the upstream node and output index for InputNode inputs.
func (in Input) AsNode() (NodeID, int, bool) {
	if in.Kind != InputNode {
		return "", 0, false
	}
	return in.Node, in.OutputIndex, true
}

// AsValue returns the stored literal for InputValue inputs.
func (in Input) AsValue() (TaggedValue, bool) {
	if in.Kind != InputValue || in.Value == nil {
		return TaggedValue{}, false
	}
	return *in.Value, true
}

// ImplementationKind discriminates how a node computes its outputs.
type ImplementationKind int

const (
	// ImplProto is a primitive operation identified by a catalog reference.
	ImplProto ImplementationKind = iota
	// ImplNetwork is a nested sub-network; the recursion point of the model.
	ImplNetwork
	// ImplExtract marks a node whose upstream subgraph is extracted as data
	// instead of being evaluated.
	ImplExtract
)

// Implementation is a node's computation strategy.
type Implementation struct {
	Kind    ImplementationKind `json:"kind" bson:"kind"`
	Proto   string             `json:"proto,omitempty" bson:"proto,omitempty"`
	Network *NodeNetwork       `json:"network,omitempty" bson:"network,omitempty"`
}

// ProtoImplementation builds a primitive implementation with the given
// catalog identifier.
func ProtoImplementation(identifier string) Implementation {
	return Implementation{Kind: ImplProto, Proto: identifier}
}

// NetworkImplementation builds a nested sub-network implementation.
func NetworkImplementation(n *NodeNetwork) Implementation {
	return Implementation{Kind: ImplNetwork, Network: n}
}

// ExtractImplementation builds an extract marker implementation.
func ExtractImplementation() Implementation {
	return Implementation{Kind: ImplExtract}
}

// Node is a single computation unit: an ordered input list plus an
// implementation. Display names, positions, and flags live in the metadata
// store, not on the node itself.
type Node struct {
	Inputs         []Input        `json:"inputs" bson:"inputs"`
	Implementation Implementation `json:"implementation" bson:"implementation"`
}

// IsNetwork reports whether the node's implementation is a nested network.
func (n *Node) IsNetwork() bool {
	return n.Implementation.Kind == ImplNetwork
}

// Subnetwork returns the nested network for network-implemented nodes.
func (n *Node) Subnetwork() (*NodeNetwork, bool) {
	if n.Implementation.Kind != ImplNetwork || n.Implementation.Network == nil {
		return nil, false
	}
	return n.Implementation.Network, true
}

// NodeNetwork is one level of the graph: nodes addressed by id, an ordered
// export list (the level's outputs), and named scope injections visible to
// descendant levels.
type NodeNetwork struct {
	Nodes   map[NodeID]*Node       `json:"nodes" bson:"nodes"`
	Exports []Input                `json:"exports" bson:"exports"`
	Scope   map[string]TaggedValue `json:"scope,omitempty" bson:"scope,omitempty"`
}

// NewNetwork creates an empty network with initialized maps.
func NewNetwork() *NodeNetwork {
	return &NodeNetwork{Nodes: make(map[NodeID]*Node)}
}

// Node returns the node with the given id and true, or nil and false.
func (n *NodeNetwork) Node(id NodeID) (*Node, bool) {
	node, ok := n.Nodes[id]
	return node, ok
}

// SortedIDs returns all node ids in lexicographic order. Use this for
// deterministic iteration; map order is not stable.
func (n *NodeNetwork) SortedIDs() []NodeID {
	ids := make([]NodeID, 0, len(n.Nodes))
	for id := range n.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
