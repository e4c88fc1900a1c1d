package document

import (
	"errors"
	"fmt"
)

// Sentinel errors for metadata validation.
var (
	// ErrChainOnLayer is returned when a layer carries a chain position.
	ErrChainOnLayer = errors.New("chain position is only valid for non-layer nodes")

	// ErrStackOnNode is returned when a non-layer node carries a stack position.
	ErrStackOnNode = errors.New("stack position is only valid for layer nodes")

	// ErrNegativeStackOffset is returned when a stack offset is below zero.
	ErrNegativeStackOffset = errors.New("stack offset must not be negative")
)

// GridPoint is a coordinate in grid cells. The canvas y axis grows downward.
type GridPoint struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Add returns the component-wise sum of two points.
func (p GridPoint) Add(q GridPoint) GridPoint {
	return GridPoint{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p GridPoint) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// PositionMode selects how a node's on-screen position is derived.
type PositionMode string

const (
	// PositionAbsolute stores an explicit grid coordinate.
	PositionAbsolute PositionMode = "absolute"
	// PositionChain derives the coordinate by walking downstream to the
	// chain's layer. Valid only for non-layer nodes.
	PositionChain PositionMode = "chain"
	// PositionStack stores a vertical offset below the downstream layer.
	// Valid only for layer nodes.
	PositionStack PositionMode = "stack"
)

// PositionMetadata is the persisted position variant of a node. IsLayer
// selects the layer representation; the mode must agree with it.
type PositionMetadata struct {
	IsLayer     bool         `json:"is_layer,omitempty" bson:"is_layer,omitempty"`
	Mode        PositionMode `json:"mode" bson:"mode"`
	Coord       GridPoint    `json:"coord,omitempty" bson:"coord,omitempty"`
	StackOffset int          `json:"stack_offset,omitempty" bson:"stack_offset,omitempty"`
}

// AbsoluteNodePosition places a non-layer node at an explicit coordinate.
func AbsoluteNodePosition(coord GridPoint) PositionMetadata {
	return PositionMetadata{Mode: PositionAbsolute, Coord: coord}
}

// ChainPosition marks a non-layer node as part of a chain.
func ChainPosition() PositionMetadata {
	return PositionMetadata{Mode: PositionChain}
}

// AbsoluteLayerPosition places a layer at an explicit coordinate.
func AbsoluteLayerPosition(coord GridPoint) PositionMetadata {
	return PositionMetadata{IsLayer: true, Mode: PositionAbsolute, Coord: coord}
}

// StackPosition places a layer in a stack, offset grid cells below the
// downstream layer. The offset must be >= 0.
func StackPosition(offset int) PositionMetadata {
	return PositionMetadata{IsLayer: true, Mode: PositionStack, StackOffset: offset}
}

// Validate checks the layer/mode pairing rules.
func (p PositionMetadata) Validate() error {
	switch p.Mode {
	case PositionChain:
		if p.IsLayer {
			return ErrChainOnLayer
		}
	case PositionStack:
		if !p.IsLayer {
			return ErrStackOnNode
		}
		if p.StackOffset < 0 {
			return ErrNegativeStackOffset
		}
	}
	return nil
}

// NodeMetadata is the author-controlled, serialized state of one node.
// Exactly one NodeMetadata exists per node at each network level.
type NodeMetadata struct {
	// DisplayName is the label shown on the canvas. When empty, the
	// reference name is displayed instead.
	DisplayName string `json:"display_name,omitempty" bson:"display_name,omitempty"`

	// Reference names the catalog definition this node was created from.
	Reference string `json:"reference,omitempty" bson:"reference,omitempty"`

	// InputNames overrides the displayed name per input index.
	InputNames []string `json:"input_names,omitempty" bson:"input_names,omitempty"`

	// HasPrimaryOutput reports whether output 0 participates in horizontal
	// flow. Nodes without it can never be layers.
	HasPrimaryOutput bool `json:"has_primary_output" bson:"has_primary_output"`

	Locked bool `json:"locked,omitempty" bson:"locked,omitempty"`
	Pinned bool `json:"pinned,omitempty" bson:"pinned,omitempty"`

	Position PositionMetadata `json:"position" bson:"position"`
}

// Name returns the display name, falling back to the reference.
func (m *NodeMetadata) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.Reference
}

// IsLayer reports whether the node uses the layer representation.
func (m *NodeMetadata) IsLayer() bool {
	return m.Position.IsLayer
}

// LevelMetadata holds the persistent metadata of every node at one network
// level.
type LevelMetadata struct {
	Nodes map[NodeID]*NodeMetadata `json:"nodes" bson:"nodes"`

	// ImportNames and ExportNames label the level's import and export slots,
	// indexed by slot. Missing or empty entries fall back to a generated name.
	ImportNames []string `json:"import_names,omitempty" bson:"import_names,omitempty"`
	ExportNames []string `json:"export_names,omitempty" bson:"export_names,omitempty"`
}

// NewLevelMetadata creates an empty metadata level.
func NewLevelMetadata() *LevelMetadata {
	return &LevelMetadata{Nodes: make(map[NodeID]*NodeMetadata)}
}
