package graphedit

import (
	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/registry"
)

// chainRowToleranceCells is how far off the chain row a candidate node may
// sit and still be absorbed into the chain.
const chainRowToleranceCells = 1

// IsLayer reports whether the node uses the layer representation.
func (n *NetworkInterface) IsLayer(id document.NodeID, path Path) bool {
	m, ok := n.NodeMetadata(id, path)
	return ok && m.IsLayer()
}

// IsEligibleToBeLayer reports whether the node satisfies the layer
// predicate: a single primary output and at most two displayed inputs, with
// every further parameter hidden.
func (n *NetworkInterface) IsEligibleToBeLayer(id document.NodeID, path Path) bool {
	node, ok := n.Node(id, path)
	if !ok {
		n.log.Error("could not get node in IsEligibleToBeLayer", "node", id)
		return false
	}
	m, ok := n.NodeMetadata(id, path)
	if !ok || !m.HasPrimaryOutput {
		return false
	}
	for i, in := range node.Inputs {
		if i >= 2 && in.IsExposed() {
			return false
		}
	}
	return n.NumberOfOutputs(id, path) == 1
}

// NumberOfOutputs returns how many outputs the node exposes: one per export
// for sub-networks, one for primitives.
func (n *NetworkInterface) NumberOfOutputs(id document.NodeID, path Path) int {
	node, ok := n.Node(id, path)
	if !ok {
		return 0
	}
	if sub, ok := node.Subnetwork(); ok {
		return len(sub.Exports)
	}
	return 1
}

// ExposedInputCount returns how many of the node's inputs display a port.
func (n *NetworkInterface) ExposedInputCount(id document.NodeID, path Path) int {
	node, ok := n.Node(id, path)
	if !ok {
		return 0
	}
	count := 0
	for _, in := range node.Inputs {
		if in.IsExposed() {
			count++
		}
	}
	return count
}

// HeightInCells returns the node body height in grid cells.
func (n *NetworkInterface) HeightInCells(id document.NodeID, path Path) int {
	if n.IsLayer(id, path) {
		return LayerHeightCells
	}
	height := n.ExposedInputCount(id, path)
	if outputs := n.NumberOfOutputs(id, path); outputs > height {
		height = outputs
	}
	if height < 1 {
		height = 1
	}
	return height
}

// WidthInCells returns the node body width in grid cells. Layer widths
// depend on the display name and are cached until the name changes.
func (n *NetworkInterface) WidthInCells(id document.NodeID, path Path) int {
	if !n.IsLayer(id, path) {
		return NodeWidthCells
	}
	state := n.nodeState(id, path)
	return state.layerWidth.GetOrLoad(func() int {
		width := DefaultLayerWidthCells
		if m, ok := n.NodeMetadata(id, path); ok {
			// Roughly two characters per grid cell beyond the default.
			if extra := (len(m.Name()) - 2*DefaultLayerWidthCells + 1) / 2; extra > 0 {
				width += extra
			}
		}
		return width
	})
}

// Position resolves the node's top-left grid coordinate from its position
// mode: stored directly for Absolute, derived from the downstream layer for
// Stack and Chain.
func (n *NetworkInterface) Position(id document.NodeID, path Path) (document.GridPoint, bool) {
	m, ok := n.NodeMetadata(id, path)
	if !ok {
		n.log.Error("could not get node metadata in Position", "node", id)
		return document.GridPoint{}, false
	}

	switch m.Position.Mode {
	case document.PositionAbsolute:
		return m.Position.Coord, true

	case document.PositionStack:
		downstream, ok := n.stackDownstream(id, path)
		if !ok {
			n.log.Error("stack layer has no downstream layer", "node", id)
			return document.GridPoint{}, false
		}
		base, ok := n.Position(downstream, path)
		if !ok {
			return document.GridPoint{}, false
		}
		offset := n.HeightInCells(downstream, path) + m.Position.StackOffset
		return base.Add(document.GridPoint{Y: offset}), true

	case document.PositionChain:
		return n.chainPosition(id, path)
	}

	n.log.Error("unknown position mode", "node", id, "mode", m.Position.Mode)
	return document.GridPoint{}, false
}

// stackDownstream returns the layer the given layer's position hangs from:
// the layer consuming its primary output at a stack link. Input 0 of the
// consumer is the sibling below in the same stack; input 1 is the
// child-stack slot of a parent layer. A non-layer source on input 1 is a
// chain, never a stack link, so only layer sources reach here.
func (n *NetworkInterface) stackDownstream(id document.NodeID, path Path) (document.NodeID, bool) {
	for _, consumer := range n.downstreamConsumers(id, 0, path) {
		if consumer.Export || !n.IsLayer(consumer.Node, path) {
			continue
		}
		if consumer.Index <= 1 {
			return consumer.Node, true
		}
	}
	return "", false
}

// chainPosition walks downstream through the horizontal flow until the
// chain's layer is found and offsets left from it.
func (n *NetworkInterface) chainPosition(id document.NodeID, path Path) (document.GridPoint, bool) {
	current := id
	distance := 1
	for budget := n.levelNodeBudget(path); budget > 0; budget-- {
		downstream, ok := n.chainConsumer(current, path)
		if !ok {
			n.log.Error("chain node has no downstream consumer", "node", id)
			return document.GridPoint{}, false
		}
		if n.IsLayer(downstream, path) {
			base, ok := n.Position(downstream, path)
			if !ok {
				return document.GridPoint{}, false
			}
			return base.Add(document.GridPoint{X: -distance * ChainSpacingCells}), true
		}
		distance++
		current = downstream
	}
	n.log.Error("chain walk exceeded node count", "node", id)
	return document.GridPoint{}, false
}

// chainConsumer returns the downstream node consuming the node's primary
// output at its chain-direction input index.
func (n *NetworkInterface) chainConsumer(id document.NodeID, path Path) (document.NodeID, bool) {
	for _, consumer := range n.downstreamConsumers(id, 0, path) {
		if consumer.Export {
			continue
		}
		chainIndex := 0
		if n.IsLayer(consumer.Node, path) {
			chainIndex = 1
		}
		if consumer.Index == chainIndex {
			return consumer.Node, true
		}
	}
	return "", false
}

// levelNodeBudget bounds derivation walks so corrupted documents cannot
// loop forever.
func (n *NetworkInterface) levelNodeBudget(path Path) int {
	if network, ok := n.Network(path); ok {
		return len(network.Nodes) + 1
	}
	return 1
}

// chainEligible reports whether the node may hold a Chain position: a
// non-layer node with a primary output, exactly one outward wire, feeding
// the chain-direction input of its consumer.
func (n *NetworkInterface) chainEligible(id document.NodeID, path Path) bool {
	if n.IsLayer(id, path) {
		return false
	}
	m, ok := n.NodeMetadata(id, path)
	if !ok || !m.HasPrimaryOutput || m.Locked {
		return false
	}
	consumer, ok := n.primaryConsumer(id, path)
	if !ok {
		return false
	}
	chainIndex := 0
	if n.IsLayer(consumer.Node, path) {
		chainIndex = 1
	}
	return consumer.Index == chainIndex
}

// TrySetNodeToChain converts the node to Chain position when it qualifies,
// then keeps extending the chain upstream. The walk stops at the first node
// that is a layer, has fan-out beyond one, or sits off the chain row.
func (n *NetworkInterface) TrySetNodeToChain(id document.NodeID, path Path) {
	if !n.chainEligible(id, path) {
		return
	}
	consumer, ok := n.chainConsumer(id, path)
	if !ok {
		return
	}
	// The chain row is the row of the consumer's derived position.
	base, ok := n.Position(consumer, path)
	if !ok {
		return
	}
	n.extendChain(id, base.Y, path)
}

// TrySetUpstreamToChain re-evaluates chain membership for the run of nodes
// upstream of the given input after a rewiring.
func (n *NetworkInterface) TrySetUpstreamToChain(target document.InputConnector, path Path) {
	if target.Export {
		return
	}
	node, ok := n.Node(target.Node, path)
	if !ok || target.Index >= len(node.Inputs) {
		return
	}
	upstream, _, isNode := node.Inputs[target.Index].AsNode()
	if !isNode {
		return
	}
	n.TrySetNodeToChain(upstream, path)
}

func (n *NetworkInterface) extendChain(id document.NodeID, rowY int, path Path) {
	current := id
	for budget := n.levelNodeBudget(path); budget > 0; budget-- {
		if !n.chainEligible(current, path) {
			return
		}
		m, ok := n.NodeMetadata(current, path)
		if !ok {
			return
		}
		if m.Position.Mode == document.PositionAbsolute {
			pos, ok := n.Position(current, path)
			if !ok {
				return
			}
			if abs(pos.Y-rowY) > chainRowToleranceCells {
				return
			}
			m.Position = document.ChainPosition()
			n.Invalidate(CacheClickTargets, path, current)
			n.Invalidate(CacheStackDependents, path)
		}
		// Continue into the chain-direction source of the current node.
		node, ok := n.Node(current, path)
		if !ok || len(node.Inputs) == 0 {
			return
		}
		next, _, isNode := node.Inputs[0].AsNode()
		if !isNode {
			return
		}
		current = next
	}
}

// SetUpstreamChainToAbsolute breaks the chain starting at the given node:
// every Chain-positioned node in the upstream horizontal run is pinned at
// its currently derived coordinate. Used before any edit that would leave
// the chain invariant violated.
func (n *NetworkInterface) SetUpstreamChainToAbsolute(id document.NodeID, path Path) {
	run := n.UpstreamFromNodes([]document.NodeID{id}, path, FlowHorizontal)

	// Resolve every position before any mode flips; a chain node's position
	// depends on its downstream neighbors still being chained.
	positions := make(map[document.NodeID]document.GridPoint, len(run))
	for _, member := range run {
		if m, ok := n.NodeMetadata(member, path); ok && m.Position.Mode == document.PositionChain {
			if pos, ok := n.Position(member, path); ok {
				positions[member] = pos
			}
		}
	}
	for _, member := range run {
		pos, ok := positions[member]
		if !ok {
			continue
		}
		if m, metaOK := n.NodeMetadata(member, path); metaOK {
			m.Position = document.AbsoluteNodePosition(pos)
			n.Invalidate(CacheClickTargets, path, member)
		}
	}
	if len(positions) > 0 {
		n.Invalidate(CacheStackDependents, path)
	}
}

// IsArtboard reports whether the node references the artboard definition.
func (n *NetworkInterface) IsArtboard(id document.NodeID, path Path) bool {
	m, ok := n.NodeMetadata(id, path)
	return ok && m.Reference == registry.ReferenceArtboard
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
