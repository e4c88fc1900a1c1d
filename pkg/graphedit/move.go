package graphedit

import "github.com/mhalter/nodeloom/pkg/document"

// stackSlot resolves the input connector addressing slot insertIndex of the
// stack under parent. Slot 0 is the parent's first-child input, or the
// primary export for the root stack; each further slot is the previous
// child layer's stack input.
func (n *NetworkInterface) stackSlot(parent document.NodeID, insertIndex int, path Path) (document.InputConnector, bool) {
	var target document.InputConnector
	if parent == "" {
		network, ok := n.Network(path)
		if !ok || len(network.Exports) == 0 {
			return document.InputConnector{}, false
		}
		target = document.ExportAt(0)
	} else {
		node, ok := n.Node(parent, path)
		if !ok || len(node.Inputs) < 2 {
			return document.InputConnector{}, false
		}
		target = document.InputAt(parent, 1)
	}
	for i := 0; i < insertIndex; i++ {
		in, ok := n.inputAt(target, path)
		if !ok {
			return document.InputConnector{}, false
		}
		child, _, isNode := in.AsNode()
		if !isNode || !n.IsLayer(child, path) {
			// The stack ends here; clamp to its last slot.
			return target, true
		}
		target = document.InputAt(child, 0)
	}
	return target, true
}

// detachLayer routes the layer's stack neighbors around it: every consumer
// of its primary output at a stack position is reconnected to the layer
// above it, or disconnected when the layer was the top of its stack. The
// layer's horizontal chain stays attached and moves with it.
func (n *NetworkInterface) detachLayer(id document.NodeID, path Path) {
	above, _ := n.inputAt(document.InputAt(id, 0), path)
	for _, consumer := range n.downstreamConsumers(id, 0, path) {
		if !consumer.Export && (!n.IsLayer(consumer.Node, path) || consumer.Index > 1) {
			continue
		}
		if above.IsWire() {
			spliced := above
			if existing, ok := n.inputAt(consumer, path); ok {
				spliced.Exposed = existing.IsExposed()
			}
			n.SetInput(consumer, spliced, path)
		} else {
			n.DisconnectInput(consumer, path)
		}
	}
}

// MoveLayerToStack detaches the layer from its current stack and inserts it
// into the stack under parent at insertIndex. An empty parent targets the
// root stack fed by the primary export. Artboards may only live in the root
// stack. Reports whether the move happened.
func (n *NetworkInterface) MoveLayerToStack(id document.NodeID, parent document.NodeID, insertIndex int, path Path) bool {
	if !n.IsLayer(id, path) {
		n.log.Error("only layers can move between stacks", "node", id)
		return false
	}
	if n.IsArtboard(id, path) && parent != "" {
		n.log.Error("artboards can only live in the root stack", "node", id)
		return false
	}
	if parent == id {
		n.log.Error("cannot move a layer into its own stack", "node", id)
		return false
	}
	target, ok := n.stackSlot(parent, insertIndex, path)
	if !ok {
		n.log.Error("could not resolve stack slot", "parent", parent, "index", insertIndex)
		return false
	}
	// Reject a cycle-producing destination before touching any wiring.
	if !target.Export {
		for _, upstream := range n.UpstreamFromNodes([]document.NodeID{id}, path, FlowUpstream) {
			if upstream == target.Node {
				n.log.Error("move would create a cycle", "node", id, "parent", parent)
				return false
			}
		}
	}

	n.detachLayer(id, path)

	// The slot's current occupant becomes the layer above the moved one.
	occupant, _ := n.inputAt(target, path)
	if !n.SetInput(target, document.NodeInput(id, 0), path) {
		return false
	}
	if occupant.IsWire() {
		n.SetInput(document.InputAt(id, 0), occupant, path)
	} else {
		n.DisconnectInput(document.InputAt(id, 0), path)
	}

	m, ok := n.NodeMetadata(id, path)
	if !ok {
		return false
	}
	if target.Export {
		// Nothing downstream to hang from; keep the current coordinate.
		if pos, ok := n.Position(id, path); ok {
			m.Position = document.AbsoluteLayerPosition(pos)
		}
	} else {
		m.Position = document.StackPosition(0)
	}
	n.Invalidate(CacheClickTargets, path, id)
	n.Invalidate(CacheStackDependents, path)
	return true
}

// chainStart returns the input connector at the upstream end of the layer's
// horizontal chain: the layer's chain input when no chain exists, otherwise
// the primary input of the chain's last node.
func (n *NetworkInterface) chainStart(layer document.NodeID, path Path) (document.InputConnector, bool) {
	node, ok := n.Node(layer, path)
	if !ok || len(node.Inputs) < 2 {
		return document.InputConnector{}, false
	}
	target := document.InputAt(layer, 1)
	for budget := n.levelNodeBudget(path); budget > 0; budget-- {
		in, ok := n.inputAt(target, path)
		if !ok {
			return document.InputConnector{}, false
		}
		upstream, _, isNode := in.AsNode()
		if !isNode {
			return target, true
		}
		if m, ok := n.NodeMetadata(upstream, path); !ok || m.Position.Mode != document.PositionChain {
			return target, true
		}
		target = document.InputAt(upstream, 0)
	}
	return target, true
}

// MoveNodeToChainStart splices the node onto the upstream end of the
// layer's chain and absorbs it into the chain when it qualifies. Reports
// whether the move happened.
func (n *NetworkInterface) MoveNodeToChainStart(id document.NodeID, layer document.NodeID, path Path) bool {
	if n.IsLayer(id, path) {
		n.log.Error("layers cannot join a chain", "node", id)
		return false
	}
	if !n.IsLayer(layer, path) {
		n.log.Error("chains can only attach to layers", "node", layer)
		return false
	}
	target, ok := n.chainStart(layer, path)
	if !ok {
		n.log.Error("could not resolve chain start", "layer", layer)
		return false
	}

	old, _ := n.inputAt(target, path)
	if !n.SetInput(target, document.NodeInput(id, 0), path) {
		return false
	}
	if old.IsWire() {
		if node, ok := n.Node(id, path); ok && len(node.Inputs) > 0 {
			n.SetInput(document.InputAt(id, 0), old, path)
		}
	}
	n.TrySetNodeToChain(id, path)
	return true
}

// SetToNodeOrLayer switches the node between the plain node and layer
// representations, keeping its current on-screen position. Promotion to a
// layer requires eligibility. Demotion breaks the chain and stack that hung
// off the layer, pinning those nodes where they are.
func (n *NetworkInterface) SetToNodeOrLayer(id document.NodeID, isLayer bool, path Path) {
	m, ok := n.NodeMetadata(id, path)
	if !ok {
		n.log.Error("could not get node metadata in SetToNodeOrLayer", "node", id)
		return
	}
	if m.IsLayer() == isLayer {
		return
	}
	if isLayer && !n.IsEligibleToBeLayer(id, path) {
		n.log.Error("node does not qualify as a layer", "node", id)
		return
	}

	pos, ok := n.Position(id, path)
	if !ok {
		return
	}

	if !isLayer {
		// Derived positions hanging off this layer stop resolving once it
		// becomes a node; pin them while they still do.
		if node, nodeOK := n.Node(id, path); nodeOK && len(node.Inputs) > 1 {
			if chainSource, _, isNode := node.Inputs[1].AsNode(); isNode {
				n.SetUpstreamChainToAbsolute(chainSource, path)
			}
		}
		n.pinStackedAbove(id, path)
		m.Position = document.AbsoluteNodePosition(pos)
	} else {
		m.Position = document.AbsoluteLayerPosition(pos)
	}

	n.Invalidate(CacheClickTargets, path, id)
	n.Invalidate(CacheLayerWidth, path, id)
	n.Invalidate(CacheStackDependents, path)

	// The new representation may let the upstream run collapse into a chain.
	if isLayer {
		if node, nodeOK := n.Node(id, path); nodeOK && len(node.Inputs) > 1 {
			if chainSource, _, isNode := node.Inputs[1].AsNode(); isNode {
				n.TrySetNodeToChain(chainSource, path)
			}
		}
	}
}

// pinStackedAbove converts any layer stacked directly on the given node to
// an absolute position at its current coordinate.
func (n *NetworkInterface) pinStackedAbove(id document.NodeID, path Path) {
	network, ok := n.Network(path)
	if !ok {
		return
	}
	for _, other := range network.SortedIDs() {
		m, ok := n.NodeMetadata(other, path)
		if !ok || m.Position.Mode != document.PositionStack {
			continue
		}
		downstream, ok := n.stackDownstream(other, path)
		if !ok || downstream != id {
			continue
		}
		if pos, ok := n.Position(other, path); ok {
			m.Position = document.AbsoluteLayerPosition(pos)
			n.Invalidate(CacheClickTargets, path, other)
		}
	}
}
