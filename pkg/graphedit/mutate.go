package graphedit

import (
	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/registry"
)

// AppendIndex is the sentinel insert index meaning "after the last slot"
// for AddImport and AddExport.
const AppendIndex = -1

// inputAt reads the input currently stored at the connector.
func (n *NetworkInterface) inputAt(target document.InputConnector, path Path) (document.Input, bool) {
	network, ok := n.Network(path)
	if !ok {
		return document.Input{}, false
	}
	if target.Export {
		if target.Index < 0 || target.Index >= len(network.Exports) {
			return document.Input{}, false
		}
		return network.Exports[target.Index], true
	}
	node, ok := network.Nodes[target.Node]
	if !ok || target.Index < 0 || target.Index >= len(node.Inputs) {
		return document.Input{}, false
	}
	return node.Inputs[target.Index], true
}

// applyInput writes the input at the connector without any policy or cache
// work. Callers own invalidation and invariant checks.
func (n *NetworkInterface) applyInput(target document.InputConnector, input document.Input, path Path) bool {
	network, ok := n.Network(path)
	if !ok {
		return false
	}
	if target.Export {
		if target.Index < 0 || target.Index >= len(network.Exports) {
			return false
		}
		network.Exports[target.Index] = input
		return true
	}
	node, ok := network.Nodes[target.Node]
	if !ok || target.Index < 0 || target.Index >= len(node.Inputs) {
		return false
	}
	node.Inputs[target.Index] = input
	return true
}

// SetInput replaces the wiring or value at the target connector.
//
// The edit is transactional with respect to the acyclicity invariant: it is
// applied, validated, and reverted if it would introduce a cycle. Chains
// touched by the rewiring are broken to absolute positions first, since a
// chain node may only have one consumer. A layer whose primary output gains
// a wire is repositioned: hanging as a stack child when the wire is its
// sole consumer and leads to another layer's stack input, pinned at its
// current coordinate otherwise. A target layer that the edit makes
// ineligible drops back to the node representation. Wiring an enclosing
// network's import directly to an export is rejected up front; resolving
// what that should mean is an open question the document format does not
// answer.
//
// Returns false when the edit was rejected or the target does not exist.
func (n *NetworkInterface) SetInput(target document.InputConnector, input document.Input, path Path) bool {
	old, ok := n.inputAt(target, path)
	if !ok {
		n.log.Error("could not get input in SetInput", "target", target.String(), "path", path.Key())
		return false
	}
	if target.Export && input.Kind == document.InputNetwork {
		n.log.Error("wiring an import directly to an export is not supported", "target", target.String())
		return false
	}

	// Break chains that the rewiring would leave with the wrong fan-out.
	if oldSource, _, isNode := old.AsNode(); isNode {
		if m, ok := n.NodeMetadata(oldSource, path); ok && m.Position.Mode == document.PositionChain {
			n.SetUpstreamChainToAbsolute(oldSource, path)
		}
	}
	if newSource, _, isNode := input.AsNode(); isNode {
		if m, ok := n.NodeMetadata(newSource, path); ok && m.Position.Mode == document.PositionChain {
			n.SetUpstreamChainToAbsolute(newSource, path)
		}
	}

	if !n.applyInput(target, input, path) {
		return false
	}

	network, _ := n.Network(path)
	if err := document.CheckAcyclic(network); err != nil {
		n.applyInput(target, old, path)
		n.log.Error("rejected edit that would create a cycle", "target", target.String(), "err", err)
		return false
	}

	n.invalidateWiring(path)
	if !target.Export {
		n.demoteIfIneligible(target.Node, path)
	}
	if source, outputIndex, isNode := input.AsNode(); isNode {
		if outputIndex == 0 {
			n.repositionWireSource(source, target, path)
		}
		n.TrySetUpstreamToChain(target, path)
	}
	return true
}

// repositionWireSource re-derives a source layer's position mode after a
// new wire from its primary output. Feeding another layer's stack input as
// the sole consumer makes it a stack child, with the offset back-computed
// so the layer keeps its row; any other destination pins it where it is.
func (n *NetworkInterface) repositionWireSource(source document.NodeID, target document.InputConnector, path Path) {
	if !n.IsLayer(source, path) {
		return
	}
	m, ok := n.NodeMetadata(source, path)
	if !ok {
		return
	}
	pos, ok := n.Position(source, path)
	if !ok {
		return
	}

	stacked := !target.Export && target.Index <= 1 &&
		n.IsLayer(target.Node, path) &&
		len(n.downstreamConsumers(source, 0, path)) == 1
	if stacked {
		base, ok := n.Position(target.Node, path)
		if !ok {
			return
		}
		offset := pos.Y - base.Y - n.HeightInCells(target.Node, path)
		if offset < 0 {
			offset = 0
		}
		m.Position = document.StackPosition(offset)
	} else {
		m.Position = document.AbsoluteLayerPosition(pos)
	}
	n.Invalidate(CacheClickTargets, path, source)
	n.Invalidate(CacheStackDependents, path)
}

// DisconnectInput replaces the wiring at the target with a disconnected
// value of the connector's resolved type. A stacked layer losing its only
// downstream layer wire is pinned at its current coordinate first, so it
// does not dangle without a stack parent. Disconnecting an already
// disconnected input is a no-op with the same observable result.
func (n *NetworkInterface) DisconnectInput(target document.InputConnector, path Path) {
	old, ok := n.inputAt(target, path)
	if !ok {
		n.log.Error("could not get input in DisconnectInput", "target", target.String(), "path", path.Key())
		return
	}

	// Resolve the replacement type before the wire disappears.
	resolved := n.InputType(target, path)

	if source, _, isNode := old.AsNode(); isNode {
		n.restoreStackOnDisconnect(source, target, path)
	}

	exposed := old.IsExposed()
	n.SetInput(target, document.ValueInput(document.DefaultForType(resolved.Type), exposed), path)
}

// restoreStackOnDisconnect pins a stacked layer at its derived coordinate
// when the wire being removed is the one its stack position hangs from.
func (n *NetworkInterface) restoreStackOnDisconnect(source document.NodeID, target document.InputConnector, path Path) {
	m, ok := n.NodeMetadata(source, path)
	if !ok || m.Position.Mode != document.PositionStack {
		return
	}
	downstream, ok := n.stackDownstream(source, path)
	if !ok || target.Export || downstream != target.Node || target.Index > 1 {
		return
	}
	if pos, ok := n.Position(source, path); ok {
		m.Position = document.AbsoluteLayerPosition(pos)
		n.Invalidate(CacheClickTargets, path, source)
		n.Invalidate(CacheStackDependents, path)
	}
}

// CreateWire connects an output connector to an input connector, producing
// the appropriate input variant and delegating to SetInput.
func (n *NetworkInterface) CreateWire(output document.OutputConnector, input document.InputConnector, path Path) bool {
	if output.Import {
		return n.SetInput(input, document.NetworkInput(output.Index), path)
	}
	return n.SetInput(input, document.NodeInput(output.Node, output.Index), path)
}

// InsertNode adds a node instantiated from a template, together with its
// metadata entry. The id must be unused at the level.
func (n *NetworkInterface) InsertNode(id document.NodeID, template registry.NodeTemplate, path Path) {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in InsertNode", "path", path.Key())
		return
	}
	if _, exists := network.Nodes[id]; exists {
		n.log.Error("node id already in use", "node", id, "path", path.Key())
		return
	}

	node := template.Node
	node.Inputs = append([]document.Input(nil), template.Node.Inputs...)
	network.Nodes[id] = &node

	metaCopy := template.Metadata
	n.doc.Level(path.Key()).Nodes[id] = &metaCopy

	if sub, ok := node.Subnetwork(); ok {
		n.ensureLevelMetadata(sub, path.Child(id))
	}
	n.invalidateWiring(path)
}

// GroupEntry is one node of a template group inserted by InsertNodeGroup.
type GroupEntry struct {
	ID       document.NodeID
	Node     document.Node
	Metadata document.NodeMetadata
}

// InsertNodeGroup adds a set of nodes at once, remapping internal wire
// references through idRemap. A reference to an id missing from the remap
// is replaced with a disconnected value, so a partially copied group never
// dangles into the surrounding graph.
func (n *NetworkInterface) InsertNodeGroup(entries []GroupEntry, idRemap map[document.NodeID]document.NodeID, path Path) {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in InsertNodeGroup", "path", path.Key())
		return
	}

	for _, entry := range entries {
		id := entry.ID
		if mapped, ok := idRemap[entry.ID]; ok {
			id = mapped
		}
		if _, exists := network.Nodes[id]; exists {
			n.log.Error("node id already in use", "node", id, "path", path.Key())
			continue
		}

		node := entry.Node
		node.Inputs = make([]document.Input, len(entry.Node.Inputs))
		for i, in := range entry.Node.Inputs {
			if source, _, isNode := in.AsNode(); isNode {
				if mapped, ok := idRemap[source]; ok {
					in.Node = mapped
				} else {
					in = document.ValueInput(document.DefaultForType(document.UnitType), true)
				}
			}
			node.Inputs[i] = in
		}
		network.Nodes[id] = &node

		metaCopy := entry.Metadata
		n.doc.Level(path.Key()).Nodes[id] = &metaCopy

		if sub, ok := node.Subnetwork(); ok {
			n.ensureLevelMetadata(sub, path.Child(id))
		}
	}
	n.invalidateWiring(path)
}

// ensureLevelMetadata backfills metadata entries for the nodes of a nested
// network that arrived without any, recursively.
func (n *NetworkInterface) ensureLevelMetadata(network *document.NodeNetwork, path Path) {
	level := n.doc.Level(path.Key())
	for _, id := range network.SortedIDs() {
		if _, ok := level.Nodes[id]; !ok {
			level.Nodes[id] = &document.NodeMetadata{
				HasPrimaryOutput: true,
				Position:         document.AbsoluteNodePosition(document.GridPoint{}),
			}
		}
		if sub, ok := network.Nodes[id].Subnetwork(); ok {
			n.ensureLevelMetadata(sub, path.Child(id))
		}
	}
}

// InsertNodeBetween splices an already inserted node onto the wire feeding
// the target connector: the old upstream feeds the new node's given input,
// and the new node's primary output feeds the target.
func (n *NetworkInterface) InsertNodeBetween(id document.NodeID, target document.InputConnector, inputIndex int, path Path) bool {
	old, ok := n.inputAt(target, path)
	if !ok {
		n.log.Error("could not get input in InsertNodeBetween", "target", target.String(), "path", path.Key())
		return false
	}
	if !old.IsWire() {
		n.log.Error("cannot insert a node into a non-wire input", "target", target.String())
		return false
	}
	if _, ok := n.Node(id, path); !ok {
		n.log.Error("could not get node in InsertNodeBetween", "node", id)
		return false
	}

	if !n.SetInput(target, document.NodeInput(id, 0), path) {
		return false
	}
	return n.SetInput(document.InputAt(id, inputIndex), old, path)
}

// DeleteNodes removes the given nodes from the level. With deleteChildren,
// upstream nodes left with no surviving consumer are removed as well,
// repeated to a fixpoint. Wires into a deleted node's primary output are
// spliced through to the source of its first displayed wire input when one
// exists, otherwise disconnected to a default value. Surviving nodes whose
// derived position hung on a deleted node are pinned at their last
// coordinate.
func (n *NetworkInterface) DeleteNodes(ids []document.NodeID, deleteChildren bool, path Path) {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in DeleteNodes", "path", path.Key())
		return
	}

	deleted := make(map[document.NodeID]bool, len(ids))
	for _, id := range ids {
		if _, ok := network.Nodes[id]; ok {
			deleted[id] = true
		}
	}
	if len(deleted) == 0 {
		return
	}
	if deleteChildren {
		n.expandToSoleDependents(deleted, path)
	}

	// Snapshot derived positions while every wire is still in place.
	saved := make(map[document.NodeID]document.GridPoint)
	for _, id := range network.SortedIDs() {
		if deleted[id] {
			continue
		}
		m, ok := n.NodeMetadata(id, path)
		if !ok || m.Position.Mode == document.PositionAbsolute {
			continue
		}
		if pos, ok := n.Position(id, path); ok {
			saved[id] = pos
		}
	}

	// Plan the rewiring of every surviving connector fed by a deleted node.
	type patch struct {
		target document.InputConnector
		input  document.Input
	}
	var patches []patch
	plan := func(target document.InputConnector, in document.Input) {
		source, _, isNode := in.AsNode()
		if !isNode || !deleted[source] {
			return
		}
		if splice, ok := n.spliceSource(source, deleted, path); ok {
			splice.Exposed = in.IsExposed()
			patches = append(patches, patch{target, splice})
			return
		}
		resolved := n.InputType(target, path)
		patches = append(patches, patch{target, document.ValueInput(document.DefaultForType(resolved.Type), in.IsExposed())})
	}
	for _, id := range network.SortedIDs() {
		if deleted[id] {
			continue
		}
		for i, in := range network.Nodes[id].Inputs {
			plan(document.InputAt(id, i), in)
		}
	}
	for i, in := range network.Exports {
		plan(document.ExportAt(i), in)
	}
	for _, p := range patches {
		n.applyInput(p.target, p.input, path)
	}

	// Drop the nodes and all state keyed to them.
	level := n.doc.Level(path.Key())
	state := n.level(path)
	for id := range deleted {
		if _, ok := network.Nodes[id].Subnetwork(); ok {
			n.dropLevelState(path.NodeKey(id))
		}
		delete(network.Nodes, id)
		delete(level.Nodes, id)
		delete(state.nodes, id)
	}
	n.invalidateWiring(path)

	// Pin survivors whose derivation no longer resolves.
	for _, id := range network.SortedIDs() {
		pos, ok := saved[id]
		if !ok || n.positionDerivable(id, path) {
			continue
		}
		m, ok := n.NodeMetadata(id, path)
		if !ok {
			continue
		}
		if m.IsLayer() {
			m.Position = document.AbsoluteLayerPosition(pos)
		} else {
			m.Position = document.AbsoluteNodePosition(pos)
		}
		n.Invalidate(CacheClickTargets, path, id)
	}
	n.Invalidate(CacheStackDependents, path)
}

// expandToSoleDependents grows the delete set with nodes whose every
// consumer is already in it, to a fixpoint. Nodes with no consumers at all
// stay.
func (n *NetworkInterface) expandToSoleDependents(deleted map[document.NodeID]bool, path Path) {
	network, ok := n.Network(path)
	if !ok {
		return
	}
	for changed := true; changed; {
		changed = false
		for _, id := range network.SortedIDs() {
			if deleted[id] {
				continue
			}
			hasConsumer := false
			allDeleted := true
			for out := 0; out < n.NumberOfOutputs(id, path) && allDeleted; out++ {
				for _, consumer := range n.downstreamConsumers(id, out, path) {
					hasConsumer = true
					if consumer.Export || !deleted[consumer.Node] {
						allDeleted = false
						break
					}
				}
			}
			if hasConsumer && allDeleted {
				deleted[id] = true
				changed = true
			}
		}
	}
}

// spliceSource returns the wire to route around a deleted node: its first
// displayed wire input, followed transitively through other deleted nodes.
func (n *NetworkInterface) spliceSource(id document.NodeID, deleted map[document.NodeID]bool, path Path) (document.Input, bool) {
	node, ok := n.Node(id, path)
	if !ok {
		return document.Input{}, false
	}
	for _, in := range node.Inputs {
		if !in.IsExposed() || !in.IsWire() {
			continue
		}
		if source, _, isNode := in.AsNode(); isNode && deleted[source] {
			return n.spliceSource(source, deleted, path)
		}
		return in, true
	}
	return document.Input{}, false
}

// positionDerivable reports whether the node's position mode still resolves
// to a coordinate by walking downstream.
func (n *NetworkInterface) positionDerivable(id document.NodeID, path Path) bool {
	current := id
	for budget := n.levelNodeBudget(path); budget > 0; budget-- {
		m, ok := n.NodeMetadata(current, path)
		if !ok {
			return false
		}
		switch m.Position.Mode {
		case document.PositionAbsolute:
			return true
		case document.PositionChain:
			next, ok := n.chainConsumer(current, path)
			if !ok {
				return false
			}
			current = next
		case document.PositionStack:
			next, ok := n.stackDownstream(current, path)
			if !ok {
				return false
			}
			current = next
		default:
			return false
		}
	}
	return false
}

// AddImport adds an import slot to the network level at insertIndex, or at
// the end for AppendIndex. The slot appears as a new input on the node
// owning the level, and import references at or beyond the slot shift up.
// The root network has no enclosing node and cannot gain imports.
func (n *NetworkInterface) AddImport(name string, insertIndex int, path Path) {
	if len(path) == 0 {
		n.log.Error("the root network cannot have imports")
		return
	}
	parentPath := path[:len(path)-1]
	ownerID := path[len(path)-1]
	owner, ok := n.Node(ownerID, parentPath)
	if !ok {
		n.log.Error("could not get owning node in AddImport", "node", ownerID)
		return
	}
	network, ok := n.Network(path)
	if !ok {
		return
	}
	if insertIndex == AppendIndex {
		insertIndex = len(owner.Inputs)
	}
	if insertIndex < 0 || insertIndex > len(owner.Inputs) {
		n.log.Error("import insert index out of range", "index", insertIndex, "node", ownerID)
		return
	}

	slot := document.ValueInput(document.DefaultForType(document.UnitType), true)
	owner.Inputs = append(owner.Inputs, document.Input{})
	copy(owner.Inputs[insertIndex+1:], owner.Inputs[insertIndex:])
	owner.Inputs[insertIndex] = slot

	shiftImportRefs(network, insertIndex)
	level := n.doc.Level(path.Key())
	level.ImportNames = insertName(level.ImportNames, name, insertIndex)

	n.invalidateWiring(path)
	n.invalidateWiring(parentPath)
	n.demoteIfIneligible(ownerID, parentPath)
}

// AddExport adds an export slot to the network level at insertIndex, or at
// the end for AppendIndex. The slot appears as a new output on the node
// owning the level, and wires from outputs at or beyond the slot shift up.
func (n *NetworkInterface) AddExport(name string, insertIndex int, path Path) {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in AddExport", "path", path.Key())
		return
	}
	if insertIndex == AppendIndex {
		insertIndex = len(network.Exports)
	}
	if insertIndex < 0 || insertIndex > len(network.Exports) {
		n.log.Error("export insert index out of range", "index", insertIndex, "path", path.Key())
		return
	}

	slot := document.ValueInput(document.DefaultForType(document.UnitType), true)
	network.Exports = append(network.Exports, document.Input{})
	copy(network.Exports[insertIndex+1:], network.Exports[insertIndex:])
	network.Exports[insertIndex] = slot

	level := n.doc.Level(path.Key())
	level.ExportNames = insertName(level.ExportNames, name, insertIndex)
	n.invalidateWiring(path)

	if len(path) > 0 {
		parentPath := path[:len(path)-1]
		ownerID := path[len(path)-1]
		if parent, ok := n.Network(parentPath); ok {
			shiftOutputRefs(parent, ownerID, insertIndex)
			n.invalidateWiring(parentPath)
		}
		n.demoteIfIneligible(ownerID, parentPath)
	}
}

// shiftImportRefs bumps import references at or beyond index by one, in the
// level's nodes and exports.
func shiftImportRefs(network *document.NodeNetwork, index int) {
	bump := func(in *document.Input) {
		if in.Kind == document.InputNetwork && in.ImportIndex >= index {
			in.ImportIndex++
		}
	}
	for _, node := range network.Nodes {
		for i := range node.Inputs {
			bump(&node.Inputs[i])
		}
	}
	for i := range network.Exports {
		bump(&network.Exports[i])
	}
}

// shiftOutputRefs bumps wires from the node's outputs at or beyond index by
// one, in the parent level's nodes and exports.
func shiftOutputRefs(parent *document.NodeNetwork, id document.NodeID, index int) {
	bump := func(in *document.Input) {
		if in.Kind == document.InputNode && in.Node == id && in.OutputIndex >= index {
			in.OutputIndex++
		}
	}
	for _, node := range parent.Nodes {
		for i := range node.Inputs {
			bump(&node.Inputs[i])
		}
	}
	for i := range parent.Exports {
		bump(&parent.Exports[i])
	}
}

func insertName(names []string, name string, index int) []string {
	for len(names) < index {
		names = append(names, "")
	}
	names = append(names, "")
	copy(names[index+1:], names[index:])
	names[index] = name
	return names
}

// demoteIfIneligible converts a layer back to the node representation when
// it no longer satisfies the layer predicate, keeping its on-screen
// position.
func (n *NetworkInterface) demoteIfIneligible(id document.NodeID, path Path) {
	if !n.IsLayer(id, path) || n.IsEligibleToBeLayer(id, path) {
		return
	}
	pos, ok := n.Position(id, path)
	if !ok {
		return
	}
	m, ok := n.NodeMetadata(id, path)
	if !ok {
		return
	}
	m.Position = document.AbsoluteNodePosition(pos)
	n.Invalidate(CacheClickTargets, path, id)
	n.Invalidate(CacheStackDependents, path)
}

// TogglePreview temporarily routes the level's primary export to the given
// node's primary output, remembering the wiring it replaced. Toggling the
// same node again restores it; toggling a different node retargets the
// preview without losing the original wiring.
func (n *NetworkInterface) TogglePreview(id document.NodeID, path Path) {
	network, ok := n.Network(path)
	if !ok || len(network.Exports) == 0 {
		n.log.Error("no export to preview through", "path", path.Key())
		return
	}
	state := n.level(path)

	if state.preview != nil && state.preview.node == id {
		n.applyInput(document.ExportAt(0), state.preview.previous, path)
		state.preview = nil
		n.invalidateWiring(path)
		return
	}
	if state.preview == nil {
		state.preview = &previewState{previous: network.Exports[0]}
	}
	state.preview.node = id
	n.applyInput(document.ExportAt(0), document.NodeInput(id, 0), path)
	n.invalidateWiring(path)
}
