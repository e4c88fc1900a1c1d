package graphedit

import "github.com/mhalter/nodeloom/pkg/document"

// StackOwner records which node a given node implicitly moves with. Chain
// nodes are owned by their chain's layer; stacked layers by the nearest
// downstream absolutely-positioned node. Absolute nodes are unowned and
// remember their own row so repeated shifts compose instead of
// double-counting.
type StackOwner struct {
	Owned  bool
	Layer  document.NodeID // valid when Owned
	Offset int             // the node's own row when unowned
}

// stackDependents returns the level's ownership map, rebuilding it from
// position metadata and wiring when unloaded.
func (n *NetworkInterface) stackDependents(path Path) map[document.NodeID]StackOwner {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in stackDependents", "path", path.Key())
		return nil
	}
	level := n.level(path)
	return level.stackDependents.GetOrLoad(func() map[document.NodeID]StackOwner {
		owners := make(map[document.NodeID]StackOwner, len(network.Nodes))
		for _, id := range network.SortedIDs() {
			owners[id] = n.deriveOwner(id, path)
		}
		return owners
	})
}

// deriveOwner resolves the movement root of a node by walking downstream
// until a node with a stored coordinate is found.
func (n *NetworkInterface) deriveOwner(id document.NodeID, path Path) StackOwner {
	current := id
	for budget := n.levelNodeBudget(path); budget > 0; budget-- {
		m, ok := n.NodeMetadata(current, path)
		if !ok {
			break
		}
		switch m.Position.Mode {
		case document.PositionAbsolute:
			if current == id {
				return StackOwner{Offset: m.Position.Coord.Y}
			}
			return StackOwner{Owned: true, Layer: current}
		case document.PositionChain:
			next, ok := n.chainConsumer(current, path)
			if !ok {
				return StackOwner{}
			}
			current = next
		case document.PositionStack:
			next, ok := n.stackDownstream(current, path)
			if !ok {
				return StackOwner{}
			}
			current = next
		default:
			return StackOwner{}
		}
	}
	return StackOwner{}
}

// movementRoot returns the node whose stored coordinate determines the
// given node's position: the owner layer for owned nodes, the node itself
// otherwise.
func (n *NetworkInterface) movementRoot(id document.NodeID, path Path) document.NodeID {
	if owner, ok := n.stackDependents(path)[id]; ok && owner.Owned {
		return owner.Layer
	}
	return id
}

// movementGroup returns the root plus every node owned by it: the set that
// moves as one unit when the root's coordinate changes.
func (n *NetworkInterface) movementGroup(root document.NodeID, path Path) []document.NodeID {
	group := []document.NodeID{root}
	for id, owner := range n.stackDependents(path) {
		if owner.Owned && owner.Layer == root && id != root {
			group = append(group, id)
		}
	}
	return group
}

// nodeGridRect returns the node's body bounding box in grid cells.
func (n *NetworkInterface) nodeGridRect(id document.NodeID, path Path) (GridRect, bool) {
	pos, ok := n.Position(id, path)
	if !ok {
		return GridRect{}, false
	}
	size := document.GridPoint{X: n.WidthInCells(id, path), Y: n.HeightInCells(id, path)}
	return GridRect{Min: pos, Max: pos.Add(size)}, true
}

// groupGridRect returns the union bounding box of a movement group.
func (n *NetworkInterface) groupGridRect(root document.NodeID, path Path) (GridRect, bool) {
	var out GridRect
	found := false
	for _, id := range n.movementGroup(root, path) {
		rect, ok := n.nodeGridRect(id, path)
		if !ok {
			continue
		}
		if !found {
			out = rect
			found = true
			continue
		}
		out = out.Union(rect)
	}
	return out, found
}

// shiftStored offsets the node's stored coordinate by delta. Stack offsets
// clamp at zero: a stacked layer refuses to move past its downstream
// neighbor. Chain nodes store nothing and do not move. Reports whether a
// stored value changed.
func (n *NetworkInterface) shiftStored(id document.NodeID, delta document.GridPoint, path Path) bool {
	m, ok := n.NodeMetadata(id, path)
	if !ok {
		n.log.Error("could not get node metadata in shiftStored", "node", id)
		return false
	}
	switch m.Position.Mode {
	case document.PositionAbsolute:
		if delta == (document.GridPoint{}) {
			return false
		}
		m.Position.Coord = m.Position.Coord.Add(delta)
	case document.PositionStack:
		if delta.Y == 0 {
			return false
		}
		next := m.Position.StackOffset + delta.Y
		if next < 0 {
			if m.Position.StackOffset == 0 {
				return false
			}
			next = 0
		}
		if next == m.Position.StackOffset {
			return false
		}
		m.Position.StackOffset = next
	default:
		return false
	}
	for _, member := range n.movementGroup(id, path) {
		n.Invalidate(CacheClickTargets, path, member)
	}
	n.Invalidate(CacheStackDependents, path)
	n.Invalidate(CacheEdgePorts, path)
	return true
}

// ShiftSelectedNodes offsets every selected node's stored coordinate by
// delta grid cells. With push enabled, movement groups displaced into other
// groups push them along recursively, each group moving at most once per
// call.
func (n *NetworkInterface) ShiftSelectedNodes(delta document.GridPoint, push bool, path Path) {
	selected := n.SelectedNodes(path)
	if len(selected) == 0 {
		return
	}

	if !push {
		for _, id := range selected {
			n.shiftStored(id, delta, path)
		}
		return
	}

	// Push only composes vertically; horizontal deltas shift directly.
	if delta.Y == 0 {
		for _, id := range selected {
			n.shiftStored(id, delta, path)
		}
		return
	}

	moved := make(map[document.NodeID]bool)
	var seeds []document.NodeID
	for _, id := range selected {
		if !n.shiftStored(id, delta, path) {
			continue
		}
		root := n.movementRoot(id, path)
		if !moved[root] {
			moved[root] = true
			seeds = append(seeds, root)
		}
	}
	n.resolvePushes(seeds, delta, moved, path)
}

// resolvePushes walks the displaced groups and shifts any group they now
// overlap, recursively, until the level is collision free or every group
// has moved once.
func (n *NetworkInterface) resolvePushes(seeds []document.NodeID, delta document.GridPoint, moved map[document.NodeID]bool, path Path) {
	queue := append([]document.NodeID(nil), seeds...)
	budget := n.levelNodeBudget(path)

	for len(queue) > 0 && budget > 0 {
		budget--
		current := queue[0]
		queue = queue[1:]

		root := n.movementRoot(current, path)
		rect, ok := n.groupGridRect(root, path)
		if !ok {
			continue
		}
		for _, other := range n.collidingRoots(root, rect, path) {
			if moved[other] {
				continue
			}
			moved[other] = true
			n.shiftStored(other, document.GridPoint{Y: delta.Y}, path)
			queue = append(queue, other)
		}
	}
}

// collidingRoots returns the movement roots of unrelated groups whose
// bounding boxes overlap rect.
func (n *NetworkInterface) collidingRoots(root document.NodeID, rect GridRect, path Path) []document.NodeID {
	network, ok := n.Network(path)
	if !ok {
		return nil
	}
	seen := map[document.NodeID]bool{root: true}
	var out []document.NodeID
	for _, id := range network.SortedIDs() {
		other := n.movementRoot(id, path)
		if seen[other] {
			continue
		}
		seen[other] = true
		otherRect, ok := n.groupGridRect(other, path)
		if !ok {
			continue
		}
		if rect.Intersects(otherRect) {
			out = append(out, other)
		}
	}
	return out
}

// CheckCollisionWithStackDependents returns the nodes whose movement groups
// would newly overlap the given node's group after a one-cell downward
// shift. This is the predicate the push algorithm polls before each
// incremental move.
func (n *NetworkInterface) CheckCollisionWithStackDependents(id document.NodeID, path Path) []document.NodeID {
	root := n.movementRoot(id, path)
	rect, ok := n.groupGridRect(root, path)
	if !ok {
		return nil
	}
	before := map[document.NodeID]bool{}
	for _, other := range n.collidingRoots(root, rect, path) {
		before[other] = true
	}

	shifted := rect.Translate(document.GridPoint{Y: 1})
	var out []document.NodeID
	for _, other := range n.collidingRoots(root, shifted, path) {
		if !before[other] {
			out = append(out, other)
		}
	}
	return out
}
