package graphedit

import "github.com/mhalter/nodeloom/pkg/document"

// CacheKind names one category of transient metadata. Mutations invalidate
// caches by kind and entity rather than by poking individual fields, so the
// set of invalidations an edit performs reads as a checklist.
type CacheKind int

const (
	// CacheClickTargets is the per-node hit-test geometry.
	CacheClickTargets CacheKind = iota
	// CacheLayerWidth is the per-layer width in grid cells.
	CacheLayerWidth
	// CacheOutwardWires is the per-level output-to-consumers index.
	CacheOutwardWires
	// CacheStackDependents is the per-level implicit-movement ownership map.
	CacheStackDependents
	// CacheRootConnected is the per-level set of nodes feeding the exports.
	CacheRootConnected
	// CacheEdgePorts is the per-level import/export port geometry.
	CacheEdgePorts
)

// Invalidate unloads one cache kind for the given entities. Per-level kinds
// ignore the node arguments; per-node kinds require them. Unloading never
// triggers recomputation.
func (n *NetworkInterface) Invalidate(kind CacheKind, path Path, nodes ...document.NodeID) {
	level := n.level(path)
	switch kind {
	case CacheClickTargets:
		for _, id := range nodes {
			if state, ok := level.nodes[id]; ok {
				state.clickTargets.Unload()
			}
		}
	case CacheLayerWidth:
		for _, id := range nodes {
			if state, ok := level.nodes[id]; ok {
				state.layerWidth.Unload()
				state.clickTargets.Unload()
			}
		}
	case CacheOutwardWires:
		level.outwardWires.Unload()
	case CacheStackDependents:
		level.stackDependents.Unload()
	case CacheRootConnected:
		level.rootConnected.Unload()
	case CacheEdgePorts:
		level.edgePorts.Unload()
	}
}

// invalidateWiring unloads every cache that is a function of the level's
// wire topology. Derived positions can change for any node downstream of a
// rewire, so all click targets at the level go too, and with them the
// import/export columns placed beside the level bounds.
func (n *NetworkInterface) invalidateWiring(path Path) {
	level := n.level(path)
	level.outwardWires.Unload()
	level.stackDependents.Unload()
	level.rootConnected.Unload()
	level.edgePorts.Unload()
	for _, state := range level.nodes {
		state.clickTargets.Unload()
	}
}

// outwardWires returns the level's output-to-consumers index, rebuilding it
// from the document when unloaded. Consumers appear in deterministic order:
// nodes by sorted id, then inputs by index, then exports by index.
func (n *NetworkInterface) outwardWires(path Path) map[document.OutputConnector][]document.InputConnector {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in outwardWires", "path", path.Key())
		return nil
	}
	level := n.level(path)
	return level.outwardWires.GetOrLoad(func() map[document.OutputConnector][]document.InputConnector {
		wires := make(map[document.OutputConnector][]document.InputConnector)
		collect := func(in document.Input, target document.InputConnector) {
			switch in.Kind {
			case document.InputNode:
				source := document.OutputAt(in.Node, in.OutputIndex)
				wires[source] = append(wires[source], target)
			case document.InputNetwork:
				source := document.ImportAt(in.ImportIndex)
				wires[source] = append(wires[source], target)
			}
		}
		for _, id := range network.SortedIDs() {
			for i, in := range network.Nodes[id].Inputs {
				collect(in, document.InputAt(id, i))
			}
		}
		for i, in := range network.Exports {
			collect(in, document.ExportAt(i))
		}
		return wires
	})
}

// ConnectedToOutput reports whether the node has a live downstream path to
// the level's exports. The underlying structural cache is unloaded by every
// wiring mutation and rebuilt here.
func (n *NetworkInterface) ConnectedToOutput(id document.NodeID, path Path) bool {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in ConnectedToOutput", "path", path.Key())
		return false
	}
	level := n.level(path)
	connected := level.rootConnected.GetOrLoad(func() map[document.NodeID]bool {
		reachable := make(map[document.NodeID]bool)
		var stack []document.NodeID
		for _, in := range network.Exports {
			if upstream, _, ok := in.AsNode(); ok && !reachable[upstream] {
				reachable[upstream] = true
				stack = append(stack, upstream)
			}
		}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node, ok := network.Nodes[current]
			if !ok {
				continue
			}
			for _, in := range node.Inputs {
				if upstream, _, ok := in.AsNode(); ok && !reachable[upstream] {
					reachable[upstream] = true
					stack = append(stack, upstream)
				}
			}
		}
		return reachable
	})
	return connected[id]
}
