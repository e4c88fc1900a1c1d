package graphedit

import "github.com/mhalter/nodeloom/pkg/document"

// FlowType is the traversal policy for upstream graph walks. Keeping the
// policy as data lets one worklist implementation serve every walk the
// layout and mutation code needs.
type FlowType int

const (
	// FlowUpstream follows every exposed wire input.
	FlowUpstream FlowType = iota
	// FlowHorizontal follows the primary (chain-direction) input only:
	// input 1 for layers, input 0 for plain nodes.
	FlowHorizontal
	// FlowVertical follows the stack-direction input only: input 0, and
	// only on layers.
	FlowVertical
	// FlowLayerChildren starts at a layer's secondary input and then
	// follows every wire, collecting the layer's child subtree.
	FlowLayerChildren
)

// UpstreamFromNodes walks upstream from the seed nodes under the given flow
// policy and returns every visited node, seeds included, in breadth-first
// order.
func (n *NetworkInterface) UpstreamFromNodes(seeds []document.NodeID, path Path, flow FlowType) []document.NodeID {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in UpstreamFromNodes", "path", path.Key())
		return nil
	}

	visited := make(map[document.NodeID]bool, len(seeds))
	var order []document.NodeID
	var queue []document.NodeID

	push := func(id document.NodeID) {
		if _, exists := network.Nodes[id]; exists && !visited[id] {
			visited[id] = true
			order = append(order, id)
			queue = append(queue, id)
		}
	}

	if flow == FlowLayerChildren {
		for _, seed := range seeds {
			for _, upstream := range n.upstreamNeighbors(seed, path, FlowLayerChildren) {
				push(upstream)
			}
		}
		flow = FlowUpstream
	} else {
		for _, seed := range seeds {
			push(seed)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, upstream := range n.upstreamNeighbors(current, path, flow) {
			push(upstream)
		}
	}
	return order
}

// upstreamNeighbors returns the direct upstream nodes of id under the flow
// policy, in input order.
func (n *NetworkInterface) upstreamNeighbors(id document.NodeID, path Path, flow FlowType) []document.NodeID {
	node, ok := n.Node(id, path)
	if !ok {
		return nil
	}

	// Only the secondary input seeds a layer's child subtree.
	if flow == FlowLayerChildren {
		if len(node.Inputs) > 1 {
			if upstream, _, ok := node.Inputs[1].AsNode(); ok {
				return []document.NodeID{upstream}
			}
		}
		return nil
	}

	isLayer := n.IsLayer(id, path)

	var neighbors []document.NodeID
	for i, in := range node.Inputs {
		upstream, _, isNode := in.AsNode()
		if !isNode || !in.IsExposed() {
			continue
		}
		switch flow {
		case FlowUpstream:
			neighbors = append(neighbors, upstream)
		case FlowHorizontal:
			chainIndex := 0
			if isLayer {
				chainIndex = 1
			}
			if i == chainIndex {
				neighbors = append(neighbors, upstream)
			}
		case FlowVertical:
			if isLayer && i == 0 {
				neighbors = append(neighbors, upstream)
			}
		}
	}
	return neighbors
}

// downstreamConsumers returns the input connectors fed by the node's output,
// in the outward-wire index's deterministic order.
func (n *NetworkInterface) downstreamConsumers(id document.NodeID, outputIndex int, path Path) []document.InputConnector {
	wires := n.outwardWires(path)
	return wires[document.OutputAt(id, outputIndex)]
}

// primaryConsumer returns the single node-input consumer of the node's
// primary output, if there is exactly one outward wire and it targets a
// node rather than an export.
func (n *NetworkInterface) primaryConsumer(id document.NodeID, path Path) (document.InputConnector, bool) {
	consumers := n.downstreamConsumers(id, 0, path)
	if len(consumers) != 1 || consumers[0].Export {
		return document.InputConnector{}, false
	}
	return consumers[0], true
}
