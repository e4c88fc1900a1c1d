package graphedit

import "github.com/mhalter/nodeloom/pkg/document"

// InputPortTarget is one clickable wire destination: the connector it
// addresses and its pixel-space center.
type InputPortTarget struct {
	Connector document.InputConnector `json:"connector"`
	Center    Point                   `json:"center"`
}

// OutputPortTarget is one clickable wire source.
type OutputPortTarget struct {
	Connector document.OutputConnector `json:"connector"`
	Center    Point                    `json:"center"`
}

// ClickTargets is the pixel-space hit geometry of one node: its body
// rectangle, one target per visible port, and the layer-only widgets.
type ClickTargets struct {
	Body    Rect               `json:"body"`
	Inputs  []InputPortTarget  `json:"inputs"`
	Outputs []OutputPortTarget `json:"outputs"`

	// Grip is the drag handle on the right edge of a layer body, and
	// Visibility the toggle one cell left of it. Both zero for plain nodes.
	Grip       Rect `json:"grip,omitempty"`
	Visibility Rect `json:"visibility,omitempty"`
}

// EdgePorts is the hit geometry of a level's import and export slots,
// placed in columns beside the bounding box of the level's nodes.
type EdgePorts struct {
	Imports []OutputPortTarget `json:"imports"`
	Exports []InputPortTarget  `json:"exports"`
}

// edgePortGapCells separates the import and export columns from the
// outermost node bodies.
const edgePortGapCells = 3

// layerGripWidthCells is the width of a layer's drag handle.
const layerGripWidthCells = 1

// ClickTargets returns the node's hit geometry, rebuilding it from the
// derived position and size when unloaded.
func (n *NetworkInterface) ClickTargets(id document.NodeID, path Path) (ClickTargets, bool) {
	node, ok := n.Node(id, path)
	if !ok {
		n.log.Error("could not get node in ClickTargets", "node", id)
		return ClickTargets{}, false
	}
	pos, ok := n.Position(id, path)
	if !ok {
		return ClickTargets{}, false
	}
	state := n.nodeState(id, path)
	return state.clickTargets.GetOrLoad(func() ClickTargets {
		return n.buildClickTargets(id, node, pos, path)
	}), true
}

func (n *NetworkInterface) buildClickTargets(id document.NodeID, node *document.Node, pos document.GridPoint, path Path) ClickTargets {
	size := document.GridPoint{X: n.WidthInCells(id, path), Y: n.HeightInCells(id, path)}
	body := gridRectToPixel(GridRect{Min: pos, Max: pos.Add(size)})
	targets := ClickTargets{Body: body}

	if n.IsLayer(id, path) {
		// A layer's stack port sits centered on the bottom edge, the chain
		// port on the left edge, and the primary output centered on top.
		centerX := (body.Min.X + body.Max.X) / 2
		midY := (body.Min.Y + body.Max.Y) / 2
		if len(node.Inputs) > 0 {
			targets.Inputs = append(targets.Inputs, InputPortTarget{
				Connector: document.InputAt(id, 0),
				Center:    Point{X: centerX, Y: body.Max.Y},
			})
		}
		if len(node.Inputs) > 1 && node.Inputs[1].IsExposed() {
			targets.Inputs = append(targets.Inputs, InputPortTarget{
				Connector: document.InputAt(id, 1),
				Center:    Point{X: body.Min.X, Y: midY},
			})
		}
		targets.Outputs = append(targets.Outputs, OutputPortTarget{
			Connector: document.OutputAt(id, 0),
			Center:    Point{X: centerX, Y: body.Min.Y},
		})
		targets.Grip = Rect{
			Min: Point{X: body.Max.X - float64(layerGripWidthCells*GridSize), Y: body.Min.Y},
			Max: body.Max,
		}
		targets.Visibility = Rect{
			Min: Point{X: targets.Grip.Min.X - GridSize, Y: body.Min.Y},
			Max: Point{X: targets.Grip.Min.X, Y: body.Max.Y},
		}
		return targets
	}

	// Plain nodes: one port per exposed input down the left edge, outputs
	// down the right edge, one grid row apiece.
	row := 0
	for i, in := range node.Inputs {
		if !in.IsExposed() {
			continue
		}
		targets.Inputs = append(targets.Inputs, InputPortTarget{
			Connector: document.InputAt(id, i),
			Center:    Point{X: body.Min.X, Y: body.Min.Y + float64(row*GridSize) + GridSize/2},
		})
		row++
	}
	for i := 0; i < n.NumberOfOutputs(id, path); i++ {
		targets.Outputs = append(targets.Outputs, OutputPortTarget{
			Connector: document.OutputAt(id, i),
			Center:    Point{X: body.Max.X, Y: body.Min.Y + float64(i*GridSize) + GridSize/2},
		})
	}
	return targets
}

// EdgePorts returns the level's import and export port geometry.
func (n *NetworkInterface) EdgePorts(path Path) EdgePorts {
	network, ok := n.Network(path)
	if !ok {
		n.log.Error("could not get network in EdgePorts", "path", path.Key())
		return EdgePorts{}
	}
	level := n.level(path)
	return level.edgePorts.GetOrLoad(func() EdgePorts {
		bounds, found := n.levelBounds(path)
		if !found {
			bounds = GridRect{Max: document.GridPoint{X: NodeWidthCells, Y: 1}}
		}
		ports := EdgePorts{}
		importX := float64((bounds.Min.X - edgePortGapCells) * GridSize)
		for i := 0; i < n.importCount(path); i++ {
			ports.Imports = append(ports.Imports, OutputPortTarget{
				Connector: document.ImportAt(i),
				Center:    Point{X: importX, Y: float64(bounds.Min.Y*GridSize + i*GridSize) + GridSize / 2},
			})
		}
		exportX := float64((bounds.Max.X + edgePortGapCells) * GridSize)
		for i := range network.Exports {
			ports.Exports = append(ports.Exports, InputPortTarget{
				Connector: document.ExportAt(i),
				Center:    Point{X: exportX, Y: float64(bounds.Min.Y*GridSize + i*GridSize) + GridSize / 2},
			})
		}
		return ports
	})
}

// importCount returns how many imports the level has: the input count of
// its owning node, or zero at the root.
func (n *NetworkInterface) importCount(path Path) int {
	if len(path) == 0 {
		return 0
	}
	owner, ok := n.Node(path[len(path)-1], path[:len(path)-1])
	if !ok {
		return 0
	}
	return len(owner.Inputs)
}

// levelBounds returns the union grid bounding box of every node body at the
// level.
func (n *NetworkInterface) levelBounds(path Path) (GridRect, bool) {
	network, ok := n.Network(path)
	if !ok {
		return GridRect{}, false
	}
	var out GridRect
	found := false
	for _, id := range network.SortedIDs() {
		rect, ok := n.nodeGridRect(id, path)
		if !ok {
			continue
		}
		if !found {
			out, found = rect, true
			continue
		}
		out = out.Union(rect)
	}
	return out, found
}

// NodeFromClick returns the node whose body contains the point. Plain nodes
// win over layers when both contain it, since chains render on top of the
// layers they feed.
func (n *NetworkInterface) NodeFromClick(p Point, path Path) (document.NodeID, bool) {
	network, ok := n.Network(path)
	if !ok {
		return "", false
	}
	var hit document.NodeID
	found := false
	for _, id := range network.SortedIDs() {
		targets, ok := n.ClickTargets(id, path)
		if !ok || !targets.Body.Contains(p) {
			continue
		}
		if !n.IsLayer(id, path) {
			return id, true
		}
		if !found {
			hit, found = id, true
		}
	}
	return hit, found
}

// InputConnectorFromClick returns the wire destination whose port is within
// the port radius of the point, checking node inputs and export slots.
func (n *NetworkInterface) InputConnectorFromClick(p Point, path Path) (document.InputConnector, bool) {
	network, ok := n.Network(path)
	if !ok {
		return document.InputConnector{}, false
	}
	for _, id := range network.SortedIDs() {
		targets, ok := n.ClickTargets(id, path)
		if !ok {
			continue
		}
		for _, port := range targets.Inputs {
			if withinPortRadius(p, port.Center) {
				return port.Connector, true
			}
		}
	}
	for _, port := range n.EdgePorts(path).Exports {
		if withinPortRadius(p, port.Center) {
			return port.Connector, true
		}
	}
	return document.InputConnector{}, false
}

// OutputConnectorFromClick returns the wire source whose port is within the
// port radius of the point, checking node outputs and import slots.
func (n *NetworkInterface) OutputConnectorFromClick(p Point, path Path) (document.OutputConnector, bool) {
	network, ok := n.Network(path)
	if !ok {
		return document.OutputConnector{}, false
	}
	for _, id := range network.SortedIDs() {
		targets, ok := n.ClickTargets(id, path)
		if !ok {
			continue
		}
		for _, port := range targets.Outputs {
			if withinPortRadius(p, port.Center) {
				return port.Connector, true
			}
		}
	}
	for _, port := range n.EdgePorts(path).Imports {
		if withinPortRadius(p, port.Center) {
			return port.Connector, true
		}
	}
	return document.OutputConnector{}, false
}

// LayerGripFromClick returns the layer whose drag handle contains the
// point.
func (n *NetworkInterface) LayerGripFromClick(p Point, path Path) (document.NodeID, bool) {
	network, ok := n.Network(path)
	if !ok {
		return "", false
	}
	for _, id := range network.SortedIDs() {
		if !n.IsLayer(id, path) {
			continue
		}
		targets, ok := n.ClickTargets(id, path)
		if !ok {
			continue
		}
		if targets.Grip.Contains(p) {
			return id, true
		}
	}
	return "", false
}

// LayerVisibilityFromClick returns the layer whose visibility toggle
// contains the point.
func (n *NetworkInterface) LayerVisibilityFromClick(p Point, path Path) (document.NodeID, bool) {
	network, ok := n.Network(path)
	if !ok {
		return "", false
	}
	for _, id := range network.SortedIDs() {
		if !n.IsLayer(id, path) {
			continue
		}
		targets, ok := n.ClickTargets(id, path)
		if !ok {
			continue
		}
		if targets.Visibility.Contains(p) {
			return id, true
		}
	}
	return "", false
}

func withinPortRadius(p, center Point) bool {
	dx := p.X - center.X
	dy := p.Y - center.Y
	return dx*dx+dy*dy <= PortRadius*PortRadius
}
