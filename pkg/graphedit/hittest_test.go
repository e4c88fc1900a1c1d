package graphedit_test

import (
	"testing"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
)

func TestClickTargetsLayer(t *testing.T) {
	n := newStackedInterface()

	targets, ok := n.ClickTargets("layerA", nil)
	if !ok {
		t.Fatal("ClickTargets failed")
	}

	// Grid (10,10) with an 8x2 body is pixels (240,240)-(432,288).
	wantBody := graphedit.Rect{
		Min: graphedit.Point{X: 240, Y: 240},
		Max: graphedit.Point{X: 432, Y: 288},
	}
	if targets.Body != wantBody {
		t.Errorf("body = %+v, want %+v", targets.Body, wantBody)
	}

	if len(targets.Inputs) != 2 {
		t.Fatalf("inputs = %d, want stack and chain ports", len(targets.Inputs))
	}
	if got, want := targets.Inputs[0].Center, (graphedit.Point{X: 336, Y: 288}); got != want {
		t.Errorf("stack port = %+v, want bottom center %+v", got, want)
	}
	if got, want := targets.Inputs[1].Center, (graphedit.Point{X: 240, Y: 264}); got != want {
		t.Errorf("chain port = %+v, want left middle %+v", got, want)
	}
	if got, want := targets.Outputs[0].Center, (graphedit.Point{X: 336, Y: 240}); got != want {
		t.Errorf("output port = %+v, want top center %+v", got, want)
	}
	if got, want := targets.Grip.Min, (graphedit.Point{X: 408, Y: 240}); got != want {
		t.Errorf("grip min = %+v, want %+v", got, want)
	}
	wantVisibility := graphedit.Rect{
		Min: graphedit.Point{X: 384, Y: 240},
		Max: graphedit.Point{X: 408, Y: 288},
	}
	if targets.Visibility != wantVisibility {
		t.Errorf("visibility toggle = %+v, want %+v", targets.Visibility, wantVisibility)
	}
}

func TestClickTargetsPlainNode(t *testing.T) {
	n := newStackedInterface()

	targets, ok := n.ClickTargets("chain1", nil)
	if !ok {
		t.Fatal("ClickTargets failed")
	}

	// Grid (3,10) with a 5x1 body is pixels (72,240)-(192,264).
	if got, want := targets.Body.Min, (graphedit.Point{X: 72, Y: 240}); got != want {
		t.Errorf("body min = %+v, want %+v", got, want)
	}
	if len(targets.Inputs) != 1 {
		t.Fatalf("inputs = %d, want 1", len(targets.Inputs))
	}
	if got, want := targets.Inputs[0].Center, (graphedit.Point{X: 72, Y: 252}); got != want {
		t.Errorf("input port = %+v, want %+v", got, want)
	}
	if got, want := targets.Outputs[0].Center, (graphedit.Point{X: 192, Y: 252}); got != want {
		t.Errorf("output port = %+v, want %+v", got, want)
	}
	var zero graphedit.Rect
	if targets.Grip != zero {
		t.Errorf("grip = %+v, want zero for a plain node", targets.Grip)
	}
	if targets.Visibility != zero {
		t.Errorf("visibility = %+v, want zero for a plain node", targets.Visibility)
	}
}

func TestNodeFromClick(t *testing.T) {
	n := newStackedInterface()
	addPlainNode(n, "overlay", 11, 10)

	tests := []struct {
		name  string
		point graphedit.Point
		want  document.NodeID
		found bool
	}{
		{"layer body", graphedit.Point{X: 250, Y: 280}, "layerA", true},
		{"plain node wins over layer", graphedit.Point{X: 300, Y: 250}, "overlay", true},
		{"chain body", graphedit.Point{X: 100, Y: 250}, "chain1", true},
		{"empty canvas", graphedit.Point{X: 1000, Y: 1000}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := n.NodeFromClick(tt.point, nil)
			if found != tt.found || got != tt.want {
				t.Errorf("NodeFromClick(%+v) = %q, %v, want %q, %v", tt.point, got, found, tt.want, tt.found)
			}
		})
	}
}

func TestConnectorFromClick(t *testing.T) {
	n := newStackedInterface()

	// Slightly off the exact center, inside the port radius.
	in, ok := n.InputConnectorFromClick(graphedit.Point{X: 338, Y: 290}, nil)
	if !ok || in != document.InputAt("layerA", 0) {
		t.Errorf("input from click = %+v, %v, want layerA stack port", in, ok)
	}

	out, ok := n.OutputConnectorFromClick(graphedit.Point{X: 190, Y: 253}, nil)
	if !ok || out != document.OutputAt("chain1", 0) {
		t.Errorf("output from click = %+v, %v, want chain1 output", out, ok)
	}

	if _, ok := n.InputConnectorFromClick(graphedit.Point{X: 1000, Y: 1000}, nil); ok {
		t.Error("click far from any port should miss")
	}
}

func TestExportPortFromClick(t *testing.T) {
	n := newStackedInterface()

	// The level bounds span grid x -4..18; the export column sits three
	// cells right of that at pixel x 504, first slot at y 252.
	in, ok := n.InputConnectorFromClick(graphedit.Point{X: 504, Y: 252}, nil)
	if !ok || in != document.ExportAt(0) {
		t.Errorf("export from click = %+v, %v, want export 0", in, ok)
	}
}

func TestEdgePortsNestedLevel(t *testing.T) {
	n := graphedit.New(buildGroupedDocument(), nil)

	ports := n.EdgePorts(graphedit.Path{"group"})
	if len(ports.Imports) != 1 {
		t.Fatalf("imports = %d, want the owning node's input count", len(ports.Imports))
	}
	if ports.Imports[0].Connector != document.ImportAt(0) {
		t.Errorf("import connector = %+v, want import 0", ports.Imports[0].Connector)
	}
	if len(ports.Exports) != 1 {
		t.Fatalf("exports = %d, want 1", len(ports.Exports))
	}
}

func TestEdgePortsRefreshAfterMutation(t *testing.T) {
	n := newStackedInterface()

	if got := len(n.EdgePorts(nil).Exports); got != 1 {
		t.Fatalf("exports = %d, want 1", got)
	}

	// A new export must show up on the next query, not a stale column.
	n.AddExport("extra", graphedit.AppendIndex, nil)
	ports := n.EdgePorts(nil)
	if got := len(ports.Exports); got != 2 {
		t.Fatalf("exports after AddExport = %d, want 2", got)
	}

	// Moving the rightmost bodies drags the export column along: the level
	// bounds grow from grid x 18 to 20, putting the column at pixel x 552.
	n.SetSelectedNodes([]document.NodeID{"layerA"}, nil)
	n.ShiftSelectedNodes(document.GridPoint{X: 2}, false, nil)
	ports = n.EdgePorts(nil)
	if got, want := ports.Exports[0].Center, (graphedit.Point{X: 552, Y: 252}); got != want {
		t.Errorf("export port = %+v, want %+v after the shift", got, want)
	}
}

func TestLayerGripFromClick(t *testing.T) {
	n := newStackedInterface()

	id, ok := n.LayerGripFromClick(graphedit.Point{X: 420, Y: 250}, nil)
	if !ok || id != "layerA" {
		t.Errorf("grip hit = %q, %v, want layerA", id, ok)
	}
	if _, ok := n.LayerGripFromClick(graphedit.Point{X: 250, Y: 250}, nil); ok {
		t.Error("layer body outside the grip should miss")
	}

	id, ok = n.LayerVisibilityFromClick(graphedit.Point{X: 400, Y: 250}, nil)
	if !ok || id != "layerA" {
		t.Errorf("visibility hit = %q, %v, want layerA", id, ok)
	}
	if _, ok := n.LayerVisibilityFromClick(graphedit.Point{X: 420, Y: 250}, nil); ok {
		t.Error("grip area should not count as the visibility toggle")
	}
}
