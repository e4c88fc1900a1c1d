package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mhalter/nodeloom/pkg/document"
	"github.com/mhalter/nodeloom/pkg/graphedit"
)

// Options configures network diagram rendering.
type Options struct {
	// Detailed includes the position mode and input count in node labels.
	// When false, only the display name is shown.
	Detailed bool

	// Pin places each node at its derived canvas position instead of
	// letting Graphviz lay the graph out.
	Pin bool
}

// ToDOT converts one level of the edited document to Graphviz DOT format.
// Layers render as filled boxes, plain nodes as rounded ones; every wire
// becomes an edge from its source node or import to its destination. The
// result can be rendered with [RenderSVG].
func ToDOT(n *graphedit.NetworkInterface, path graphedit.Path, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph network {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	network, ok := n.Network(path)
	if !ok {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, id := range network.SortedIDs() {
		attrs := nodeAttrs(n, id, path, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	writeEdge := func(in document.Input, target string) {
		switch in.Kind {
		case document.InputNode:
			fmt.Fprintf(&buf, "  %q -> %s;\n", in.Node, target)
		case document.InputNetwork:
			fmt.Fprintf(&buf, "  \"import %d\" -> %s;\n", in.ImportIndex, target)
		}
	}
	for _, id := range network.SortedIDs() {
		for _, in := range network.Nodes[id].Inputs {
			writeEdge(in, strconv.Quote(string(id)))
		}
	}
	for i, in := range network.Exports {
		fmt.Fprintf(&buf, "  \"export %d\" [shape=cds, fillcolor=lightyellow];\n", i)
		writeEdge(in, fmt.Sprintf("\"export %d\"", i))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graphedit.NetworkInterface, id document.NodeID, path graphedit.Path, opts Options) []string {
	label := string(id)
	var mode document.PositionMode
	if m, ok := n.NodeMetadata(id, path); ok {
		label = m.Name()
		mode = m.Position.Mode
	}
	if opts.Detailed {
		label = fmt.Sprintf("%s\n%s, %d in", label, mode, n.ExposedInputCount(id, path))
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsLayer(id, path) {
		attrs = append(attrs, "style=filled", "fillcolor=lightblue")
	}
	if node, ok := n.Node(id, path); ok && node.IsNetwork() {
		attrs = append(attrs, "peripheries=2")
	}
	if opts.Pin {
		if pos, ok := n.Position(id, path); ok {
			// DOT pin coordinates are in points with y growing upward.
			attrs = append(attrs, fmt.Sprintf("pos=\"%d,%d!\"", pos.X*graphedit.GridSize, -pos.Y*graphedit.GridSize))
		}
	}
	return attrs
}

// RenderSVG renders DOT text to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the view box starts at
// the origin; Graphviz emits offsets that confuse some viewers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
