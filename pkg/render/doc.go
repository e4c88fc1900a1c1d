// Package render visualizes node networks as Graphviz diagrams.
//
// [ToDOT] walks one level of an edited document and emits DOT text: layers
// as filled boxes, plain nodes as rounded ones, and one edge per wire.
// [RenderSVG] runs the DOT through Graphviz and returns display-ready SVG.
//
//	dot := render.ToDOT(n, nil, render.Options{})
//	svg, err := render.RenderSVG(dot)
package render
