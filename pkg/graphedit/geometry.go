package graphedit

import "github.com/mhalter/nodeloom/pkg/document"

// Canvas layout constants, in grid cells unless noted. One grid cell is
// GridSize pixels; all persisted coordinates are grid-space.
const (
	// GridSize is the pixel size of one grid cell.
	GridSize = 24
	// NodeWidthCells is the body width of a plain node.
	NodeWidthCells = 5
	// LayerHeightCells is the body height of a layer.
	LayerHeightCells = 2
	// ChainSpacingCells is the horizontal distance between adjacent chain
	// positions: one node body plus the wire gap.
	ChainSpacingCells = 7
	// DefaultLayerWidthCells is the minimum layer body width.
	DefaultLayerWidthCells = 8
	// PortRadius is the hit radius of a port, in pixels.
	PortRadius = 8
)

// Point is a pixel-space coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned pixel-space rectangle.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether two rectangles overlap with positive area.
func (r Rect) Intersects(other Rect) bool {
	return r.Min.X < other.Max.X && other.Min.X < r.Max.X &&
		r.Min.Y < other.Max.Y && other.Min.Y < r.Max.Y
}

// GridRect is an axis-aligned rectangle in grid cells. Min is inclusive,
// Max exclusive.
type GridRect struct {
	Min document.GridPoint
	Max document.GridPoint
}

// Intersects reports whether two grid rectangles overlap.
func (r GridRect) Intersects(other GridRect) bool {
	return r.Min.X < other.Max.X && other.Min.X < r.Max.X &&
		r.Min.Y < other.Max.Y && other.Min.Y < r.Max.Y
}

// Translate returns the rectangle shifted by delta.
func (r GridRect) Translate(delta document.GridPoint) GridRect {
	return GridRect{Min: r.Min.Add(delta), Max: r.Max.Add(delta)}
}

// Union returns the smallest rectangle containing both.
func (r GridRect) Union(other GridRect) GridRect {
	out := r
	if other.Min.X < out.Min.X {
		out.Min.X = other.Min.X
	}
	if other.Min.Y < out.Min.Y {
		out.Min.Y = other.Min.Y
	}
	if other.Max.X > out.Max.X {
		out.Max.X = other.Max.X
	}
	if other.Max.Y > out.Max.Y {
		out.Max.Y = other.Max.Y
	}
	return out
}

// gridToPixel converts a grid coordinate to the pixel position of its top
// left corner.
func gridToPixel(p document.GridPoint) Point {
	return Point{X: float64(p.X * GridSize), Y: float64(p.Y * GridSize)}
}

func gridRectToPixel(r GridRect) Rect {
	return Rect{Min: gridToPixel(r.Min), Max: gridToPixel(r.Max)}
}
