package wm

// Geometry is a rectangular region in logical pixels.
type Geometry struct {
	X      int32  `json:"x" yaml:"x"`
	Y      int32  `json:"y" yaml:"y"`
	Width  uint32 `json:"width" yaml:"width"`
	Height uint32 `json:"height" yaml:"height"`
}

// Contains reports whether the point lies inside the rectangle. The far
// edges are exclusive.
func (g Geometry) Contains(x, y int32) bool {
	return x >= g.X && x < g.X+int32(g.Width) &&
		y >= g.Y && y < g.Y+int32(g.Height)
}

// Intersects reports whether two rectangles overlap.
func (g Geometry) Intersects(o Geometry) bool {
	return g.X < o.X+int32(o.Width) && o.X < g.X+int32(g.Width) &&
		g.Y < o.Y+int32(o.Height) && o.Y < g.Y+int32(g.Height)
}

// IsZero reports whether the rectangle is the zero value.
func (g Geometry) IsZero() bool {
	return g.X == 0 && g.Y == 0 && g.Width == 0 && g.Height == 0
}

// SplitH splits the rectangle into left and right parts. The left part gets
// floor(width*ratio); the right part gets the remainder.
func (g Geometry) SplitH(ratio float64) (Geometry, Geometry) {
	leftWidth := uint32(float64(g.Width) * ratio)
	left := Geometry{X: g.X, Y: g.Y, Width: leftWidth, Height: g.Height}
	right := Geometry{X: g.X + int32(leftWidth), Y: g.Y, Width: g.Width - leftWidth, Height: g.Height}
	return left, right
}

// SplitV splits the rectangle into top and bottom parts. The top part gets
// floor(height*ratio); the bottom part gets the remainder.
func (g Geometry) SplitV(ratio float64) (Geometry, Geometry) {
	topHeight := uint32(float64(g.Height) * ratio)
	top := Geometry{X: g.X, Y: g.Y, Width: g.Width, Height: topHeight}
	bottom := Geometry{X: g.X, Y: g.Y + int32(topHeight), Width: g.Width, Height: g.Height - topHeight}
	return top, bottom
}

// ResizeEdges is a bitset of window edges engaged by an interactive resize.
type ResizeEdges uint8

const (
	EdgeTop ResizeEdges = 1 << iota
	EdgeBottom
	EdgeLeft
	EdgeRight
)

func (e ResizeEdges) Has(edge ResizeEdges) bool { return e&edge != 0 }

// EdgeFromPoint maps a pointer position to the resize edges it engages. The
// window is divided into a 3x3 grid of thirds: the outer cells select one or
// two edges, the center cell defaults to the bottom-right corner.
func EdgeFromPoint(px, py float64, geo Geometry) ResizeEdges {
	rx := px - float64(geo.X)
	ry := py - float64(geo.Y)
	w := float64(geo.Width)
	h := float64(geo.Height)

	left := rx < w/3
	right := rx > w*2/3
	top := ry < h/3
	bottom := ry > h*2/3

	switch {
	case top && left:
		return EdgeTop | EdgeLeft
	case top && right:
		return EdgeTop | EdgeRight
	case bottom && left:
		return EdgeBottom | EdgeLeft
	case bottom && right:
		return EdgeBottom | EdgeRight
	case left:
		return EdgeLeft
	case right:
		return EdgeRight
	case top:
		return EdgeTop
	case bottom:
		return EdgeBottom
	default:
		return EdgeBottom | EdgeRight
	}
}
