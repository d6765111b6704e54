package geometry

import "image/color"

// Primitive is anything that can be placed in a Scene.
type Primitive interface {
	Bounds() Rect
}

// Line is a straight stroked segment.
type Line struct {
	From  Point2D
	To    Point2D
	Color color.NRGBA
	Width float64
	Dash  []float64 // Alternating on/off lengths in screen units; nil for solid
	Guide bool      // Transient aid, never persisted
}

// NewLine creates a solid line of width 1.
func NewLine(from, to Point2D, col color.NRGBA) Line {
	return Line{From: from, To: to, Color: col, Width: 1}
}

// Bounds implements Primitive.
func (l Line) Bounds() Rect {
	return BoundingBox([]Point2D{l.From, l.To})
}

// Circle is a filled disc.
type Circle struct {
	Center Point2D
	Radius float64
	Fill   color.NRGBA
	Guide  bool
}

// NewCircle creates a filled circle.
func NewCircle(center Point2D, radius float64, fill color.NRGBA) Circle {
	return Circle{Center: center, Radius: radius, Fill: fill}
}

// Bounds implements Primitive.
func (c Circle) Bounds() Rect {
	return Rect{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

var (
	_ Primitive = Line{}
	_ Primitive = Circle{}
	_ Primitive = (*Path)(nil)
)
