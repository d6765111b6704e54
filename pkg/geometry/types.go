// Package geometry provides the point, path and primitive types used by the editor.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point2D represents a 2D point with floating-point coordinates.
// It doubles as an offset vector for bezier handles.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

func (p Point2D) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point2D {
	return Point2D{X: v.X, Y: v.Y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return r2.Norm(r2.Sub(p.vec(), other.vec()))
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return fromVec(r2.Add(p.vec(), other.vec()))
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return fromVec(r2.Sub(p.vec(), other.vec()))
}

// Neg returns the point mirrored through the origin.
func (p Point2D) Neg() Point2D {
	return fromVec(r2.Scale(-1, p.vec()))
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return fromVec(r2.Scale(factor, p.vec()))
}

// Length returns the length of the point treated as a vector.
func (p Point2D) Length() float64 {
	return r2.Norm(p.vec())
}

// IsZero reports whether both coordinates are zero.
func (p Point2D) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BottomRight returns the bottom-right corner.
func (r Rect) BottomRight() Point2D {
	return Point2D{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	x2 := math.Max(r.X+r.Width, other.X+other.Width)
	y2 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Intersects reports whether the rectangles overlap. Touching edges count.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width && other.X <= r.X+r.Width &&
		r.Y <= other.Y+other.Height && other.Y <= r.Y+r.Height
}

// Inset returns the rectangle grown by d on every side (shrunk for negative d).
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, Width: r.Width + 2*d, Height: r.Height + 2*d}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
