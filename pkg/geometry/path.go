package geometry

import "image/color"

// Cap is the stroke end cap.
type Cap string

const (
	CapButt  Cap = "butt"
	CapRound Cap = "round"
)

// Style holds the paint attributes of a path.
type Style struct {
	Stroke color.NRGBA
	Width  float64
	Fill   color.NRGBA
	Cap    Cap
}

// HasFill reports whether the fill color is visible.
func (s Style) HasFill() bool {
	return s.Fill.A > 0
}

// ControlPoint is an anchor with incoming and outgoing bezier handles.
// Handles are offsets relative to Point.
type ControlPoint struct {
	Point     Point2D `json:"point"`
	HandleIn  Point2D `json:"handle_in"`
	HandleOut Point2D `json:"handle_out"`
}

// Path is an ordered sequence of control points with a style.
type Path struct {
	ID       string
	Style    Style
	Selected bool // Draw control points (set while the path is being edited)

	segments []ControlPoint
	closed   bool
}

// NewPath creates an empty open path.
func NewPath(style Style) *Path {
	return &Path{Style: style}
}

// Add appends a control point without handles and returns its index.
func (p *Path) Add(pt Point2D) int {
	p.segments = append(p.segments, ControlPoint{Point: pt})
	return len(p.segments) - 1
}

// AddControlPoint appends a control point with handles and returns its index.
func (p *Path) AddControlPoint(cp ControlPoint) int {
	p.segments = append(p.segments, cp)
	return len(p.segments) - 1
}

// Len returns the number of control points.
func (p *Path) Len() int {
	return len(p.segments)
}

// At returns the control point at index i.
func (p *Path) At(i int) ControlPoint {
	return p.segments[i]
}

// First returns the first control point. The path must not be empty.
func (p *Path) First() ControlPoint {
	return p.segments[0]
}

// Last returns the last control point. The path must not be empty.
func (p *Path) Last() ControlPoint {
	return p.segments[len(p.segments)-1]
}

// SetHandles replaces both handles of the control point at index i.
func (p *Path) SetHandles(i int, in, out Point2D) {
	p.segments[i].HandleIn = in
	p.segments[i].HandleOut = out
}

// RemoveLast drops the most recently added control point.
// It returns false if the path is empty.
func (p *Path) RemoveLast() bool {
	if len(p.segments) == 0 {
		return false
	}
	p.segments = p.segments[:len(p.segments)-1]
	return true
}

// Close marks the path as closed. No control point is added.
func (p *Path) Close() {
	p.closed = true
}

// Closed reports whether the path is closed.
func (p *Path) Closed() bool {
	return p.closed
}

// Segments returns a copy of the control points.
func (p *Path) Segments() []ControlPoint {
	out := make([]ControlPoint, len(p.segments))
	copy(out, p.segments)
	return out
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	c := *p
	c.segments = p.Segments()
	return &c
}

// Bounds returns the bounding box of all anchors and handle endpoints.
func (p *Path) Bounds() Rect {
	if len(p.segments) == 0 {
		return Rect{}
	}
	pts := make([]Point2D, 0, len(p.segments)*3)
	for _, s := range p.segments {
		pts = append(pts, s.Point, s.Point.Add(s.HandleIn), s.Point.Add(s.HandleOut))
	}
	return BoundingBox(pts)
}
