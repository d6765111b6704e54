// Package pen implements the pen tool. Clicks place control points, drags
// shape symmetric bezier handles, and the path is finished by clicking near
// its first point, double-clicking, pressing Enter or switching tools.
// Escape discards the path.
package pen

import (
	"image/color"
	"log/slog"

	"vector-pen/internal/tool"
	"vector-pen/pkg/geometry"
)

const (
	// Name is the tool name and the action reported with canvas modifications.
	Name = "pen"

	// CloseThreshold is the screen-space distance to the first point within
	// which a click closes the path.
	CloseThreshold = 10.0
)

// State is the authoring state of the tool.
type State int

const (
	Idle     State = iota // No pending path
	Placing               // Pending path, no handle being dragged
	Dragging              // Handles of the active control point are being shaped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Placing:
		return "placing"
	case Dragging:
		return "dragging"
	}
	return "unknown"
}

// Layer holds the transient primitives the tool draws while authoring.
// Replace publishes edits to a primitive that is already placed.
type Layer interface {
	Add(p geometry.Primitive) geometry.Handle
	Replace(h geometry.Handle, p geometry.Primitive) bool
	Remove(h geometry.Handle) bool
}

// Settings provides the current paint settings.
type Settings interface {
	StrokeColor() color.NRGBA
	StrokeWidth() float64
	FillColor() color.NRGBA
}

// Sink receives finished paths.
type Sink interface {
	// AddPathToProject takes ownership of p.
	AddPathToProject(p *geometry.Path)
	OnCanvasModified(action string)
}

// Tool is the pen tool. It is driven by a single event loop and is not safe
// for concurrent use.
type Tool struct {
	layer    Layer
	settings Settings
	sink     Sink
	onCursor func(tool.Cursor)

	path       *geometry.Path
	pathHandle geometry.Handle
	preview    geometry.Handle
	guides     []geometry.Handle
	active     int // index of the draggable control point, -1 when none
	dragging   bool
	cursor     tool.Cursor
}

var _ tool.Tool = (*Tool)(nil)

// New creates a pen tool that draws into layer, reads paint settings from
// settings and hands finished paths to sink.
func New(layer Layer, settings Settings, sink Sink) *Tool {
	return &Tool{
		layer:    layer,
		settings: settings,
		sink:     sink,
		active:   -1,
		cursor:   tool.CursorCrosshair,
	}
}

// OnCursor sets a callback invoked when the cursor hint changes.
func (t *Tool) OnCursor(fn func(tool.Cursor)) {
	t.onCursor = fn
}

// Name implements tool.Tool.
func (t *Tool) Name() string {
	return Name
}

// Cursor implements tool.Tool.
func (t *Tool) Cursor() tool.Cursor {
	return t.cursor
}

// State reports the current authoring state.
func (t *Tool) State() State {
	switch {
	case t.path == nil:
		return Idle
	case t.dragging:
		return Dragging
	default:
		return Placing
	}
}

// Pending returns a copy of the pending path's control points, or nil.
func (t *Tool) Pending() []geometry.ControlPoint {
	if t.path == nil {
		return nil
	}
	return t.path.Segments()
}

// Activate resets all transient state.
func (t *Tool) Activate() {
	t.removePreview()
	t.removeGuides()
	t.detachPath()
	t.setCursor(tool.CursorCrosshair)
}

// Deactivate commits any pending path.
func (t *Tool) Deactivate() {
	if t.path != nil {
		t.Commit()
	}
	t.removeGuides()
}

// PointerDown closes the path when p is near its first point, otherwise
// appends a control point at p.
func (t *Tool) PointerDown(p geometry.Point2D, zoom float64) {
	if t.closeable(p, zoom) {
		t.path.Close()
		logger().Debug("pen: closing path", slog.Int("points", t.path.Len()))
		t.Commit()
		return
	}

	if t.path == nil {
		t.path = geometry.NewPath(geometry.Style{
			Stroke: t.settings.StrokeColor(),
			Width:  t.settings.StrokeWidth(),
			Fill:   t.settings.FillColor(),
			Cap:    geometry.CapRound,
		})
		t.path.Selected = true
		t.pathHandle = t.layer.Add(t.path)
	}

	t.removeGuides()
	t.active = t.path.Add(p)
	t.layer.Replace(t.pathHandle, t.path)
	t.dragging = false
	t.removePreview()
}

// PointerDrag shapes symmetric handles on the active control point.
func (t *Tool) PointerDrag(p geometry.Point2D, zoom float64) {
	if t.path == nil || t.active < 0 {
		return
	}
	t.dragging = true

	delta := p.Sub(t.path.At(t.active).Point)
	t.path.SetHandles(t.active, delta.Neg(), delta)
	t.layer.Replace(t.pathHandle, t.path)

	t.removeGuides()
	for _, g := range HandleGuides(t.path.At(t.active), zoom) {
		t.guides = append(t.guides, t.layer.Add(g))
	}
}

// PointerUp ends a drag. The control point stays in place.
func (t *Tool) PointerUp() {
	t.dragging = false
	t.removeGuides()
}

// PointerMove updates the next-segment preview and the close affordance.
func (t *Tool) PointerMove(p geometry.Point2D, zoom float64) {
	if t.path == nil || t.path.Len() == 0 {
		return
	}

	t.removePreview()
	t.preview = t.layer.Add(Preview(t.path.Last().Point, p, t.settings.StrokeColor()))

	if t.path.Len() > 1 {
		if t.closeable(p, zoom) {
			t.setCursor(tool.CursorPointer)
		} else {
			t.setCursor(tool.CursorCrosshair)
		}
	}
}

// DoubleClick finishes the path. The pointer-down delivered just before the
// double-click added a point for the same gesture; that point is dropped
// unless it is the only one.
func (t *Tool) DoubleClick() {
	if t.path == nil || t.path.Len() == 0 {
		return
	}
	if t.path.Len() > 1 {
		t.path.RemoveLast()
	}
	t.Commit()
}

// KeyDown handles Enter (finish) and Escape (discard).
func (t *Tool) KeyDown(key tool.Key) {
	switch key {
	case tool.KeyEnter:
		if t.path != nil && t.path.Len() > 0 {
			t.Commit()
		}
	case tool.KeyEscape:
		t.Cancel()
	}
}

// Commit hands a pending path with at least two control points to the sink
// and reports the modification. Shorter paths are discarded silently.
func (t *Tool) Commit() {
	t.removePreview()
	t.removeGuides()

	path := t.detachPath()
	t.setCursor(tool.CursorCrosshair)
	if path == nil {
		return
	}
	if path.Len() < 2 {
		logger().Debug("pen: discarding short path", slog.Int("points", path.Len()))
		return
	}

	path.Selected = false
	t.sink.AddPathToProject(path)
	t.sink.OnCanvasModified(Name)
	logger().Debug("pen: committed path",
		slog.Int("points", path.Len()),
		slog.Bool("closed", path.Closed()))
}

// Cancel discards the pending path without notifying the sink.
func (t *Tool) Cancel() {
	t.removePreview()
	t.removeGuides()
	if path := t.detachPath(); path != nil {
		logger().Debug("pen: cancelled path", slog.Int("points", path.Len()))
	}
	t.setCursor(tool.CursorCrosshair)
}

// closeable reports whether a click at p would close the pending path.
func (t *Tool) closeable(p geometry.Point2D, zoom float64) bool {
	if t.path == nil || t.path.Len() < 2 || zoom <= 0 {
		return false
	}
	return p.Distance(t.path.First().Point) < CloseThreshold/zoom
}

// detachPath removes the pending path from the layer and forgets it.
func (t *Tool) detachPath() *geometry.Path {
	path := t.path
	if t.pathHandle != 0 {
		t.layer.Remove(t.pathHandle)
	}
	t.path = nil
	t.pathHandle = 0
	t.active = -1
	t.dragging = false
	return path
}

func (t *Tool) removePreview() {
	if t.preview != 0 {
		t.layer.Remove(t.preview)
		t.preview = 0
	}
}

func (t *Tool) removeGuides() {
	for _, h := range t.guides {
		t.layer.Remove(h)
	}
	t.guides = nil
}

func (t *Tool) setCursor(c tool.Cursor) {
	if t.cursor == c {
		return
	}
	t.cursor = c
	if t.onCursor != nil {
		t.onCursor(c)
	}
}
