// Package canvas provides the path canvas: pan, zoom, tool input and rendering.
package canvas

import (
	"image"
	"log/slog"

	"vector-pen/internal/tool"
	"vector-pen/pkg/colorutil"
	"vector-pen/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// PathCanvas displays committed paths plus the tool overlay and feeds
// pointer and keyboard input to the active tool.
type PathCanvas struct {
	widget.BaseWidget

	tools   *tool.Table
	overlay *geometry.Scene
	paths   func() []*geometry.Path

	// Display state
	raster  *fynecanvas.Raster
	zoom    float64
	docSize fyne.Size // Drawing area in path-local units

	// Container
	scroll  *zoomScroll
	content *inputContent
	imgSize fyne.Size // Current display size

	// Callbacks
	onZoomChange func(zoom float64)
}

// zoomScroll is a widget that wraps a scroll container but intercepts wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PathCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PathCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	// Use wheel for zoom, not scroll
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

// Refresh refreshes the scroll container.
func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

// Resize sets the size of the scroll container.
func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// inputContent wraps the raster and translates fyne input into tool events.
type inputContent struct {
	widget.BaseWidget
	canvas *PathCanvas
	raster *fynecanvas.Raster
}

var (
	_ desktop.Mouseable   = (*inputContent)(nil)
	_ desktop.Hoverable   = (*inputContent)(nil)
	_ desktop.Cursorable  = (*inputContent)(nil)
	_ fyne.Draggable      = (*inputContent)(nil)
	_ fyne.DoubleTappable = (*inputContent)(nil)
	_ fyne.Focusable      = (*inputContent)(nil)
)

func newInputContent(pc *PathCanvas, raster *fynecanvas.Raster) *inputContent {
	ic := &inputContent{
		canvas: pc,
		raster: raster,
	}
	ic.ExtendBaseWidget(ic)
	return ic
}

func (ic *inputContent) CreateRenderer() fyne.WidgetRenderer {
	return &inputContentRenderer{content: ic}
}

func (ic *inputContent) MinSize() fyne.Size {
	return ic.raster.MinSize()
}

// local converts a position on this widget to path-local coordinates.
func (ic *inputContent) local(pos fyne.Position) geometry.Point2D {
	return ic.canvas.CanvasToLocal(float64(pos.X), float64(pos.Y))
}

// MouseDown starts a tool gesture with the primary button.
func (ic *inputContent) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ic.requestFocus()
	ic.canvas.tools.PointerDown(ic.local(ev.Position), ic.canvas.zoom)
	ic.canvas.Refresh()
}

func (ic *inputContent) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	ic.canvas.tools.PointerUp()
	ic.canvas.Refresh()
}

func (ic *inputContent) Dragged(ev *fyne.DragEvent) {
	ic.canvas.tools.PointerDrag(ic.local(ev.Position), ic.canvas.zoom)
	ic.canvas.Refresh()
}

func (ic *inputContent) DragEnd() {
	ic.canvas.tools.PointerUp()
	ic.canvas.Refresh()
}

func (ic *inputContent) MouseIn(ev *desktop.MouseEvent) {
	ic.MouseMoved(ev)
}

func (ic *inputContent) MouseMoved(ev *desktop.MouseEvent) {
	ic.canvas.tools.PointerMove(ic.local(ev.Position), ic.canvas.zoom)
	ic.canvas.Refresh()
}

func (ic *inputContent) MouseOut() {}

// DoubleTapped arrives after the mouse-down of the second click.
func (ic *inputContent) DoubleTapped(*fyne.PointEvent) {
	ic.canvas.tools.DoubleClick()
	ic.canvas.Refresh()
}

func (ic *inputContent) FocusGained()   {}
func (ic *inputContent) FocusLost()     {}
func (ic *inputContent) TypedRune(rune) {}

func (ic *inputContent) TypedKey(ev *fyne.KeyEvent) {
	key, ok := toolKey(ev.Name)
	if !ok {
		return
	}
	ic.canvas.tools.KeyDown(key)
	ic.canvas.Refresh()
}

// Cursor implements desktop.Cursorable.
func (ic *inputContent) Cursor() desktop.Cursor {
	switch ic.canvas.tools.Cursor() {
	case tool.CursorCrosshair:
		return desktop.CrosshairCursor
	case tool.CursorPointer:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

func (ic *inputContent) requestFocus() {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	if c := app.Driver().CanvasForObject(ic); c != nil {
		c.Focus(ic)
	}
}

// toolKey maps fyne key names to tool keys.
func toolKey(name fyne.KeyName) (tool.Key, bool) {
	switch name {
	case fyne.KeyReturn, fyne.KeyEnter:
		return tool.KeyEnter, true
	case fyne.KeyEscape:
		return tool.KeyEscape, true
	}
	return "", false
}

type inputContentRenderer struct {
	content *inputContent
}

func (r *inputContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *inputContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *inputContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *inputContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *inputContentRenderer) Destroy() {}

// NewPathCanvas creates a canvas that routes input to tools, draws the
// committed paths returned by paths and the transient overlay on top.
func NewPathCanvas(tools *tool.Table, overlay *geometry.Scene, paths func() []*geometry.Path) *PathCanvas {
	pc := &PathCanvas{
		tools:   tools,
		overlay: overlay,
		paths:   paths,
		zoom:    1.0,
		docSize: fyne.NewSize(1200, 900),
	}
	pc.imgSize = pc.docSize

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.raster.SetMinSize(pc.imgSize)

	pc.content = newInputContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	pc.ExtendBaseWidget(pc)
	return pc
}

// Container returns the canvas container for embedding in layouts.
func (pc *PathCanvas) Container() fyne.CanvasObject {
	return pc.scroll
}

// SetDocumentSize sets the drawing area in path-local units.
func (pc *PathCanvas) SetDocumentSize(size fyne.Size) {
	pc.docSize = size
	pc.updateContentSize()
}

// SetZoom sets the zoom level.
func (pc *PathCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (pc *PathCanvas) GetZoom() float64 {
	return pc.zoom
}

// ZoomIn increases the zoom level.
func (pc *PathCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (pc *PathCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PathCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// CanvasToLocal converts canvas (zoomed) coordinates to path-local coordinates.
func (pc *PathCanvas) CanvasToLocal(canvasX, canvasY float64) geometry.Point2D {
	return geometry.NewPoint2D(canvasX/pc.zoom, canvasY/pc.zoom)
}

// FitDocument grows the drawing area so that every path fits, leaving
// margin units beyond the furthest ink. The area never shrinks.
func (pc *PathCanvas) FitDocument(paths []*geometry.Path, margin float64) {
	if len(paths) == 0 {
		return
	}
	bounds := paths[0].Bounds().Inset(paths[0].Style.Width / 2)
	for _, p := range paths[1:] {
		bounds = bounds.Union(p.Bounds().Inset(p.Style.Width / 2))
	}
	far := bounds.BottomRight()
	size := fyne.NewSize(
		max(pc.docSize.Width, float32(far.X+margin)),
		max(pc.docSize.Height, float32(far.Y+margin)),
	)
	if size != pc.docSize {
		pc.SetDocumentSize(size)
	}
}

// DocumentSize returns the drawing area in path-local units.
func (pc *PathCanvas) DocumentSize() fyne.Size {
	return pc.docSize
}

// Refresh refreshes the canvas display.
func (pc *PathCanvas) Refresh() {
	pc.raster.Refresh()
}

// updateContentSize updates the content size based on document size and zoom.
func (pc *PathCanvas) updateContentSize() {
	pc.imgSize = fyne.NewSize(
		float32(float64(pc.docSize.Width)*pc.zoom),
		float32(float64(pc.docSize.Height)*pc.zoom),
	)

	pc.raster.SetMinSize(pc.imgSize)
	pc.raster.Resize(pc.imgSize)
	if pc.content != nil {
		pc.content.Resize(pc.imgSize)
		pc.content.Refresh()
	}
	pc.raster.Refresh()
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// draw is the raster drawing function. w and h are in device pixels.
func (pc *PathCanvas) draw(w, h int) image.Image {
	unit := 1.0
	if pc.imgSize.Width > 0 && w > 0 {
		unit = float64(w) / float64(pc.imgSize.Width)
	}

	var paths []*geometry.Path
	if pc.paths != nil {
		paths = pc.paths()
	}
	var overlay []geometry.Primitive
	if pc.overlay != nil {
		overlay = pc.overlay.Items()
	}

	img, err := Render(w, h, colorutil.White, pc.zoom, unit, paths, overlay)
	if err != nil {
		slog.Warn("render canvas", slog.Any("err", err))
	}
	return img
}

// CreateRenderer implements fyne.Widget.
func (pc *PathCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &pathCanvasRenderer{canvas: pc}
}

type pathCanvasRenderer struct {
	canvas *PathCanvas
}

func (r *pathCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.scroll.Resize(size)
}

func (r *pathCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *pathCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *pathCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *pathCanvasRenderer) Destroy() {}
