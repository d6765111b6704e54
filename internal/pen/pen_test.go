package pen

import (
	"image/color"
	"testing"

	"vector-pen/internal/tool"
	"vector-pen/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettings struct {
	stroke color.NRGBA
	width  float64
	fill   color.NRGBA
}

func (s *fakeSettings) StrokeColor() color.NRGBA { return s.stroke }
func (s *fakeSettings) StrokeWidth() float64     { return s.width }
func (s *fakeSettings) FillColor() color.NRGBA   { return s.fill }

type fakeSink struct {
	paths    []*geometry.Path
	modified []string
}

func (s *fakeSink) AddPathToProject(p *geometry.Path) { s.paths = append(s.paths, p) }
func (s *fakeSink) OnCanvasModified(action string)    { s.modified = append(s.modified, action) }

type fixture struct {
	pen      *Tool
	scene    *geometry.Scene
	settings *fakeSettings
	sink     *fakeSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		scene: geometry.NewScene(),
		settings: &fakeSettings{
			stroke: color.NRGBA{R: 200, A: 255},
			width:  3,
			fill:   color.NRGBA{G: 100, A: 255},
		},
		sink: &fakeSink{},
	}
	f.pen = New(f.scene, f.settings, f.sink)
	f.pen.Activate()
	return f
}

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

// guides counts the transient guide primitives currently in the scene.
func (f *fixture) guides() (lines, circles int) {
	for _, it := range f.scene.Items() {
		switch g := it.(type) {
		case geometry.Line:
			if g.Guide {
				lines++
			}
		case geometry.Circle:
			if g.Guide {
				circles++
			}
		}
	}
	return lines, circles
}

func (f *fixture) click(x, y float64) {
	f.pen.PointerDown(pt(x, y), 1)
	f.pen.PointerUp()
}

func TestCommitKeepsClickedPoints(t *testing.T) {
	clicks := []geometry.Point2D{pt(0, 0), pt(10, 0), pt(20, 5), pt(40, 40)}
	for n := 2; n <= len(clicks); n++ {
		f := newFixture(t)
		for _, c := range clicks[:n] {
			f.click(c.X, c.Y)
		}
		f.pen.KeyDown(tool.KeyEnter)

		require.Len(t, f.sink.paths, 1)
		got := f.sink.paths[0]
		require.Equal(t, n, got.Len())
		for i, c := range clicks[:n] {
			assert.Equal(t, c, got.At(i).Point)
		}
		assert.False(t, got.Closed())
		assert.Equal(t, []string{"pen"}, f.sink.modified)
	}
}

func TestStyleSnapshotAtCreation(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.settings.stroke = color.NRGBA{B: 255, A: 255}
	f.settings.width = 10
	f.click(10, 0)
	f.pen.KeyDown(tool.KeyEnter)

	require.Len(t, f.sink.paths, 1)
	style := f.sink.paths[0].Style
	assert.Equal(t, color.NRGBA{R: 200, A: 255}, style.Stroke)
	assert.Equal(t, 3.0, style.Width)
	assert.Equal(t, color.NRGBA{G: 100, A: 255}, style.Fill)
	assert.Equal(t, geometry.CapRound, style.Cap)
	assert.False(t, f.sink.paths[0].Selected)
}

func TestSinglePointDiscarded(t *testing.T) {
	tests := []struct {
		name   string
		finish func(p *Tool)
	}{
		{"escape", func(p *Tool) { p.KeyDown(tool.KeyEscape) }},
		{"deactivate", func(p *Tool) { p.Deactivate() }},
		{"enter", func(p *Tool) { p.KeyDown(tool.KeyEnter) }},
		{"double click", func(p *Tool) { p.DoubleClick() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.click(5, 5)
			tt.finish(f.pen)

			assert.Empty(t, f.sink.paths)
			assert.Empty(t, f.sink.modified)
			assert.Equal(t, Idle, f.pen.State())
			assert.Empty(t, f.scene.Items())
		})
	}
}

func TestCloseNearFirstPoint(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.click(10, 0)
	before := len(f.pen.Pending())

	f.pen.PointerDown(pt(0.5, 0.5), 1)

	require.Len(t, f.sink.paths, 1)
	got := f.sink.paths[0]
	assert.True(t, got.Closed())
	assert.Equal(t, before, got.Len())
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, []string{"pen"}, f.sink.modified)
	assert.Equal(t, Idle, f.pen.State())
	assert.Empty(t, f.scene.Items())
}

func TestCloseThresholdScalesWithZoom(t *testing.T) {
	// At zoom 4 the threshold is 2.5 path units.
	f := newFixture(t)
	f.pen.PointerDown(pt(0, 0), 4)
	f.pen.PointerDown(pt(50, 0), 4)
	f.pen.PointerDown(pt(3, 0), 4)
	assert.Empty(t, f.sink.paths, "3 units away is outside 10/4")
	assert.Len(t, f.pen.Pending(), 3)

	f.pen.PointerDown(pt(2, 0), 4)
	require.Len(t, f.sink.paths, 1)
	assert.Equal(t, 3, f.sink.paths[0].Len())

	// At zoom 0.5 the threshold grows to 20 units.
	f = newFixture(t)
	f.pen.PointerDown(pt(0, 0), 0.5)
	f.pen.PointerDown(pt(100, 0), 0.5)
	f.pen.PointerDown(pt(15, 0), 0.5)
	require.Len(t, f.sink.paths, 1)
	assert.Equal(t, 2, f.sink.paths[0].Len())
}

func TestCloseNeedsTwoPoints(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.click(1, 1)
	assert.Empty(t, f.sink.paths)
	assert.Len(t, f.pen.Pending(), 2, "second click near the only point appends")
}

func TestNonPositiveZoomDisablesClose(t *testing.T) {
	for _, zoom := range []float64{0, -1} {
		f := newFixture(t)
		f.pen.PointerDown(pt(0, 0), zoom)
		f.pen.PointerDown(pt(10, 0), zoom)
		f.pen.PointerDown(pt(0, 0), zoom)
		assert.Empty(t, f.sink.paths)
		assert.Len(t, f.pen.Pending(), 3)

		f.pen.PointerMove(pt(0, 0), zoom)
		assert.Equal(t, tool.CursorCrosshair, f.pen.Cursor())
	}
}

func TestDragSetsSymmetricHandles(t *testing.T) {
	deltas := []geometry.Point2D{pt(5, 5), pt(-3, 7), pt(0, 0)}
	for _, d := range deltas {
		f := newFixture(t)
		p := pt(10, 20)
		f.pen.PointerDown(p, 1)
		f.pen.PointerDrag(p.Add(d), 1)
		assert.Equal(t, Dragging, f.pen.State())

		cp := f.pen.Pending()[0]
		assert.Equal(t, p, cp.Point)
		assert.Equal(t, d, cp.HandleOut)
		assert.Equal(t, d.Neg(), cp.HandleIn)
	}
}

func TestDragOnlyShapesActivePoint(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.pen.PointerDown(pt(10, 0), 1)
	f.pen.PointerDrag(pt(15, 5), 1)
	f.pen.PointerDrag(pt(12, 0), 1)

	pending := f.pen.Pending()
	require.Len(t, pending, 2)
	assert.True(t, pending[0].HandleOut.IsZero())
	assert.Equal(t, pt(2, 0), pending[1].HandleOut)
	assert.Equal(t, pt(-2, 0), pending[1].HandleIn)
}

func TestDragWithoutActivePointIsNoop(t *testing.T) {
	f := newFixture(t)
	f.pen.PointerDrag(pt(5, 5), 1)
	assert.Equal(t, Idle, f.pen.State())
	assert.Empty(t, f.scene.Items())
}

func TestHandleGuidesFollowDrag(t *testing.T) {
	f := newFixture(t)
	f.pen.PointerDown(pt(0, 0), 1)

	f.pen.PointerDrag(pt(5, 5), 1)
	lines, circles := f.guides()
	assert.Equal(t, 2, lines)
	assert.Equal(t, 2, circles)

	// Redraw replaces rather than accumulates.
	f.pen.PointerDrag(pt(6, 6), 1)
	lines, circles = f.guides()
	assert.Equal(t, 2, lines)
	assert.Equal(t, 2, circles)

	// Zero-length handles draw nothing.
	f.pen.PointerDrag(pt(0, 0), 1)
	lines, circles = f.guides()
	assert.Zero(t, lines)
	assert.Zero(t, circles)

	f.pen.PointerDrag(pt(6, 6), 1)
	f.pen.PointerUp()
	lines, circles = f.guides()
	assert.Zero(t, lines)
	assert.Zero(t, circles)
	assert.Equal(t, Placing, f.pen.State())
	assert.Len(t, f.pen.Pending(), 1, "pointer up keeps the point")
}

func TestPointerMoveOnlyTouchesPreview(t *testing.T) {
	f := newFixture(t)
	f.pen.PointerMove(pt(3, 3), 1)
	assert.Empty(t, f.scene.Items(), "no path, no preview")

	f.click(0, 0)
	f.pen.PointerDown(pt(10, 0), 1)
	f.pen.PointerDrag(pt(12, 2), 1)
	f.pen.PointerUp()
	before := f.pen.Pending()

	f.pen.PointerMove(pt(30, 30), 1)
	f.pen.PointerMove(pt(40, 30), 1)
	assert.Equal(t, before, f.pen.Pending())

	var previews []geometry.Line
	for _, it := range f.scene.Items() {
		if l, ok := it.(geometry.Line); ok {
			previews = append(previews, l)
		}
	}
	require.Len(t, previews, 1, "only one live preview")
	assert.Equal(t, pt(10, 0), previews[0].From)
	assert.Equal(t, pt(40, 30), previews[0].To)
	assert.Equal(t, []float64{4, 4}, previews[0].Dash)
	assert.Equal(t, 1.0, previews[0].Width)
	assert.True(t, previews[0].Guide)

	// The next click removes the preview.
	f.click(50, 50)
	lines, _ := f.guides()
	assert.Zero(t, lines)
}

func TestCursorAffordance(t *testing.T) {
	f := newFixture(t)
	var changes []tool.Cursor
	f.pen.OnCursor(func(c tool.Cursor) { changes = append(changes, c) })

	assert.Equal(t, tool.CursorCrosshair, f.pen.Cursor())
	f.click(0, 0)
	f.pen.PointerMove(pt(1, 1), 1)
	assert.Equal(t, tool.CursorCrosshair, f.pen.Cursor(), "one point cannot close")

	f.click(20, 0)
	f.pen.PointerMove(pt(2, 2), 1)
	assert.Equal(t, tool.CursorPointer, f.pen.Cursor())
	f.pen.PointerMove(pt(30, 30), 1)
	assert.Equal(t, tool.CursorCrosshair, f.pen.Cursor())

	f.pen.PointerMove(pt(2, 2), 1)
	f.pen.PointerDown(pt(2, 2), 1)
	assert.Equal(t, tool.CursorCrosshair, f.pen.Cursor(), "reset after close")
	assert.Equal(t, []tool.Cursor{tool.CursorPointer, tool.CursorCrosshair, tool.CursorPointer, tool.CursorCrosshair}, changes)
}

func TestDoubleClickDropsGesturePoint(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.click(10, 10)
	// The platform delivers a pointer-down for the double-click gesture.
	f.click(10, 10)
	f.pen.DoubleClick()

	require.Len(t, f.sink.paths, 1)
	got := f.sink.paths[0]
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, pt(10, 10), got.Last().Point)
	assert.Equal(t, []string{"pen"}, f.sink.modified)
}

func TestDoubleClickAfterTwoDownsDiscards(t *testing.T) {
	f := newFixture(t)
	f.pen.PointerDown(pt(0, 0), 1)
	f.pen.PointerDown(pt(10, 10), 1)
	f.pen.DoubleClick()

	// The second down is treated as part of the double-click gesture, which
	// leaves a single point and nothing to commit.
	assert.Empty(t, f.sink.paths)
	assert.Empty(t, f.sink.modified)
	assert.Nil(t, f.pen.Pending())
	assert.Equal(t, Idle, f.pen.State())
	assert.Empty(t, f.scene.Items())
}

func TestDoubleClickAfterThreeDowns(t *testing.T) {
	f := newFixture(t)
	f.pen.PointerDown(pt(0, 0), 1)
	f.pen.PointerDown(pt(10, 10), 1)
	f.pen.PointerDown(pt(20, 0), 1)
	f.pen.DoubleClick()

	require.Len(t, f.sink.paths, 1)
	assert.Equal(t, 2, f.sink.paths[0].Len())
}

func TestDoubleClickWithoutPathIsNoop(t *testing.T) {
	f := newFixture(t)
	f.pen.DoubleClick()
	assert.Empty(t, f.sink.paths)
	assert.Empty(t, f.sink.modified)
}

func TestDragThenEscapeDiscards(t *testing.T) {
	f := newFixture(t)
	f.pen.PointerDown(pt(0, 0), 1)
	f.pen.PointerDrag(pt(5, 5), 1)
	f.pen.PointerUp()
	f.pen.KeyDown(tool.KeyEscape)

	assert.Empty(t, f.sink.paths)
	assert.Empty(t, f.sink.modified)
	assert.Nil(t, f.pen.Pending())
	assert.Empty(t, f.scene.Items())
}

func TestCancelDiscardsValidPath(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.click(10, 0)
	f.click(20, 0)
	f.pen.PointerMove(pt(30, 0), 1)
	f.pen.Cancel()

	assert.Empty(t, f.sink.paths)
	assert.Empty(t, f.sink.modified)
	assert.Empty(t, f.scene.Items())

	f.pen.Cancel()
	assert.Equal(t, Idle, f.pen.State())
	assert.Empty(t, f.scene.Items())
}

func TestCommitClearsEverything(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.pen.PointerDown(pt(10, 0), 1)
	f.pen.PointerDrag(pt(15, 0), 1)
	f.pen.PointerMove(pt(20, 0), 1)
	f.pen.Commit()

	assert.Empty(t, f.scene.Items())
	assert.Nil(t, f.pen.Pending())
	assert.Equal(t, Idle, f.pen.State())

	// The sink owns the path: further events start a new one.
	f.click(100, 100)
	require.Len(t, f.pen.Pending(), 1)
	assert.Equal(t, 2, f.sink.paths[0].Len())
}

func TestEnterWithoutPathIsNoop(t *testing.T) {
	f := newFixture(t)
	f.pen.KeyDown(tool.KeyEnter)
	f.pen.KeyDown("space")
	assert.Empty(t, f.sink.paths)
	assert.Equal(t, Idle, f.pen.State())
}

func TestDeactivateCommits(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.pen.PointerDown(pt(10, 0), 1)
	f.pen.PointerDrag(pt(11, 1), 1)
	f.pen.Deactivate()

	require.Len(t, f.sink.paths, 1)
	assert.Empty(t, f.scene.Items())

	f.pen.Deactivate()
	assert.Len(t, f.sink.paths, 1)
}

func TestActivateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)
	f.pen.PointerMove(pt(5, 5), 1)
	f.pen.Activate()
	f.pen.Activate()

	assert.Equal(t, Idle, f.pen.State())
	assert.Empty(t, f.scene.Items())
	assert.Empty(t, f.sink.paths)
}

func TestPendingPathIsDrawnWhileAuthoring(t *testing.T) {
	f := newFixture(t)
	f.click(0, 0)

	items := f.scene.Items()
	require.Len(t, items, 1)
	p, ok := items[0].(*geometry.Path)
	require.True(t, ok)
	assert.True(t, p.Selected)

	f.click(10, 0)
	assert.Equal(t, 1, p.Len(), "the scene holds a snapshot")
	items = f.scene.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].(*geometry.Path).Len())

	f.pen.PointerDown(pt(20, 0), 1)
	f.pen.PointerDrag(pt(25, 0), 1)
	drawn := f.scene.Items()[0].(*geometry.Path)
	assert.Equal(t, pt(5, 0), drawn.Last().HandleOut)
}

func TestPointerDownMidDragAppends(t *testing.T) {
	f := newFixture(t)
	f.pen.PointerDown(pt(0, 0), 1)
	f.pen.PointerDrag(pt(5, 0), 1)
	f.pen.PointerDown(pt(30, 0), 1)

	assert.Equal(t, Placing, f.pen.State())
	assert.Len(t, f.pen.Pending(), 2)
	lines, circles := f.guides()
	assert.Zero(t, lines)
	assert.Zero(t, circles)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "placing", Placing.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "unknown", State(42).String())
}
