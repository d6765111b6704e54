package canvas

import (
	"errors"
	"image"
	"image/color"

	"vector-pen/pkg/colorutil"
	"vector-pen/pkg/geometry"

	"github.com/gogpu/gg"
)

const anchorSize = 3.0 // half side of a selected anchor square, screen units

// painter draws primitives through a gg context. Path-local coordinates are
// multiplied by scale; screen units (guide widths, dashes) by unit.
type painter struct {
	dc    *gg.Context
	scale float64
	unit  float64
	errs  []error
}

func (pt *painter) toPx(p geometry.Point2D) geometry.Point2D {
	return p.Scale(pt.scale)
}

func (pt *painter) check(err error) {
	if err != nil {
		pt.errs = append(pt.errs, err)
	}
}

// trace adds the path outline to the current gg path. Segments whose
// handles are both zero are emitted as lines.
func (pt *painter) trace(p *geometry.Path) {
	segs := p.Segments()
	start := pt.toPx(segs[0].Point)
	pt.dc.MoveTo(start.X, start.Y)
	for i := 1; i < len(segs); i++ {
		pt.curve(segs[i-1], segs[i])
	}
	if p.Closed() && len(segs) > 1 {
		pt.curve(segs[len(segs)-1], segs[0])
		pt.dc.ClosePath()
	}
}

func (pt *painter) curve(a, b geometry.ControlPoint) {
	end := pt.toPx(b.Point)
	if a.HandleOut.IsZero() && b.HandleIn.IsZero() {
		pt.dc.LineTo(end.X, end.Y)
		return
	}
	c1 := pt.toPx(a.Point.Add(a.HandleOut))
	c2 := pt.toPx(b.Point.Add(b.HandleIn))
	pt.dc.CubicTo(c1.X, c1.Y, c2.X, c2.Y, end.X, end.Y)
}

func (pt *painter) drawPath(p *geometry.Path) {
	if p.Len() == 0 {
		return
	}
	if p.Style.HasFill() && p.Len() >= 3 {
		pt.trace(p)
		pt.dc.SetColor(p.Style.Fill)
		pt.check(pt.dc.Fill())
	}
	if p.Style.Width > 0 && p.Style.Stroke.A > 0 && p.Len() > 1 {
		pt.trace(p)
		pt.dc.SetColor(p.Style.Stroke)
		pt.dc.SetLineWidth(p.Style.Width * pt.scale)
		if p.Style.Cap == geometry.CapRound {
			pt.dc.SetLineCap(gg.LineCapRound)
			pt.dc.SetLineJoin(gg.LineJoinRound)
		} else {
			pt.dc.SetLineCap(gg.LineCapButt)
			pt.dc.SetLineJoin(gg.LineJoinMiter)
		}
		pt.dc.ClearDash()
		pt.check(pt.dc.Stroke())
	}

	if p.Selected {
		pt.drawAnchors(p)
	}
}

// drawAnchors marks every control point of a path being edited.
func (pt *painter) drawAnchors(p *geometry.Path) {
	s := anchorSize * pt.unit
	for _, cp := range p.Segments() {
		c := pt.toPx(cp.Point)
		pt.dc.DrawRectangle(c.X-s, c.Y-s, 2*s, 2*s)
	}
	pt.dc.SetColor(colorutil.GuideBlue)
	pt.check(pt.dc.Fill())
}

func (pt *painter) drawLine(l geometry.Line) {
	a, b := pt.toPx(l.From), pt.toPx(l.To)
	width := l.Width * pt.scale
	if l.Guide {
		width = l.Width * pt.unit
	}
	dash := make([]float64, len(l.Dash))
	for i, d := range l.Dash {
		dash[i] = d * pt.unit
	}

	pt.dc.SetColor(l.Color)
	pt.dc.SetLineWidth(width)
	pt.dc.SetLineCap(gg.LineCapButt)
	pt.dc.SetDash(dash...)
	pt.dc.MoveTo(a.X, a.Y)
	pt.dc.LineTo(b.X, b.Y)
	pt.check(pt.dc.Stroke())
	pt.dc.ClearDash()
}

func (pt *painter) drawCircle(c geometry.Circle) {
	if c.Radius <= 0 {
		return
	}
	center := pt.toPx(c.Center)
	pt.dc.DrawCircle(center.X, center.Y, c.Radius*pt.scale)
	pt.dc.SetColor(c.Fill)
	pt.check(pt.dc.Fill())
}

// drawPrimitive dispatches on the primitive's concrete type.
func (pt *painter) drawPrimitive(p geometry.Primitive) {
	switch v := p.(type) {
	case *geometry.Path:
		pt.drawPath(v)
	case geometry.Line:
		pt.drawLine(v)
	case geometry.Circle:
		pt.drawCircle(v)
	}
}

// inView reports whether any ink of p can land inside view, a rectangle in
// path-local units. scale and unit are as for Render.
func inView(p geometry.Primitive, view geometry.Rect, scale, unit float64) bool {
	var pad float64
	switch v := p.(type) {
	case *geometry.Path:
		pad = v.Style.Width / 2
		if v.Selected {
			pad += anchorSize * unit / scale
		}
	case geometry.Line:
		pad = v.Width / 2
		if v.Guide {
			pad = v.Width * unit / scale / 2
		}
	}
	return p.Bounds().Inset(pad).Intersects(view)
}

// Render draws committed paths and then overlay items onto a new w×h image
// filled with bg. zoom maps path-local units to screen units; unit maps
// screen units to pixels. Primitives entirely outside the image are skipped.
func Render(w, h int, bg color.NRGBA, zoom, unit float64, paths []*geometry.Path, overlay []geometry.Primitive) (*image.RGBA, error) {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))), nil
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(bg))

	var errs []error
	if zoom > 0 && unit > 0 {
		pt := &painter{dc: dc, scale: zoom * unit, unit: unit}
		view := geometry.Rect{Width: float64(w) / pt.scale, Height: float64(h) / pt.scale}
		for _, p := range paths {
			if inView(p, view, pt.scale, unit) {
				pt.drawPath(p)
			}
		}
		for _, item := range overlay {
			if inView(item, view, pt.scale, unit) {
				pt.drawPrimitive(item)
			}
		}
		errs = pt.errs
	}

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		errs = append(errs, errors.New("render: unexpected image type"))
		img = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return img, errors.Join(errs...)
}
