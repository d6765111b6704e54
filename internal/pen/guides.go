package pen

import (
	"vector-pen/pkg/colorutil"
	"vector-pen/pkg/geometry"
)

// MarkerRadius is the screen-space radius of a handle end marker.
const MarkerRadius = 3.0

// HandleGuides returns a line and an end marker for each non-zero handle of
// cp, outgoing side first. Marker radius is divided by zoom so markers keep
// the same apparent size; a non-positive zoom is treated as 1.
func HandleGuides(cp geometry.ControlPoint, zoom float64) []geometry.Primitive {
	if zoom <= 0 {
		zoom = 1
	}
	radius := MarkerRadius / zoom

	var out []geometry.Primitive
	for _, h := range []geometry.Point2D{cp.HandleOut, cp.HandleIn} {
		if h.Length() == 0 {
			continue
		}
		end := cp.Point.Add(h)

		line := geometry.NewLine(cp.Point, end, colorutil.GuideBlue)
		line.Guide = true
		dot := geometry.NewCircle(end, radius, colorutil.GuideBlue)
		dot.Guide = true

		out = append(out, line, dot)
	}
	return out
}
