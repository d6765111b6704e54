package pen

import (
	"image/color"

	"vector-pen/pkg/geometry"
)

// previewDash is the on/off pattern of the next-segment guide, in screen units.
var previewDash = []float64{4, 4}

// Preview returns the dashed guide from the last placed point to the pointer.
func Preview(last, pointer geometry.Point2D, stroke color.NRGBA) geometry.Line {
	return geometry.Line{
		From:  last,
		To:    pointer,
		Color: stroke,
		Width: 1,
		Dash:  append([]float64(nil), previewDash...),
		Guide: true,
	}
}
