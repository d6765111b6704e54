// Package colorutil provides shared color utilities for the editor.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Common colors used throughout the application.
var (
	Black       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}
	GuideBlue   = color.NRGBA{R: 0x44, G: 0x66, B: 0xFF, A: 255} // Bezier handle guides
)

// ParseHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (leading '#' optional).
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Hex formats a color as "#RRGGBBAA".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
