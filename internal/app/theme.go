package app

import (
	"image/color"

	"vector-pen/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// EditorTheme provides the application theme. Primary and selection colors
// follow the blue used for on-canvas guides.
type EditorTheme struct{}

var _ fyne.Theme = (*EditorTheme)(nil)

func (t *EditorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return colorutil.GuideBlue
	case theme.ColorNameSelection:
		c := colorutil.GuideBlue
		c.A = 0x60
		return c
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *EditorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *EditorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *EditorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return theme.DefaultTheme().Size(name)
	}
}
