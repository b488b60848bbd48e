package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme tightens paddings so more download rows fit in the window
type CompactTheme struct {
	base fyne.Theme
}

// NewCompactTheme creates a new compact theme over the default theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{base: theme.DefaultTheme()}
}

var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:            3,
	theme.SizeNameInnerPadding:       6,
	theme.SizeNameLineSpacing:        2,
	theme.SizeNameScrollBar:          12,
	theme.SizeNameSeparatorThickness: 1,
	theme.SizeNameText:               13,
	theme.SizeNameHeadingText:        16,
	theme.SizeNameSubHeadingText:     13,
	theme.SizeNameCaptionText:        11, // download status lines
	theme.SizeNameInputRadius:        3,
	theme.SizeNameSelectionRadius:    2,
}

// Color returns theme colors. Success and error follow the download states.
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	case theme.ColorNameError:
		return color.NRGBA{R: 192, G: 28, B: 40, A: 255}
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 53, G: 132, B: 228, A: 255}
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := compactSizes[name]; ok {
		return size
	}
	return t.base.Size(name)
}
