package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// DarkTheme is the near-black palette with a green progress accent
type DarkTheme struct{}

// NewDarkTheme creates the application theme
func NewDarkTheme() fyne.Theme {
	return &DarkTheme{}
}

// Color returns theme colors
func (t *DarkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.RGBA{R: 0, G: 0, B: 0, A: 255}
	case theme.ColorNameInputBackground:
		return color.RGBA{R: 10, G: 10, B: 10, A: 255}
	case theme.ColorNameForeground:
		return color.RGBA{R: 230, G: 238, B: 246, A: 255}
	case theme.ColorNamePrimary:
		return color.RGBA{R: 46, G: 240, B: 138, A: 255} // Green progress accent
	case theme.ColorNameSuccess:
		return color.RGBA{R: 124, G: 255, B: 107, A: 255}
	case theme.ColorNameError:
		return color.RGBA{R: 183, G: 28, B: 28, A: 255}
	case theme.ColorNameButton:
		return color.RGBA{R: 17, G: 17, B: 17, A: 255}
	case theme.ColorNameInputBorder:
		return color.RGBA{R: 34, G: 34, B: 34, A: 255}
	case theme.ColorNameDisabled:
		return color.RGBA{R: 102, G: 102, B: 102, A: 255}
	case theme.ColorNamePlaceHolder:
		return color.RGBA{R: 120, G: 130, B: 140, A: 255}
	}

	// Force the dark variant for everything else
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

// Font returns theme fonts
func (t *DarkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *DarkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes
func (t *DarkTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameText:
		return 13
	}
	return theme.DefaultTheme().Size(name)
}
