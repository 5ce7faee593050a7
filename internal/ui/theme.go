// Package ui provides the RoomFit application UI components.
//
// This file defines a custom compact Fyne theme for a dense planning layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// RoomFitTheme wraps the default Fyne theme with compact sizing overrides.
type RoomFitTheme struct {
	base         fyne.Theme
	variant      fyne.ThemeVariant
	followSystem bool
}

// NewRoomFitTheme creates a RoomFitTheme that follows the system variant.
func NewRoomFitTheme() *RoomFitTheme {
	return &RoomFitTheme{
		base:         theme.DefaultTheme(),
		followSystem: true,
	}
}

// NewRoomFitThemeWithVariant creates a RoomFitTheme with a fixed light/dark variant.
func NewRoomFitThemeWithVariant(variant fyne.ThemeVariant) *RoomFitTheme {
	return &RoomFitTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// ThemeForName maps an AppConfig theme name ("light", "dark", "system").
func ThemeForName(name string) *RoomFitTheme {
	switch name {
	case "light":
		return NewRoomFitThemeWithVariant(theme.VariantLight)
	case "dark":
		return NewRoomFitThemeWithVariant(theme.VariantDark)
	default:
		return NewRoomFitTheme()
	}
}

// SetVariant fixes the theme variant.
func (t *RoomFitTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
	t.followSystem = false
}

// Color delegates to the base theme with the stored variant.
func (t *RoomFitTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.followSystem {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *RoomFitTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *RoomFitTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *RoomFitTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
