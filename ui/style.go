package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"romhack-catalog/catalog"
)

// Colors as 0xRRGGBB integers.
const (
	ColorPlayable    = 0x3fb950
	ColorDevelopment = 0xd29922
	ColorUnknown     = 0x8b949e
)

var platformColors = map[string]int{
	catalog.PlatformGBC:      0x8bac0f,
	catalog.PlatformGBA:      0x5a55c8,
	catalog.PlatformNDS:      0x3d8fd1,
	catalog.PlatformRPGMaker: 0xc2417d,
	catalog.PlatformOther:    0x8b949e,
}

// Colorize applies the given color to the text using lipgloss.
func Colorize(text string, color int) string {
	hexColor := fmt.Sprintf("#%06x", color)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
	return style.Render(text)
}

// StatusColor picks the display color for a status.
func StatusColor(s catalog.Status) int {
	switch s {
	case catalog.StatusPlayable:
		return ColorPlayable
	case catalog.StatusActiveDevelopment:
		return ColorDevelopment
	default:
		return ColorUnknown
	}
}

// PlatformColor picks the display color for a platform; unknown platforms are grey.
func PlatformColor(platform string) int {
	if c, ok := platformColors[platform]; ok {
		return c
	}
	return ColorUnknown
}

// Status renders the status in its color.
func Status(s catalog.Status) string {
	return Colorize(string(s), StatusColor(s))
}

// Platform renders the platform in its color.
func Platform(platform string) string {
	return Colorize(platform, PlatformColor(platform))
}
