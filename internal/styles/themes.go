package styles

import (
	"regexp"
	"slices"
	"strconv"
)

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors. An empty color means "terminal
// default".
type ColorPalette struct {
	Primary string
	Accent  string

	Success string
	Warning string
	Error   string

	TextPrimary string
	TextMuted   string
	TextSubtle  string

	BgSelection string
	BgStatus    string
	BgKey       string

	// Third-party theme names
	SyntaxTheme   string // Chroma style
	MarkdownTheme string // Glamour standard style
}

// Theme is a named palette. Monochrome themes use attributes (bold,
// reverse, faint) instead of colors.
type Theme struct {
	Name        string
	DisplayName string
	Monochrome  bool
	Colors      ColorPalette
}

// Built-in themes
var (
	DefaultTheme = Theme{
		Name:        "default",
		DisplayName: "Default Dark",
		Colors: ColorPalette{
			Primary: "#7C3AED", // Purple
			Accent:  "#F59E0B", // Amber

			Success: "#10B981",
			Warning: "#F59E0B",
			Error:   "#EF4444",

			TextPrimary: "#F9FAFB",
			TextMuted:   "#6B7280",
			TextSubtle:  "#4B5563",

			BgSelection: "#3B82F6",
			BgStatus:    "#1F2937",
			BgKey:       "#374151",

			SyntaxTheme:   "monokai",
			MarkdownTheme: "dark",
		},
	}

	MonoTheme = Theme{
		Name:        "mono",
		DisplayName: "Monochrome",
		Monochrome:  true,
		Colors: ColorPalette{
			SyntaxTheme:   "bw",
			MarkdownTheme: "notty",
		},
	}
)

var builtin = []Theme{DefaultTheme, MonoTheme}

// IsValidHexColor reports whether hex is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// Lookup returns the built-in theme called name.
func Lookup(name string) (Theme, bool) {
	i := slices.IndexFunc(builtin, func(t Theme) bool { return t.Name == name })
	if i < 0 {
		return Theme{}, false
	}
	return builtin[i], true
}

// ListThemes returns the names of the built-in themes.
func ListThemes() []string {
	names := make([]string, len(builtin))
	for i, t := range builtin {
		names[i] = t.Name
	}
	return names
}

// RGB is a color with float channels in 0-255.
type RGB struct {
	R, G, B float64
}

// HexToRGB parses #RRGGBB (alpha ignored). Invalid input yields black.
func HexToRGB(hex string) RGB {
	if !IsValidHexColor(hex) {
		return RGB{}
	}
	channel := func(s string) float64 {
		v, _ := strconv.ParseUint(s, 16, 8)
		return float64(v)
	}
	return RGB{R: channel(hex[1:3]), G: channel(hex[3:5]), B: channel(hex[5:7])}
}
