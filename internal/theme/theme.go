// Package theme maps a theme id and background mode to the color tokens a
// render uses.
package theme

import (
	"image/color"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/image/colornames"
)

// DefaultID is used whenever a request names an unknown theme.
const DefaultID = "mono"

const neonPrefix = "neon"

// BackgroundMode selects how a non-neon theme treats its structural lines.
type BackgroundMode int

const (
	// BackgroundMatch keeps the theme's star color and draws lines in white.
	BackgroundMatch BackgroundMode = iota
	// BackgroundWhite draws every line, marker and star in white.
	BackgroundWhite
)

// ParseBackgroundMode maps "white" to BackgroundWhite and anything else to BackgroundMatch.
func ParseBackgroundMode(s string) BackgroundMode {
	if strings.EqualFold(strings.TrimSpace(s), "white") {
		return BackgroundWhite
	}
	return BackgroundMatch
}

func (m BackgroundMode) String() string {
	if m == BackgroundWhite {
		return "white"
	}
	return "match"
}

// Theme is one row of the theme table.
type Theme struct {
	Base   color.RGBA // dark background
	Star   color.RGBA // star color in match mode, unset for neon
	Accent color.RGBA // line color for neon themes
}

// Tokens is the resolved set of colors for a single render.
type Tokens struct {
	Background        color.RGBA
	Star              color.RGBA
	Grid              color.RGBA
	ConstellationLine color.RGBA
	ConstellationNode color.RGBA
	Outline           color.RGBA
}

var (
	white = colornames.White
	black = colornames.Black
)

var themes = map[string]Theme{
	"mono":       {Base: color.RGBA{R: 0x11, G: 0x11, B: 0x14, A: 0xFF}, Star: white},
	"midnight":   {Base: colornames.Midnightblue, Star: color.RGBA{R: 0xF5, G: 0xF3, B: 0xE7, A: 0xFF}},
	"navy":       {Base: colornames.Navy, Star: colornames.Ivory},
	"forest":     {Base: color.RGBA{R: 0x0F, G: 0x2A, B: 0x1D, A: 0xFF}, Star: colornames.Honeydew},
	"burgundy":   {Base: color.RGBA{R: 0x4A, G: 0x0E, B: 0x1C, A: 0xFF}, Star: colornames.Seashell},
	"plum":       {Base: color.RGBA{R: 0x2D, G: 0x1B, B: 0x3D, A: 0xFF}, Star: colornames.Lavenderblush},
	"slate":      {Base: colornames.Darkslategray, Star: colornames.Azure},
	"neonBlue":   {Base: black, Accent: color.RGBA{R: 0x00, G: 0xE5, B: 0xFF, A: 0xFF}},
	"neonPink":   {Base: black, Accent: color.RGBA{R: 0xFF, G: 0x2B, B: 0xD6, A: 0xFF}},
	"neonGreen":  {Base: black, Accent: color.RGBA{R: 0x39, G: 0xFF, B: 0x14, A: 0xFF}},
	"neonPurple": {Base: black, Accent: color.RGBA{R: 0xB0, G: 0x26, B: 0xFF, A: 0xFF}},
	"neonOrange": {Base: black, Accent: color.RGBA{R: 0xFF, G: 0x6A, B: 0x00, A: 0xFF}},
}

// Known reports whether id names a theme in the table.
func Known(id string) bool {
	_, ok := themes[id]
	return ok
}

// IsNeon reports whether id belongs to the neon family.
func IsNeon(id string) bool {
	return strings.HasPrefix(id, neonPrefix)
}

// IDs returns the theme ids in sorted order.
func IDs() []string {
	ids := make([]string, 0, len(themes))
	for id := range themes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Resolve computes the tokens for a theme id and background mode. Unknown ids
// resolve as DefaultID. Neon themes ignore mode.
func Resolve(id string, mode BackgroundMode) Tokens {
	t, ok := themes[id]
	if !ok {
		id = DefaultID
		t = themes[DefaultID]
	}

	if IsNeon(id) {
		return Tokens{
			Background:        black,
			Star:              t.Accent,
			Grid:              t.Accent,
			ConstellationLine: t.Accent,
			ConstellationNode: t.Accent,
			Outline:           t.Accent,
		}
	}

	// The surrounding poster frame supplies the white paper in white mode,
	// so the background stays the theme base either way.
	star := t.Star
	if mode == BackgroundWhite {
		star = white
	}
	return Tokens{
		Background:        t.Base,
		Star:              star,
		Grid:              white,
		ConstellationLine: white,
		ConstellationNode: white,
		Outline:           white,
	}
}
