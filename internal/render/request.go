package render

import (
	"golang.org/x/exp/constraints"

	"github.com/rook-computer/starmap/internal/constellation"
	"github.com/rook-computer/starmap/internal/shape"
	"github.com/rook-computer/starmap/internal/theme"
)

// Request is the parameter record of one render. JSON field names follow the
// storefront payload.
type Request struct {
	Width              int     `json:"width"`
	Height             int     `json:"height"`
	Seed               uint32  `json:"seed"`
	Shape              string  `json:"shape"`
	ColorTheme         string  `json:"colorTheme"`
	BackgroundMode     string  `json:"backgroundMode"`
	ShowGrid           bool    `json:"showGrid"`
	ShowConstellations bool    `json:"showConstellations"`
	ConstellationSize  float64 `json:"constellationSize"`
	Outline            bool    `json:"outline"`
	OutlineWidth       float64 `json:"outlineWidth"`
	InsetFraction      float64 `json:"insetFraction"`
	Frame              bool    `json:"frame"`
	Zoom               float64 `json:"zoom"`
	Strategy           string  `json:"strategy"`
}

// Bounds applied by Normalize.
const (
	MinSide, MaxSide                   = 200, 2000
	MinZoom, MaxZoom                   = 1.0, 1.6
	MinInset, MaxInset                 = 0.02, 0.25
	MinOutline, MaxOutline             = 0.0, 24.0
	MinConstellation, MaxConstellation = 1.0, 4.0
)

// Defaults returns the request used for missing fields. Decode JSON on top of
// it so absent keys keep these values.
func Defaults() Request {
	return Request{
		Width:              780,
		Height:             780,
		Seed:               1,
		Shape:              shape.Circle.String(),
		ColorTheme:         theme.DefaultID,
		BackgroundMode:     theme.BackgroundMatch.String(),
		ShowGrid:           true,
		ShowConstellations: true,
		ConstellationSize:  1.5,
		OutlineWidth:       4,
		InsetFraction:      0.06,
		Zoom:               1.0,
		Strategy:           constellation.Synthetic.String(),
	}
}

// Normalize clamps every numeric field into its bounds and replaces unknown
// identifiers with defaults. Zero sizes, zoom, inset and constellation size
// are taken as missing. Normalize is idempotent.
func Normalize(r Request) Request {
	d := Defaults()
	if r.Width == 0 {
		r.Width = d.Width
	}
	if r.Height == 0 {
		r.Height = d.Height
	}
	if r.ConstellationSize == 0 {
		r.ConstellationSize = d.ConstellationSize
	}
	if r.InsetFraction == 0 {
		r.InsetFraction = d.InsetFraction
	}
	if r.Zoom == 0 {
		r.Zoom = d.Zoom
	}
	r.Width = clamp(r.Width, MinSide, MaxSide)
	r.Height = clamp(r.Height, MinSide, MaxSide)
	r.Zoom = clamp(r.Zoom, MinZoom, MaxZoom)
	r.InsetFraction = clamp(r.InsetFraction, MinInset, MaxInset)
	r.OutlineWidth = clamp(r.OutlineWidth, MinOutline, MaxOutline)
	r.ConstellationSize = clamp(r.ConstellationSize, MinConstellation, MaxConstellation)

	r.Shape = shape.ParseKind(r.Shape).String()
	if !theme.Known(r.ColorTheme) {
		r.ColorTheme = theme.DefaultID
	}
	r.BackgroundMode = theme.ParseBackgroundMode(r.BackgroundMode).String()
	s, _ := constellation.ParseStrategy(r.Strategy)
	r.Strategy = s.String()
	return r
}

// clamp limits v to [lo, hi]. NaN maps to lo.
func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v != v {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// InsetPixels is the clip inset in pixels; zero unless Frame is set.
func (r Request) InsetPixels() float64 {
	if !r.Frame {
		return 0
	}
	return r.InsetFraction * float64(min(r.Width, r.Height))
}
