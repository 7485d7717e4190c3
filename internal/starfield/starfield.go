// Package starfield synthesizes the star layer of a map.
package starfield

import (
	"image/color"

	"seehuhn.de/go/geom/vec"

	"github.com/rook-computer/starmap/internal/rng"
)

// Count band, inclusive.
const (
	MinStars = 700
	MaxStars = 1150
)

const (
	brightChance = 0.12

	brightRadiusMin, brightRadiusSpan = 1.2, 1.3
	brightAlphaMin, brightAlphaSpan   = 0.75, 0.25
	dimRadiusMin, dimRadiusSpan       = 0.3, 0.8
	dimAlphaMin, dimAlphaSpan         = 0.25, 0.45
)

// Star is one point of light in canvas space.
type Star struct {
	Pos    vec.Vec2
	Radius float64
	Alpha  float64
	Bright bool
}

// Field is the generated star layer. Stars keep generation order.
type Field struct {
	Stars []Star
	Color color.RGBA
}

// Generate draws a star field covering the whole canvas. Stars outside the
// final silhouette are removed by clipping, not here.
func Generate(width, height int, r *rng.Random, c color.RGBA) Field {
	w, h := float64(width), float64(height)
	n := MinStars + r.Intn(MaxStars-MinStars+1)
	stars := make([]Star, n)
	for i := range stars {
		s := Star{Pos: vec.Vec2{X: r.Next() * w, Y: r.Next() * h}}
		s.Bright = r.Next() < brightChance
		if s.Bright {
			s.Radius = r.Range(brightRadiusMin, brightRadiusSpan)
			s.Alpha = r.Range(brightAlphaMin, brightAlphaSpan)
		} else {
			s.Radius = r.Range(dimRadiusMin, dimRadiusSpan)
			s.Alpha = r.Range(dimAlphaMin, dimAlphaSpan)
		}
		stars[i] = s
	}
	return Field{Stars: stars, Color: c}
}

// Every returns every n-th star starting with the first.
func (f Field) Every(n int) []Star {
	if n < 1 {
		n = 1
	}
	out := make([]Star, 0, len(f.Stars)/n+1)
	for i := 0; i < len(f.Stars); i += n {
		out = append(out, f.Stars[i])
	}
	return out
}
