package svg

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Num formats a coordinate or length rounded to two decimals.
func Num(v float64) string {
	return round(v, 100)
}

// Opacity formats an alpha value rounded to three decimals, clamped to [0,1].
func Opacity(v float64) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return round(v, 1000)
}

func round(v, scale float64) string {
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Color formats c as #rrggbb. Alpha is carried by opacity attributes.
func Color(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Transform formats an affine matrix as an SVG transform attribute value.
// Both use the [a b c d e f] layout with x' = a*x + c*y + e.
func Transform(m matrix.Matrix) string {
	parts := make([]string, 6)
	for i, v := range m {
		parts[i] = strconv.FormatFloat(roundTo(v, 1e6), 'f', -1, 64)
	}
	return "matrix(" + strings.Join(parts, " ") + ")"
}

func roundTo(v, scale float64) float64 {
	r := math.Round(v*scale) / scale
	if r == 0 {
		return 0
	}
	return r
}

// Apply maps p through m.
func Apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

func writePoint(sb *strings.Builder, p vec.Vec2) {
	sb.WriteString(Num(p.X))
	sb.WriteByte(' ')
	sb.WriteString(Num(p.Y))
}

func points(pts []vec.Vec2) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(Num(p.X))
		sb.WriteByte(',')
		sb.WriteString(Num(p.Y))
	}
	return sb.String()
}
