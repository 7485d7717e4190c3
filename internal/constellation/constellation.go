// Package constellation composes the line figures drawn over the star field.
//
// Two strategies share one random stream contract: Synthetic places free
// figures, CatalogAnchored draws catalog segments and thickens them with
// random connections between field stars.
package constellation

import (
	"math"
	"strings"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/vec"

	"github.com/rook-computer/starmap/internal/catalog"
	"github.com/rook-computer/starmap/internal/rng"
	"github.com/rook-computer/starmap/internal/starfield"
)

// Strategy selects how figures are produced.
type Strategy int

const (
	Synthetic Strategy = iota
	CatalogAnchored
)

// ParseStrategy maps "synthetic" and "catalog" to a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "synthetic":
		return Synthetic, true
	case "catalog":
		return CatalogAnchored, true
	}
	return Synthetic, false
}

func (s Strategy) String() string {
	if s == CatalogAnchored {
		return "catalog"
	}
	return "synthetic"
}

const (
	figureCount     = 6
	minNodes        = 4
	maxNodes        = 7
	marginFraction  = 0.12
	minRadius       = 40.0
	radiusSpan      = 110.0
	radialFracMin   = 0.35
	radialFracSpan  = 0.75
	connectiveCount = 38
	accentEvery     = 17

	lineWidthPerSize  = 0.6
	nodeRadiusPerSize = 1.6
)

// Figure is a closed ring of nodes, sorted by angle around its centroid.
type Figure struct {
	Nodes []vec.Vec2
}

// Segment is a single straight connection.
type Segment struct {
	A, B vec.Vec2
}

// Layer is everything the constellation layer draws.
type Layer struct {
	Strategy   Strategy
	Figures    []Figure
	Segments   []Segment
	Markers    []vec.Vec2
	LineWidth  float64
	NodeRadius float64
}

// Params are the inputs shared by both strategies.
type Params struct {
	Width, Height int
	// Size is the constellation size factor, already clamped.
	Size    float64
	Stars   starfield.Field
	Catalog *catalog.Catalog
}

// Compose runs strategy s. Zoom is not applied here.
func Compose(s Strategy, p Params, r *rng.Random) Layer {
	l := Layer{
		Strategy:   s,
		LineWidth:  lineWidthPerSize * p.Size,
		NodeRadius: nodeRadiusPerSize * p.Size,
	}
	switch s {
	case CatalogAnchored:
		composeCatalog(&l, p, r)
	default:
		composeSynthetic(&l, p, r)
	}
	return l
}

func composeSynthetic(l *Layer, p Params, r *rng.Random) {
	w, h := float64(p.Width), float64(p.Height)
	m := marginFraction * math.Min(w, h)
	l.Figures = make([]Figure, 0, figureCount)
	for i := 0; i < figureCount; i++ {
		center := vec.Vec2{X: m + r.Next()*(w-2*m), Y: m + r.Next()*(h-2*m)}
		n := minNodes + r.Intn(maxNodes-minNodes+1)
		rx := r.Range(minRadius, radiusSpan)
		ry := r.Range(minRadius, radiusSpan)
		nodes := make([]vec.Vec2, n)
		for j := range nodes {
			a := r.Next() * 2 * math.Pi
			f := r.Range(radialFracMin, radialFracSpan)
			nodes[j] = vec.Vec2{
				X: clamp(center.X+math.Cos(a)*rx*f, m, w-m),
				Y: clamp(center.Y+math.Sin(a)*ry*f, m, h-m),
			}
		}
		SortByAngle(nodes)
		l.Figures = append(l.Figures, Figure{Nodes: nodes})
		l.Markers = append(l.Markers, nodes...)
	}
}

func composeCatalog(l *Layer, p Params, r *rng.Random) {
	size := vec.Vec2{X: float64(p.Width), Y: float64(p.Height)}
	scale := func(a vec.Vec2) vec.Vec2 { return vec.Vec2{X: a.X * size.X, Y: a.Y * size.Y} }

	if p.Catalog != nil {
		for _, list := range p.Catalog.Lists() {
			for _, pair := range list.Pairs {
				a, okA := p.Catalog.Entry(pair[0])
				b, okB := p.Catalog.Entry(pair[1])
				if !okA || !okB {
					continue
				}
				l.Segments = append(l.Segments, Segment{
					A: scale(catalog.Anchor(a)),
					B: scale(catalog.Anchor(b)),
				})
			}
		}
	}

	stars := p.Stars.Stars
	if len(stars) > 0 {
		for k := 0; k < connectiveCount; k++ {
			i := r.Intn(len(stars))
			j := r.Intn(len(stars))
			if i == j {
				continue
			}
			l.Segments = append(l.Segments, Segment{A: stars[i].Pos, B: stars[j].Pos})
		}
	}

	for _, s := range p.Stars.Every(accentEvery) {
		l.Markers = append(l.Markers, s.Pos)
	}
}

// SortByAngle orders nodes by angle around their centroid. Equal angles keep
// their input order.
func SortByAngle(nodes []vec.Vec2) {
	if len(nodes) < 2 {
		return
	}
	var c vec.Vec2
	for _, n := range nodes {
		c = c.Add(n)
	}
	c = c.Mul(1 / float64(len(nodes)))
	slices.SortStableFunc(nodes, func(a, b vec.Vec2) int {
		aa := math.Atan2(a.Y-c.Y, a.X-c.X)
		ab := math.Atan2(b.Y-c.Y, b.X-c.X)
		switch {
		case aa < ab:
			return -1
		case aa > ab:
			return 1
		}
		return 0
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
