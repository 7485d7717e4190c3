// Package shape computes the clip boundary of a star map and the outline
// stroke that sits on it.
package shape

import (
	"math"
	"strings"

	"seehuhn.de/go/geom/vec"

	"github.com/rook-computer/starmap/internal/svg"
)

// Kind is the silhouette of the map.
type Kind int

const (
	Circle Kind = iota
	Heart
	Rect
)

// ParseKind maps a shape name to a Kind. Unknown names are Circle.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heart":
		return Heart
	case "rect":
		return Rect
	default:
		return Circle
	}
}

func (k Kind) String() string {
	switch k {
	case Heart:
		return "heart"
	case Rect:
		return "rect"
	default:
		return "circle"
	}
}

const (
	heartScale     = 0.497 // of min(width, height)
	heartRaise     = 0.06  // of height
	heartInsetUse  = 0.95  // share of the inset taken off the heart size
	heartMinFactor = 0.70  // floor relative to the unreduced size
)

// heartUnit is a heart of half-width 1 around its anchor, y pointing down.
// The left half is listed; the right half mirrors it.
var heartUnit = struct {
	tip, side, notch vec.Vec2
	tipOut, sideIn   vec.Vec2 // controls of tip -> side
	sideOut, notchIn vec.Vec2 // controls of side -> notch
}{
	tip:     vec.Vec2{X: 0, Y: 1.0},
	side:    vec.Vec2{X: -1.0, Y: -0.3},
	notch:   vec.Vec2{X: 0, Y: -0.45},
	tipOut:  vec.Vec2{X: -0.45, Y: 0.55},
	sideIn:  vec.Vec2{X: -1.0, Y: 0.15},
	sideOut: vec.Vec2{X: -1.0, Y: -0.9},
	notchIn: vec.Vec2{X: -0.15, Y: -0.85},
}

// Boundary is one closed silhouette.
type Boundary struct {
	Kind Kind
	// Center is the circle center or the heart anchor.
	Center vec.Vec2
	// Radius is the circle radius or the heart half-width.
	Radius float64
	// Min and Max bound the rectangle.
	Min, Max vec.Vec2
	// Offset moves a heart boundary inward by this many pixels.
	Offset float64
}

// Path returns the boundary as a closed path.
func (b Boundary) Path() *svg.Path {
	switch b.Kind {
	case Heart:
		p := heartPath(b.Center, b.Radius)
		if b.Offset > 0 {
			return offsetInward(p.Flatten(heartOutlineSegments)[0], b.Offset)
		}
		return p
	case Rect:
		return svg.RectPath(b.Min, b.Max)
	default:
		return svg.CirclePath(b.Center, b.Radius)
	}
}

// Node returns the boundary as a document node.
func (b Boundary) Node(attrs ...svg.Attr) svg.Node {
	switch b.Kind {
	case Heart:
		return svg.PathNode{Path: b.Path(), Attrs: attrs}
	case Rect:
		return svg.Rect{Min: b.Min, Max: b.Max, Attrs: attrs}
	default:
		return svg.Circle{Center: b.Center, R: b.Radius, Attrs: attrs}
	}
}

func heartPath(anchor vec.Vec2, size float64) *svg.Path {
	u := heartUnit
	at := func(p vec.Vec2) vec.Vec2 { return anchor.Add(p.Mul(size)) }
	mirror := func(p vec.Vec2) vec.Vec2 { return at(vec.Vec2{X: -p.X, Y: p.Y}) }

	p := svg.NewPath()
	p.MoveTo(at(u.tip))
	p.CubicTo(at(u.tipOut), at(u.sideIn), at(u.side))
	p.CubicTo(at(u.sideOut), at(u.notchIn), at(u.notch))
	p.CubicTo(mirror(u.notchIn), mirror(u.sideOut), mirror(u.side))
	p.CubicTo(mirror(u.sideIn), mirror(u.tipOut), mirror(u.tip))
	p.Close()
	return p
}

// heartOutlineSegments is the flattening of each heart cubic before offsetting.
const heartOutlineSegments = 24

// minMiter bounds 1+cos of the turn at a convex vertex, so hairpin turns do
// not send the offset vertex far away.
const minMiter = 0.2

// joinStep is the largest angle between two points of a round join.
const joinStep = math.Pi / 16

// offsetInward moves every edge of the closed polygon ring inward by d.
// Convex corners are mitered and reflex corners get a round join, so every
// vertex of the result lies d away from the ring.
func offsetInward(ring []vec.Vec2, d float64) *svg.Path {
	pts := make([]vec.Vec2, 0, len(ring))
	for _, q := range ring {
		if len(pts) == 0 || q != pts[len(pts)-1] {
			pts = append(pts, q)
		}
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	n := len(pts)
	p := svg.NewPath()
	if n < 3 {
		return p
	}

	var area float64
	for i, a := range pts {
		b := pts[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	side := 1.0
	if area < 0 {
		side = -1
	}
	normal := func(e vec.Vec2) vec.Vec2 { return e.Normal().Mul(side) }

	first := true
	emit := func(q vec.Vec2) {
		if first {
			p.MoveTo(q)
			first = false
			return
		}
		p.LineTo(q)
	}
	for i, v := range pts {
		e1 := v.Sub(pts[(i+n-1)%n])
		e2 := pts[(i+1)%n].Sub(v)
		n1, n2 := normal(e1), normal(e2)
		if (e1.X*e2.Y-e1.Y*e2.X)*side < 0 {
			a1 := math.Atan2(n1.Y, n1.X)
			sweep := math.Remainder(math.Atan2(n2.Y, n2.X)-a1, 2*math.Pi)
			steps := max(1, int(math.Ceil(math.Abs(sweep)/joinStep)))
			for j := 0; j <= steps; j++ {
				a := a1 + sweep*float64(j)/float64(steps)
				emit(v.Add(vec.Vec2{X: math.Cos(a), Y: math.Sin(a)}.Mul(d)))
			}
			continue
		}
		k := d / math.Max(minMiter, 1+n1.Dot(n2))
		emit(v.Add(n1.Add(n2).Mul(k)))
	}
	p.Close()
	return p
}

// Params are the inputs of Compute. Inset and OutlineWidth are in pixels.
type Params struct {
	Width, Height  int
	Kind           Kind
	Inset          float64
	OutlineEnabled bool
	OutlineWidth   float64
}

// Clip is the result of Compute.
type Clip struct {
	Boundary Boundary
	// Outline is nil when no outline is drawn.
	Outline      *Boundary
	OutlineWidth float64
	// Center is the visual center zoom scales about.
	Center vec.Vec2
	// ContentRadius sizes the globe grid.
	ContentRadius float64
}

// Compute derives the clip boundary and the outline for p. The outline is the
// boundary offset inward by half the outline width, so the outer edge of the
// stroke lies on the boundary.
func Compute(p Params) Clip {
	w, h := float64(p.Width), float64(p.Height)
	minSide := math.Min(w, h)
	center := vec.Vec2{X: w / 2, Y: h / 2}
	inset := math.Max(0, p.Inset)
	half := p.OutlineWidth / 2

	var c Clip
	switch p.Kind {
	case Heart:
		base := minSide * heartScale
		size := math.Max(base-heartInsetUse*inset, heartMinFactor*base)
		anchor := vec.Vec2{X: center.X, Y: center.Y - heartRaise*h}
		c.Boundary = Boundary{Kind: Heart, Center: anchor, Radius: size}
		c.Center = anchor
		c.ContentRadius = size
		if drawOutline(p) {
			c.Outline = &Boundary{Kind: Heart, Center: anchor, Radius: size, Offset: half}
		}
	case Rect:
		// The rect always covers the canvas; the inset only shrinks the
		// round silhouettes.
		lo, hi := vec.Vec2{}, vec.Vec2{X: w, Y: h}
		c.Boundary = Boundary{Kind: Rect, Center: center, Min: lo, Max: hi}
		c.Center = center
		c.ContentRadius = math.Min(hi.X-lo.X, hi.Y-lo.Y) / 2
		if drawOutline(p) {
			olo := lo.Add(vec.Vec2{X: half, Y: half})
			ohi := hi.Sub(vec.Vec2{X: half, Y: half})
			if ohi.X < olo.X {
				olo.X, ohi.X = center.X, center.X
			}
			if ohi.Y < olo.Y {
				olo.Y, ohi.Y = center.Y, center.Y
			}
			c.Outline = &Boundary{Kind: Rect, Center: center, Min: olo, Max: ohi}
		}
	default:
		r := math.Max(0, minSide/2-inset)
		c.Boundary = Boundary{Kind: Circle, Center: center, Radius: r}
		c.Center = center
		c.ContentRadius = r
		if drawOutline(p) {
			c.Outline = &Boundary{Kind: Circle, Center: center, Radius: math.Max(0, r-half)}
		}
	}
	if c.Outline != nil {
		c.OutlineWidth = p.OutlineWidth
	}
	return c
}

func drawOutline(p Params) bool {
	return p.OutlineEnabled && p.OutlineWidth > 0
}
