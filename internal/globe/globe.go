// Package globe projects a tilted latitude/longitude grid onto the canvas and
// splits it into front and back runs.
package globe

import (
	"image/color"
	"math"

	"seehuhn.de/go/geom/vec"
)

const (
	tiltDegrees = 24.0

	parallelSteps = 96
	meridianEvery = 15.0
	meridianSteps = 72
	meridianLimit = 89.0 // sampled latitude range is [-limit, limit]

	frontOpacity, frontWidth       = 0.5, 0.9
	backOpacity, backWidth         = 0.16, 0.6
	boundaryOpacity, boundaryWidth = 0.3, 0.8
)

// Flatness culling thresholds, in pixels.
const (
	flatMaxHeight     = 1.6
	flatMinWidth      = 18.0
	chordMaxDY        = 1.0
	chordMinDX        = 30.0
	chordMaxDev       = 1.2
	verticalMaxWidth  = 1.0
	verticalMinHeight = 22.0
)

// parallels are the latitudes drawn as rings.
var parallels = []float64{-60, -40, -20, 0, 20, 40, 60}

// Side says which hemisphere a run lies on.
type Side int

const (
	Back Side = iota
	Front
)

func (s Side) String() string {
	if s == Front {
		return "front"
	}
	return "back"
}

// Run is a contiguous piece of a grid curve on one side of the sphere.
type Run struct {
	Points  []vec.Vec2
	Side    Side
	Opacity float64
	Width   float64
}

// Boundary is the faint outer circle of the globe.
type Boundary struct {
	Center  vec.Vec2
	Radius  float64
	Opacity float64
	Width   float64
}

// Grid is the projected grid. Back runs are drawn before front runs.
type Grid struct {
	Color    color.RGBA
	Back     []Run
	Front    []Run
	Boundary Boundary
	// Culled holds runs discarded as flat artifacts, in projection order.
	Culled [][]vec.Vec2
}

type sample struct {
	p     vec.Vec2
	depth float64
}

type projector struct {
	center     vec.Vec2
	radius     float64
	sinT, cosT float64
}

func (pr projector) project(latDeg, lonDeg float64) sample {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	x := math.Cos(lat) * math.Sin(lon)
	y := math.Sin(lat)
	z := math.Cos(lat) * math.Cos(lon)

	yr := y*pr.cosT - z*pr.sinT
	zr := y*pr.sinT + z*pr.cosT
	return sample{
		p:     vec.Vec2{X: pr.center.X + pr.radius*x, Y: pr.center.Y - pr.radius*yr},
		depth: zr,
	}
}

// Project builds the grid for a sphere of the given radius around center.
func Project(center vec.Vec2, radius float64, c color.RGBA) Grid {
	t := tiltDegrees * math.Pi / 180
	pr := projector{center: center, radius: radius, sinT: math.Sin(t), cosT: math.Cos(t)}
	g := Grid{
		Color:    c,
		Boundary: Boundary{Center: center, Radius: radius, Opacity: boundaryOpacity, Width: boundaryWidth},
	}

	curve := make([]sample, 0, parallelSteps+1)
	for _, lat := range parallels {
		curve = curve[:0]
		for i := 0; i <= parallelSteps; i++ {
			curve = append(curve, pr.project(lat, 360*float64(i)/parallelSteps))
		}
		g.addCurve(curve, true)
	}
	for lon := 0.0; lon < 360; lon += meridianEvery {
		curve = curve[:0]
		for i := 0; i <= meridianSteps; i++ {
			lat := -meridianLimit + 2*meridianLimit*float64(i)/meridianSteps
			curve = append(curve, pr.project(lat, lon))
		}
		g.addCurve(curve, false)
	}
	return g
}

type span struct{ start, end int }

// addCurve splits a sampled curve by depth sign and keeps the drawable runs.
// A closed curve repeats its first sample at the end, so its first and last
// runs are one arc when they lie on the same side.
func (g *Grid) addCurve(curve []sample, closed bool) {
	var spans []span
	start := 0
	for i := 1; i <= len(curve); i++ {
		if i < len(curve) && front(curve[i]) == front(curve[start]) {
			continue
		}
		spans = append(spans, span{start, i})
		start = i
	}
	if closed && len(spans) > 1 {
		first, last := spans[0], spans[len(spans)-1]
		if front(curve[first.start]) == front(curve[last.start]) {
			joined := make([]sample, 0, len(curve)-last.start+first.end-1)
			joined = append(joined, curve[last.start:]...)
			joined = append(joined, curve[1:first.end]...)
			g.addRun(joined, front(curve[last.start]))
			spans = spans[1 : len(spans)-1]
		}
	}
	for _, sp := range spans {
		g.addRun(curve[sp.start:sp.end], front(curve[sp.start]))
	}
}

func front(s sample) bool { return s.depth >= 0 }

func (g *Grid) addRun(samples []sample, isFront bool) {
	if len(samples) < 2 {
		return
	}
	pts := make([]vec.Vec2, len(samples))
	for i, s := range samples {
		pts[i] = s.p
	}
	if IsDegenerate(pts) {
		g.Culled = append(g.Culled, pts)
		return
	}
	if isFront {
		g.Front = append(g.Front, Run{Points: pts, Side: Front, Opacity: frontOpacity, Width: frontWidth})
	} else {
		g.Back = append(g.Back, Run{Points: pts, Side: Back, Opacity: backOpacity, Width: backWidth})
	}
}

// Runs returns back runs followed by front runs, the order they are drawn in.
func (g Grid) Runs() []Run {
	out := make([]Run, 0, len(g.Back)+len(g.Front))
	out = append(out, g.Back...)
	return append(out, g.Front...)
}

// IsDegenerate reports whether a run of at least three points is a flat
// near-horizontal artifact rather than a visible grid line. Near-vertical
// runs are never degenerate.
func IsDegenerate(run []vec.Vec2) bool {
	if len(run) < 3 {
		return false
	}
	lo, hi := run[0], run[0]
	for _, p := range run[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	bw, bh := hi.X-lo.X, hi.Y-lo.Y
	if bw < verticalMaxWidth && bh > verticalMinHeight {
		return false
	}
	if bh < flatMaxHeight && bw > flatMinWidth {
		return true
	}

	a, b := run[0], run[len(run)-1]
	d := b.Sub(a)
	if math.Abs(d.Y) >= chordMaxDY || math.Abs(d.X) <= chordMinDX {
		return false
	}
	length := d.Length()
	for _, p := range run[1 : len(run)-1] {
		q := p.Sub(a)
		if math.Abs(d.X*q.Y-d.Y*q.X)/length >= chordMaxDev {
			return false
		}
	}
	return true
}
