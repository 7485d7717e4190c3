package svg

import (
	"strings"

	"seehuhn.de/go/geom/vec"
)

// Element is a single command in a Path.
type Element interface {
	isElement()
}

// MoveTo starts a new subpath.
type MoveTo struct {
	Point vec.Vec2
}

func (MoveTo) isElement() {}

// LineTo draws a straight segment.
type LineTo struct {
	Point vec.Vec2
}

func (LineTo) isElement() {}

// CubicTo draws a cubic Bezier segment.
type CubicTo struct {
	Control1 vec.Vec2
	Control2 vec.Vec2
	Point    vec.Vec2
}

func (CubicTo) isElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isElement() {}

// Path is an append-only outline description.
type Path struct {
	elements []Element
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{elements: make([]Element, 0, 8)}
}

// MoveTo starts a subpath at p.
func (p *Path) MoveTo(pt vec.Vec2) *Path {
	p.elements = append(p.elements, MoveTo{Point: pt})
	return p
}

// LineTo appends a line to pt.
func (p *Path) LineTo(pt vec.Vec2) *Path {
	p.elements = append(p.elements, LineTo{Point: pt})
	return p
}

// CubicTo appends a cubic Bezier ending at pt.
func (p *Path) CubicTo(c1, c2, pt vec.Vec2) *Path {
	p.elements = append(p.elements, CubicTo{Control1: c1, Control2: c2, Point: pt})
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.elements = append(p.elements, Close{})
	return p
}

// Data returns the SVG path data string.
func (p *Path) Data() string {
	var sb strings.Builder
	for i, e := range p.elements {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch e := e.(type) {
		case MoveTo:
			sb.WriteString("M")
			writePoint(&sb, e.Point)
		case LineTo:
			sb.WriteString("L")
			writePoint(&sb, e.Point)
		case CubicTo:
			sb.WriteString("C")
			writePoint(&sb, e.Control1)
			sb.WriteByte(' ')
			writePoint(&sb, e.Control2)
			sb.WriteByte(' ')
			writePoint(&sb, e.Point)
		case Close:
			sb.WriteString("Z")
		}
	}
	return sb.String()
}

// Flatten converts the path into polylines, one per subpath, approximating
// every cubic with segments line segments. Closed subpaths repeat their first
// point at the end.
func (p *Path) Flatten(segments int) [][]vec.Vec2 {
	if segments < 1 {
		segments = 1
	}
	var out [][]vec.Vec2
	var cur []vec.Vec2
	var last vec.Vec2
	flush := func() {
		if len(cur) > 1 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, e := range p.elements {
		switch e := e.(type) {
		case MoveTo:
			flush()
			cur = []vec.Vec2{e.Point}
			last = e.Point
		case LineTo:
			cur = append(cur, e.Point)
			last = e.Point
		case CubicTo:
			for i := 1; i <= segments; i++ {
				cur = append(cur, cubicAt(last, e.Control1, e.Control2, e.Point, float64(i)/float64(segments)))
			}
			last = e.Point
		case Close:
			if len(cur) > 0 {
				cur = append(cur, cur[0])
			}
			flush()
		}
	}
	flush()
	return out
}

func cubicAt(p0, p1, p2, p3 vec.Vec2, t float64) vec.Vec2 {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return vec.Vec2{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

// CirclePath approximates a circle with four cubic segments, starting at the
// top and running clockwise in screen space.
func CirclePath(center vec.Vec2, r float64) *Path {
	k := r * kappa
	cx, cy := center.X, center.Y
	p := NewPath()
	p.MoveTo(vec.Vec2{X: cx, Y: cy - r})
	p.CubicTo(vec.Vec2{X: cx + k, Y: cy - r}, vec.Vec2{X: cx + r, Y: cy - k}, vec.Vec2{X: cx + r, Y: cy})
	p.CubicTo(vec.Vec2{X: cx + r, Y: cy + k}, vec.Vec2{X: cx + k, Y: cy + r}, vec.Vec2{X: cx, Y: cy + r})
	p.CubicTo(vec.Vec2{X: cx - k, Y: cy + r}, vec.Vec2{X: cx - r, Y: cy + k}, vec.Vec2{X: cx - r, Y: cy})
	p.CubicTo(vec.Vec2{X: cx - r, Y: cy - k}, vec.Vec2{X: cx - k, Y: cy - r}, vec.Vec2{X: cx, Y: cy - r})
	p.Close()
	return p
}

// RectPath returns a closed rectangle path.
func RectPath(min, max vec.Vec2) *Path {
	p := NewPath()
	p.MoveTo(min)
	p.LineTo(vec.Vec2{X: max.X, Y: min.Y})
	p.LineTo(max)
	p.LineTo(vec.Vec2{X: min.X, Y: max.Y})
	p.Close()
	return p
}

