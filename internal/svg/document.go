// Package svg builds vector documents from an append-only list of drawing
// primitives and serializes them once.
package svg

import (
	"bytes"
	"encoding/xml"
	"image/color"
	"strconv"

	"seehuhn.de/go/geom/vec"
)

// Attr is a single presentation attribute.
type Attr struct {
	Name  string
	Value string
}

func ID(id string) Attr                { return Attr{"id", id} }
func Fill(c color.RGBA) Attr           { return Attr{"fill", Color(c)} }
func NoFill() Attr                     { return Attr{"fill", "none"} }
func Stroke(c color.RGBA) Attr         { return Attr{"stroke", Color(c)} }
func StrokeWidth(w float64) Attr       { return Attr{"stroke-width", Num(w)} }
func FillOpacity(a float64) Attr       { return Attr{"fill-opacity", Opacity(a)} }
func StrokeOpacity(a float64) Attr     { return Attr{"stroke-opacity", Opacity(a)} }
func ClipRef(id string) Attr           { return Attr{"clip-path", "url(#" + id + ")"} }
func TransformAttr(value string) Attr  { return Attr{"transform", value} }
func StrokeLinejoin(value string) Attr { return Attr{"stroke-linejoin", value} }
func StrokeLinecap(value string) Attr  { return Attr{"stroke-linecap", value} }

// Node is anything that can be placed in a document.
type Node interface {
	write(buf *bytes.Buffer)
	id() string
}

// Group is a <g> element. Children are drawn in insertion order.
type Group struct {
	Attrs    []Attr
	children []Node
}

// Add appends n to the group.
func (g *Group) Add(n Node) { g.children = append(g.children, n) }

// Group appends and returns a nested group.
func (g *Group) Group(attrs ...Attr) *Group {
	child := &Group{Attrs: attrs}
	g.children = append(g.children, child)
	return child
}

func (g *Group) id() string { return attrID(g.Attrs) }

func (g *Group) write(buf *bytes.Buffer) {
	buf.WriteString("<g")
	writeAttrs(buf, g.Attrs)
	if len(g.children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range g.children {
		c.write(buf)
	}
	buf.WriteString("</g>")
}

// Circle is a <circle> element.
type Circle struct {
	Center vec.Vec2
	R      float64
	Attrs  []Attr
}

func (c Circle) id() string { return attrID(c.Attrs) }

func (c Circle) write(buf *bytes.Buffer) {
	buf.WriteString(`<circle cx="` + Num(c.Center.X) + `" cy="` + Num(c.Center.Y) + `" r="` + Num(c.R) + `"`)
	writeAttrs(buf, c.Attrs)
	buf.WriteString("/>")
}

// Rect is a <rect> element.
type Rect struct {
	Min, Max vec.Vec2
	Attrs    []Attr
}

func (r Rect) id() string { return attrID(r.Attrs) }

func (r Rect) write(buf *bytes.Buffer) {
	buf.WriteString(`<rect x="` + Num(r.Min.X) + `" y="` + Num(r.Min.Y) +
		`" width="` + Num(r.Max.X-r.Min.X) + `" height="` + Num(r.Max.Y-r.Min.Y) + `"`)
	writeAttrs(buf, r.Attrs)
	buf.WriteString("/>")
}

// Line is a <line> element.
type Line struct {
	A, B  vec.Vec2
	Attrs []Attr
}

func (l Line) id() string { return attrID(l.Attrs) }

func (l Line) write(buf *bytes.Buffer) {
	buf.WriteString(`<line x1="` + Num(l.A.X) + `" y1="` + Num(l.A.Y) + `" x2="` + Num(l.B.X) + `" y2="` + Num(l.B.Y) + `"`)
	writeAttrs(buf, l.Attrs)
	buf.WriteString("/>")
}

// Polyline is a <polyline>, or a <polygon> when Closed is set.
type Polyline struct {
	Points []vec.Vec2
	Closed bool
	Attrs  []Attr
}

func (p Polyline) id() string { return attrID(p.Attrs) }

func (p Polyline) write(buf *bytes.Buffer) {
	tag := "polyline"
	if p.Closed {
		tag = "polygon"
	}
	buf.WriteString("<" + tag + ` points="` + points(p.Points) + `"`)
	writeAttrs(buf, p.Attrs)
	buf.WriteString("/>")
}

// PathNode is a <path> element.
type PathNode struct {
	Path  *Path
	Attrs []Attr
}

func (p PathNode) id() string { return attrID(p.Attrs) }

func (p PathNode) write(buf *bytes.Buffer) {
	buf.WriteString(`<path d="` + p.Path.Data() + `"`)
	writeAttrs(buf, p.Attrs)
	buf.WriteString("/>")
}

// ClipPath is a <clipPath> definition wrapping a single shape.
type ClipPath struct {
	ID    string
	Shape Node
}

func (c ClipPath) id() string { return c.ID }

func (c ClipPath) write(buf *bytes.Buffer) {
	buf.WriteString(`<clipPath id="`)
	escape(buf, c.ID)
	buf.WriteString(`">`)
	c.Shape.write(buf)
	buf.WriteString("</clipPath>")
}

// Builder collects definitions and top-level layers. It is append-only.
type Builder struct {
	width, height int
	defs          []Node
	root          Group
}

// NewBuilder starts a document with the given canvas size.
func NewBuilder(width, height int) *Builder {
	return &Builder{width: width, height: height}
}

// Define appends a node to <defs>.
func (b *Builder) Define(n Node) { b.defs = append(b.defs, n) }

// Add appends a top-level node.
func (b *Builder) Add(n Node) { b.root.Add(n) }

// Group appends and returns a top-level group.
func (b *Builder) Group(attrs ...Attr) *Group { return b.root.Group(attrs...) }

// Build serializes the document. The builder should not be used afterwards.
func (b *Builder) Build() Document {
	var buf bytes.Buffer
	w, h := strconv.Itoa(b.width), strconv.Itoa(b.height)
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="` + w + `" height="` + h +
		`" viewBox="0 0 ` + w + " " + h + `">`)
	var order []string
	if len(b.defs) > 0 {
		buf.WriteString("<defs>")
		for _, d := range b.defs {
			d.write(&buf)
			collectIDs(d, &order)
		}
		buf.WriteString("</defs>")
	}
	for _, c := range b.root.children {
		c.write(&buf)
		collectIDs(c, &order)
	}
	buf.WriteString("</svg>")
	return Document{data: buf.Bytes(), order: order}
}

// Document is a serialized, immutable vector document.
type Document struct {
	data  []byte
	order []string
}

// Bytes returns a copy of the serialized document.
func (d Document) Bytes() []byte {
	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

func (d Document) String() string { return string(d.data) }

// Len returns the serialized size in bytes.
func (d Document) Len() int { return len(d.data) }

// Order returns the ids of identified nodes in draw order, depth first.
func (d Document) Order() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func collectIDs(n Node, order *[]string) {
	if id := n.id(); id != "" {
		*order = append(*order, id)
	}
	if g, ok := n.(*Group); ok {
		for _, c := range g.children {
			collectIDs(c, order)
		}
	}
}

func attrID(attrs []Attr) string {
	for _, a := range attrs {
		if a.Name == "id" {
			return a.Value
		}
	}
	return ""
}

func writeAttrs(buf *bytes.Buffer, attrs []Attr) {
	for _, a := range attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		escape(buf, a.Value)
		buf.WriteByte('"')
	}
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
