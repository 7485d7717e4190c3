// Package render turns a Request into a star map: an SVG document, a PNG
// preview, or a reprint reference.
//
// Every output is built from one Scene so the layers, clip and zoom match
// across formats.
package render

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"github.com/rook-computer/starmap/internal/catalog"
	"github.com/rook-computer/starmap/internal/constellation"
	"github.com/rook-computer/starmap/internal/globe"
	"github.com/rook-computer/starmap/internal/rng"
	"github.com/rook-computer/starmap/internal/shape"
	"github.com/rook-computer/starmap/internal/starfield"
	"github.com/rook-computer/starmap/internal/svg"
	"github.com/rook-computer/starmap/internal/theme"
)

// Element ids, in draw order.
const (
	IDClip           = "starmap-clip"
	IDContent        = "content"
	IDBackground     = "background"
	IDZoom           = "zoom"
	IDGrid           = "grid"
	IDConstellations = "constellations"
	IDStars          = "stars"
	IDOutline        = "outline"
)

const (
	lineOpacity = 0.75
	nodeOpacity = 0.9
)

// Scene is a fully resolved render. It is not modified after Compose.
type Scene struct {
	Request Request
	Tokens  theme.Tokens
	Clip    shape.Clip
	// Zoom scales the interior layers about Clip.Center.
	Zoom  matrix.Matrix
	Stars starfield.Field
	// Constellations and Grid are nil when hidden.
	Constellations *constellation.Layer
	Grid           *globe.Grid
}

// Compose normalizes req and builds its scene. A nil catalog means the
// embedded one.
func Compose(req Request, cat *catalog.Catalog) Scene {
	req = Normalize(req)
	if cat == nil {
		cat = catalog.Default()
	}

	tokens := theme.Resolve(req.ColorTheme, theme.ParseBackgroundMode(req.BackgroundMode))
	clip := shape.Compute(shape.Params{
		Width:          req.Width,
		Height:         req.Height,
		Kind:           shape.ParseKind(req.Shape),
		Inset:          req.InsetPixels(),
		OutlineEnabled: req.Outline,
		OutlineWidth:   req.OutlineWidth,
	})

	s := Scene{
		Request: req,
		Tokens:  tokens,
		Clip:    clip,
		Zoom:    zoomAbout(clip.Center, req.Zoom),
	}

	// Stars draw first from the stream, then the constellations.
	r := rng.New(req.Seed)
	s.Stars = starfield.Generate(req.Width, req.Height, r, tokens.Star)
	if req.ShowConstellations {
		strategy, _ := constellation.ParseStrategy(req.Strategy)
		layer := constellation.Compose(strategy, constellation.Params{
			Width:   req.Width,
			Height:  req.Height,
			Size:    req.ConstellationSize,
			Stars:   s.Stars,
			Catalog: cat,
		}, r)
		s.Constellations = &layer
	}
	if req.ShowGrid {
		g := globe.Project(clip.Center, clip.ContentRadius, tokens.Grid)
		s.Grid = &g
	}
	return s
}

func zoomAbout(c vec.Vec2, z float64) matrix.Matrix {
	if z == 1 {
		return matrix.Identity
	}
	return matrix.Translate(-c.X, -c.Y).Mul(matrix.Scale(z, z)).Mul(matrix.Translate(c.X, c.Y))
}

// Render builds the SVG document for req.
func Render(req Request, cat *catalog.Catalog) svg.Document {
	return Compose(req, cat).Document()
}

// Document serializes the scene. Background and outline are never zoomed;
// the outline sits outside the clip so it is never cut.
func (s Scene) Document() svg.Document {
	w, h := s.Request.Width, s.Request.Height
	b := svg.NewBuilder(w, h)
	b.Define(svg.ClipPath{ID: IDClip, Shape: s.Clip.Boundary.Node()})

	content := b.Group(svg.ID(IDContent), svg.ClipRef(IDClip))
	content.Add(svg.Rect{
		Max:   vec.Vec2{X: float64(w), Y: float64(h)},
		Attrs: []svg.Attr{svg.ID(IDBackground), svg.Fill(s.Tokens.Background)},
	})

	zoomAttrs := []svg.Attr{svg.ID(IDZoom)}
	if s.Zoom != matrix.Identity {
		zoomAttrs = append(zoomAttrs, svg.TransformAttr(svg.Transform(s.Zoom)))
	}
	zoom := content.Group(zoomAttrs...)
	if s.Grid != nil {
		s.addGrid(zoom)
	}
	if s.Constellations != nil {
		s.addConstellations(zoom)
	}
	s.addStars(zoom)

	if o := s.Clip.Outline; o != nil {
		b.Add(o.Node(
			svg.ID(IDOutline),
			svg.NoFill(),
			svg.Stroke(s.Tokens.Outline),
			svg.StrokeWidth(s.Clip.OutlineWidth),
		))
	}
	return b.Build()
}

func (s Scene) addGrid(parent *svg.Group) {
	g := parent.Group(
		svg.ID(IDGrid),
		svg.NoFill(),
		svg.Stroke(s.Grid.Color),
		svg.StrokeLinecap("round"),
		svg.StrokeLinejoin("round"),
	)
	for _, run := range s.Grid.Runs() {
		g.Add(svg.Polyline{
			Points: run.Points,
			Attrs:  []svg.Attr{svg.StrokeOpacity(run.Opacity), svg.StrokeWidth(run.Width)},
		})
	}
	bd := s.Grid.Boundary
	g.Add(svg.Circle{
		Center: bd.Center,
		R:      bd.Radius,
		Attrs:  []svg.Attr{svg.StrokeOpacity(bd.Opacity), svg.StrokeWidth(bd.Width)},
	})
}

func (s Scene) addConstellations(parent *svg.Group) {
	l := s.Constellations
	g := parent.Group(svg.ID(IDConstellations))
	lines := g.Group(
		svg.NoFill(),
		svg.Stroke(s.Tokens.ConstellationLine),
		svg.StrokeWidth(l.LineWidth),
		svg.StrokeOpacity(lineOpacity),
		svg.StrokeLinejoin("round"),
		svg.StrokeLinecap("round"),
	)
	for _, f := range l.Figures {
		lines.Add(svg.Polyline{Points: f.Nodes, Closed: true})
	}
	for _, seg := range l.Segments {
		lines.Add(svg.Line{A: seg.A, B: seg.B})
	}
	nodes := g.Group(svg.Fill(s.Tokens.ConstellationNode), svg.FillOpacity(nodeOpacity))
	for _, m := range l.Markers {
		nodes.Add(svg.Circle{Center: m, R: l.NodeRadius})
	}
}

func (s Scene) addStars(parent *svg.Group) {
	g := parent.Group(svg.ID(IDStars), svg.Fill(s.Stars.Color))
	for _, st := range s.Stars.Stars {
		g.Add(svg.Circle{
			Center: st.Pos,
			R:      st.Radius,
			Attrs:  []svg.Attr{svg.FillOpacity(st.Alpha)},
		})
	}
}
