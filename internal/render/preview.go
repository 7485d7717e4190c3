package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"github.com/rook-computer/starmap/internal/catalog"
	"github.com/rook-computer/starmap/internal/render/layout"
	"github.com/rook-computer/starmap/internal/svg"
)

// Preview size bounds; the longest side of the map equals the size.
const (
	MinPreviewSize     = 64
	MaxPreviewSize     = 1024
	DefaultPreviewSize = 512
)

const (
	supersample   = 2
	curveSegments = 8
	minHalfWidth  = 0.35 // px, keeps hairlines visible after downscaling
	captionRatio  = 0.1  // caption band height relative to the preview size
	captionMinPx  = 14
)

// PreviewOptions control the raster preview.
type PreviewOptions struct {
	Size    int
	Caption bool
}

// Preview rasterizes req. The image is deterministic for a given request.
func Preview(req Request, cat *catalog.Catalog, opts PreviewOptions) (*image.RGBA, error) {
	return Compose(req, cat).Raster(opts)
}

// PreviewSize clamps a requested preview size; zero means the default.
func PreviewSize(n int) int {
	if n == 0 {
		return DefaultPreviewSize
	}
	return clamp(n, MinPreviewSize, MaxPreviewSize)
}

// Raster draws the scene with the same layers, clip and zoom as Document.
func (s Scene) Raster(opts PreviewOptions) (*image.RGBA, error) {
	size := PreviewSize(opts.Size)
	w, h := s.Request.Width, s.Request.Height
	scale := float64(size) / float64(max(w, h))
	fit := layout.FitLongest(w, h, size)

	bandH := 0
	if opts.Caption {
		bandH = max(captionMinPx, int(math.Round(float64(size)*captionRatio)))
	}
	out := image.NewRGBA(image.Rect(0, 0, fit.X, fit.Y+bandH))
	mapRect, band := layout.SplitHorizontal(out.Bounds(), fit.Y)

	k := scale * supersample
	hi := s.rasterAt(k, int(math.Ceil(float64(w)*k)), int(math.Ceil(float64(h)*k)))
	draw.CatmullRom.Scale(out, mapRect, hi, hi.Bounds(), draw.Over, nil)

	if opts.Caption {
		if err := s.drawCaption(out, band); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rasterAt renders the map at k pixels per canvas unit.
func (s Scene) rasterAt(k float64, pw, ph int) *image.RGBA {
	base := matrix.Scale(k, k)
	inner := s.Zoom.Mul(base)
	bounds := image.Rect(0, 0, pw, ph)

	mask := image.NewAlpha(bounds)
	fillPath(mask, s.Clip.Boundary.Path(), base, image.Opaque)

	content := image.NewRGBA(bounds)
	draw.Draw(content, bounds, image.NewUniform(s.Tokens.Background), image.Point{}, draw.Src)
	if g := s.Grid; g != nil {
		for _, run := range g.Runs() {
			strokePolyline(content, run.Points, false, inner, run.Width, withAlpha(g.Color, run.Opacity))
		}
		bd := g.Boundary
		for _, ring := range svg.CirclePath(bd.Center, bd.Radius).Flatten(curveSegments * 4) {
			strokePolyline(content, ring, false, inner, bd.Width, withAlpha(g.Color, bd.Opacity))
		}
	}
	if l := s.Constellations; l != nil {
		line := withAlpha(s.Tokens.ConstellationLine, lineOpacity)
		for _, f := range l.Figures {
			strokePolyline(content, f.Nodes, true, inner, l.LineWidth, line)
		}
		for _, seg := range l.Segments {
			strokePolyline(content, []vec.Vec2{seg.A, seg.B}, false, inner, l.LineWidth, line)
		}
		node := withAlpha(s.Tokens.ConstellationNode, nodeOpacity)
		for _, m := range l.Markers {
			fillPath(content, svg.CirclePath(m, l.NodeRadius), inner, node)
		}
	}
	for _, st := range s.Stars.Stars {
		fillPath(content, svg.CirclePath(st.Pos, st.Radius), inner, withAlpha(s.Stars.Color, st.Alpha))
	}

	out := image.NewRGBA(bounds)
	draw.DrawMask(out, bounds, content, image.Point{}, mask, image.Point{}, draw.Over)

	if o := s.Clip.Outline; o != nil {
		for _, ring := range o.Path().Flatten(curveSegments * 4) {
			strokePolyline(out, ring, false, base, s.Clip.OutlineWidth, image.NewUniform(s.Tokens.Outline))
		}
	}
	return out
}

func withAlpha(c color.RGBA, a float64) *image.Uniform {
	a = math.Max(0, math.Min(1, a))
	return image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(a * 0xFF))})
}

// fillPath fills p under m with a rasterizer sized to the path's pixel bounds.
func fillPath(dst draw.Image, p *svg.Path, m matrix.Matrix, src image.Image) {
	var polys [][]vec.Vec2
	for _, ring := range p.Flatten(curveSegments) {
		pts := make([]vec.Vec2, len(ring))
		for i, q := range ring {
			pts[i] = svg.Apply(m, q)
		}
		polys = append(polys, pts)
	}
	rasterize(dst, polys, src)
}

// strokePolyline draws one quad per segment. Joins and caps are not rounded.
func strokePolyline(dst draw.Image, pts []vec.Vec2, closed bool, m matrix.Matrix, width float64, src image.Image) {
	if len(pts) < 2 {
		return
	}
	hw := math.Max(minHalfWidth, width*scaleOf(m)/2)
	dev := make([]vec.Vec2, len(pts), len(pts)+1)
	for i, p := range pts {
		dev[i] = svg.Apply(m, p)
	}
	if closed {
		dev = append(dev, dev[0])
	}
	quads := make([][]vec.Vec2, 0, len(dev)-1)
	for i := 1; i < len(dev); i++ {
		a, b := dev[i-1], dev[i]
		d := b.Sub(a)
		l := d.Length()
		if l == 0 {
			continue
		}
		n := vec.Vec2{X: -d.Y / l * hw, Y: d.X / l * hw}
		quads = append(quads, []vec.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
	}
	rasterize(dst, quads, src)
}

func scaleOf(m matrix.Matrix) float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

func rasterize(dst draw.Image, polys [][]vec.Vec2, src image.Image) {
	lo := vec.Vec2{X: math.Inf(1), Y: math.Inf(1)}
	hi := vec.Vec2{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, poly := range polys {
		for _, p := range poly {
			lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
			hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
		}
	}
	if lo.X > hi.X {
		return
	}
	box := image.Rect(
		int(math.Floor(lo.X))-1, int(math.Floor(lo.Y))-1,
		int(math.Ceil(hi.X))+1, int(math.Ceil(hi.Y))+1,
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		z.ClosePath()
	}
	z.Draw(dst, box, src, image.Point{})
}

var (
	captionOnce sync.Once
	captionFont *truetype.Font
	captionErr  error
)

func (s Scene) drawCaption(dst *image.RGBA, band image.Rectangle) error {
	captionOnce.Do(func() {
		captionFont, captionErr = truetype.Parse(goregular.TTF)
	})
	if captionErr != nil {
		return fmt.Errorf("render: caption font: %w", captionErr)
	}
	draw.Draw(dst, band, image.NewUniform(s.Tokens.Background), image.Point{}, draw.Src)

	pad := band.Dy() / 5
	text := layout.Inset(band, pad)
	face := truetype.NewFace(captionFont, &truetype.Options{
		Size:    float64(text.Dy()) * 0.8,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(s.Tokens.Star), Face: face}
	label := Caption(s.Request)
	width := d.MeasureString(label).Ceil()
	x := layout.CenterSpan(text, width)
	m := face.Metrics()
	baseline := text.Min.Y + (text.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	d.Dot = fixed.P(x, baseline)
	d.DrawString(label)
	return nil
}

// Caption is the preview label: seed, shape and theme.
func Caption(req Request) string {
	return fmt.Sprintf("%d · %s · %s", req.Seed, req.Shape, req.ColorTheme)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}
