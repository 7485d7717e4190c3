package render

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
	"seehuhn.de/go/geom/vec"

	"github.com/rook-computer/starmap/internal/constellation"
	"github.com/rook-computer/starmap/internal/svg"
)

func TestNormalizeClamps(t *testing.T) {
	r := Defaults()
	r.Width = 50
	r.Height = 5000
	r.Zoom = 5
	r.OutlineWidth = 999
	r.InsetFraction = 0.9
	r.ConstellationSize = 0.2
	r.Shape = "star"
	r.ColorTheme = "rainbow"
	r.BackgroundMode = "WHITE"
	r.Strategy = "random"

	n := Normalize(r)
	assert.Equal(t, 200, n.Width)
	assert.Equal(t, 2000, n.Height)
	assert.Equal(t, 1.6, n.Zoom)
	assert.Equal(t, 24.0, n.OutlineWidth)
	assert.Equal(t, 0.25, n.InsetFraction)
	assert.Equal(t, 1.0, n.ConstellationSize)
	assert.Equal(t, "circle", n.Shape)
	assert.Equal(t, "mono", n.ColorTheme)
	assert.Equal(t, "white", n.BackgroundMode)
	assert.Equal(t, "synthetic", n.Strategy)

	if diff := cmp.Diff(n, Normalize(n)); diff != "" {
		t.Errorf("Normalize not idempotent:\n%s", diff)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	if diff := cmp.Diff(Defaults(), Normalize(Defaults())); diff != "" {
		t.Errorf("defaults change under Normalize:\n%s", diff)
	}
	n := Normalize(Request{Seed: 9})
	assert.Equal(t, 780, n.Width)
	assert.Equal(t, 780, n.Height)
	assert.Equal(t, 1.5, n.ConstellationSize)
	assert.Equal(t, 1.0, n.Zoom)
	assert.Equal(t, 0.0, n.OutlineWidth, "zero outline width is a real value")
	assert.Equal(t, uint32(9), n.Seed)
}

func TestInsetPixels(t *testing.T) {
	r := Normalize(Request{Width: 800, Height: 600, InsetFraction: 0.1})
	assert.Equal(t, 0.0, r.InsetPixels(), "inset needs the frame flag")
	r.Frame = true
	assert.InDelta(t, 60, r.InsetPixels(), 1e-9)
}

func TestRenderDeterministic(t *testing.T) {
	req := Defaults()
	req.Seed = 424242
	req.Outline = true
	a := Render(req, nil)
	b := Render(req, nil)
	require.Equal(t, a.Bytes(), b.Bytes())

	req.Seed++
	c := Render(req, nil)
	assert.NotEqual(t, a.String(), c.String())
}

func TestRenderConcurrent(t *testing.T) {
	req := Defaults()
	req.Strategy = "catalog"
	want := Render(req, nil).String()

	var wg sync.WaitGroup
	got := make([]string, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Render(req, nil).String()
		}(i)
	}
	wg.Wait()
	for i, g := range got {
		assert.Equal(t, want, g, "render %d", i)
	}
}

func TestDrawOrder(t *testing.T) {
	req := Defaults()
	req.Outline = true
	doc := Render(req, nil)
	assert.Equal(t, []string{
		IDClip, IDContent, IDBackground, IDZoom, IDGrid, IDConstellations, IDStars, IDOutline,
	}, doc.Order())

	req.Outline = false
	req.ShowGrid = false
	req.ShowConstellations = false
	doc = Render(req, nil)
	assert.Equal(t, []string{IDClip, IDContent, IDBackground, IDZoom, IDStars}, doc.Order())
}

func TestZoomOnlyTouchesInterior(t *testing.T) {
	req := Defaults()
	req.Zoom = 1.6
	req.Outline = true
	req.OutlineWidth = 10
	out := Render(req, nil).String()

	assert.Contains(t, out, `<g id="zoom" transform="matrix(1.6 0 0 1.6 -234 -234)">`)
	assert.Contains(t, out, `<rect x="0" y="0" width="780" height="780" id="background" fill="#111114"/>`)
	assert.Contains(t, out, `<circle cx="390" cy="390" r="385" id="outline" fill="none" stroke="#ffffff" stroke-width="10"/>`)
	assert.Equal(t, 1, strings.Count(out, "transform="))

	req.Zoom = 1
	assert.NotContains(t, Render(req, nil).String(), "transform=")
}

func TestZoomCenterIsFixed(t *testing.T) {
	for _, sh := range []string{"circle", "heart", "rect"} {
		req := Defaults()
		req.Shape = sh
		req.Zoom = 1.5
		s := Compose(req, nil)
		c := s.Clip.Center
		p := svg.Apply(s.Zoom, c)
		assert.InDelta(t, c.X, p.X, 1e-9, sh)
		assert.InDelta(t, c.Y, p.Y, 1e-9, sh)
	}
	heart := Defaults()
	heart.Shape = "heart"
	assert.InDelta(t, 390-0.06*780, Compose(heart, nil).Clip.Center.Y, 1e-9)
}

func TestNeonIgnoresBackgroundMode(t *testing.T) {
	req := Defaults()
	req.ColorTheme = "neonBlue"
	req.BackgroundMode = "white"
	s := Compose(req, nil)
	assert.Equal(t, colornames.Black, s.Tokens.Background)
	assert.Contains(t, s.Document().String(), `id="background" fill="#000000"`)
}

func TestOutlineConcentric(t *testing.T) {
	req := Defaults()
	req.Outline = true
	req.OutlineWidth = 12
	req.Frame = true
	req.InsetFraction = 0.1
	s := Compose(req, nil)
	require.NotNil(t, s.Clip.Outline)
	r := 390 - 0.1*780
	assert.InDelta(t, r, s.Clip.Boundary.Radius, 1e-9)
	assert.InDelta(t, r-6, s.Clip.Outline.Radius, 1e-9)

	req.OutlineWidth = 0
	assert.Nil(t, Compose(req, nil).Clip.Outline)
	assert.NotContains(t, Render(req, nil).Order(), IDOutline)
}

func TestRectIgnoresFrameInset(t *testing.T) {
	req := Defaults()
	req.Shape = "rect"
	req.Frame = true
	req.InsetFraction = 0.1
	req.Outline = true
	req.OutlineWidth = 12
	s := Compose(req, nil)
	assert.Equal(t, vec.Vec2{}, s.Clip.Boundary.Min)
	assert.Equal(t, vec.Vec2{X: 780, Y: 780}, s.Clip.Boundary.Max)
	require.NotNil(t, s.Clip.Outline)
	assert.Equal(t, vec.Vec2{X: 6, Y: 6}, s.Clip.Outline.Min)
	assert.Contains(t, s.Document().String(),
		`<clipPath id="starmap-clip"><rect x="0" y="0" width="780" height="780"/></clipPath>`)
}

func TestReferenceScene(t *testing.T) {
	req := Request{
		Width:              780,
		Height:             780,
		Seed:               12345,
		Shape:              "circle",
		ColorTheme:         "mono",
		ShowGrid:           true,
		ShowConstellations: true,
		Zoom:               1.0,
	}
	s := Compose(req, nil)
	require.Len(t, s.Stars.Stars, 1141)
	bright := 0
	for _, st := range s.Stars.Stars {
		if st.Bright {
			bright++
		}
	}
	assert.Equal(t, 136, bright)

	want := []vec.Vec2{
		{X: 239.26676630973816, Y: 377.6802287902683},
		{X: 57.53088262863457, Y: 597.7892445260659},
		{X: 737.758465083316, Y: 694.68597213272},
		{X: 369.20741454698145, Y: 237.9352155374363},
		{X: 608.5166482301429, Y: 614.1095250891522},
	}
	for i, w := range want {
		assert.InDelta(t, w.X, s.Stars.Stars[i].Pos.X, 1e-9, "star %d x", i)
		assert.InDelta(t, w.Y, s.Stars.Stars[i].Pos.Y, 1e-9, "star %d y", i)
	}
	assert.Contains(t, s.Document().String(), `<circle cx="239.27" cy="377.68" r="`)

	again := Compose(req, nil)
	if diff := cmp.Diff(s.Grid.Culled, again.Grid.Culled); diff != "" {
		t.Errorf("culled runs differ:\n%s", diff)
	}
	require.NotNil(t, s.Constellations)
	assert.Equal(t, constellation.Synthetic, s.Constellations.Strategy)
}

func TestCatalogStrategy(t *testing.T) {
	req := Defaults()
	req.Strategy = "catalog"
	s := Compose(req, nil)
	require.NotNil(t, s.Constellations)
	assert.Equal(t, constellation.CatalogAnchored, s.Constellations.Strategy)
	assert.GreaterOrEqual(t, len(s.Constellations.Segments), 58)
	assert.Contains(t, s.Document().String(), "<line ")
}

func TestHiddenLayers(t *testing.T) {
	req := Defaults()
	req.ShowGrid = false
	req.ShowConstellations = false
	s := Compose(req, nil)
	assert.Nil(t, s.Grid)
	assert.Nil(t, s.Constellations)

	// Hiding layers must not move stars.
	full := Compose(Defaults(), nil)
	if diff := cmp.Diff(full.Stars, s.Stars); diff != "" {
		t.Errorf("stars moved:\n%s", diff)
	}
}

func TestShapes(t *testing.T) {
	for _, sh := range []string{"circle", "heart", "rect"} {
		t.Run(sh, func(t *testing.T) {
			req := Defaults()
			req.Shape = sh
			req.Outline = true
			out := Render(req, nil).String()
			assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" width="780" height="780"`))
			assert.Contains(t, out, fmt.Sprintf(`<clipPath id="%s">`, IDClip))
			assert.Contains(t, out, `id="outline"`)
		})
	}
}
