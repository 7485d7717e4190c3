package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rook-computer/starmap/internal/constellation"
	"github.com/rook-computer/starmap/internal/render"
	"github.com/rook-computer/starmap/internal/state"
	"github.com/rook-computer/starmap/internal/svg"
	"github.com/rook-computer/starmap/internal/theme"
)

func newTestAPI(deps APIV1Deps) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, APIV1Config{Deps: deps})
	return mux
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiError {
	t.Helper()
	var e apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}

func TestRenderEndpoint(t *testing.T) {
	store := state.NewStore()
	h := newTestAPI(APIV1Deps{Stats: store})

	body := `{"width":780,"height":780,"seed":12345,"shape":"circle","colorTheme":"mono","showGrid":true,"showConstellations":true,"zoom":1}`
	rec := do(t, h, http.MethodPost, "/api/v1/render", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))

	want := render.Render(render.Request{
		Width: 780, Height: 780, Seed: 12345, Shape: "circle", ColorTheme: "mono",
		ShowGrid: true, ShowConstellations: true, Zoom: 1,
	}, nil)
	assert.Equal(t, want.String(), rec.Body.String())
	assert.Equal(t, uint64(1), store.Snapshot().Counters.Renders)

	again := do(t, h, http.MethodPost, "/api/v1/render", body)
	assert.Equal(t, rec.Body.Bytes(), again.Body.Bytes(), "byte-identical output")
}

func TestRenderDefaultsAndClamps(t *testing.T) {
	h := newTestAPI(APIV1Deps{})
	rec := do(t, h, http.MethodPost, "/api/v1/render", `{"width":50,"zoom":5,"outline":true,"outlineWidth":999}`)
	require.Equal(t, http.StatusOK, rec.Code)

	req := render.Defaults()
	req.Width, req.Zoom, req.Outline, req.OutlineWidth = 200, 1.6, true, 24
	assert.Equal(t, render.Render(req, nil).String(), rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Body.String(), `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="780"`))
}

func TestRenderUsesConfiguredStrategy(t *testing.T) {
	h := newTestAPI(APIV1Deps{Strategy: constellation.CatalogAnchored})
	for _, body := range []string{`{}`, `{"strategy":"nonsense"}`} {
		rec := do(t, h, http.MethodPost, "/api/v1/render", body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<line ", body)
	}
	rec := do(t, h, http.MethodPost, "/api/v1/render", `{"strategy":"synthetic"}`)
	assert.NotContains(t, rec.Body.String(), "<line ")
}

func TestRenderRejectsInvalidBodies(t *testing.T) {
	store := state.NewStore()
	h := newTestAPI(APIV1Deps{Stats: store})
	for _, body := range []string{
		"",
		"not json",
		`[1,2,3]`,
		`{"width":"wide"}`,
		`{"seed":-1}`,
		`{} {}`,
	} {
		rec := do(t, h, http.MethodPost, "/api/v1/render", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
		assert.Equal(t, "invalid_request", decodeError(t, rec).Error)
	}
	assert.Equal(t, uint64(6), store.Snapshot().Counters.Failures)
}

func TestRenderBodyLimit(t *testing.T) {
	h := newTestAPI(APIV1Deps{MaxBodyBytes: 32})
	rec := do(t, h, http.MethodPost, "/api/v1/render", `{"colorTheme":"`+strings.Repeat("x", 64)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Error)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestAPI(APIV1Deps{})
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/render"},
		{http.MethodGet, "/api/v1/preview"},
		{http.MethodGet, "/api/v1/reference"},
		{http.MethodPost, "/api/v1/themes"},
		{http.MethodPost, "/api/v1/health"},
	} {
		rec := do(t, h, tc.method, tc.path, "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, tc.path)
		assert.Equal(t, "method_not_allowed", decodeError(t, rec).Error)
	}
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, newTestAPI(APIV1Deps{}), http.MethodGet, "/api/v1/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error)
}

func TestPreviewEndpoint(t *testing.T) {
	store := state.NewStore()
	h := newTestAPI(APIV1Deps{Stats: store})
	rec := do(t, h, http.MethodPost, "/api/v1/preview?size=96&caption=1", `{"seed":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 96, "caption band below the map")
	assert.Equal(t, uint64(1), store.Snapshot().Counters.Previews)

	rec = do(t, h, http.MethodPost, "/api/v1/preview?size=big", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/v1/preview?caption=perhaps", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type failingRenderer struct{ render.Renderer }

func (failingRenderer) PNG(render.Request, render.PreviewOptions) (*image.RGBA, error) {
	return nil, errors.New("boom")
}

func TestPreviewFailure(t *testing.T) {
	store := state.NewStore()
	h := newTestAPI(APIV1Deps{Stats: store, Renderer: failingRenderer{render.NewCatalogRenderer(nil)}})
	rec := do(t, h, http.MethodPost, "/api/v1/preview", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "render_failed", e.Error)
	assert.Equal(t, "boom", e.Message)
	assert.Equal(t, uint64(1), store.Snapshot().Counters.Failures)
}

func TestReferenceEndpoint(t *testing.T) {
	h := newTestAPI(APIV1Deps{})
	rec := do(t, h, http.MethodPost, "/api/v1/reference?size=128", `{"seed":99,"shape":"heart"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	ref := rec.Header().Get(HeaderReference)
	req, err := render.ParseReference(ref)
	require.NoError(t, err)
	assert.Equal(t, uint32(99), req.Seed)
	assert.Equal(t, "heart", req.Shape)

	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestThemesEndpoint(t *testing.T) {
	rec := do(t, newTestAPI(APIV1Deps{}), http.MethodGet, "/api/v1/themes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var ids []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
	assert.Equal(t, theme.IDs(), ids)
}

func TestHealthEndpoint(t *testing.T) {
	store := state.NewStore()
	store.SetPhase(state.READY)
	store.Record(state.KindRender)
	store.RecordFailure()
	rec := do(t, newTestAPI(APIV1Deps{Stats: store}), http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, healthResponse{Phase: "ready", Renders: 1, Failures: 1}, got)
}

// countingRenderer checks that handlers go through the Renderer seam.
type countingRenderer struct {
	render.Renderer
	svgCalls int
}

func (c *countingRenderer) SVG(req render.Request) svg.Document {
	c.svgCalls++
	return c.Renderer.SVG(req)
}

func TestRendererSeam(t *testing.T) {
	cr := &countingRenderer{Renderer: render.NewCatalogRenderer(nil)}
	h := newTestAPI(APIV1Deps{Renderer: cr})
	do(t, h, http.MethodPost, "/api/v1/render", `{}`)
	assert.Equal(t, 1, cr.svgCalls)
}
