package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rook-computer/starmap/internal/constellation"
	"github.com/rook-computer/starmap/internal/render"
	"github.com/rook-computer/starmap/internal/state"
	"github.com/rook-computer/starmap/internal/theme"
)

// HeaderReference carries the reprint reference on /reference responses.
const HeaderReference = "X-Starmap-Reference"

const (
	minQRSize = 64
	maxQRSize = 1024
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type healthResponse struct {
	Phase      string `json:"phase"`
	Renders    uint64 `json:"renders"`
	Previews   uint64 `json:"previews"`
	References uint64 `json:"references"`
	Failures   uint64 `json:"failures"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/render", func(w http.ResponseWriter, r *http.Request) { handleRender(w, r, deps) })
	mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) { handlePreview(w, r, deps) })
	mux.HandleFunc("/reference", func(w http.ResponseWriter, r *http.Request) { handleReference(w, r, deps) })
	mux.HandleFunc("/themes", handleThemes)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { handleHealth(w, r, deps) })
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	return mux
}

func handleRender(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	req, ok := decodeRenderRequest(w, r, deps)
	if !ok {
		return
	}
	doc := deps.Renderer.SVG(req)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Length", strconv.Itoa(doc.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Bytes())
	deps.Stats.Record(state.KindRender)
	deps.Logger.Infof("api", "render seed=%d shape=%s theme=%s strategy=%s bytes=%d",
		req.Seed, req.Shape, req.ColorTheme, req.Strategy, doc.Len())
}

func handlePreview(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	q := r.URL.Query()
	size, err := intParam(q.Get("size"))
	if err != nil {
		failRequest(w, deps, http.StatusBadRequest, "invalid_request", "size: "+err.Error())
		return
	}
	caption := false
	if raw := q.Get("caption"); raw != "" {
		if caption, err = strconv.ParseBool(raw); err != nil {
			failRequest(w, deps, http.StatusBadRequest, "invalid_request", "caption: "+err.Error())
			return
		}
	}
	req, ok := decodeRenderRequest(w, r, deps)
	if !ok {
		return
	}

	img, err := deps.Renderer.PNG(req, render.PreviewOptions{Size: size, Caption: caption})
	if err != nil {
		deps.Logger.Errorf("api", "preview seed=%d: %v", req.Seed, err)
		failRequest(w, deps, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		deps.Logger.Errorf("api", "preview seed=%d: %v", req.Seed, err)
		failRequest(w, deps, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	writePNG(w, buf.Bytes())
	deps.Stats.Record(state.KindPreview)
	deps.Logger.Infof("api", "preview seed=%d size=%d bytes=%d", req.Seed, render.PreviewSize(size), buf.Len())
}

func handleReference(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	size, err := intParam(r.URL.Query().Get("size"))
	if err != nil {
		failRequest(w, deps, http.StatusBadRequest, "invalid_request", "size: "+err.Error())
		return
	}
	if size != 0 {
		size = max(minQRSize, min(size, maxQRSize))
	}
	req, ok := decodeRenderRequest(w, r, deps)
	if !ok {
		return
	}

	ref, img, err := deps.Renderer.QR(req, size)
	if err != nil {
		deps.Logger.Errorf("api", "reference seed=%d: %v", req.Seed, err)
		failRequest(w, deps, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		failRequest(w, deps, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	w.Header().Set(HeaderReference, ref)
	writePNG(w, buf.Bytes())
	deps.Stats.Record(state.KindReference)
}

func handleThemes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, theme.IDs())
}

func handleHealth(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	snap := deps.Stats.Snapshot()
	writeJSON(w, http.StatusOK, healthResponse{
		Phase:      snap.Phase.String(),
		Renders:    snap.Counters.Renders,
		Previews:   snap.Counters.Previews,
		References: snap.Counters.References,
		Failures:   snap.Counters.Failures,
	})
}

// decodeRenderRequest reads a JSON RenderRequest on top of the defaults and
// normalizes it. On failure it has already written the error response.
func decodeRenderRequest(w http.ResponseWriter, r *http.Request, deps APIV1Deps) (render.Request, bool) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return render.Request{}, false
	}

	req := render.Defaults()
	req.Strategy = deps.Strategy.String()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, deps.MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		status, msg := http.StatusBadRequest, err.Error()
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			status = http.StatusRequestEntityTooLarge
			msg = fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			msg = "request body must be a JSON object"
		}
		failRequest(w, deps, status, "invalid_request", msg)
		return render.Request{}, false
	}
	if dec.More() {
		failRequest(w, deps, http.StatusBadRequest, "invalid_request", "unexpected data after JSON object")
		return render.Request{}, false
	}
	if _, ok := constellation.ParseStrategy(req.Strategy); !ok {
		req.Strategy = deps.Strategy.String()
	}
	return render.Normalize(req), true
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return n, nil
}

func failRequest(w http.ResponseWriter, deps APIV1Deps, status int, code, message string) {
	deps.Stats.RecordFailure()
	writeAPIError(w, status, code, message)
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
