package web

import (
	"net/http"
)

type APIV1Config struct {
	Deps APIV1Deps
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg.Deps)))
}

// NewDefaultMux builds the standard handler used by the service:
// - /api/v1/* for the API
// - CORS per the server config around everything
func NewDefaultMux(server ServerConfig, cfg APIV1Config) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
	})
	if server.DevMode {
		return WithDevCORS(mux)
	}
	return WithAllowedOrigins(server.AllowedOrigins, mux)
}
