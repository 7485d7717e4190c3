package web

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rook-computer/starmap/internal/constellation"
)

const (
	EnvListenAddr     = "STARMAP_LISTEN"
	EnvDevMode        = "STARMAP_DEV"
	EnvAllowedOrigins = "STARMAP_ALLOWED_ORIGINS"
	EnvStrategy       = "STARMAP_STRATEGY"
	EnvCatalog        = "STARMAP_CATALOG"
)

// ServerConfig contains settings for running the HTTP server.
type ServerConfig struct {
	ListenAddr string
	// DevMode mirrors any Origin; otherwise only AllowedOrigins get CORS headers.
	DevMode        bool
	AllowedOrigins []string
	// Strategy is used when a request names none or an unknown one.
	Strategy constellation.Strategy
	// CatalogPath, when set, replaces the embedded catalog.
	CatalogPath string
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	strategy := constellation.Synthetic
	if raw := os.Getenv(EnvStrategy); raw != "" {
		parsed, ok := constellation.ParseStrategy(raw)
		if !ok {
			return ServerConfig{}, fmt.Errorf("%s must be synthetic or catalog (got %q)", EnvStrategy, raw)
		}
		strategy = parsed
	}

	return ServerConfig{
		ListenAddr:     listenAddr,
		DevMode:        devMode,
		AllowedOrigins: SplitOrigins(os.Getenv(EnvAllowedOrigins)),
		Strategy:       strategy,
		CatalogPath:    strings.TrimSpace(os.Getenv(EnvCatalog)),
	}, nil
}

// SplitOrigins parses a comma separated origin list, dropping blanks and
// trailing slashes.
func SplitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
