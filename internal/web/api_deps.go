package web

import (
	"github.com/rook-computer/starmap/internal/constellation"
	"github.com/rook-computer/starmap/internal/render"
	"github.com/rook-computer/starmap/internal/state"
)

// StatsStore is the part of the service state the API updates and reports.
//
// The concrete implementation is *state.Store.
type StatsStore interface {
	Snapshot() state.State
	Record(k state.Kind)
	RecordFailure()
}

// Logger matches the app logging shape so callers can pass their logger
// without adapters.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

const defaultMaxBodyBytes = 64 << 10

type APIV1Deps struct {
	Renderer render.Renderer
	Stats    StatsStore
	Logger   Logger
	// Strategy replaces a missing or unknown request strategy.
	Strategy constellation.Strategy
	// MaxBodyBytes caps request bodies; zero means 64 KiB.
	MaxBodyBytes int64
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Renderer == nil {
		out.Renderer = render.NewCatalogRenderer(nil)
	}
	if out.Stats == nil {
		out.Stats = state.NewStore()
	}
	if out.Logger == nil {
		out.Logger = noopLogger{}
	}
	if out.MaxBodyBytes <= 0 {
		out.MaxBodyBytes = defaultMaxBodyBytes
	}
	return out
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}
