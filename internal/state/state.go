// Package state holds the process-wide service state: the lifecycle phase
// and request counters. Rendering never reads it.
package state

import "sync"

type Phase int

const (
	BOOTING Phase = iota
	READY
	STOPPING
)

func (p Phase) String() string {
	switch p {
	case READY:
		return "ready"
	case STOPPING:
		return "stopping"
	default:
		return "booting"
	}
}

// Counters tally handled requests by kind.
type Counters struct {
	Renders    uint64
	Previews   uint64
	References uint64
	Failures   uint64
}

type State struct {
	Phase    Phase
	Counters Counters
}

// Kind names a counted request type.
type Kind int

const (
	KindRender Kind = iota
	KindPreview
	KindReference
)

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// Record counts one successful request of kind k.
func (store *Store) Record(k Kind) {
	store.mu.Lock()
	switch k {
	case KindPreview:
		store.state.Counters.Previews++
	case KindReference:
		store.state.Counters.References++
	default:
		store.state.Counters.Renders++
	}
	store.mu.Unlock()
}

// RecordFailure counts one request that could not be served.
func (store *Store) RecordFailure() {
	store.mu.Lock()
	store.state.Counters.Failures++
	store.mu.Unlock()
}
