package main

import (
	"sync"

	"github.com/rs/zerolog"
)

// Registry is the set of peer addresses with an open connection. It exists
// for logging only. Two connections from the same address share one entry,
// so only the first open and the first close are logged.
type Registry struct {
	mu    sync.Mutex
	peers map[string]struct{}
	log   zerolog.Logger
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		peers: make(map[string]struct{}),
		log:   log,
	}
}

// Open records peer and reports whether it was not already present.
func (r *Registry) Open(peer string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.peers[peer]; ok {
		return false
	}
	r.peers[peer] = struct{}{}
	r.log.Info().Str("peer", peer).Int("open", len(r.peers)).Msg("connection opened")
	return true
}

// Close forgets peer and reports whether it was present.
func (r *Registry) Close(peer string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.peers[peer]; !ok {
		return false
	}
	delete(r.peers, peer)
	r.log.Info().Str("peer", peer).Int("open", len(r.peers)).Msg("connection closed")
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.peers)
}
