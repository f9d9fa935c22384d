package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playwave/tunequiz/internal/tunequiz"
)

// Registry maps bearer tokens to participants for the lifetime of the
// process. Session state is transient by design — nothing here survives a
// restart.
type Registry struct {
	mu       sync.RWMutex
	byToken  map[string]tunequiz.Participant
	joinedAt map[string]time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		byToken:  make(map[string]tunequiz.Participant),
		joinedAt: make(map[string]time.Time),
	}
}

// Join registers a participant and returns their bearer token.
func (r *Registry) Join(name string) (string, tunequiz.Participant) {
	p := tunequiz.Participant{ID: uuid.NewString(), Name: name}
	token := uuid.NewString()

	r.mu.Lock()
	r.byToken[token] = p
	r.joinedAt[token] = time.Now()
	r.mu.Unlock()

	return token, p
}

// Lookup resolves a bearer token.
func (r *Registry) Lookup(token string) (tunequiz.Participant, bool) {
	r.mu.RLock()
	p, ok := r.byToken[token]
	r.mu.RUnlock()
	return p, ok
}
