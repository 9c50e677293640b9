package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/andjpython/Jogo-de-damas/internal/config"
)

// Registry holds the live sessions keyed by ID. There is no process-wide
// "current game": every client addresses its own session explicitly, so any
// number of games can run side by side.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg      config.Config
	proposer MoveProposer
	log      zerolog.Logger
}

func NewRegistry(cfg config.Config, proposer MoveProposer, log zerolog.Logger) *Registry {
	return &Registry{
		sessions: map[string]*Session{},
		cfg:      cfg,
		proposer: proposer,
		log:      log,
	}
}

func (r *Registry) Create() *Session {
	s := New(uuid.NewString(), r.cfg, r.proposer, r.log)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
	return s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
