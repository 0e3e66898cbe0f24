package server

import (
	"errors"
	"sync"

	"snake-arcade/game"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Session is one game served over HTTP. mu serialises every access to the
// game, which is not safe for concurrent use on its own.
type Session struct {
	ID  string
	hub *Broadcaster

	mu   sync.Mutex
	game *game.Game
}

// With runs fn while holding the session lock.
func (s *Session) With(fn func(g *game.Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

// Store holds the live sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create starts a game and registers it under a fresh id.
func (st *Store) Create(opts game.Options) *Session {
	g := game.New(opts)
	g.Start()
	s := &Session{
		ID:   uuid.NewString(),
		hub:  NewBroadcaster(),
		game: g,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete drops a session and closes every stream subscribed to it.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.hub.Close()
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
