package memory

import (
	"context"
	"sync"
	"time"

	"github.com/devmoka/interview-coach/internal/domain"
)

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

// Create returns the existing session unmodified when the id is already
// present.
func (s *SessionStore) Create(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, exists := s.sessions[id]; exists {
		return copySession(sess), nil
	}

	now := time.Now()
	sess := &domain.Session{
		ID:        id,
		State:     domain.StateStart,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[id] = sess
	return copySession(sess), nil
}

func (s *SessionStore) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return copySession(sess), nil
}

func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; !exists {
		return domain.ErrSessionNotFound
	}
	s.sessions[session.ID] = copySession(session)
	return nil
}

// Delete is strict: deleting an unknown id is an error, never a silent
// no-op.
func (s *SessionStore) Delete(ctx context.Context, id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[id]; !exists {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// copySession isolates stored records from caller mutation: a session
// handed out by Get can be modified freely without becoming visible
// until Update commits it.
func copySession(in *domain.Session) *domain.Session {
	out := *in
	out.Questions = append([]string(nil), in.Questions...)
	return &out
}
