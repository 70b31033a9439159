package memory

import (
	"context"
	"sync"

	"github.com/devmoka/interview-coach/internal/domain"
)

type HistoryStore struct {
	mu        sync.RWMutex
	histories map[domain.SessionID][]domain.Message
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		histories: make(map[domain.SessionID][]domain.Message),
	}
}

// GetOrCreate never errors; an unknown id yields an empty history.
func (s *HistoryStore) GetOrCreate(ctx context.Context, id domain.SessionID) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.histories[id]; !exists {
		s.histories[id] = []domain.Message{}
	}

	msgs := s.histories[id]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *HistoryStore) Append(ctx context.Context, id domain.SessionID, msgs ...domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.histories[id] = append(s.histories[id], msgs...)
	return nil
}

// Delete silently succeeds even when the id is absent, asymmetric with
// SessionStore.Delete.
func (s *HistoryStore) Delete(ctx context.Context, id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.histories, id)
	return nil
}
