package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/devmoka/interview-coach/internal/domain"
)

// SessionStore implements domain.SessionStore on Redis. Sessions are
// stored as JSON blobs under <prefix>session:<id>.
type SessionStore struct {
	client *backend.Client
	cfg    config
}

func NewSessionStore(client *backend.Client, opts ...Option) *SessionStore {
	return &SessionStore{client: client, cfg: newConfig(opts)}
}

func (s *SessionStore) key(id domain.SessionID) string {
	return s.cfg.prefix + "session:" + string(id)
}

func (s *SessionStore) Create(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	existing, err := s.Get(ctx, id)
	if err == nil {
		return existing, nil
	}
	if err != domain.ErrSessionNotFound {
		return nil, err
	}

	now := time.Now()
	sess := &domain.Session{
		ID:        id,
		State:     domain.StateStart,
		CreatedAt: now,
		UpdatedAt: now,
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	created, err := s.client.SetNX(ctx, s.key(id), data, s.cfg.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis create session: %w", err)
	}
	if !created {
		// Raced with another creator: the winner's record stands.
		return s.Get(ctx, id)
	}
	return sess, nil
}

func (s *SessionStore) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// SetXX only writes existing keys, which keeps Update strict.
	updated, err := s.client.SetXX(ctx, s.key(session.ID), data, s.cfg.ttl).Result()
	if err != nil {
		return fmt.Errorf("redis update session: %w", err)
	}
	if !updated {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id domain.SessionID) error {
	deleted, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	if deleted == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
