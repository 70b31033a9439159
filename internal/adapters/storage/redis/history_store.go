package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"

	"github.com/devmoka/interview-coach/internal/domain"
)

// HistoryStore implements domain.HistoryStore on Redis. Histories are
// lists of JSON-encoded messages under <prefix>history:<id>.
type HistoryStore struct {
	client *backend.Client
	cfg    config
}

func NewHistoryStore(client *backend.Client, opts ...Option) *HistoryStore {
	return &HistoryStore{client: client, cfg: newConfig(opts)}
}

func (s *HistoryStore) key(id domain.SessionID) string {
	return s.cfg.prefix + "history:" + string(id)
}

// GetOrCreate never errors on a missing id; an absent list reads as
// empty and materializes on first append.
func (s *HistoryStore) GetOrCreate(ctx context.Context, id domain.SessionID) ([]domain.Message, error) {
	vals, err := s.client.LRange(ctx, s.key(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get history: %w", err)
	}

	msgs := make([]domain.Message, 0, len(vals))
	for _, v := range vals {
		var msg domain.Message
		if err := json.Unmarshal([]byte(v), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (s *HistoryStore) Append(ctx context.Context, id domain.SessionID, msgs ...domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	payloads := make([]interface{}, 0, len(msgs))
	for _, msg := range msgs {
		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		payloads = append(payloads, data)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.key(id), payloads...)
	if s.cfg.ttl > 0 {
		pipe.Expire(ctx, s.key(id), s.cfg.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append history: %w", err)
	}
	return nil
}

// Delete silently succeeds for unknown ids.
func (s *HistoryStore) Delete(ctx context.Context, id domain.SessionID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("redis delete history: %w", err)
	}
	return nil
}
