package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/devmoka/interview-coach/internal/domain"
)

// HistoryStore implements domain.HistoryStore on a "histories"
// collection with a "messages" subcollection per session id.
type HistoryStore struct {
	client *firestore.Client
}

func NewHistoryStore(client *firestore.Client) *HistoryStore {
	return &HistoryStore{client: client}
}

func (s *HistoryStore) messages(id domain.SessionID) *firestore.CollectionRef {
	return s.client.Collection("histories").Doc(string(id)).Collection("messages")
}

type messageDoc struct {
	Role      string    `firestore:"role"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (s *HistoryStore) GetOrCreate(ctx context.Context, id domain.SessionID) ([]domain.Message, error) {
	iter := s.messages(id).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []domain.Message
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore get history: %w", err)
		}

		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}

		out = append(out, domain.Message{
			Role:      domain.Role(doc.Role),
			Text:      doc.Text,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

func (s *HistoryStore) Append(ctx context.Context, id domain.SessionID, msgs ...domain.Message) error {
	for _, msg := range msgs {
		doc := messageDoc{
			Role:      string(msg.Role),
			Text:      msg.Text,
			CreatedAt: msg.CreatedAt,
		}
		if _, err := s.messages(id).NewDoc().Set(ctx, doc); err != nil {
			return fmt.Errorf("firestore append message: %w", err)
		}
	}
	return nil
}

// Delete removes every stored message; a missing history is a no-op.
func (s *HistoryStore) Delete(ctx context.Context, id domain.SessionID) error {
	iter := s.messages(id).Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return fmt.Errorf("firestore delete history: %w", err)
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("firestore delete message: %w", err)
		}
	}

	if _, err := s.client.Collection("histories").Doc(string(id)).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete history doc: %w", err)
	}
	return nil
}
