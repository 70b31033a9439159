package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/devmoka/interview-coach/internal/domain"
)

// SessionStore implements domain.SessionStore on a Firestore "sessions"
// collection, one document per session id.
type SessionStore struct {
	client *firestore.Client
}

func NewSessionStore(client *firestore.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) doc(id domain.SessionID) *firestore.DocumentRef {
	return s.client.Collection("sessions").Doc(string(id))
}

type sessionDoc struct {
	State        string    `firestore:"state"`
	Career       string    `firestore:"career"`
	JobDuties    string    `firestore:"job_duties"`
	TechSkills   string    `firestore:"tech_skills"`
	LongText     string    `firestore:"long_text"`
	Summary      string    `firestore:"summary"`
	Concern      string    `firestore:"concern"`
	Questions    []string  `firestore:"questions"`
	LearningPath string    `firestore:"learning_path"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func toSessionDoc(sess *domain.Session) sessionDoc {
	return sessionDoc{
		State:        string(sess.State),
		Career:       sess.Career,
		JobDuties:    sess.JobDuties,
		TechSkills:   sess.TechSkills,
		LongText:     sess.LongText,
		Summary:      sess.Summary,
		Concern:      sess.Concern,
		Questions:    sess.Questions,
		LearningPath: sess.LearningPath,
		CreatedAt:    sess.CreatedAt,
		UpdatedAt:    sess.UpdatedAt,
	}
}

func fromSessionDoc(id domain.SessionID, doc sessionDoc) *domain.Session {
	return &domain.Session{
		ID:           id,
		State:        domain.State(doc.State),
		Career:       doc.Career,
		JobDuties:    doc.JobDuties,
		TechSkills:   doc.TechSkills,
		LongText:     doc.LongText,
		Summary:      doc.Summary,
		Concern:      doc.Concern,
		Questions:    doc.Questions,
		LearningPath: doc.LearningPath,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func (s *SessionStore) Create(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	now := time.Now()
	sess := &domain.Session{
		ID:        id,
		State:     domain.StateStart,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.doc(id).Create(ctx, toSessionDoc(sess))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return s.Get(ctx, id)
		}
		return nil, fmt.Errorf("firestore create session: %w", err)
	}
	return sess, nil
}

func (s *SessionStore) Get(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	snap, err := s.doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore get session: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore get session decode: %w", err)
	}
	return fromSessionDoc(id, doc), nil
}

func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	// Set would upsert; check existence first to keep Update strict.
	if _, err := s.Get(ctx, session.ID); err != nil {
		return err
	}

	if _, err := s.doc(session.ID).Set(ctx, toSessionDoc(session)); err != nil {
		return fmt.Errorf("firestore update session: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id domain.SessionID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if _, err := s.doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete session: %w", err)
	}
	return nil
}
