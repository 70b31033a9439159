package dialogue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devmoka/interview-coach/internal/domain"
	"github.com/devmoka/interview-coach/internal/observability"
)

// Generator is the generation collaborator consumed by the state
// machine: prompt in, generated text out, conversation history handled
// behind the boundary.
type Generator interface {
	Generate(ctx context.Context, sessionID domain.SessionID, prompt string) (string, error)
}

// Service drives the intake dialogue: session lifecycle plus the turn
// state machine.
type Service struct {
	sessions  domain.SessionStore
	histories domain.HistoryStore
	gen       Generator
	now       func() time.Time
	newID     func() string

	// Per-session locks serialize concurrent turns on one id; turns on
	// distinct ids never block each other. Entries are reference-counted
	// so the map shrinks back to zero once no turn holds or awaits the
	// lock, including probes against ids that do not exist.
	mu    sync.Mutex
	locks map[domain.SessionID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewService(sessions domain.SessionStore, histories domain.HistoryStore, gen Generator) *Service {
	return &Service{
		sessions:  sessions,
		histories: histories,
		gen:       gen,
		now:       time.Now,
		newID:     uuid.NewString,
		locks:     make(map[domain.SessionID]*sessionLock),
	}
}

// lockSession acquires the per-session lock and returns its release
// function. A waiter holds a reference, so the entry can never be
// dropped and re-minted while a turn is still queued behind it.
func (s *Service) lockSession(id domain.SessionID) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// CreateSession allocates a fresh session id and initializes both
// stores for it.
func (s *Service) CreateSession(ctx context.Context) (*domain.Session, error) {
	id := domain.SessionID(s.newID())

	log := observability.LoggerFromContext(ctx).With("session_id", id)

	sess, err := s.sessions.Create(ctx, id)
	if err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}
	if _, err := s.histories.GetOrCreate(ctx, id); err != nil {
		log.Error("failed to initialize history", "error", err)
		return nil, err
	}

	log.Info("session created")
	return sess, nil
}

// DeleteSession removes a session and its history. History removal is
// tolerant of a missing entry; an unknown session id is an error.
func (s *Service) DeleteSession(ctx context.Context, id domain.SessionID) error {
	unlock := s.lockSession(id)
	defer unlock()

	if err := s.histories.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info("session deleted", "session_id", id)
	return nil
}

// Status is the caller-visible summary of a session.
type Status struct {
	ID            domain.SessionID
	State         domain.State
	HasResumeInfo bool
}

func (s *Service) SessionStatus(ctx context.Context, id domain.SessionID) (*Status, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Status{
		ID:            sess.ID,
		State:         sess.State,
		HasResumeInfo: sess.Career != "" || sess.Summary != "",
	}, nil
}

// HandleTurn is the single multiplexed entry point into the state
// machine. A generation failure propagates before any session mutation
// is committed, so retrying the same turn is safe.
func (s *Service) HandleTurn(ctx context.Context, id domain.SessionID, in TurnInput) (TurnResult, error) {
	unlock := s.lockSession(id)
	defer unlock()

	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return TurnResult{}, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", sess.ID,
		"state", sess.State,
	)
	observability.TurnsTotal.WithLabelValues(string(sess.State)).Inc()

	out, err := s.step(ctx, sess, in)
	if err != nil {
		log.Error("turn failed", "error", err)
		return TurnResult{}, err
	}

	if out.mutated() {
		sess.UpdatedAt = s.now()
		if err := s.sessions.Update(ctx, sess); err != nil {
			log.Error("failed to persist session", "error", err)
			return TurnResult{}, err
		}
	}

	log.Info("turn handled", "next_state", out.Result.State)
	return out.Result, nil
}
