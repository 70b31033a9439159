package dialogue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/devmoka/interview-coach/internal/adapters/storage/memory"
	"github.com/devmoka/interview-coach/internal/domain"
)

type staticGenerator struct{}

func (staticGenerator) Generate(ctx context.Context, id domain.SessionID, prompt string) (string, error) {
	return "생성된 텍스트", nil
}

func (s *Service) lockCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

func TestSessionLocksAreReaped(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewSessionStore(), memory.NewHistoryStore(), staticGenerator{})

	// A turn against an unknown id must not leave a lock entry behind.
	if _, err := svc.HandleTurn(ctx, "no-such-id", TurnInput{Message: "hi"}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if n := svc.lockCount(); n != 0 {
		t.Fatalf("probing an unknown id must not grow the lock map, got %d entries", n)
	}

	sess, err := svc.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// A burst of concurrent turns drains back to an empty map.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.HandleTurn(ctx, sess.ID, TurnInput{Message: "hi"}); err != nil {
				t.Errorf("turn failed: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := svc.lockCount(); n != 0 {
		t.Fatalf("lock entries must be released after the turns, got %d", n)
	}

	if err := svc.DeleteSession(ctx, sess.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if n := svc.lockCount(); n != 0 {
		t.Fatalf("lock entries must be released after delete, got %d", n)
	}
}

func TestLockSessionSerializesWaiters(t *testing.T) {
	svc := NewService(memory.NewSessionStore(), memory.NewHistoryStore(), staticGenerator{})

	release := svc.lockSession("s1")

	acquired := make(chan func(), 1)
	go func() {
		acquired <- svc.lockSession("s1")
	}()

	// The waiter keeps the entry referenced while blocked.
	select {
	case <-acquired:
		t.Fatalf("second acquire must block while the lock is held")
	default:
	}
	if n := svc.lockCount(); n != 1 {
		t.Fatalf("held lock must stay in the map, got %d entries", n)
	}

	release()
	second := <-acquired
	second()

	if n := svc.lockCount(); n != 0 {
		t.Fatalf("released lock must be reaped, got %d entries", n)
	}
}
