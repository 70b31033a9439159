package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/devmoka/interview-coach/internal/domain"
	"github.com/devmoka/interview-coach/internal/observability"
)

// DefaultHistoryLimit caps how many recent history messages are fed to
// the model per request. 0 disables the window.
const DefaultHistoryLimit = 40

// Client is the generation collaborator boundary: it feeds a session's
// conversation history to the text generator and records the exchange
// back into the history store.
type Client struct {
	gen     domain.TextGenerator
	history domain.HistoryStore

	system       string
	historyLimit int
	timeout      time.Duration
	now          func() time.Time
}

type Option func(*Client)

// WithSystemPrompt sets the system prompt sent on every request.
func WithSystemPrompt(system string) Option {
	return func(c *Client) {
		c.system = system
	}
}

// WithHistoryLimit sets the sliding window of most-recent messages
// included per request. 0 means unlimited.
func WithHistoryLimit(n int) Option {
	return func(c *Client) {
		c.historyLimit = n
	}
}

// WithTimeout bounds each generation call. 0 leaves only the caller's
// deadline in effect.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func NewClient(gen domain.TextGenerator, history domain.HistoryStore, opts ...Option) *Client {
	c := &Client{
		gen:          gen,
		history:      history,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate runs one generation request for the session: load history,
// call the generator, then append the prompt and the response in order.
// The history is extended only after a successful call, so a failure
// leaves no partial turn behind and a retry with the same input is safe.
func (c *Client) Generate(ctx context.Context, sessionID domain.SessionID, prompt string) (string, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	history, err := c.history.GetOrCreate(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("loading history: %w", err)
	}
	window := truncate(history, c.historyLimit)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := c.now()
	text, err := c.gen.Generate(ctx, c.system, window, prompt)
	observability.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.GenerationRequests.WithLabelValues("error").Inc()
		log.Error("generation call failed", "error", err)
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	if text == "" {
		observability.GenerationRequests.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: generator returned empty text", domain.ErrGenerationUnavailable)
	}
	observability.GenerationRequests.WithLabelValues("ok").Inc()

	err = c.history.Append(ctx, sessionID,
		domain.Message{Role: domain.RoleUser, Text: prompt, CreatedAt: start},
		domain.Message{Role: domain.RoleAssistant, Text: text, CreatedAt: c.now()},
	)
	if err != nil {
		return "", fmt.Errorf("recording exchange: %w", err)
	}

	return text, nil
}

// truncate keeps the most recent limit messages.
func truncate(history []domain.Message, limit int) []domain.Message {
	if limit > 0 && len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}
