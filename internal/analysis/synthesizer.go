package analysis

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"kharcha/internal/core"
)

// CompletionClient sends a prompt to the remote model and returns its raw
// text completion. Implementations report HTTP-layer failures through an
// error exposing HTTPStatus.
type CompletionClient interface {
	Complete(ctx context.Context, prompt, apiKey string) (string, error)
}

// statusCoder is matched with errors.As to pull an HTTP status out of a
// client error without depending on the client package.
type statusCoder interface {
	HTTPStatus() int
}

// Synthesizer turns a natural-language question into a sanitized SELECT
// statement via the completion client. It holds no mutable state; the clock
// is injectable for tests.
type Synthesizer struct {
	client CompletionClient
	now    func() time.Time
}

func NewSynthesizer(client CompletionClient) *Synthesizer {
	return &Synthesizer{client: client, now: time.Now}
}

// Synthesize produces a validated SQL string for question, or one of the
// typed failures: RemoteServiceError, ErrNotExpenseRelated, InvalidSQLError.
// No retry is attempted; the caller may simply re-ask.
func (s *Synthesizer) Synthesize(ctx context.Context, question, apiKey string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	// "today" is captured exactly once per request and threaded through the
	// prompt, so a request spanning midnight cannot see two dates.
	today := s.now().Format(core.DateLayout)
	prompt := BuildPrompt(question, today)

	raw, err := s.client.Complete(ctx, prompt, apiKey)
	if err != nil {
		var sc statusCoder
		if errors.As(err, &sc) {
			return "", &RemoteServiceError{StatusCode: sc.HTTPStatus(), Err: err}
		}
		return "", &RemoteServiceError{Err: err}
	}

	sanitized, err := SanitizeSQL(raw)
	if err != nil {
		return "", err
	}

	slog.DebugContext(ctx, "SQL synthesized", "today", today, "sql", sanitized)
	return sanitized, nil
}
