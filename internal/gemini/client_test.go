package gemini

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Query().Get("key") == "" {
			t.Errorf("API key missing from query")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleteSuccess(t *testing.T) {
	srv := newTestServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"SELECT date FROM expenses"}]}}]}`)
	c := NewClient(WithBaseURL(srv.URL))

	got, err := c.Complete(context.Background(), "a prompt", "test-key")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "SELECT date FROM expenses" {
		t.Fatalf("got %q", got)
	}
}

func TestCompleteStatusError(t *testing.T) {
	srv := newTestServer(t, http.StatusTooManyRequests, `{"error":"quota"}`)
	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.Complete(context.Background(), "a prompt", "test-key")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want StatusError", err)
	}
	if se.HTTPStatus() != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", se.HTTPStatus())
	}
}

func TestCompleteEmptyCandidates(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"candidates":[]}`)
	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.Complete(context.Background(), "a prompt", "test-key")
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("got %v, want ErrEmptyCompletion", err)
	}
}

func TestCompleteMissingKey(t *testing.T) {
	c := NewClient()
	if _, err := c.Complete(context.Background(), "a prompt", "  "); err == nil {
		t.Fatalf("expected error for missing key")
	}
}

func TestCompleteContextCancelled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`)
	c := NewClient(WithBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Complete(ctx, "a prompt", "test-key"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
