// Package gemini is a thin HTTP wrapper around the Gemini generateContent
// endpoint: one prompt in, one text completion out. It knows nothing about
// SQL or expenses.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL targets the flash model; overridable for tests and
	// model upgrades.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash-001:generateContent"

	defaultTimeout = 30 * time.Second
)

// ErrEmptyCompletion reports a 2xx response that carried no candidate text.
var ErrEmptyCompletion = errors.New("completion response contained no candidates")

// StatusError is a non-2xx reply from the API. The status code is preserved
// so callers can surface it verbatim.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini API returned status %d: %s", e.Code, e.Body)
}

// HTTPStatus implements the status accessor callers match with errors.As.
func (e *StatusError) HTTPStatus() int { return e.Code }

// Request/response shapes for the generateContent wire format.
type (
	requestPart    struct{ Text string `json:"text"` }
	requestContent struct {
		Parts []requestPart `json:"parts"`
		Role  string        `json:"role,omitempty"`
	}
	generateRequest struct {
		Contents []requestContent `json:"contents"`
	}

	responsePart    struct{ Text string `json:"text"` }
	responseContent struct {
		Parts []responsePart `json:"parts"`
	}
	candidate struct {
		Content responseContent `json:"content"`
	}
	generateResponse struct {
		Candidates []candidate `json:"candidates"`
	}
)

type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different endpoint (tests, other
// models).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Complete sends prompt and returns the first candidate's text verbatim.
// ctx bounds the round trip; a cancelled context aborts the request.
func (c *Client) Complete(ctx context.Context, prompt, apiKey string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", errors.New("missing API key")
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Role: "user", Parts: []requestPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+apiKey, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.WarnContext(ctx, "Gemini API error",
			"status", resp.StatusCode,
			"body_size", len(body))
		return "", &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}
