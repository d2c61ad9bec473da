// Package llm builds slide-outline prompts and sends them to a chat
// completion backend.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultMaxTokens is the completion budget used when a request sets none.
const DefaultMaxTokens = 1000

// CompletionRequest is a single-turn completion.
type CompletionRequest struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// Completer returns the raw text of a completion.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// UpstreamError reports a failed LLM call or a reply that does not have the
// expected shape. Temporary errors are worth retrying.
type UpstreamError struct {
	StatusCode int
	Message    string
	Temporary  bool
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("llm upstream error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
	case e.Err != nil:
		return fmt.Sprintf("llm upstream error: %s: %v", e.Message, e.Err)
	default:
		return "llm upstream error: " + e.Message
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// transportError classifies a failed round trip. Caller cancellation is not
// temporary; deadlines and network failures are.
func transportError(ctx context.Context, err error) *UpstreamError {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &UpstreamError{Message: "request canceled", Err: ctx.Err()}
	}
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return &UpstreamError{Message: "request failed", Temporary: true, Err: err}
}

// retryableStatus reports whether an HTTP status is worth retrying: rate
// limits and server errors.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// HTTPClient calls an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewHTTPClient returns a client for baseURL (for example
// "https://api.openai.com"). A zero timeout leaves requests bounded only by
// their context.
func NewHTTPClient(apiKey, baseURL, model string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends req as one user message and returns the first choice's content.
func (c *HTTPClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	prompt := req.Prompt
	body, err := json.Marshal(chatRequest{
		Model:     model,
		Messages:  []chatMessage{{Role: "user", Content: &prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", transportError(ctx, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
			Temporary:  retryableStatus(resp.StatusCode),
		}
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", &UpstreamError{Message: "decode response", Err: err}
	}
	if apiResp.Error != nil {
		return "", &UpstreamError{Message: fmt.Sprintf("%s: %s", apiResp.Error.Type, apiResp.Error.Message)}
	}
	if len(apiResp.Choices) == 0 {
		return "", &UpstreamError{Message: "response has no choices"}
	}
	msg := apiResp.Choices[0].Message
	if msg == nil {
		return "", &UpstreamError{Message: "choice has no message"}
	}
	if msg.Content == nil {
		return "", &UpstreamError{Message: "message has no content"}
	}
	return *msg.Content, nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() {
	c.httpClient.CloseIdleConnections()
}
