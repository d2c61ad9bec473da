package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected authorization %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Title\n- point"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient("sk-test", srv.URL+"/", "gpt-3.5-turbo", 0)
	defer c.Close()

	out, err := c.Complete(context.Background(), CompletionRequest{Prompt: "make slides"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "Title\n- point" {
		t.Errorf("unexpected content %q", out)
	}
	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("expected default model, got %q", got.Model)
	}
	if got.MaxTokens != DefaultMaxTokens {
		t.Errorf("expected max_tokens %d, got %d", DefaultMaxTokens, got.MaxTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content == nil || *got.Messages[0].Content != "make slides" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestHTTPClientRequestOverrides(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":""}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient("k", srv.URL, "default-model", 0)
	out, err := c.Complete(context.Background(), CompletionRequest{Model: "gpt-4o", Prompt: "p", MaxTokens: 250})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty content, got %q", out)
	}
	if got.Model != "gpt-4o" || got.MaxTokens != 250 {
		t.Errorf("expected overrides, got model=%q max_tokens=%d", got.Model, got.MaxTokens)
	}
}

func TestHTTPClientUpstreamErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		temporary bool
		contains  string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, true, "status 429"},
		{"server error", http.StatusBadGateway, `bad gateway`, true, "status 502"},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad"}}`, false, "status 400"},
		{"unauthorized", http.StatusUnauthorized, ``, false, "status 401"},
		{"missing choices", http.StatusOK, `{}`, false, "no choices"},
		{"empty choices", http.StatusOK, `{"choices":[]}`, false, "no choices"},
		{"missing message", http.StatusOK, `{"choices":[{}]}`, false, "no message"},
		{"missing content", http.StatusOK, `{"choices":[{"message":{"role":"assistant"}}]}`, false, "no content"},
		{"error object", http.StatusOK, `{"error":{"type":"invalid_request_error","message":"nope"}}`, false, "invalid_request_error"},
		{"not json", http.StatusOK, `<html>`, false, "decode response"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewHTTPClient("k", srv.URL, "m", 0)
			_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})

			var upErr *UpstreamError
			if !errors.As(err, &upErr) {
				t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
			}
			if upErr.Temporary != tc.temporary {
				t.Errorf("expected temporary=%v, got %v", tc.temporary, upErr.Temporary)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("expected error to contain %q, got %q", tc.contains, err.Error())
			}
		})
	}
}

func TestHTTPClientDeadlineIsTemporary(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewHTTPClient("k", srv.URL, "m", 0)
	_, err := c.Complete(ctx, CompletionRequest{Prompt: "p"})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
	if !upErr.Temporary {
		t.Error("expected deadline to be temporary")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected error to wrap context.DeadlineExceeded, got %v", err)
	}
}

func TestHTTPClientCanceledIsPermanent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewHTTPClient("k", srv.URL, "m", 0)
	_, err := c.Complete(ctx, CompletionRequest{Prompt: "p"})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *UpstreamError, got %T: %v", err, err)
	}
	if upErr.Temporary {
		t.Error("expected cancellation to be permanent")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected error to wrap context.Canceled, got %v", err)
	}
}

func TestHTTPClientConnectionRefusedIsTemporary(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient("k", url, "m", time.Second)
	_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})

	var upErr *UpstreamError
	if !errors.As(err, &upErr) || !upErr.Temporary {
		t.Fatalf("expected temporary *UpstreamError, got %v", err)
	}
}
