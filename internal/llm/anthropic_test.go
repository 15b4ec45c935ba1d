package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newAnthropicServer(t *testing.T, status int, body string, captured *anthropicRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("Expected anthropic-version %s, got %s", anthropicVersion, r.Header.Get("anthropic-version"))
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func newTestAnthropic(t *testing.T, url string) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: url, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return p
}

func TestAnthropicProvider_Rephrase_Success(t *testing.T) {
	var captured anthropicRequest
	server := newAnthropicServer(t, http.StatusOK, `{
		"content": [{"type": "text", "text": "A derivative measures "}, {"type": "text", "text": "instantaneous change."}],
		"model": "claude-3-5-haiku-20241022",
		"usage": {"input_tokens": 40, "output_tokens": 10}
	}`, &captured)
	defer server.Close()

	resp, err := newTestAnthropic(t, server.URL).Rephrase(context.Background(), RephraseRequest{
		Topic:     "calculus",
		Question:  "what is a derivative?",
		Reference: "The derivative is the rate of change.",
	})
	if err != nil {
		t.Fatalf("Rephrase failed: %v", err)
	}

	if resp.Text != "A derivative measures instantaneous change." {
		t.Errorf("unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 50 {
		t.Errorf("expected 50 tokens, got %d", resp.TokensUsed)
	}
	if captured.Model != anthropicDefaultModel {
		t.Errorf("expected default model, got %s", captured.Model)
	}
	if captured.MaxTokens != 600 {
		t.Errorf("expected 600 max tokens, got %d", captured.MaxTokens)
	}
	if captured.System != systemPrompt {
		t.Error("expected tutor system prompt")
	}
	if len(captured.Messages) != 1 || !strings.Contains(captured.Messages[0].Content, "The derivative is the rate of change.") {
		t.Errorf("expected reference in prompt, got %+v", captured.Messages)
	}
}

func TestAnthropicProvider_Rephrase_RejectsURL(t *testing.T) {
	server := newAnthropicServer(t, http.StatusOK, `{
		"content": [{"type": "text", "text": "See https://example.com/derivatives for more."}],
		"model": "m"
	}`, nil)
	defer server.Close()

	_, err := newTestAnthropic(t, server.URL).Rephrase(context.Background(), RephraseRequest{Reference: "r"})
	if !errors.Is(err, ErrURLInReply) {
		t.Errorf("expected ErrURLInReply, got %v", err)
	}
}

func TestAnthropicProvider_Rephrase_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "api error",
			status:  http.StatusUnauthorized,
			body:    `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
			wantMsg: "invalid x-api-key",
		},
		{
			name:    "plain error body",
			status:  http.StatusBadGateway,
			body:    `upstream down`,
			wantMsg: "upstream down",
		},
		{
			name:    "empty content",
			status:  http.StatusOK,
			body:    `{"content": [], "model": "m"}`,
			wantMsg: "empty response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newAnthropicServer(t, tt.status, tt.body, nil)
			defer server.Close()

			_, err := newTestAnthropic(t, server.URL).Rephrase(context.Background(), RephraseRequest{Reference: "r"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestAnthropicProvider_IsAvailable(t *testing.T) {
	ok := newAnthropicServer(t, http.StatusOK, `{"content": [{"type":"text","text":"hi"}]}`, nil)
	defer ok.Close()
	if !newTestAnthropic(t, ok.URL).IsAvailable(context.Background()) {
		t.Error("expected provider to be available")
	}

	bad := newAnthropicServer(t, http.StatusUnauthorized, `{}`, nil)
	defer bad.Close()
	if newTestAnthropic(t, bad.URL).IsAvailable(context.Background()) {
		t.Error("expected provider to be unavailable")
	}
}
