// Package llm rephrases catalog answers through an optional language model.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Rephrase rewrites a reference answer for the student's question
	Rephrase(ctx context.Context, req RephraseRequest) (*RephraseResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// RephraseRequest contains the input for a rephrasing call
type RephraseRequest struct {
	// Topic is the classified subject of the question
	Topic string

	// Question is the student's original input
	Question string

	// Reference is the catalog answer the reply must stay faithful to
	Reference string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model overrides the configured model
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// RephraseResponse contains the model output
type RephraseResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "canned" or ""
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns the disabled configuration
func DefaultConfig() Config {
	return Config{
		Provider:  "canned",
		Timeout:   30,
		MaxTokens: 600,
	}
}

const systemPrompt = "You are a patient study tutor. You explain school material clearly and never invent facts beyond the reference answer you are given."

// BuildPrompt constructs the default rephrasing prompt
func BuildPrompt(req RephraseRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", req.Topic)
	fmt.Fprintf(&b, "Student question: %s\n\n", strings.TrimSpace(req.Question))
	b.WriteString("Reference answer (HTML fragments allowed):\n")
	b.WriteString(req.Reference)
	b.WriteString(`

RULES:
1. Answer the student's question using ONLY the facts in the reference answer.
2. Keep any formulas exactly as written.
3. Do not include links or URLs.
4. Keep it under 120 words. You may use <strong> and <br> tags.`)
	return b.String()
}
