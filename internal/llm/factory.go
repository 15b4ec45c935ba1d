package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/studyprep/internal/model"
)

// OllamaBaseURL is the OpenAI-compatible endpoint of a local Ollama server
const OllamaBaseURL = "http://localhost:11434/v1"

// NewProvider creates a provider by name. It returns nil when generation is
// left to the catalog.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "", "canned", "none":
		return nil, nil

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		if config.BaseURL == "" {
			config.BaseURL = OllamaBaseURL
		}
		if config.APIKey == "" {
			// Ollama ignores the key but the client requires one
			config.APIKey = "ollama"
		}
		if config.Model == "" {
			config.Model = "llama3.2"
		}
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		p.name = "ollama"
		return p, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: canned, openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(m model.LLMConfig) Config {
	return Config{
		Provider:   m.Provider,
		Model:      m.Model,
		APIKey:     m.APIKey,
		BaseURL:    m.BaseURL,
		Timeout:    m.Timeout,
		MaxTokens:  m.MaxTokens,
		HTTPProxy:  m.HTTPProxy,
		HTTPSProxy: m.HTTPSProxy,
		NoProxy:    m.NoProxy,
	}
}
