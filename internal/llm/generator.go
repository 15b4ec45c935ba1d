package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/studyprep/internal/cache"
	"github.com/ppiankov/studyprep/internal/chat"
	"github.com/ppiankov/studyprep/internal/model"
	"github.com/ppiankov/studyprep/internal/selector"
)

// Generator answers with a model rephrasing of the selected catalog entry
type Generator struct {
	provider Provider
	selector *selector.Selector
	model    string
	cache    cache.Cache
	ttl      time.Duration
	logger   *zap.SugaredLogger
}

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithCache memoizes replies; a nil cache disables memoization
func WithCache(c cache.Cache, ttl time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.cache = c
		g.ttl = ttl
	}
}

// WithModel sets the model requested from the provider; empty keeps the provider default
func WithModel(name string) GeneratorOption {
	return func(g *Generator) { g.model = name }
}

// WithLogger sets the generator logger
func WithLogger(l *zap.SugaredLogger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGenerator wraps a provider as a chat generator
func NewGenerator(p Provider, s *selector.Selector, opts ...GeneratorOption) *Generator {
	g := &Generator{
		provider: p,
		selector: s,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ chat.Generator = (*Generator)(nil)

// Generate rephrases the catalog entry for input. The entry's citation and
// disclaimer are kept as they are.
func (g *Generator) Generate(ctx context.Context, topic model.Topic, input string) (chat.Reply, error) {
	entry := g.selector.SelectResponse(topic, input)
	reply := chat.ReplyFromEntry(entry)

	// A cached reply is only reused for the same model and reference text
	key := cache.Key(g.provider.Name(), g.model, string(topic), entry.Response, input)
	if g.cache != nil {
		if data, ok := g.cache.Get(key); ok {
			var cached string
			if err := json.Unmarshal(data, &cached); err == nil && cached != "" {
				g.logger.Debugw("reply cache hit", "topic", topic)
				reply.Text = cached
				return reply, nil
			}
		}
	}

	resp, err := g.provider.Rephrase(ctx, RephraseRequest{
		Topic:     string(topic),
		Question:  input,
		Reference: entry.Response,
		Model:     g.model,
	})
	if err != nil {
		return chat.Reply{}, fmt.Errorf("rephrase %s answer: %w", topic, err)
	}

	g.logger.Debugw("reply generated",
		"provider", g.provider.Name(),
		"model", resp.Model,
		"tokens", resp.TokensUsed,
	)

	if g.cache != nil {
		data, _ := json.Marshal(resp.Text)
		if err := g.cache.Set(key, data, g.ttl); err != nil {
			g.logger.Warnw("cache reply", "error", err)
		}
	}

	reply.Text = resp.Text
	return reply, nil
}
