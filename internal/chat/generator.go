package chat

import (
	"context"

	"github.com/ppiankov/studyprep/internal/model"
	"github.com/ppiankov/studyprep/internal/selector"
)

// Reply is the primary answer produced for a question
type Reply struct {
	Text         string
	Citation     string
	Disclaimer   string
	NoDisclaimer bool
}

// ReplyFromEntry copies the presentation fields of a canned entry
func ReplyFromEntry(entry model.ResponseEntry) Reply {
	return Reply{
		Text:         entry.Response,
		Citation:     entry.Citation,
		Disclaimer:   entry.Disclaimer,
		NoDisclaimer: entry.NoDisclaimer,
	}
}

// Generator produces the primary reply for a classified question
type Generator interface {
	Generate(ctx context.Context, topic model.Topic, input string) (Reply, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, topic model.Topic, input string) (Reply, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, topic model.Topic, input string) (Reply, error) {
	return f(ctx, topic, input)
}

// CannedGenerator answers with the catalog entry chosen by the selector
type CannedGenerator struct {
	selector *selector.Selector
}

// NewCannedGenerator creates a generator over the selector's catalog
func NewCannedGenerator(s *selector.Selector) *CannedGenerator {
	return &CannedGenerator{selector: s}
}

// Generate returns the selected canned entry
func (g *CannedGenerator) Generate(ctx context.Context, topic model.Topic, input string) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	return ReplyFromEntry(g.selector.SelectResponse(topic, input)), nil
}
