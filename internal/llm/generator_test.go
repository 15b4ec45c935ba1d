package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/studyprep/internal/cache"
	"github.com/ppiankov/studyprep/internal/catalog"
	"github.com/ppiankov/studyprep/internal/model"
	"github.com/ppiankov/studyprep/internal/selector"
)

// MockProvider is a mock LLM provider for testing
type MockProvider struct {
	Label string
	Text  string
	Err   error
	Calls []RephraseRequest
}

func (m *MockProvider) Name() string {
	if m.Label != "" {
		return m.Label
	}
	return "mock"
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool { return true }

func (m *MockProvider) Rephrase(ctx context.Context, req RephraseRequest) (*RephraseResponse, error) {
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return &RephraseResponse{Text: m.Text, Model: "mock-1"}, nil
}

func newTestSelector() *selector.Selector {
	return selector.New(catalog.Default(), selector.DefaultThreshold)
}

func TestGenerator_KeepsCitationAndDisclaimer(t *testing.T) {
	sel := newTestSelector()
	mock := &MockProvider{Text: "Rephrased derivative answer"}
	g := NewGenerator(mock, sel)

	reply, err := g.Generate(context.Background(), model.TopicCalculus, "What is a derivative?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	entry := sel.SelectResponse(model.TopicCalculus, "What is a derivative?")
	if reply.Text != "Rephrased derivative answer" {
		t.Errorf("unexpected text: %q", reply.Text)
	}
	if reply.Citation != entry.Citation || reply.Disclaimer != entry.Disclaimer {
		t.Errorf("expected entry presentation fields, got %+v", reply)
	}

	if len(mock.Calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(mock.Calls))
	}
	if mock.Calls[0].Reference != entry.Response {
		t.Error("provider should receive the selected entry as reference")
	}
	if mock.Calls[0].Topic != "calculus" {
		t.Errorf("unexpected topic: %s", mock.Calls[0].Topic)
	}
}

func TestGenerator_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	g := NewGenerator(&MockProvider{Err: boom}, newTestSelector())

	_, err := g.Generate(context.Background(), model.TopicPhysics, "force")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestGenerator_CachesReplies(t *testing.T) {
	mock := &MockProvider{Text: "cached answer"}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	g := NewGenerator(mock, newTestSelector(), WithCache(c, time.Minute))

	for _, q := range []string{"What is DNA?", "  what is   dna? "} {
		reply, err := g.Generate(context.Background(), model.TopicBiology, q)
		if err != nil {
			t.Fatalf("Generate(%q) failed: %v", q, err)
		}
		if reply.Text != "cached answer" {
			t.Errorf("unexpected text: %q", reply.Text)
		}
	}

	if len(mock.Calls) != 1 {
		t.Errorf("expected second question to hit the cache, got %d provider calls", len(mock.Calls))
	}

	if _, err := g.Generate(context.Background(), model.TopicPhysics, "What is DNA?"); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(mock.Calls) != 2 {
		t.Errorf("expected a different topic to miss the cache, got %d calls", len(mock.Calls))
	}
}

func TestGenerator_CacheKeyedByProviderModelAndReference(t *testing.T) {
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	question := "What is DNA?"
	ask := func(g *Generator) string {
		t.Helper()
		reply, err := g.Generate(context.Background(), model.TopicBiology, question)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		return reply.Text
	}

	first := &MockProvider{Label: "openai", Text: "from gpt-4o-mini"}
	ask(NewGenerator(first, newTestSelector(), WithCache(c, time.Minute), WithModel("gpt-4o-mini")))

	otherModel := &MockProvider{Label: "openai", Text: "from gpt-4o"}
	if got := ask(NewGenerator(otherModel, newTestSelector(), WithCache(c, time.Minute), WithModel("gpt-4o"))); got != "from gpt-4o" {
		t.Errorf("model change reused a cached reply: %q", got)
	}

	otherProvider := &MockProvider{Label: "anthropic", Text: "from claude"}
	if got := ask(NewGenerator(otherProvider, newTestSelector(), WithCache(c, time.Minute), WithModel("gpt-4o-mini"))); got != "from claude" {
		t.Errorf("provider change reused a cached reply: %q", got)
	}

	def := catalog.DefaultDefinition()
	for i := range def.Topics {
		if def.Topics[i].Name != model.TopicBiology {
			continue
		}
		for j := range def.Topics[i].Responses {
			def.Topics[i].Responses[j].Response += " Revised for the new syllabus."
		}
	}
	edited, err := catalog.New(def)
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}
	revised := &MockProvider{Label: "openai", Text: "from the revised entry"}
	sel := selector.New(edited, selector.DefaultThreshold)
	if got := ask(NewGenerator(revised, sel, WithCache(c, time.Minute), WithModel("gpt-4o-mini"))); got != "from the revised entry" {
		t.Errorf("catalog edit reused a cached reply: %q", got)
	}

	again := &MockProvider{Label: "openai", Text: "should not be called"}
	if got := ask(NewGenerator(again, newTestSelector(), WithCache(c, time.Minute), WithModel("gpt-4o-mini"))); got != "from gpt-4o-mini" {
		t.Errorf("expected cache hit for unchanged provider and model, got %q", got)
	}
	if len(again.Calls) != 0 {
		t.Errorf("expected no provider call on a cache hit, got %d", len(again.Calls))
	}
	if len(first.Calls) != 1 || first.Calls[0].Model != "gpt-4o-mini" {
		t.Errorf("expected configured model in request, got %+v", first.Calls)
	}
}
