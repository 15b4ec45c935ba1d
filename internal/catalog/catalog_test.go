package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/studyprep/internal/model"
)

func TestDefault_TopicOrder(t *testing.T) {
	c := Default()

	expected := []model.Topic{
		model.TopicCalculus,
		model.TopicBiology,
		model.TopicPhysics,
		model.TopicChemistry,
		model.TopicAlgebra,
		model.TopicGeometry,
	}

	topics := c.Topics()
	if len(topics) != len(expected) {
		t.Fatalf("expected %d topics, got %d", len(expected), len(topics))
	}
	for i, topic := range topics {
		if topic != expected[i] {
			t.Errorf("expected topic %s at index %d, got %s", expected[i], i, topic)
		}
	}
}

func TestDefault_GeneralNotClassifiable(t *testing.T) {
	for _, topic := range Default().Topics() {
		if topic == model.TopicGeneral {
			t.Fatal("general must not take part in classification")
		}
	}
	if !Default().Has(model.TopicGeneral) {
		t.Fatal("expected general topic to be defined")
	}
}

func TestCatalog_KeywordsLowerCased(t *testing.T) {
	def := Definition{
		Topics: []TopicDefinition{
			{Name: "Calculus", Keywords: []string{"  Derivative ", ""}},
			{Name: model.TopicGeneral, Responses: []model.ResponseEntry{{Response: "hi"}}},
		},
	}

	c, err := New(def)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	kws := c.Keywords(model.TopicCalculus)
	if len(kws) != 1 || kws[0] != "derivative" {
		t.Errorf("expected [derivative], got %v", kws)
	}
}

func TestCatalog_ResponsesFallBackToGeneral(t *testing.T) {
	def := Definition{
		Topics: []TopicDefinition{
			{Name: model.TopicGeometry, Keywords: []string{"triangle"}},
			{Name: model.TopicGeneral, Responses: []model.ResponseEntry{{Response: "general answer"}}},
		},
	}

	c, err := New(def)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, topic := range []model.Topic{model.TopicGeometry, "unknown"} {
		resp := c.Responses(topic)
		if len(resp) != 1 || resp[0].Response != "general answer" {
			t.Errorf("%s: expected general responses, got %v", topic, resp)
		}
	}
}

func TestCatalog_ResponsesAreCopies(t *testing.T) {
	c := Default()

	resp := c.Responses(model.TopicCalculus)
	resp[0].Response = "mutated"
	resp[0].Keywords[0] = "mutated"

	again := c.Responses(model.TopicCalculus)
	if again[0].Response == "mutated" || again[0].Keywords[0] == "mutated" {
		t.Error("catalog entries must not be mutable through returned slices")
	}
}

func TestCatalog_Verification(t *testing.T) {
	c := Default()

	v := c.Verification(model.TopicPhysics)
	if v.Topic != model.TopicPhysics {
		t.Errorf("expected physics verification, got %s", v.Topic)
	}
	if len(v.Responses) != 3 {
		t.Errorf("expected 3 physics candidates, got %d", len(v.Responses))
	}
	if len(v.Verifiers) != 5 {
		t.Errorf("expected 5 verifiers, got %d", len(v.Verifiers))
	}

	// Chemistry is verifiable but has no pool of its own
	v = c.Verification(model.TopicChemistry)
	if v.Topic != model.TopicGeneral {
		t.Errorf("expected chemistry to fall back to general, got %s", v.Topic)
	}
}

func TestCatalog_IsVerifiable(t *testing.T) {
	c := Default()

	tests := []struct {
		topic    model.Topic
		expected bool
	}{
		{model.TopicCalculus, true},
		{model.TopicPhysics, true},
		{model.TopicChemistry, true},
		{model.TopicBiology, true},
		{model.TopicAlgebra, false},
		{model.TopicGeometry, false},
		{model.TopicGeneral, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic), func(t *testing.T) {
			if got := c.IsVerifiable(tt.topic); got != tt.expected {
				t.Errorf("IsVerifiable(%s) = %v, want %v", tt.topic, got, tt.expected)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	general := TopicDefinition{Name: model.TopicGeneral, Responses: []model.ResponseEntry{{Response: "hi"}}}

	tests := []struct {
		desc    string
		def     Definition
		wantErr error
	}{
		{
			desc:    "no classifiable topics",
			def:     Definition{Topics: []TopicDefinition{general}},
			wantErr: ErrNoTopics,
		},
		{
			desc: "missing general",
			def: Definition{Topics: []TopicDefinition{
				{Name: model.TopicCalculus, Keywords: []string{"limit"}},
			}},
			wantErr: ErrNoFallback,
		},
		{
			desc: "duplicate topic",
			def: Definition{Topics: []TopicDefinition{
				{Name: model.TopicCalculus, Keywords: []string{"limit"}},
				{Name: model.TopicCalculus, Keywords: []string{"integral"}},
				general,
			}},
		},
		{
			desc: "verifiable without verifiers",
			def: Definition{
				Topics: []TopicDefinition{
					{Name: model.TopicCalculus, Keywords: []string{"limit"}},
					general,
				},
				Verifiable:    []model.Topic{model.TopicCalculus},
				Verifications: map[model.Topic][]string{model.TopicGeneral: {"ok"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			_, err := New(tt.def)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoad_DumpedDefinition(t *testing.T) {
	data, err := Dump()
	if err != nil {
		t.Fatalf("Dump failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(c.Topics()) != len(Default().Topics()) {
		t.Errorf("expected %d topics, got %d", len(Default().Topics()), len(c.Topics()))
	}
	if !c.IsVerifiable(model.TopicCalculus) {
		t.Error("expected calculus to stay verifiable after reload")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	if _, err := Load("no_such_catalog.yaml"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("topics: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML, got nil")
	}
}

func TestLoadOrDefault_Empty(t *testing.T) {
	c, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if c != Default() {
		t.Error("expected built-in catalog for empty path")
	}
}
