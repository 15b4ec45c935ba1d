package selector

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ppiankov/studyprep/internal/catalog"
	"github.com/ppiankov/studyprep/internal/model"
)

// fixedRandom returns the same draw and index every time and counts calls
type fixedRandom struct {
	draw  float64
	index int
	calls int
}

func (r *fixedRandom) Float64() float64 {
	r.calls++
	return r.draw
}

func (r *fixedRandom) IntN(n int) int {
	r.calls++
	if r.index >= n {
		return n - 1
	}
	return r.index
}

func newDefaultSelector() *Selector {
	return New(catalog.Default(), DefaultThreshold)
}

func TestSelector_Classify_EveryKeyword(t *testing.T) {
	s := newDefaultSelector()
	c := catalog.Default()

	for _, topic := range c.Topics() {
		for _, kw := range c.Keywords(topic) {
			for _, input := range []string{kw, "Q: " + strings.ToUpper(kw) + "?"} {
				if got := s.Classify(input); got != topic {
					t.Errorf("Classify(%q) = %s, want %s", input, got, topic)
				}
			}
		}
	}
}

func TestSelector_Classify(t *testing.T) {
	s := newDefaultSelector()

	tests := []struct {
		input    string
		expected model.Topic
		desc     string
	}{
		{"What is a derivative?", model.TopicCalculus, "derivative question"},
		{"Explain the FUNDAMENTAL THEOREM of calculus", model.TopicCalculus, "upper case input"},
		{"How does DNA replicate?", model.TopicBiology, "biology keyword"},
		{"What is Newton's second law of force?", model.TopicPhysics, "physics keyword"},
		{"How do atoms form a bond?", model.TopicChemistry, "chemistry keyword"},
		{"Solve this quadratic", model.TopicAlgebra, "algebra keyword"},
		{"Prove the triangle theorem", model.TopicGeometry, "theorem alone is geometry"},
		{"What is the integral of a wave?", model.TopicCalculus, "priority order wins"},
		{"tell me about friendship", model.TopicGeneral, "no keyword"},
		{"", model.TopicGeneral, "empty input"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := s.Classify(tt.input); got != tt.expected {
				t.Errorf("Classify(%q) = %s, want %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSelector_Classify_Deterministic(t *testing.T) {
	s := newDefaultSelector()
	input := "cell energy and limits"

	first := s.Classify(input)
	for i := 0; i < 100; i++ {
		if got := s.Classify(input); got != first {
			t.Fatalf("Classify is not deterministic: %s then %s", first, got)
		}
	}
}

func TestSelector_SelectResponse_BelongsToTopic(t *testing.T) {
	s := newDefaultSelector()
	c := catalog.Default()

	inputs := []string{
		"What is a derivative?",
		"integration by parts",
		"tell me about the cell membrane",
		"genetics",
		"energy conservation",
		"ionic bond",
		"polynomial roots",
		"angle sum",
		"tell me about friendship",
		"random words",
	}

	for _, input := range inputs {
		topic := s.Classify(input)
		entry := s.SelectResponse(topic, input)

		found := false
		for _, candidate := range c.Responses(topic) {
			if candidate.Response == entry.Response {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("SelectResponse(%s, %q) returned an entry outside the topic's set", topic, input)
		}
	}
}

func TestSelector_SelectResponse_Derivative(t *testing.T) {
	s := newDefaultSelector()
	input := "What is a derivative?"

	topic := s.Classify(input)
	if topic != model.TopicCalculus {
		t.Fatalf("expected calculus, got %s", topic)
	}

	entry := s.SelectResponse(topic, input)
	hasKeyword := false
	for _, kw := range entry.Keywords {
		if kw == "derivative" {
			hasKeyword = true
		}
	}
	if !hasKeyword {
		t.Errorf("expected entry keyed by derivative, got keywords %v", entry.Keywords)
	}
	if entry.Disclaimer == "" {
		t.Error("expected derivative entry to carry a disclaimer")
	}
}

func TestSelector_SelectResponse_KeywordCaseInsensitive(t *testing.T) {
	s := newDefaultSelector()

	// Entry keyword is "FTC" while classification keyword is "fundamental theorem"
	entry := s.SelectResponse(model.TopicCalculus, "calculus ftc please")
	if !strings.Contains(entry.Response, "Fundamental Theorem") {
		t.Errorf("expected FTC entry, got %q", entry.Response)
	}
}

func TestSelector_SelectResponse_FallbackEntry(t *testing.T) {
	s := newDefaultSelector()
	input := "tell me about friendship"

	topic := s.Classify(input)
	entry := s.SelectResponse(topic, input)

	first := catalog.Default().Responses(model.TopicGeneral)[0]
	if entry.Response != first.Response {
		t.Errorf("expected general fallback entry, got %q", entry.Response)
	}

	// No entry keyword matches; the topic's first entry is returned
	entry = s.SelectResponse(model.TopicCalculus, "limits at infinity")
	if entry.Response != catalog.Default().Responses(model.TopicCalculus)[0].Response {
		t.Errorf("expected first calculus entry, got %q", entry.Response)
	}
}

func TestSelector_RequiresVerification_NonVerifiable(t *testing.T) {
	s := newDefaultSelector()

	for _, topic := range []model.Topic{model.TopicAlgebra, model.TopicGeometry, model.TopicGeneral} {
		for _, draw := range []float64{0, 0.3, 0.31, 0.5, 0.7, 0.999} {
			rnd := &fixedRandom{draw: draw}
			if s.RequiresVerification(topic, rnd) {
				t.Errorf("%s must never verify (draw %.3f)", topic, draw)
			}
			if rnd.calls != 0 {
				t.Errorf("%s must not consume a draw", topic)
			}
		}
	}
}

func TestSelector_RequiresVerification_Boundary(t *testing.T) {
	s := New(catalog.Default(), 0.3)

	tests := []struct {
		draw     float64
		expected bool
	}{
		{0.0, false},
		{0.29, false},
		{0.3, false}, // strictly greater is required
		{0.31, true},
		{0.7, true},
		{0.999, true},
	}

	for _, tt := range tests {
		rnd := &fixedRandom{draw: tt.draw}
		if got := s.RequiresVerification(model.TopicCalculus, rnd); got != tt.expected {
			t.Errorf("draw %.2f: got %v, want %v", tt.draw, got, tt.expected)
		}
	}
}

func TestSelector_CustomThreshold(t *testing.T) {
	s := New(catalog.Default(), 0.9)
	if s.RequiresVerification(model.TopicPhysics, &fixedRandom{draw: 0.85}) {
		t.Error("expected draw below custom threshold not to verify")
	}
	if !s.RequiresVerification(model.TopicPhysics, &fixedRandom{draw: 0.95}) {
		t.Error("expected draw above custom threshold to verify")
	}
}

func TestNew_ThresholdBounds(t *testing.T) {
	never := New(catalog.Default(), 1)
	if never.Threshold() != 1 {
		t.Fatalf("expected threshold 1 to be kept, got %v", never.Threshold())
	}
	for _, draw := range []float64{0, 0.31, 0.7, 0.999999} {
		if never.RequiresVerification(model.TopicCalculus, &fixedRandom{draw: draw}) {
			t.Errorf("threshold 1 verified draw %v", draw)
		}
	}

	always := New(catalog.Default(), 0)
	if always.Threshold() != 0 {
		t.Fatalf("expected threshold 0 to be kept, got %v", always.Threshold())
	}
	if !always.RequiresVerification(model.TopicCalculus, &fixedRandom{draw: 0.01}) {
		t.Error("threshold 0 should verify any positive draw")
	}

	for _, threshold := range []float64{-0.1, 1.01, 2, math.NaN()} {
		if s := New(catalog.Default(), threshold); s.Threshold() != DefaultThreshold {
			t.Errorf("threshold %v: expected default, got %v", threshold, s.Threshold())
		}
	}
}

func TestValidateThreshold(t *testing.T) {
	for _, ok := range []float64{0, 0.3, 1} {
		if err := ValidateThreshold(ok); err != nil {
			t.Errorf("ValidateThreshold(%v) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []float64{-0.01, 1.5, math.NaN(), math.Inf(1)} {
		if err := ValidateThreshold(bad); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("ValidateThreshold(%v) = %v, want ErrInvalidThreshold", bad, err)
		}
	}
}

func TestSelector_SelectVerification(t *testing.T) {
	s := newDefaultSelector()
	entry := catalog.Default().Verification(model.TopicBiology)

	v := s.SelectVerification(model.TopicBiology, &fixedRandom{index: 1})
	if v.Text != entry.Responses[1] {
		t.Errorf("expected candidate 1, got %q", v.Text)
	}
	if v.Verifier != entry.Verifiers[1] {
		t.Errorf("expected verifier 1, got %q", v.Verifier)
	}
	if v.Topic != model.TopicBiology {
		t.Errorf("expected biology, got %s", v.Topic)
	}
}

func TestSelector_SelectVerification_FallsBackToGeneral(t *testing.T) {
	s := newDefaultSelector()

	v := s.SelectVerification(model.TopicChemistry, &fixedRandom{})
	general := catalog.Default().Verification(model.TopicGeneral)
	if v.Text != general.Responses[0] {
		t.Errorf("expected general candidate, got %q", v.Text)
	}
	if v.Verifier == "" {
		t.Error("expected a verifier name")
	}
}

func TestSelector_SelectVerification_Independent(t *testing.T) {
	s := newDefaultSelector()
	rnd := NewSeededRandom(42)

	texts := make(map[string]bool)
	verifiers := make(map[string]bool)
	for i := 0; i < 200; i++ {
		v := s.SelectVerification(model.TopicCalculus, rnd)
		texts[v.Text] = true
		verifiers[v.Verifier] = true
	}

	if len(texts) != 3 {
		t.Errorf("expected all 3 calculus texts to be drawn, got %d", len(texts))
	}
	if len(verifiers) != 5 {
		t.Errorf("expected all 5 verifiers to be drawn, got %d", len(verifiers))
	}
}

func TestSeededRandom_Reproducible(t *testing.T) {
	a := NewSeededRandom(7)
	b := NewSeededRandom(7)
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			t.Fatal("expected identical sequences for identical seeds")
		}
	}
}
