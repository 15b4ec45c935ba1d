// Package selector decides which canned reply a question receives and whether
// a simulated expert verification follows it.
package selector

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/studyprep/internal/catalog"
	"github.com/ppiankov/studyprep/internal/model"
)

// DefaultThreshold makes verifiable topics verify with probability 0.7
const DefaultThreshold = 0.3

// ErrInvalidThreshold is returned for a threshold outside [0,1]
var ErrInvalidThreshold = errors.New("verification threshold must be within [0,1]")

// ValidateThreshold accepts the closed range [0,1]. 0 verifies every draw
// above zero and 1 never verifies.
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// Selector is a pure decision function over an immutable catalog
type Selector struct {
	catalog   *catalog.Catalog
	threshold float64
}

// New creates a selector. Callers validate the threshold with ValidateThreshold;
// a value outside [0,1] falls back to DefaultThreshold.
func New(c *catalog.Catalog, threshold float64) *Selector {
	if ValidateThreshold(threshold) != nil {
		threshold = DefaultThreshold
	}
	return &Selector{
		catalog:   c,
		threshold: threshold,
	}
}

// Catalog returns the catalog the selector reads from
func (s *Selector) Catalog() *catalog.Catalog {
	return s.catalog
}

// Threshold returns the verification draw threshold
func (s *Selector) Threshold() float64 {
	return s.threshold
}

// Classify returns the first topic, in priority order, with a keyword contained
// in the lower-cased input, or general when none matches
func (s *Selector) Classify(input string) model.Topic {
	lower := strings.ToLower(input)

	for _, topic := range s.catalog.Topics() {
		if containsAny(lower, s.catalog.Keywords(topic)) {
			return topic
		}
	}

	return model.TopicGeneral
}

// SelectResponse returns the first entry of the topic's response set whose
// keywords match the input, or the set's first entry
func (s *Selector) SelectResponse(topic model.Topic, input string) model.ResponseEntry {
	responses := s.catalog.Responses(topic)
	lower := strings.ToLower(input)

	for _, entry := range responses {
		if containsAny(lower, entry.Keywords) {
			return entry
		}
	}

	return responses[0]
}

// RequiresVerification draws once for verifiable topics and reports whether the
// draw is strictly above the threshold. Other topics never verify and never draw.
func (s *Selector) RequiresVerification(topic model.Topic, rnd Random) bool {
	if !s.catalog.IsVerifiable(topic) {
		return false
	}
	return rnd.Float64() > s.threshold
}

// SelectVerification picks a follow-up text and a verifier name independently
func (s *Selector) SelectVerification(topic model.Topic, rnd Random) model.Verification {
	entry := s.catalog.Verification(topic)

	v := model.Verification{Topic: entry.Topic}
	if len(entry.Responses) > 0 {
		v.Text = entry.Responses[rnd.IntN(len(entry.Responses))]
	}
	if len(entry.Verifiers) > 0 {
		v.Verifier = entry.Verifiers[rnd.IntN(len(entry.Verifiers))]
	}

	return v
}

// containsAny reports whether lower contains any keyword, compared case-insensitively
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
