package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/studyprep/internal/model"
)

var (
	// ErrNoTopics is returned when a definition has no classifiable topics
	ErrNoTopics = errors.New("catalog has no classifiable topics")

	// ErrNoFallback is returned when the general topic has no responses
	ErrNoFallback = errors.New("catalog general topic needs at least one response")
)

// TopicDefinition describes one topic in priority order
type TopicDefinition struct {
	Name      model.Topic           `yaml:"name"`
	Keywords  []string              `yaml:"keywords,omitempty"`
	Responses []model.ResponseEntry `yaml:"responses,omitempty"`
}

// Definition is the serializable form of a catalog
type Definition struct {
	Topics        []TopicDefinition        `yaml:"topics"`
	Verifiable    []model.Topic            `yaml:"verifiable"`
	Verifiers     []string                 `yaml:"verifiers"`
	Verifications map[model.Topic][]string `yaml:"verifications"`
}

type topic struct {
	name      model.Topic
	keywords  []string // lower-cased
	responses []model.ResponseEntry
}

// Catalog is the immutable topic and response table. It is safe for concurrent use.
type Catalog struct {
	order         []model.Topic
	topics        map[model.Topic]*topic
	verifiable    map[model.Topic]bool
	verifiers     []string
	verifications map[model.Topic][]string
}

// New validates a definition and builds a catalog from it
func New(def Definition) (*Catalog, error) {
	c := &Catalog{
		topics:        make(map[model.Topic]*topic, len(def.Topics)),
		verifiable:    make(map[model.Topic]bool, len(def.Verifiable)),
		verifiers:     cloneStrings(def.Verifiers),
		verifications: make(map[model.Topic][]string, len(def.Verifications)),
	}

	for _, td := range def.Topics {
		name := model.Topic(strings.ToLower(strings.TrimSpace(string(td.Name))))
		if name == "" {
			return nil, fmt.Errorf("topic with empty name")
		}
		if _, dup := c.topics[name]; dup {
			return nil, fmt.Errorf("duplicate topic: %s", name)
		}

		t := &topic{name: name}
		for _, kw := range td.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				t.keywords = append(t.keywords, kw)
			}
		}
		for i, entry := range td.Responses {
			if strings.TrimSpace(entry.Response) == "" {
				return nil, fmt.Errorf("topic %s: response %d is empty", name, i)
			}
			t.responses = append(t.responses, cloneEntry(entry))
		}

		c.topics[name] = t
		// General is the fallback and never takes part in classification
		if name != model.TopicGeneral && len(t.keywords) > 0 {
			c.order = append(c.order, name)
		}
	}

	if len(c.order) == 0 {
		return nil, ErrNoTopics
	}
	general, ok := c.topics[model.TopicGeneral]
	if !ok || len(general.responses) == 0 {
		return nil, ErrNoFallback
	}

	for _, name := range def.Verifiable {
		c.verifiable[model.Topic(strings.ToLower(string(name)))] = true
	}
	for name, texts := range def.Verifications {
		c.verifications[model.Topic(strings.ToLower(string(name)))] = cloneStrings(texts)
	}

	if len(c.verifiable) > 0 {
		if len(c.verifiers) == 0 {
			return nil, fmt.Errorf("verifiable topics configured without verifier names")
		}
		if len(c.verifications[model.TopicGeneral]) == 0 {
			return nil, fmt.Errorf("verifiable topics configured without general verification texts")
		}
	}

	return c, nil
}

// Topics returns the classifiable topics in priority order
func (c *Catalog) Topics() []model.Topic {
	return append([]model.Topic(nil), c.order...)
}

// Keywords returns the lower-cased classification keywords of a topic
func (c *Catalog) Keywords(name model.Topic) []string {
	t, ok := c.topics[name]
	if !ok {
		return nil
	}
	return cloneStrings(t.keywords)
}

// Responses returns the response set of a topic, or the general set when the
// topic has none of its own
func (c *Catalog) Responses(name model.Topic) []model.ResponseEntry {
	t, ok := c.topics[name]
	if !ok || len(t.responses) == 0 {
		t = c.topics[model.TopicGeneral]
	}
	out := make([]model.ResponseEntry, len(t.responses))
	for i, e := range t.responses {
		out[i] = cloneEntry(e)
	}
	return out
}

// IsVerifiable reports whether replies in a topic may receive a verified follow-up
func (c *Catalog) IsVerifiable(name model.Topic) bool {
	return c.verifiable[name]
}

// Verification returns the follow-up candidates for a topic, falling back to general
func (c *Catalog) Verification(name model.Topic) model.VerificationEntry {
	texts, ok := c.verifications[name]
	if !ok || len(texts) == 0 {
		name = model.TopicGeneral
		texts = c.verifications[model.TopicGeneral]
	}
	return model.VerificationEntry{
		Topic:     name,
		Responses: cloneStrings(texts),
		Verifiers: cloneStrings(c.verifiers),
	}
}

// Has reports whether the catalog defines a topic
func (c *Catalog) Has(name model.Topic) bool {
	_, ok := c.topics[name]
	return ok
}

func cloneEntry(e model.ResponseEntry) model.ResponseEntry {
	e.Keywords = cloneStrings(e.Keywords)
	return e
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
