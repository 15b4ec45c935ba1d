package model

// Topic is a subject-matter category used to pick a response pool
type Topic string

const (
	TopicCalculus  Topic = "calculus"
	TopicBiology   Topic = "biology"
	TopicPhysics   Topic = "physics"
	TopicChemistry Topic = "chemistry"
	TopicAlgebra   Topic = "algebra"
	TopicGeometry  Topic = "geometry"
	TopicGeneral   Topic = "general" // Fallback when no keyword matches
)

// ResponseEntry is a canned answer selected by keyword match
type ResponseEntry struct {
	Keywords     []string `json:"keywords" yaml:"keywords"`                               // Any match selects the entry
	Response     string   `json:"response" yaml:"response"`                               // Verbatim text (may contain <br>)
	Citation     string   `json:"citation,omitempty" yaml:"citation,omitempty"`           // Optional source line
	Disclaimer   string   `json:"disclaimer,omitempty" yaml:"disclaimer,omitempty"`       // Optional; default applies when empty
	NoDisclaimer bool     `json:"no_disclaimer,omitempty" yaml:"no_disclaimer,omitempty"` // Explicitly suppress the disclaimer
}

// VerificationEntry holds the candidate follow-ups for a topic
type VerificationEntry struct {
	Topic     Topic    `json:"topic"`
	Responses []string `json:"responses"`
	Verifiers []string `json:"verifiers"`
}

// Verification is one drawn follow-up: a text and the reviewer it is attributed to
type Verification struct {
	Topic    Topic  `json:"topic"`
	Text     string `json:"text"`
	Verifier string `json:"verifier"`
}
