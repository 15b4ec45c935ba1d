package model

import "time"

// Transcript is the exported form of a chat session
type Transcript struct {
	SessionID  string        `json:"session_id"`
	ExportedAt time.Time     `json:"exported_at"`
	Topic      Topic         `json:"topic"`
	Messages   []ChatMessage `json:"messages"`
}

// ErrorType classifies a user-submitted error report
type ErrorType string

const (
	ErrorFactual     ErrorType = "factual"
	ErrorCalculation ErrorType = "calculation"
	ErrorExplanation ErrorType = "explanation"
	ErrorCitation    ErrorType = "citation"
	ErrorOther       ErrorType = "other"
)

// ErrorTypes lists the accepted report types in display order
var ErrorTypes = []ErrorType{ErrorFactual, ErrorCalculation, ErrorExplanation, ErrorCitation, ErrorOther}

// ErrorReport is a "Report Error" submission with recent context
type ErrorReport struct {
	ID             string        `json:"id"`
	SessionID      string        `json:"session_id"`
	Timestamp      time.Time     `json:"timestamp"`
	ErrorType      ErrorType     `json:"error_type"`
	Description    string        `json:"description,omitempty"`
	CorrectInfo    string        `json:"correct_info,omitempty"`
	MessageContext []ChatMessage `json:"message_context"` // Last messages at submission time
}
