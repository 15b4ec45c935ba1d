package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/studyprep/internal/model"
)

// Session owns one conversation: the append-only message log, the current
// topic and the busy flag. It is safe for concurrent use.
type Session struct {
	id        string
	createdAt time.Time

	mu       sync.RWMutex
	messages []model.ChatMessage
	topic    model.Topic
	busy     bool
}

// NewSession creates an empty session. A random id is assigned when id is empty.
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:        id,
		createdAt: time.Now().UTC(),
		topic:     model.TopicCalculus,
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// CreatedAt returns when the session was opened
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Append adds a message to the end of the log, filling in id and timestamp
func (s *Session) Append(msg model.ChatMessage) model.ChatMessage {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	return msg
}

// Messages returns a copy of the log in insertion order
func (s *Session) Messages() []model.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Last returns up to n of the most recent messages
func (s *Session) Last(n int) []model.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > len(s.messages) {
		n = len(s.messages)
	}
	if n <= 0 {
		return []model.ChatMessage{}
	}
	out := make([]model.ChatMessage, n)
	copy(out, s.messages[len(s.messages)-n:])
	return out
}

// Len returns the number of logged messages
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// ClearIfIdle empties the log unless a submission is in flight. The busy check
// and the clear happen under one lock.
func (s *Session) ClearIfIdle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	s.messages = nil
	return nil
}

// CurrentTopic returns the most recently classified known topic
func (s *Session) CurrentTopic() model.Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topic
}

// observeTopic records a classification; general does not replace the current topic
func (s *Session) observeTopic(topic model.Topic) {
	if topic == model.TopicGeneral || topic == "" {
		return
	}
	s.mu.Lock()
	s.topic = topic
	s.mu.Unlock()
}

// Busy reports whether a submission is in flight
func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// TryAcquire sets the busy flag, returning false if it was already set
func (s *Session) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// Release clears the busy flag
func (s *Session) Release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}
