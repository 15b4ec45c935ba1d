package server

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/studyprep/internal/chat"
)

// DefaultSessionTTL is how long an idle session is kept
const DefaultSessionTTL = 30 * time.Minute

// SessionStore keeps chat sessions in memory and drops idle ones
type SessionStore struct {
	cache *gocache.Cache
	seed  bool
}

// NewSessionStore creates a store whose sessions expire after ttl without use
func NewSessionStore(ttl time.Duration, seed bool) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		cache: gocache.New(ttl, ttl/2),
		seed:  seed,
	}
}

// Create starts a new session
func (s *SessionStore) Create() *chat.Session {
	sess := chat.NewSession("")
	if s.seed {
		chat.Seed(sess)
	}
	s.cache.SetDefault(sess.ID(), sess)
	return sess
}

// Get returns a live session and extends its lifetime
func (s *SessionStore) Get(id string) (*chat.Session, bool) {
	val, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess, ok := val.(*chat.Session)
	if !ok {
		return nil, false
	}
	s.cache.SetDefault(id, sess)
	return sess, true
}

// Delete drops a session
func (s *SessionStore) Delete(id string) {
	s.cache.Delete(id)
}

// Len returns the number of stored sessions
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
