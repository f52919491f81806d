package preview

import (
	"sync"
	"time"

	"github.com/google/uuid"

	htmlfont "github.com/alnah/go-htmlfont"
)

// Session store limits.
const (
	sessionTTL  = 12 * time.Hour
	maxSessions = 256
)

// entry is one browser's state plus a pending flash message.
type entry struct {
	session *htmlfont.Session
	mu      sync.Mutex
	flash   string
	seen    time.Time
}

// setFlash records a message shown on the next page render.
func (e *entry) setFlash(msg string) {
	e.mu.Lock()
	e.flash = msg
	e.mu.Unlock()
}

// takeFlash returns and clears the pending message.
func (e *entry) takeFlash() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	msg := e.flash
	e.flash = ""
	return msg
}

// store maps session IDs to entries. Idle entries expire after sessionTTL,
// and the oldest entry is evicted once maxSessions is reached.
type store struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
	create  func() *htmlfont.Session
}

func newStore(create func() *htmlfont.Session) *store {
	return &store{
		entries: make(map[string]*entry),
		now:     time.Now,
		create:  create,
	}
}

// get returns the entry for id, or nil when unknown, malformed, or expired.
func (s *store) get(id string) *entry {
	if _, err := uuid.Parse(id); err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	now := s.now()
	if now.Sub(e.seen) > sessionTTL {
		delete(s.entries, id)
		return nil
	}
	e.seen = now
	return e
}

// add creates a session under a fresh random ID.
func (s *store) add() (string, *entry) {
	id := uuid.NewString()
	e := &entry{session: s.create()}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)
	e.seen = now
	s.entries[id] = e
	return id, e
}

// len returns the number of live sessions.
func (s *store) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweepLocked drops expired entries and, if still full, the least recently
// seen one. Must be called with mu held.
func (s *store) sweepLocked(now time.Time) {
	var oldestID string
	var oldest time.Time
	for id, e := range s.entries {
		if now.Sub(e.seen) > sessionTTL {
			delete(s.entries, id)
			continue
		}
		if oldestID == "" || e.seen.Before(oldest) {
			oldestID, oldest = id, e.seen
		}
	}
	if len(s.entries) >= maxSessions && oldestID != "" {
		delete(s.entries, oldestID)
	}
}
