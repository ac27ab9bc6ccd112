package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/courseflow/pkg/session"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the idle time after which a session is dropped.
const DefaultTTL = 30 * time.Minute

// Entry is a stored graph session. Callers hold Lock while using Session;
// graph sessions are not safe for concurrent use.
type Entry struct {
	sync.Mutex
	ID        string
	Session   *session.Session
	CreatedAt time.Time

	expiresAt time.Time
}

// Store keeps live graph sessions in memory with a sliding TTL.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*Entry
}

// NewStore creates an empty store. A non-positive ttl uses [DefaultTTL].
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, now: time.Now, entries: make(map[string]*Entry)}
}

// Add stores s under a new random ID.
func (st *Store) Add(s *session.Session) *Entry {
	now := st.now()
	e := &Entry{
		ID:        uuid.NewString(),
		Session:   s,
		CreatedAt: now,
		expiresAt: now.Add(st.ttl),
	}
	st.mu.Lock()
	st.entries[e.ID] = e
	st.mu.Unlock()
	return e
}

// Get returns the entry for id and extends its lifetime. Expired entries
// are disposed and reported as [ErrExpired].
func (st *Store) Get(id string) (*Entry, error) {
	st.mu.Lock()
	e, ok := st.entries[id]
	if !ok {
		st.mu.Unlock()
		return nil, ErrNotFound
	}
	now := st.now()
	if now.After(e.expiresAt) {
		delete(st.entries, id)
		st.mu.Unlock()
		dispose(e)
		return nil, ErrExpired
	}
	e.expiresAt = now.Add(st.ttl)
	st.mu.Unlock()
	return e, nil
}

// Delete disposes and removes a session. Unknown IDs return [ErrNotFound].
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	e, ok := st.entries[id]
	delete(st.entries, id)
	st.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	dispose(e)
	return nil
}

// Cleanup disposes expired sessions and returns how many were removed.
func (st *Store) Cleanup() int {
	now := st.now()
	var expired []*Entry

	st.mu.Lock()
	for id, e := range st.entries {
		if now.After(e.expiresAt) {
			expired = append(expired, e)
			delete(st.entries, id)
		}
	}
	st.mu.Unlock()

	for _, e := range expired {
		dispose(e)
	}
	return len(expired)
}

// Len returns the number of stored sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.entries)
}

// Close disposes every session.
func (st *Store) Close() {
	st.mu.Lock()
	entries := st.entries
	st.entries = make(map[string]*Entry)
	st.mu.Unlock()

	for _, e := range entries {
		dispose(e)
	}
}

func dispose(e *Entry) {
	e.Lock()
	defer e.Unlock()
	e.Session.Dispose()
}
