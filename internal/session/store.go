package session

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"storefront-backend/internal/checkout"
	"storefront-backend/internal/domain"

	"github.com/google/uuid"
)

// Session holds everything a browsing session owns: the cart and the
// checkout state. Neither is server-durable; losing a session loses
// both, and the only durable artifact of a purchase is the Order row
// written by the payment webhook.
type Session struct {
	Token    string
	Cart     domain.Cart
	Checkout checkout.State

	mu       sync.Mutex
	lastSeen time.Time
}

// Lock serializes request handling for one session. Browser events are
// sequential within a tab; the lock only matters for overlapping
// requests from misbehaving clients.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store keeps sessions in memory, keyed by an opaque token issued on
// first use and carried in the X-Session-Token header. It replaces the
// browser-local ephemeral storage of the original design with an
// explicit dependency-injected store.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *log.Logger
	now      func() time.Time
}

func NewStore(ttl time.Duration, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the session for token if it exists and has not expired.
func (s *Store) Get(token string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		delete(s.sessions, token)
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

// GetOrCreate returns the session for token, or a fresh session with a
// new token when the token is empty, unknown, or expired.
func (s *Store) GetOrCreate(token string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[token]; ok && !s.expired(sess) {
		sess.lastSeen = s.now()
		return sess
	}
	sess := &Session{
		Token:    uuid.NewString(),
		lastSeen: s.now(),
	}
	s.sessions[sess.Token] = sess
	return sess
}

// Delete drops a session, e.g. on sign-out.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps expired sessions until ctx is done.
func (s *Store) Run(ctx context.Context) {
	ticker := time.NewTicker(s.ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweep(); n > 0 {
				s.logger.Printf("session store: swept %d expired sessions", n)
			}
		}
	}
}

func (s *Store) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

func (s *Store) expired(sess *Session) bool {
	return s.ttl > 0 && s.now().Sub(sess.lastSeen) > s.ttl
}
