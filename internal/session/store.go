package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leyenda/storefront/internal/models"
)

// Session holds everything the storefront keeps per browser: the cart, the
// applied coupon, the CSRF token and (after login) the user id. Mutating
// facade calls must hold the session lock for their whole duration so
// concurrent tabs cannot interleave half-applied changes.
type Session struct {
	ID        string
	CSRFToken string

	mu     sync.Mutex
	cart   *models.Cart
	coupon *models.Coupon
	userID int64

	expiresAt time.Time
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Cart returns the session's cart. Callers mutating it must hold the lock.
func (s *Session) Cart() *models.Cart { return s.cart }

func (s *Session) Coupon() *models.Coupon     { return s.coupon }
func (s *Session) SetCoupon(c *models.Coupon) { s.coupon = c }
func (s *Session) UserID() int64              { return s.userID }
func (s *Session) SetUserID(id int64)         { s.userID = id }

// VerifyCSRF compares the supplied token with the session token in constant
// time.
func (s *Session) VerifyCSRF(token string) bool {
	if token == "" || s.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(token)) == 1
}

// Store keeps live sessions in memory keyed by opaque id. Expired sessions
// are dropped lazily on access and by the periodic sweep.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create registers a fresh session with a new cart and CSRF token.
func (st *Store) Create() *Session {
	s := &Session{
		ID:        uuid.NewString(),
		CSRFToken: newCSRFToken(),
		cart:      models.NewCart(),
		expiresAt: time.Now().Add(st.ttl),
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
	return s
}

// Get returns the live session for id, sliding its expiry. A missing or
// expired id returns (nil, false).
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(s.expiresAt) {
		delete(st.sessions, id)
		return nil, false
	}
	s.expiresAt = time.Now().Add(st.ttl)
	return s, true
}

// Destroy drops a session outright (logout).
func (st *Store) Destroy(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep removes expired sessions every interval until ctx is cancelled.
func (st *Store) Sweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := time.Now()
			st.mu.Lock()
			for id, s := range st.sessions {
				if now.After(s.expiresAt) {
					delete(st.sessions, id)
				}
			}
			st.mu.Unlock()
		}
	}
}

func newCSRFToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a uuid
		// rather than panicking a request path.
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
