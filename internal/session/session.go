// Package session manages organiser login sessions. The client holds a
// signed token; the authoritative session state lives in a server-side
// registry so that logout genuinely invalidates a session rather than
// waiting for the token to expire.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/merlinmelissa/event-manager-app/internal/model"
)

// ErrInvalidSession is returned for missing, malformed, tampered,
// expired, or logged-out session tokens.
var ErrInvalidSession = errors.New("invalid session")

// Manager owns the session registry and signs session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]model.Session
}

// NewManager constructs a Manager. ttl bounds how long a login lasts.
func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		sessions: make(map[string]model.Session),
	}
}

// Create registers a new session for an organiser and returns the signed
// token to hand to the client alongside the session itself.
func (m *Manager) Create(organiserID int64, organiserName string) (string, model.Session, error) {
	sess := model.Session{
		ID:            uuid.New().String(),
		OrganiserID:   organiserID,
		OrganiserName: organiserName,
		IssuedAt:      time.Now().UTC(),
	}

	claims := jwt.MapClaims{
		"sid":  sess.ID,
		"org":  sess.OrganiserID,
		"name": sess.OrganiserName,
		"iat":  jwt.NewNumericDate(sess.IssuedAt),
		"exp":  jwt.NewNumericDate(sess.IssuedAt.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", model.Session{}, fmt.Errorf("sign session token: %w", err)
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	return token, sess, nil
}

// Lookup verifies a token and resolves it to a live session. The token
// signature proves the sid was minted here; the registry check makes
// logout effective immediately.
func (m *Manager) Lookup(token string) (model.Session, error) {
	sid, err := m.parseSID(token)
	if err != nil {
		return model.Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneExpired()
	sess, ok := m.sessions[sid]
	if !ok {
		return model.Session{}, ErrInvalidSession
	}
	return sess, nil
}

// pruneExpired drops every session past its ttl. Callers must hold mu.
func (m *Manager) pruneExpired() {
	now := time.Now()
	for sid, sess := range m.sessions {
		if now.Sub(sess.IssuedAt) > m.ttl {
			delete(m.sessions, sid)
		}
	}
}

// Destroy removes a session from the registry. Unknown or invalid tokens
// are a no-op: logout never fails.
func (m *Manager) Destroy(token string) {
	sid, err := m.parseSID(token)
	if err != nil {
		return
	}
	m.mu.Lock()
	delete(m.sessions, sid)
	m.mu.Unlock()
}

func (m *Manager) parseSID(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSession
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", ErrInvalidSession
	}
	return sid, nil
}
