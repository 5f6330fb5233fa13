package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/merlinmelissa/event-manager-app/internal/model"
	"github.com/merlinmelissa/event-manager-app/internal/repository"
	"github.com/merlinmelissa/event-manager-app/internal/session"
)

// AuthService checks organiser credentials and manages their sessions.
// Passwords come from configuration keyed by organiser id; the database
// only holds the organiser's name and description.
type AuthService struct {
	organisers OrganiserStore
	passwords  map[int64]string
	sessions   *session.Manager
}

// NewAuthService constructs an AuthService with its dependencies.
func NewAuthService(organisers OrganiserStore, passwords map[int64]string, sessions *session.Manager) *AuthService {
	return &AuthService{organisers: organisers, passwords: passwords, sessions: sessions}
}

// Login verifies an organiser's credentials and establishes a session.
// It returns the signed session token with the session on success.
func (s *AuthService) Login(ctx context.Context, organiserID int64, password string) (string, model.Session, error) {
	org, err := s.organisers.GetByID(ctx, organiserID)
	if err != nil {
		// Only a genuinely missing organiser is an auth failure; a
		// store fault must surface as an internal error, not a login
		// message.
		if errors.Is(err, repository.ErrNotFound) {
			return "", model.Session{}, ErrUnknownOrganiser
		}
		return "", model.Session{}, fmt.Errorf("look up organiser: %w", err)
	}
	secret, ok := s.passwords[organiserID]
	if !ok {
		return "", model.Session{}, ErrUnknownOrganiser
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(secret)) != 1 {
		return "", model.Session{}, ErrIncorrectPassword
	}
	return s.sessions.Create(org.ID, org.Name)
}

// Logout destroys the session behind a token. It never fails.
func (s *AuthService) Logout(token string) {
	s.sessions.Destroy(token)
}
