package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainauth "bakeshop/internal/domain/auth"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrNotConfigured      = errors.New("auth: admin credentials not configured")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

// Service gates the admin dashboard. Credentials come from deployment
// config; there is no self-service registration.
type Service struct {
	AdminEmail        string
	AdminPasswordHash string
	Passwords         PasswordHasher
	Tokens            TokenGenerator
	Sessions          domainauth.SessionStore
	SessionTTL        time.Duration
	Logger            *slog.Logger
}

type LoginParams struct {
	Email    string
	Password string
}

func (s *Service) Login(ctx context.Context, params LoginParams) (domainauth.Token, error) {
	if s.AdminEmail == "" || s.AdminPasswordHash == "" {
		return "", ErrNotConfigured
	}
	email := strings.TrimSpace(strings.ToLower(params.Email))
	if email != strings.ToLower(s.AdminEmail) {
		return "", ErrInvalidCredentials
	}
	if err := s.Passwords.Compare(s.AdminPasswordHash, params.Password); err != nil {
		return "", ErrInvalidCredentials
	}
	raw, err := s.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:   domainauth.Token(raw),
		AdminID: email,
		TTL:     ttl,
		Now:     time.Now(),
	})
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	if s.Logger != nil {
		s.Logger.Info("admin logged in", "admin", email)
	}
	return session.Token, nil
}

// Resolve validates a bearer token. Any failure, including an expired or
// unknown session, comes back as ErrSessionNotFound so callers fail closed.
func (s *Service) Resolve(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	if strings.TrimSpace(string(token)) == "" {
		return nil, domainauth.ErrSessionNotFound
	}
	session, err := s.Sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		_ = s.Sessions.Delete(ctx, token)
		return nil, domainauth.ErrSessionNotFound
	}
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token domainauth.Token) error {
	if strings.TrimSpace(string(token)) == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, token)
}
