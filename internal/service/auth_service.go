package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/nestboxd/internal/domain"
)

// AuthService is the session manager: it authenticates users and issues,
// validates and revokes the single session slot each username holds.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	cache    domain.SessionCache
	ttl      time.Duration
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service. ttl <= 0 disables
// session expiry.
func NewAuthService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	cache domain.SessionCache,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Login verifies the credentials and returns the user record, or nil on
// any failure. Unknown username, wrong password and store errors are
// indistinguishable to the caller; callers must revoke any live session
// for the username when nil comes back.
func (s *AuthService) Login(ctx context.Context, username, password string) *domain.User {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("user lookup failed", slog.String("error", err.Error()))
		}
		return nil
	}
	if !VerifyPassword(user.PasswordHash, user.Salt, password) {
		return nil
	}
	return user
}

// CreateSession issues a fresh opaque token for the user and installs it
// as the user's only session, superseding any prior one.
func (s *AuthService) CreateSession(ctx context.Context, user *domain.User) (string, error) {
	token := uuid.NewString()
	session := &domain.Session{
		SessionKey:  token,
		Username:    user.Username,
		UserUUID:    user.UUID,
		MandantUUID: user.MandantUUID,
		CreatedAt:   time.Now().UTC(),
	}

	s.evictCached(ctx, user.Username)
	if err := s.sessions.Replace(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, session)
	}
	return token, nil
}

// ValidateSession resolves a token to a session object. It never fails:
// a missing row, a store error, a malformed row or an expired session all
// yield the invalid sentinel.
func (s *AuthService) ValidateSession(ctx context.Context, token string) domain.SessionObject {
	if token == "" || token == domain.NotAvailable {
		return domain.InvalidSession()
	}

	if s.cache != nil {
		if session, ok := s.cache.Get(ctx, token); ok {
			return s.toSessionObject(session)
		}
	}

	session, err := s.sessions.GetByKey(ctx, token)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("session lookup failed", slog.String("error", err.Error()))
		}
		return domain.InvalidSession()
	}
	obj := s.toSessionObject(session)
	if obj.Valid() && s.cache != nil {
		s.cache.Set(ctx, session)
	}
	return obj
}

// RemoveSessionByUsername revokes any session the username holds. Used
// after a failed login so a stale session never survives a bad
// re-authentication attempt.
func (s *AuthService) RemoveSessionByUsername(ctx context.Context, username string) error {
	s.evictCached(ctx, username)
	if err := s.sessions.DeleteByUsername(ctx, username); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (s *AuthService) toSessionObject(session *domain.Session) domain.SessionObject {
	if s.expired(session) {
		return domain.InvalidSession()
	}
	return domain.NewSessionObject(session)
}

func (s *AuthService) expired(session *domain.Session) bool {
	if s.ttl <= 0 || session == nil {
		return false
	}
	return time.Since(session.CreatedAt) > s.ttl
}

func (s *AuthService) evictCached(ctx context.Context, username string) {
	if s.cache == nil {
		return
	}
	prior, err := s.sessions.GetByUsername(ctx, username)
	if err != nil {
		return
	}
	s.cache.Delete(ctx, prior.SessionKey)
}
