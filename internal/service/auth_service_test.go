package service

import (
	"context"
	"testing"
	"time"

	"github.com/yourorg/nestboxd/internal/domain"
	"github.com/yourorg/nestboxd/internal/repository"
)

type memUserRepo struct {
	byUsername map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byUsername: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	m.byUsername[u.Username] = u
	return nil
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := m.byUsername[username]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type memSessionRepo struct {
	byKey      map[string]*domain.Session
	byUsername map[string]*domain.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{byKey: map[string]*domain.Session{}, byUsername: map[string]*domain.Session{}}
}

func (m *memSessionRepo) Replace(_ context.Context, s *domain.Session) error {
	if prior, ok := m.byUsername[s.Username]; ok {
		delete(m.byKey, prior.SessionKey)
	}
	m.byKey[s.SessionKey] = s
	m.byUsername[s.Username] = s
	return nil
}

func (m *memSessionRepo) GetByKey(_ context.Context, key string) (*domain.Session, error) {
	if s, ok := m.byKey[key]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSessionRepo) GetByUsername(_ context.Context, username string) (*domain.Session, error) {
	if s, ok := m.byUsername[username]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memSessionRepo) DeleteByUsername(_ context.Context, username string) error {
	if s, ok := m.byUsername[username]; ok {
		delete(m.byKey, s.SessionKey)
		delete(m.byUsername, username)
	}
	return nil
}

func newTestAuthService(ttl time.Duration) (*AuthService, *memUserRepo, *memSessionRepo) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	cache := repository.NewMemorySessionCache(time.Minute)
	return NewAuthService(users, sessions, cache, ttl, nil), users, sessions
}

func seedUser(t *testing.T, users *memUserRepo) *domain.User {
	t.Helper()
	u := &domain.User{
		UUID:         "user-1",
		MandantUUID:  "mandant-1",
		Username:     "alice",
		Salt:         "pepper",
		PasswordHash: HashPassword("hunter2", "pepper"),
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestLogin(t *testing.T) {
	svc, users, _ := newTestAuthService(0)
	seedUser(t, users)
	ctx := context.Background()

	if got := svc.Login(ctx, "alice", "hunter2"); got == nil {
		t.Fatal("valid credentials rejected")
	}
	if got := svc.Login(ctx, "alice", "wrong"); got != nil {
		t.Fatal("wrong password accepted")
	}
	if got := svc.Login(ctx, "nobody", "hunter2"); got != nil {
		t.Fatal("unknown username accepted")
	}
}

func TestCreateAndValidateSession(t *testing.T) {
	svc, users, _ := newTestAuthService(0)
	user := seedUser(t, users)
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, user)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if token == "" {
		t.Fatal("empty session token")
	}

	obj := svc.ValidateSession(ctx, token)
	if !obj.Valid() {
		t.Fatal("freshly issued session invalid")
	}
	if obj.UserUUID() != "user-1" || obj.MandantUUID() != "mandant-1" {
		t.Fatalf("wrong identity: user=%s mandant=%s", obj.UserUUID(), obj.MandantUUID())
	}
	if obj.SessionKey() != token {
		t.Fatalf("session key mismatch: %s vs %s", obj.SessionKey(), token)
	}
}

func TestValidateSessionSentinels(t *testing.T) {
	svc, _, _ := newTestAuthService(0)
	ctx := context.Background()

	for _, token := range []string{"", domain.NotAvailable, "never-issued"} {
		obj := svc.ValidateSession(ctx, token)
		if obj.Valid() {
			t.Fatalf("token %q validated", token)
		}
		if obj.UserUUID() != domain.NotAvailable || obj.MandantUUID() != domain.NotAvailable {
			t.Fatalf("invalid session leaked identity for token %q", token)
		}
	}
}

func TestSingleSessionSlot(t *testing.T) {
	svc, users, _ := newTestAuthService(0)
	user := seedUser(t, users)
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, user)
	if err != nil {
		t.Fatalf("create first session: %v", err)
	}
	second, err := svc.CreateSession(ctx, user)
	if err != nil {
		t.Fatalf("create second session: %v", err)
	}
	if first == second {
		t.Fatal("expected a fresh token on re-login")
	}

	if svc.ValidateSession(ctx, first).Valid() {
		t.Fatal("superseded session still valid")
	}
	if !svc.ValidateSession(ctx, second).Valid() {
		t.Fatal("current session invalid")
	}
}

func TestRemoveSessionByUsername(t *testing.T) {
	svc, users, _ := newTestAuthService(0)
	user := seedUser(t, users)
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, user)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := svc.RemoveSessionByUsername(ctx, "alice"); err != nil {
		t.Fatalf("remove session: %v", err)
	}
	if svc.ValidateSession(ctx, token).Valid() {
		t.Fatal("revoked session still valid")
	}

	// Revoking a username without a session is a no-op.
	if err := svc.RemoveSessionByUsername(ctx, "alice"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	svc := NewAuthService(users, sessions, nil, time.Hour, nil)
	user := seedUser(t, users)
	ctx := context.Background()

	token, err := svc.CreateSession(ctx, user)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if !svc.ValidateSession(ctx, token).Valid() {
		t.Fatal("fresh session invalid")
	}

	sessions.byKey[token].CreatedAt = time.Now().UTC().Add(-2 * time.Hour)
	if svc.ValidateSession(ctx, token).Valid() {
		t.Fatal("expired session still valid")
	}
}

func TestValidateSessionRejectsMalformedRow(t *testing.T) {
	sessions := newMemSessionRepo()
	svc := NewAuthService(newMemUserRepo(), sessions, nil, 0, nil)
	ctx := context.Background()

	sessions.byKey["bad"] = &domain.Session{SessionKey: "bad", Username: "alice"}
	if svc.ValidateSession(ctx, "bad").Valid() {
		t.Fatal("session without identity fields validated")
	}
}
