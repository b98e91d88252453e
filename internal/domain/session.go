package domain

import (
	"context"
	"time"
)

// NotAvailable is the sentinel identity carried by an invalid session.
// Callers must never treat it as a real identifier.
const NotAvailable = "n.a."

// Session is the stored projection of a user plus a fresh session key.
// At most one session row exists per username at any time.
type Session struct {
	SessionKey  string    `json:"session_key"`
	Username    string    `json:"username"`
	UserUUID    string    `json:"uuid"`
	MandantUUID string    `json:"mandant_uuid"`
	CreatedAt   time.Time `json:"created_at"`
}

// SessionRepository defines data access for sessions
type SessionRepository interface {
	// Replace deletes any session rows for the session's username and
	// inserts the new row, both inside one transaction.
	Replace(ctx context.Context, session *Session) error
	GetByKey(ctx context.Context, sessionKey string) (*Session, error)
	// GetByUsername returns the user's live session row, if any. Used to
	// evict stale cache entries before the row is replaced or deleted.
	GetByUsername(ctx context.Context, username string) (*Session, error)
	// DeleteByUsername is an idempotent delete-many.
	DeleteByUsername(ctx context.Context, username string) error
}

// SessionCache sits in front of the session store on the validation path.
// Implementations must treat a miss and an unavailable cache the same way.
type SessionCache interface {
	Get(ctx context.Context, sessionKey string) (*Session, bool)
	Set(ctx context.Context, session *Session)
	Delete(ctx context.Context, sessionKey string)
}

// SessionObject is the tri-state result of validating a session token.
// Lookup errors, missing rows and malformed rows all collapse into the
// invalid state; identity fields carry the sentinel and must only be read
// when Valid() reports true.
type SessionObject struct {
	valid       bool
	userUUID    string
	mandantUUID string
	sessionKey  string
}

// InvalidSession returns the sentinel session object.
func InvalidSession() SessionObject {
	return SessionObject{
		valid:       false,
		userUUID:    NotAvailable,
		mandantUUID: NotAvailable,
		sessionKey:  NotAvailable,
	}
}

// NewSessionObject builds a session object from a stored session row.
// A nil row or a row missing any identity field yields the invalid sentinel.
func NewSessionObject(session *Session) SessionObject {
	if session == nil || session.MandantUUID == "" || session.UserUUID == "" || session.SessionKey == "" {
		return InvalidSession()
	}
	return SessionObject{
		valid:       true,
		userUUID:    session.UserUUID,
		mandantUUID: session.MandantUUID,
		sessionKey:  session.SessionKey,
	}
}

// Valid reports whether the identity fields may be trusted.
func (s SessionObject) Valid() bool { return s.valid }

// UserUUID returns the authenticated user id, or the sentinel when invalid.
func (s SessionObject) UserUUID() string { return s.userUUID }

// MandantUUID returns the session's tenant id, or the sentinel when invalid.
func (s SessionObject) MandantUUID() string { return s.mandantUUID }

// SessionKey returns the opaque token, or the sentinel when invalid.
func (s SessionObject) SessionKey() string { return s.sessionKey }
