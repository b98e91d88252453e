package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/nestboxd/internal/domain"
)

// PostgresSessionRepository implements domain.SessionRepository using PostgreSQL
type PostgresSessionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresSessionRepository creates a new session repository
func NewPostgresSessionRepository(db *sql.DB, logger *slog.Logger) *PostgresSessionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSessionRepository{db: db, logger: logger}
}

// Replace enforces the single-slot-per-user rule: any prior session rows
// for the username are deleted and the new row inserted within one
// transaction, so readers never observe two live sessions for a user.
func (r *PostgresSessionRepository) Replace(ctx context.Context, session *domain.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin session replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE username = $1`, session.Username); err != nil {
		return fmt.Errorf("failed to delete prior sessions: %w", err)
	}

	query := `
		INSERT INTO sessions (session_key, username, user_uuid, mandant_uuid, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, query,
		session.SessionKey, session.Username, session.UserUUID,
		session.MandantUUID, session.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session replace: %w", err)
	}
	return nil
}

// GetByKey retrieves a session row by its opaque token
func (r *PostgresSessionRepository) GetByKey(ctx context.Context, sessionKey string) (*domain.Session, error) {
	s := &domain.Session{}
	query := `
		SELECT session_key, username, user_uuid, mandant_uuid, created_at
		FROM sessions
		WHERE session_key = $1
	`
	err := r.db.QueryRowContext(ctx, query, sessionKey).Scan(
		&s.SessionKey, &s.Username, &s.UserUUID, &s.MandantUUID, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// GetByUsername retrieves the session row currently held by a username
func (r *PostgresSessionRepository) GetByUsername(ctx context.Context, username string) (*domain.Session, error) {
	s := &domain.Session{}
	query := `
		SELECT session_key, username, user_uuid, mandant_uuid, created_at
		FROM sessions
		WHERE username = $1
	`
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&s.SessionKey, &s.Username, &s.UserUUID, &s.MandantUUID, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session by username: %w", err)
	}
	return s, nil
}

// DeleteByUsername removes all session rows for a username. Deleting a
// username without sessions is not an error.
func (r *PostgresSessionRepository) DeleteByUsername(ctx context.Context, username string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE username = $1`, username); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}
