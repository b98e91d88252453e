package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yourorg/nestboxd/internal/domain"
)

// PostgresMandantRepository implements domain.MandantRepository using PostgreSQL
type PostgresMandantRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresMandantRepository creates a new mandant repository
func NewPostgresMandantRepository(db *sql.DB, logger *slog.Logger) *PostgresMandantRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMandantRepository{db: db, logger: logger}
}

// Create inserts a new mandant
func (r *PostgresMandantRepository) Create(ctx context.Context, mandant *domain.Mandant) error {
	query := `
		INSERT INTO mandants (uuid, name, website, email)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		mandant.UUID, mandant.Name, mandant.Website, mandant.Email,
	).Scan(&mandant.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mandant: %w", err)
	}
	return nil
}

// GetByUUID retrieves a mandant by its uuid
func (r *PostgresMandantRepository) GetByUUID(ctx context.Context, uuid string) (*domain.Mandant, error) {
	m := &domain.Mandant{}
	query := `
		SELECT uuid, name, website, email, created_at
		FROM mandants
		WHERE uuid = $1
	`
	err := r.db.QueryRowContext(ctx, query, uuid).Scan(
		&m.UUID, &m.Name, &m.Website, &m.Email, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get mandant: %w", err)
	}
	return m, nil
}
