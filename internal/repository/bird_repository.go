package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yourorg/nestboxd/internal/domain"
)

// PostgresBirdRepository implements domain.BirdRepository using PostgreSQL
type PostgresBirdRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBirdRepository creates a new bird repository
func NewPostgresBirdRepository(db *sql.DB, logger *slog.Logger) *PostgresBirdRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBirdRepository{db: db, logger: logger}
}

// Create inserts a new catalog entry
func (r *PostgresBirdRepository) Create(ctx context.Context, bird *domain.Bird) error {
	query := `INSERT INTO birds (uuid, mandant_uuid, bird) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, bird.UUID, bird.MandantUUID, bird.Bird); err != nil {
		return fmt.Errorf("failed to create bird: %w", err)
	}
	return nil
}

// ListByMandant returns one page of the mandant's birds plus the total
// count. The count uses only the base filter and degrades to zero on
// failure; the fetch failing fails the whole list.
func (r *PostgresBirdRepository) ListByMandant(ctx context.Context, mandantUUID string, page domain.PageQuery) ([]domain.Bird, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM birds WHERE mandant_uuid = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, mandantUUID).Scan(&total); err != nil {
		r.logger.Warn("bird count failed, reporting zero", slog.String("error", err.Error()))
		total = 0
	}

	query := `
		SELECT uuid, bird
		FROM birds
		WHERE mandant_uuid = $1
		ORDER BY bird, uuid
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, mandantUUID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list birds: %w", err)
	}
	defer rows.Close()

	birds := []domain.Bird{}
	for rows.Next() {
		var b domain.Bird
		if err := rows.Scan(&b.UUID, &b.Bird); err != nil {
			return nil, 0, fmt.Errorf("failed to scan bird: %w", err)
		}
		birds = append(birds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read birds: %w", err)
	}
	return birds, total, nil
}
