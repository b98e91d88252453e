package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/yourorg/nestboxd/internal/domain"
)

// PostgresBreedRepository implements domain.BreedRepository using PostgreSQL
type PostgresBreedRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBreedRepository creates a new breed repository
func NewPostgresBreedRepository(db *sql.DB, logger *slog.Logger) *PostgresBreedRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBreedRepository{db: db, logger: logger}
}

// Create inserts a new discovery event
func (r *PostgresBreedRepository) Create(ctx context.Context, breed *domain.Breed) error {
	query := `
		INSERT INTO breeds (uuid, mandant_uuid, nestbox_uuid, user_uuid, bird_uuid, discovery_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		breed.UUID, breed.MandantUUID, breed.NestboxUUID,
		breed.UserUUID, breed.BirdUUID, breed.DiscoveryDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create breed: %w", err)
	}
	return nil
}

// ListByNestbox returns one page of a nestbox's breeds, newest first,
// left-joined with the birds catalog. The count reflects the breeds base
// filter only, never the join, and degrades to zero on failure.
func (r *PostgresBreedRepository) ListByNestbox(ctx context.Context, nestboxUUID string, includeUser bool, page domain.PageQuery) ([]domain.Breed, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM breeds WHERE nestbox_uuid = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, nestboxUUID).Scan(&total); err != nil {
		r.logger.Warn("breed count failed, reporting zero", slog.String("error", err.Error()))
		total = 0
	}

	query := `
		SELECT b.uuid, b.nestbox_uuid, b.user_uuid, b.discovery_date, bi.uuid, bi.bird
		FROM breeds b
		LEFT JOIN birds bi ON bi.uuid = b.bird_uuid
		WHERE b.nestbox_uuid = $1
		ORDER BY b.discovery_date DESC, b.uuid
		OFFSET $2 LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, nestboxUUID, page.Offset(), page.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list breeds: %w", err)
	}
	defer rows.Close()

	breeds := []domain.Breed{}
	for rows.Next() {
		var b domain.Breed
		var birdUUID, birdName sql.NullString
		if err := rows.Scan(&b.UUID, &b.NestboxUUID, &b.UserUUID, &b.DiscoveryDate, &birdUUID, &birdName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan breed: %w", err)
		}
		if birdUUID.Valid {
			b.Bird = &domain.Bird{UUID: birdUUID.String, Bird: birdName.String}
		}
		if !includeUser {
			b.UserUUID = ""
		}
		breeds = append(breeds, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read breeds: %w", err)
	}
	return breeds, total, nil
}
