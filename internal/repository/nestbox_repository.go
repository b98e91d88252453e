package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/yourorg/nestboxd/internal/domain"
)

// PostgresNestboxRepository implements domain.NestboxRepository using PostgreSQL
type PostgresNestboxRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresNestboxRepository creates a new nestbox repository
func NewPostgresNestboxRepository(db *sql.DB, logger *slog.Logger) *PostgresNestboxRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresNestboxRepository{db: db, logger: logger}
}

// Create inserts a new nestbox
func (r *PostgresNestboxRepository) Create(ctx context.Context, nestbox *domain.Nestbox) error {
	query := `
		INSERT INTO nestboxes (uuid, mandant_uuid, public, images)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	images := nestbox.Images
	if images == nil {
		images = []string{}
	}
	err := r.db.QueryRowContext(ctx, query,
		nestbox.UUID, nestbox.MandantUUID, nestbox.Public, pq.Array(images),
	).Scan(&nestbox.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create nestbox: %w", err)
	}
	return nil
}

// GetByUUID retrieves a nestbox by its uuid
func (r *PostgresNestboxRepository) GetByUUID(ctx context.Context, uuid string) (*domain.Nestbox, error) {
	query := `
		SELECT uuid, mandant_uuid, public, images, created_at
		FROM nestboxes
		WHERE uuid = $1
	`
	return r.scanNestbox(r.db.QueryRowContext(ctx, query, uuid))
}

// GetDetailByUUID retrieves a nestbox joined with its owning mandant
func (r *PostgresNestboxRepository) GetDetailByUUID(ctx context.Context, uuid string) (*domain.NestboxDetail, error) {
	d := &domain.NestboxDetail{}
	query := `
		SELECT n.uuid, n.public, n.images, n.created_at, m.name, m.website
		FROM nestboxes n
		JOIN mandants m ON m.uuid = n.mandant_uuid
		WHERE n.uuid = $1
	`
	err := r.db.QueryRowContext(ctx, query, uuid).Scan(
		&d.UUID, &d.Public, pq.Array(&d.Images), &d.CreatedAt,
		&d.MandantName, &d.MandantWebsite,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get nestbox detail: %w", err)
	}
	if d.Images == nil {
		d.Images = []string{}
	}
	return d, nil
}

// GetByUUIDAndMandant retrieves a nestbox filtered by both id and tenant.
// A nestbox of another mandant yields ErrNotFound, indistinguishable from
// the nestbox not existing.
func (r *PostgresNestboxRepository) GetByUUIDAndMandant(ctx context.Context, uuid, mandantUUID string) (*domain.Nestbox, error) {
	query := `
		SELECT uuid, mandant_uuid, public, images, created_at
		FROM nestboxes
		WHERE uuid = $1 AND mandant_uuid = $2
	`
	return r.scanNestbox(r.db.QueryRowContext(ctx, query, uuid, mandantUUID))
}

// AppendImages adds content-derived file names to the nestbox's images
// set. Names already present are skipped, so repeated uploads of the same
// content stay idempotent.
func (r *PostgresNestboxRepository) AppendImages(ctx context.Context, uuid string, fileNames []string) error {
	query := `
		UPDATE nestboxes
		SET images = array_append(images, $2)
		WHERE uuid = $1 AND NOT ($2 = ANY (images))
	`
	for _, name := range fileNames {
		if _, err := r.db.ExecContext(ctx, query, uuid, name); err != nil {
			return fmt.Errorf("failed to append image %s: %w", name, err)
		}
	}
	return nil
}

func (r *PostgresNestboxRepository) scanNestbox(row *sql.Row) (*domain.Nestbox, error) {
	n := &domain.Nestbox{}
	err := row.Scan(&n.UUID, &n.MandantUUID, &n.Public, pq.Array(&n.Images), &n.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get nestbox: %w", err)
	}
	if n.Images == nil {
		n.Images = []string{}
	}
	return n, nil
}
