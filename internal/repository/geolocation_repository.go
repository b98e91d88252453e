package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourorg/nestboxd/internal/domain"
)

// PostgresGeolocationRepository implements domain.GeolocationRepository using PostgreSQL
type PostgresGeolocationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresGeolocationRepository creates a new geolocation repository
func NewPostgresGeolocationRepository(db *sql.DB, logger *slog.Logger) *PostgresGeolocationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGeolocationRepository{db: db, logger: logger}
}

// CloseOpen terminates the currently-open position record of a nestbox by
// setting its until_date to now. A nestbox without an open record is left
// untouched.
func (r *PostgresGeolocationRepository) CloseOpen(ctx context.Context, nestboxUUID string, now time.Time) error {
	query := `
		UPDATE geolocations
		SET until_date = $2
		WHERE nestbox_uuid = $1 AND until_date > $2
	`
	if _, err := r.db.ExecContext(ctx, query, nestboxUUID, now); err != nil {
		return fmt.Errorf("failed to close open geolocation: %w", err)
	}
	return nil
}

// Insert stores a new position record
func (r *PostgresGeolocationRepository) Insert(ctx context.Context, geolocation *domain.Geolocation) error {
	query := `
		INSERT INTO geolocations (uuid, nestbox_uuid, from_date, until_date, longitude, latitude)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		geolocation.UUID, geolocation.NestboxUUID,
		geolocation.FromDate, geolocation.UntilDate,
		geolocation.Longitude, geolocation.Latitude,
	)
	if err != nil {
		return fmt.Errorf("failed to insert geolocation: %w", err)
	}
	return nil
}
