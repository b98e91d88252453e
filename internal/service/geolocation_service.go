package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/nestboxd/internal/domain"
)

// GeolocationService maintains the position history of nestboxes. For
// each nestbox at most one record is open-ended at any time.
type GeolocationService struct {
	geolocations domain.GeolocationRepository
	logger       *slog.Logger
}

// NewGeolocationService creates a new geolocation service
func NewGeolocationService(geolocations domain.GeolocationRepository, logger *slog.Logger) *GeolocationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeolocationService{geolocations: geolocations, logger: logger}
}

// Post closes the nestbox's currently-open position record, then inserts
// the new one with the far-future sentinel. The close must happen before
// the insert for a given nestbox; sequences for different nestboxes may
// interleave freely.
func (s *GeolocationService) Post(ctx context.Context, nestboxUUID string, longitude, latitude float64) (*domain.Geolocation, error) {
	now := time.Now().UTC()
	if err := s.geolocations.CloseOpen(ctx, nestboxUUID, now); err != nil {
		return nil, fmt.Errorf("failed to terminate current position: %w", err)
	}

	geolocation := &domain.Geolocation{
		UUID:        uuid.NewString(),
		NestboxUUID: nestboxUUID,
		FromDate:    now,
		UntilDate:   domain.OpenEndedUntil,
		Longitude:   longitude,
		Latitude:    latitude,
	}
	if err := s.geolocations.Insert(ctx, geolocation); err != nil {
		return nil, fmt.Errorf("failed to insert position: %w", err)
	}
	return geolocation, nil
}
