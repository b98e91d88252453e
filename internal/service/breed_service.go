package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/nestboxd/internal/domain"
)

// BreedService records and lists discovery events.
type BreedService struct {
	breeds domain.BreedRepository
	logger *slog.Logger
}

// NewBreedService creates a new breed service
func NewBreedService(breeds domain.BreedRepository, logger *slog.Logger) *BreedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BreedService{breeds: breeds, logger: logger}
}

// List returns one page of a nestbox's breeds. The discovering user is
// only included for authenticated callers.
func (s *BreedService) List(ctx context.Context, nestboxUUID string, session domain.SessionObject, page domain.PageQuery) (domain.PageEnvelope[domain.Breed], error) {
	page.Sanitize()
	breeds, total, err := s.breeds.ListByNestbox(ctx, nestboxUUID, session.Valid(), page)
	if err != nil {
		return domain.PageEnvelope[domain.Breed]{}, err
	}
	return domain.NewPageEnvelope(breeds, total, page), nil
}

// Create records a discovery event for the session's user and mandant.
// The caller must have authorized the nestbox beforehand.
func (s *BreedService) Create(ctx context.Context, session domain.SessionObject, nestboxUUID, birdUUID string) (*domain.Breed, error) {
	breed := &domain.Breed{
		UUID:          uuid.NewString(),
		MandantUUID:   session.MandantUUID(),
		NestboxUUID:   nestboxUUID,
		UserUUID:      session.UserUUID(),
		BirdUUID:      birdUUID,
		DiscoveryDate: time.Now().UTC(),
	}
	if err := s.breeds.Create(ctx, breed); err != nil {
		return nil, fmt.Errorf("failed to record breed: %w", err)
	}
	return breed, nil
}
