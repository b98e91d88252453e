package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("not found")

// Mandant represents a tenant, the top-level ownership boundary.
// Mandants are created administratively and never change afterwards.
type Mandant struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Website   string    `json:"website"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// MandantRepository defines data access for mandants
type MandantRepository interface {
	Create(ctx context.Context, mandant *Mandant) error
	GetByUUID(ctx context.Context, uuid string) (*Mandant, error)
}
