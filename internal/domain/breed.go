package domain

import (
	"context"
	"time"
)

// Breed is a discovery event linking a nestbox, the discovering user and
// a bird. Created once, never updated or deleted.
type Breed struct {
	UUID          string    `json:"uuid"`
	MandantUUID   string    `json:"-"`
	NestboxUUID   string    `json:"nestbox_uuid"`
	UserUUID      string    `json:"user_uuid,omitempty"`
	BirdUUID      string    `json:"-"`
	DiscoveryDate time.Time `json:"discovery_date"`
	// Bird is the joined catalog entry, present on list reads.
	Bird *Bird `json:"bird,omitempty"`
}

// BreedRepository defines data access for breeds
type BreedRepository interface {
	Create(ctx context.Context, breed *Breed) error
	// ListByNestbox returns one page of the nestbox's breeds, newest
	// first, left-joined with the birds catalog, plus the total count
	// over the base filter (the join never affects the count). When
	// includeUser is false the discovering user is stripped from the
	// result.
	ListByNestbox(ctx context.Context, nestboxUUID string, includeUser bool, page PageQuery) ([]Breed, int64, error)
}
