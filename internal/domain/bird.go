package domain

import "context"

// Bird is a catalog entry scoped to a mandant, read-only for the core.
type Bird struct {
	UUID        string `json:"uuid"`
	MandantUUID string `json:"-"`
	Bird        string `json:"bird"`
}

// BirdRepository defines data access for birds
type BirdRepository interface {
	Create(ctx context.Context, bird *Bird) error
	// ListByMandant returns one page of the mandant's birds ordered by
	// display name, and the total count over the base filter. A failed
	// count degrades to zero instead of failing the list.
	ListByMandant(ctx context.Context, mandantUUID string, page PageQuery) ([]Bird, int64, error)
}
