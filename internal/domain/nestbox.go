package domain

import (
	"context"
	"time"
)

// Nestbox is a physical installation tracked per mandant. Images are
// content-derived file names, appended add-if-absent over its lifetime.
type Nestbox struct {
	UUID        string    `json:"uuid"`
	MandantUUID string    `json:"-"`
	Public      bool      `json:"public"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
}

// NestboxDetail is the read model for the single-nestbox endpoint,
// joined with the owning mandant.
type NestboxDetail struct {
	UUID           string    `json:"uuid"`
	Public         bool      `json:"public"`
	Images         []string  `json:"images"`
	CreatedAt      time.Time `json:"created_at"`
	MandantName    string    `json:"mandant_name"`
	MandantWebsite string    `json:"mandant_website"`
}

// NestboxRepository defines data access for nestboxes
type NestboxRepository interface {
	Create(ctx context.Context, nestbox *Nestbox) error
	GetByUUID(ctx context.Context, uuid string) (*Nestbox, error)
	// GetDetailByUUID joins the owning mandant for the public read endpoint.
	GetDetailByUUID(ctx context.Context, uuid string) (*NestboxDetail, error)
	// GetByUUIDAndMandant filters by both id and tenant; a miss is
	// indistinguishable from the nestbox not existing at all.
	GetByUUIDAndMandant(ctx context.Context, uuid, mandantUUID string) (*Nestbox, error)
	// AppendImages adds file names to the images set, skipping names
	// already present.
	AppendImages(ctx context.Context, uuid string, fileNames []string) error
}
