package domain

import (
	"context"
	"time"
)

// OpenEndedUntil is the far-future until_date carried by the single
// currently-open geolocation record of a nestbox.
var OpenEndedUntil = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// Geolocation is a time-windowed position record for a nestbox. The
// current position is the one record whose until_date lies in the future.
type Geolocation struct {
	UUID        string    `json:"uuid"`
	NestboxUUID string    `json:"nestbox_uuid"`
	FromDate    time.Time `json:"from_date"`
	UntilDate   time.Time `json:"until_date"`
	Longitude   float64   `json:"long"`
	Latitude    float64   `json:"lat"`
}

// GeolocationRepository defines data access for geolocations
type GeolocationRepository interface {
	// CloseOpen sets until_date to now on any record of the nestbox whose
	// until_date is still in the future. Idempotent when none is open.
	CloseOpen(ctx context.Context, nestboxUUID string, now time.Time) error
	Insert(ctx context.Context, geolocation *Geolocation) error
}
