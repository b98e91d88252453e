package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/yourorg/nestboxd/internal/domain"
)

func TestGeolocationCloseOpenThenInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	defer db.Close()
	repo := NewPostgresGeolocationRepository(db, nil)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(`SET until_date = $2`)).
		WithArgs("n-1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.CloseOpen(context.Background(), "n-1", now); err != nil {
		t.Fatalf("CloseOpen: %v", err)
	}

	geo := &domain.Geolocation{
		UUID:        "g-1",
		NestboxUUID: "n-1",
		FromDate:    now,
		UntilDate:   domain.OpenEndedUntil,
		Longitude:   8.005,
		Latitude:    48.05,
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO geolocations`)).
		WithArgs(geo.UUID, geo.NestboxUUID, geo.FromDate, geo.UntilDate, geo.Longitude, geo.Latitude).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Insert(context.Background(), geo); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
