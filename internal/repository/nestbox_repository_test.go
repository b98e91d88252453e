package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/yourorg/nestboxd/internal/domain"
)

func setupNestboxMock(t *testing.T) (*PostgresNestboxRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresNestboxRepository(db, nil), mock
}

func TestNestboxGetByUUIDAndMandant(t *testing.T) {
	repo, mock := setupNestboxMock(t)

	rows := sqlmock.NewRows([]string{"uuid", "mandant_uuid", "public", "images", "created_at"}).
		AddRow("n-1", "m-1", true, pq.Array([]string{"abc.png"}), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE uuid = $1 AND mandant_uuid = $2`)).
		WithArgs("n-1", "m-1").
		WillReturnRows(rows)

	n, err := repo.GetByUUIDAndMandant(context.Background(), "n-1", "m-1")
	if err != nil {
		t.Fatalf("GetByUUIDAndMandant: %v", err)
	}
	if n.UUID != "n-1" || len(n.Images) != 1 {
		t.Errorf("unexpected nestbox: %+v", n)
	}
}

func TestNestboxWrongMandantIsNotFound(t *testing.T) {
	repo, mock := setupNestboxMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE uuid = $1 AND mandant_uuid = $2`)).
		WithArgs("n-1", "m-other").
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "mandant_uuid", "public", "images", "created_at"}))

	_, err := repo.GetByUUIDAndMandant(context.Background(), "n-1", "m-other")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("a foreign nestbox must read as not found, got %v", err)
	}
}

func TestNestboxGetDetailJoinsMandant(t *testing.T) {
	repo, mock := setupNestboxMock(t)

	rows := sqlmock.NewRows([]string{"uuid", "public", "images", "created_at", "name", "website"}).
		AddRow("n-1", true, pq.Array([]string{}), time.Now(), "BirdLife", "https://birdlife.example")
	mock.ExpectQuery(`JOIN mandants`).
		WithArgs("n-1").
		WillReturnRows(rows)

	d, err := repo.GetDetailByUUID(context.Background(), "n-1")
	if err != nil {
		t.Fatalf("GetDetailByUUID: %v", err)
	}
	if d.MandantName != "BirdLife" {
		t.Errorf("MandantName = %q", d.MandantName)
	}
	if d.Images == nil {
		t.Error("images must be an empty slice, not nil")
	}
}

func TestNestboxAppendImagesSkipsPresent(t *testing.T) {
	repo, mock := setupNestboxMock(t)

	// one UPDATE per name; the WHERE clause makes re-appends no-ops
	mock.ExpectExec(regexp.QuoteMeta(`NOT ($2 = ANY (images))`)).
		WithArgs("n-1", "abc.png").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`NOT ($2 = ANY (images))`)).
		WithArgs("n-1", "def.jpg").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.AppendImages(context.Background(), "n-1", []string{"abc.png", "def.jpg"}); err != nil {
		t.Fatalf("AppendImages: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
