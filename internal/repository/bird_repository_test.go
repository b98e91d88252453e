package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/yourorg/nestboxd/internal/domain"
)

func setupBirdMock(t *testing.T) (*PostgresBirdRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresBirdRepository(db, nil), mock
}

func TestBirdListByMandantPageMath(t *testing.T) {
	repo, mock := setupBirdMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM birds WHERE mandant_uuid = $1`)).
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(250))

	rows := sqlmock.NewRows([]string{"uuid", "bird"}).
		AddRow("b-1", "Amsel").
		AddRow("b-2", "Blaumeise")
	// page 3 with limit 100 skips 200 records
	mock.ExpectQuery(`SELECT uuid, bird`).
		WithArgs("m-1", int64(200), int64(100)).
		WillReturnRows(rows)

	page := domain.PageQuery{Limit: 100, Number: 3}
	birds, total, err := repo.ListByMandant(context.Background(), "m-1", page)
	if err != nil {
		t.Fatalf("ListByMandant: %v", err)
	}
	if total != 250 {
		t.Errorf("total = %d, want 250", total)
	}
	if len(birds) != 2 || birds[0].Bird != "Amsel" {
		t.Errorf("unexpected birds: %+v", birds)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBirdListCountDegradesToZero(t *testing.T) {
	repo, mock := setupBirdMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WillReturnError(errors.New("count failed"))
	mock.ExpectQuery(`SELECT uuid, bird`).
		WithArgs("m-1", int64(0), int64(100)).
		WillReturnRows(sqlmock.NewRows([]string{"uuid", "bird"}).AddRow("b-1", "Amsel"))

	birds, total, err := repo.ListByMandant(context.Background(), "m-1", domain.PageQuery{Limit: 100, Number: 1})
	if err != nil {
		t.Fatalf("a failed count must not fail the list: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0 on count failure", total)
	}
	if len(birds) != 1 {
		t.Errorf("fetch must still run, got %d birds", len(birds))
	}
}

func TestBirdListFetchFailureFailsHard(t *testing.T) {
	repo, mock := setupBirdMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
	mock.ExpectQuery(`SELECT uuid, bird`).
		WillReturnError(errors.New("fetch failed"))

	if _, _, err := repo.ListByMandant(context.Background(), "m-1", domain.PageQuery{Limit: 100, Number: 1}); err == nil {
		t.Fatal("a failed fetch must fail the list")
	}
}
