package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/yourorg/nestboxd/internal/domain"
)

func setupSessionMock(t *testing.T) (*PostgresSessionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresSessionRepository(db, nil), mock
}

func TestSessionReplaceDeletesThenInserts(t *testing.T) {
	repo, mock := setupSessionMock(t)

	session := &domain.Session{
		SessionKey:  "b955d5ab-531d-45a5-b610-5b456fa509d9",
		Username:    "fg_10",
		UserUUID:    "u-1",
		MandantUUID: "m-1",
		CreatedAt:   time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE username = $1`)).
		WithArgs("fg_10").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WithArgs(session.SessionKey, session.Username, session.UserUUID, session.MandantUUID, session.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Replace(context.Background(), session); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSessionReplaceRollsBackOnInsertError(t *testing.T) {
	repo, mock := setupSessionMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE username = $1`)).
		WithArgs("fg_10").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions`)).
		WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), &domain.Session{Username: "fg_10"})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSessionGetByKey(t *testing.T) {
	repo, mock := setupSessionMock(t)

	created := time.Now()
	rows := sqlmock.NewRows([]string{"session_key", "username", "user_uuid", "mandant_uuid", "created_at"}).
		AddRow("key-1", "fg_10", "u-1", "m-1", created)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE session_key = $1`)).
		WithArgs("key-1").
		WillReturnRows(rows)

	s, err := repo.GetByKey(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("GetByKey: %v", err)
	}
	if s.MandantUUID != "m-1" || s.Username != "fg_10" {
		t.Errorf("unexpected session: %+v", s)
	}
}

func TestSessionGetByKeyMiss(t *testing.T) {
	repo, mock := setupSessionMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE session_key = $1`)).
		WithArgs("n.a.").
		WillReturnRows(sqlmock.NewRows([]string{"session_key", "username", "user_uuid", "mandant_uuid", "created_at"}))

	_, err := repo.GetByKey(context.Background(), "n.a.")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionDeleteByUsernameIdempotent(t *testing.T) {
	repo, mock := setupSessionMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE username = $1`)).
		WithArgs("fg_10").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByUsername(context.Background(), "fg_10"); err != nil {
		t.Fatalf("DeleteByUsername with no rows must not fail: %v", err)
	}
}
