package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, timezone, default_tz, active, created_at FROM users`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timezone", "default_tz", "active", "created_at"}).
			AddRow(int64(42), "Europe/Riga", false, true, created))

	u, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Timezone != "Europe/Riga" || !u.Active || u.DefaultTZ {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, timezone, default_tz, active, created_at FROM users`).
		WithArgs(int64(42)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 42)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users \(id, timezone, default_tz, active\)`).
		WithArgs(int64(42), "UTC", true, true).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	u, err := repo.Create(context.Background(), &models.User{
		ID: 42, Timezone: "UTC", DefaultTZ: true, Active: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.CreatedAt.Equal(created) {
		t.Fatalf("created_at not populated: %v", u.CreatedAt)
	}
}

func TestSetTimezone_NoRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET timezone = \$2, default_tz = \$3`).
		WithArgs(int64(42), "Asia/Tokyo", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetTimezone(context.Background(), 42, "Asia/Tokyo", false)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestSetActive_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users SET active = \$2`).
		WithArgs(int64(42), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetActive(context.Background(), 42, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListActive_ScansRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, timezone, default_tz, active, created_at FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "timezone", "default_tz", "active", "created_at"}).
			AddRow(int64(1), "UTC", true, true, created).
			AddRow(int64(2), "Europe/Riga", false, true, created))

	list, err := repo.ListActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[1].Timezone != "Europe/Riga" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestListActive_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, timezone, default_tz, active, created_at FROM users`).
		WillReturnError(errors.New("db is down"))

	_, err := repo.ListActive(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
}
