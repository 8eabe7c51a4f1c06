package store

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_Token(t *testing.T) {
	t.Run("returns the stored token", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		rows := sqlmock.NewRows([]string{"key", "value"}).
			AddRow("auth_token", "jwt-abc")
		mock.ExpectQuery(`SELECT \* FROM "entries" WHERE key = \$1`).
			WithArgs("auth_token", 1).
			WillReturnRows(rows)

		token, err := s.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "jwt-abc", token)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing entry means logged out, not an error", func(t *testing.T) {
		gormDB, mock := newTestDB(t)
		s := NewGormStore(gormDB)

		mock.ExpectQuery(`SELECT \* FROM "entries" WHERE key = \$1`).
			WithArgs("auth_token", 1).
			WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

		token, err := s.Token(context.Background())
		require.NoError(t, err)
		assert.Empty(t, token)
	})
}

func TestGormStore_SaveToken(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "entries" .* ON CONFLICT \("key"\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.SaveToken(context.Background(), "jwt-new")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ClearToken(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "entries" WHERE key = \$1`).
		WithArgs("auth_token").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.ClearToken(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_ReturnPath(t *testing.T) {
	gormDB, mock := newTestDB(t)
	s := NewGormStore(gormDB)

	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("return_path", "/admin/produtos")
	mock.ExpectQuery(`SELECT \* FROM "entries" WHERE key = \$1`).
		WithArgs("return_path", 1).
		WillReturnRows(rows)

	path, err := s.ReturnPath(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/admin/produtos", path)
}
