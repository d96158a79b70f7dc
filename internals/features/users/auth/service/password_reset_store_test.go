package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return gdb, mock
}

func TestGormResetStore_TokenByValueMissing(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewGormResetStore(gdb)

	mock.ExpectQuery(`SELECT .+ FROM "password_reset_tokens"`).
		WithArgs("no-such-token", 1).
		WillReturnRows(sqlmock.NewRows([]string{"reset_token_id"}))

	token, err := store.TokenByValue(context.Background(), "no-such-token")

	require.NoError(t, err)
	assert.Nil(t, token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormResetStore_TokenByValueFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewGormResetStore(gdb)

	tokenID := uuid.New()
	userID := uuid.New()
	expires := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"reset_token_id", "reset_token_user_id", "reset_token_value",
		"reset_token_expires_at", "reset_token_used_at", "reset_token_created_at",
	}).AddRow(tokenID, userID, "tok-1", expires, nil, time.Now())

	mock.ExpectQuery(`SELECT .+ FROM "password_reset_tokens"`).
		WithArgs("tok-1", 1).
		WillReturnRows(rows)

	token, err := store.TokenByValue(context.Background(), "tok-1")

	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, userID, token.ResetTokenUserID)
	assert.Nil(t, token.ResetTokenUsedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormResetStore_DeleteToken(t *testing.T) {
	gdb, mock := newMockDB(t)
	store := NewGormResetStore(gdb)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "password_reset_tokens"`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.DeleteToken(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
