package user

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gorelay/internal/dbmysql"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return gormDB, mock, func() { db.Close() }
}

func TestFriendRepository_AcceptRequest_SingleTransaction(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `friends`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `friends`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("DELETE FROM `friend_requests`").
		WithArgs("req-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewFriendRepository(gormDB)
	err := repo.AcceptRequest(context.Background(), &dbmysql.FriendRequest{
		ID:          "req-1",
		SenderID:    "user-1",
		RecipientID: "user-2",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendRepository_AcceptRequest_AlreadyAcceptedRollsBack(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `friends`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `friends`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("DELETE FROM `friend_requests`").
		WithArgs("req-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := NewFriendRepository(gormDB)
	err := repo.AcceptRequest(context.Background(), &dbmysql.FriendRequest{
		ID:          "req-1",
		SenderID:    "user-1",
		RecipientID: "user-2",
	})
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendRepository_GetRequest_NotFound(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM `friend_requests`").
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewFriendRepository(gormDB)
	_, err := repo.GetRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
