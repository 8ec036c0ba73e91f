package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
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

	cleanup := func() {
		db.Close()
	}

	return gormDB, mock, cleanup
}

func TestChatRepository_FindByID_NotFound(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewChatRepository(gormDB)
	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrConversationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_FindByID(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "kind", "participant_key", "participants_ids"}).
		AddRow("conv-1", "direct", "user-1:user-2", `["user-2","user-1"]`)
	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs("conv-1", 1).
		WillReturnRows(rows)

	repo := NewChatRepository(gormDB)
	conv, err := repo.FindByID(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", conv.ID)
	assert.Equal(t, []string{"user-2", "user-1"}, conv.Participants())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_FindOrCreate_ExistingRow(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "kind", "participant_key", "participants_ids"}).
		AddRow("conv-1", "direct", "user-1:user-2", `["user-1","user-2"]`)
	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs("direct", "user-1:user-2", 1).
		WillReturnRows(rows)

	repo := NewChatRepository(gormDB)

	// order of the pair must not matter
	conv, err := repo.FindOrCreate(context.Background(), dbmysql.ConversationKindDirect, []string{"user-2", "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "conv-1", conv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_FindOrCreate_CreatesWhenAbsent(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs("direct", "user-1:user-2", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `conversations`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewChatRepository(gormDB)
	conv, err := repo.FindOrCreate(context.Background(), dbmysql.ConversationKindDirect, []string{"user-1", "user-2"})
	require.NoError(t, err)
	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, "user-1:user-2", conv.ParticipantKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_FindOrCreate_LostRaceFallsBackToWinner(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs("direct", "user-1:user-2", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `conversations`").
		WillReturnError(&gomysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()
	rows := sqlmock.NewRows([]string{"id", "kind", "participant_key", "participants_ids"}).
		AddRow("conv-winner", "direct", "user-1:user-2", `["user-1","user-2"]`)
	mock.ExpectQuery("SELECT (.+) FROM `conversations`").
		WithArgs("direct", "user-1:user-2", 1).
		WillReturnRows(rows)

	repo := NewChatRepository(gormDB)
	conv, err := repo.FindOrCreate(context.Background(), dbmysql.ConversationKindDirect, []string{"user-1", "user-2"})
	require.NoError(t, err)
	assert.Equal(t, "conv-winner", conv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_SaveMessage_BumpsConversationActivity(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `messages`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `conversations` SET `updated_at`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewChatRepository(gormDB)
	err := repo.SaveMessage(context.Background(), &dbmysql.Message{
		ConversationID: "conv-1",
		SenderID:       "user-1",
		Kind:           "Text",
		Text:           "hi",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRepository_FetchHistory_AppendOrder(t *testing.T) {
	gormDB, mock, cleanup := setupTestDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "text"}).
		AddRow(1, "conv-1", "user-1", "first").
		AddRow(2, "conv-1", "user-2", "second")
	mock.ExpectQuery("SELECT (.+) FROM `messages` WHERE conversation_id = (.+) ORDER BY id ASC").
		WithArgs("conv-1").
		WillReturnRows(rows)

	repo := NewChatRepository(gormDB)
	messages, err := repo.FetchHistory(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Text)
	assert.Equal(t, "second", messages[1].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}
