package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gorelay/internal/common"
	"gorelay/internal/dbmysql"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ChatRepository interface {
	FindByID(ctx context.Context, conversationID string) (*dbmysql.Conversation, error)
	FindOrCreate(ctx context.Context, kind string, participants []string) (*dbmysql.Conversation, error)
	ListFor(ctx context.Context, kind, userID string) ([]*dbmysql.Conversation, error)
	SaveMessage(ctx context.Context, msg *dbmysql.Message) error
	FetchHistory(ctx context.Context, conversationID string) ([]*dbmysql.Message, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) FindByID(ctx context.Context, conversationID string) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", conversationID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindOrCreate looks a conversation up by its canonical participant key and
// creates it when absent. The unique (kind, participant_key) index turns a
// lost race between two concurrent creates into a duplicate-key error, which
// resolves to the winner's row.
func (r *chatRepo) FindOrCreate(ctx context.Context, kind string, participants []string) (*dbmysql.Conversation, error) {
	key := common.SetKey(participants)

	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("kind = ? AND participant_key = ?", kind, key).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = dbmysql.Conversation{
		ID:             uuid.NewString(),
		Kind:           kind,
		ParticipantKey: key,
	}
	if err := conv.SetParticipants(participants); err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Create(&conv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// another handler won the race; use its row
		var existing dbmysql.Conversation
		if err := r.db.WithContext(ctx).
			Where("kind = ? AND participant_key = ?", kind, key).
			First(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListFor returns the user's conversations, most recent activity first.
func (r *chatRepo) ListFor(ctx context.Context, kind, userID string) ([]*dbmysql.Conversation, error) {
	var conversations []*dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Where("kind = ? AND JSON_CONTAINS(participants_ids, JSON_QUOTE(?))", kind, userID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// SaveMessage appends the message and bumps the parent conversation's
// updated_at so ListFor's recency ordering tracks message activity.
func (r *chatRepo) SaveMessage(ctx context.Context, msg *dbmysql.Message) error {
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&dbmysql.Conversation{}).
		Where("id = ?", msg.ConversationID).
		Update("updated_at", time.Now().UTC()).Error
}

// FetchHistory returns the conversation log in append order
func (r *chatRepo) FetchHistory(ctx context.Context, conversationID string) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}
