package service

import (
	"context"
	"errors"
	"time"

	"gorelay/internal/chat/repository"
	"gorelay/internal/common"
	"gorelay/internal/dbmysql"
)

// UserLoader fetches user snapshots for conversation payloads
type UserLoader interface {
	GetUsers(ctx context.Context, ids []string) ([]*dbmysql.User, error)
}

// ConversationView is a conversation with its participant user snapshots
// and message log, the shape delivered to clients in start_chat and
// conversation listings. Messages is empty, never nil, on a fresh
// conversation.
type ConversationView struct {
	Conversation *dbmysql.Conversation `json:"conversation"`
	Participants []*dbmysql.User       `json:"participants"`
	Messages     []*dbmysql.Message    `json:"messages"`
}

// DirectText is the input of a direct text message. ConversationID is
// optional; the pair (From, To) resolves the conversation when it is absent.
type DirectText struct {
	ConversationID string
	From           string
	To             string
	Kind           string
	Text           string
}

// GroupText is the input of a group text message. Either ConversationID or
// Participants resolves the conversation.
type GroupText struct {
	ConversationID string
	From           string
	Participants   []string
	Text           string
}

// ChatService defines the interface exposed to the gateway layer
type ChatService interface {
	StartDirect(ctx context.Context, from, to string) (*ConversationView, error)
	StartGroup(ctx context.Context, participants []string) (*ConversationView, error)
	ListDirect(ctx context.Context, userID string) ([]*ConversationView, error)
	ListGroup(ctx context.Context, userID string) ([]*ConversationView, error)
	History(ctx context.Context, conversationID string) ([]*dbmysql.Message, error)

	SendDirectText(ctx context.Context, in DirectText) (*dbmysql.Conversation, *dbmysql.Message, error)
	SendGroupText(ctx context.Context, in GroupText) (*dbmysql.Conversation, *dbmysql.Message, error)

	ResolveDirect(ctx context.Context, conversationID, from, to string) (*dbmysql.Conversation, error)
	ResolveGroup(ctx context.Context, conversationID string, participants []string) (*dbmysql.Conversation, error)
	AppendFileMessage(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error)
}

type chatService struct {
	repo  repository.ChatRepository
	users UserLoader
}

// Constructor used in DI/wire
func NewChatService(repo repository.ChatRepository, users UserLoader) ChatService {
	return &chatService{repo: repo, users: users}
}

func (s *chatService) StartDirect(ctx context.Context, from, to string) (*ConversationView, error) {
	if from == "" || to == "" {
		return nil, errors.New("both participants are required")
	}
	if from == to {
		return nil, errors.New("cannot start a conversation with yourself")
	}

	conv, err := s.repo.FindOrCreate(ctx, dbmysql.ConversationKindDirect, []string{to, from})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, conv)
}

func (s *chatService) StartGroup(ctx context.Context, participants []string) (*ConversationView, error) {
	if len(participants) < 2 {
		return nil, errors.New("a group needs at least two participants")
	}

	conv, err := s.repo.FindOrCreate(ctx, dbmysql.ConversationKindGroup, participants)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, conv)
}

func (s *chatService) ListDirect(ctx context.Context, userID string) ([]*ConversationView, error) {
	return s.list(ctx, dbmysql.ConversationKindDirect, userID)
}

func (s *chatService) ListGroup(ctx context.Context, userID string) ([]*ConversationView, error) {
	return s.list(ctx, dbmysql.ConversationKindGroup, userID)
}

func (s *chatService) list(ctx context.Context, kind, userID string) ([]*ConversationView, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	conversations, err := s.repo.ListFor(ctx, kind, userID)
	if err != nil {
		return nil, err
	}

	views := make([]*ConversationView, 0, len(conversations))
	for _, conv := range conversations {
		view, err := s.view(ctx, conv)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *chatService) History(ctx context.Context, conversationID string) ([]*dbmysql.Message, error) {
	if conversationID == "" {
		return nil, errors.New("conversation ID is required")
	}
	return s.repo.FetchHistory(ctx, conversationID)
}

// SendDirectText resolves the conversation, derives the real recipient from
// its stored participant pair and appends the message. The recipient
// self-correction mirrors the long-standing routing behavior: the caller's
// `to` only selects the conversation, the stored pair decides who gets
// notified.
func (s *chatService) SendDirectText(ctx context.Context, in DirectText) (*dbmysql.Conversation, *dbmysql.Message, error) {
	if in.From == "" {
		return nil, nil, errors.New("sender ID cannot be empty")
	}
	if in.Text == "" {
		return nil, nil, errors.New("message text cannot be empty")
	}

	conv, err := s.ResolveDirect(ctx, in.ConversationID, in.From, in.To)
	if err != nil {
		return nil, nil, err
	}

	to := correctedRecipient(conv, in.From)

	kind := in.Kind
	if !common.MessageKind(kind).IsValid() {
		kind = common.MessageKindText.String()
	}

	msg := &dbmysql.Message{
		ConversationID: conv.ID,
		SenderID:       in.From,
		RecipientID:    to,
		Kind:           kind,
		Text:           in.Text,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.SaveMessage(ctx, msg); err != nil {
		return nil, nil, err
	}
	return conv, msg, nil
}

func (s *chatService) SendGroupText(ctx context.Context, in GroupText) (*dbmysql.Conversation, *dbmysql.Message, error) {
	if in.From == "" {
		return nil, nil, errors.New("sender ID cannot be empty")
	}
	if in.Text == "" {
		return nil, nil, errors.New("message text cannot be empty")
	}

	conv, err := s.ResolveGroup(ctx, in.ConversationID, in.Participants)
	if err != nil {
		return nil, nil, err
	}

	msg := &dbmysql.Message{
		ConversationID: conv.ID,
		SenderID:       in.From,
		Kind:           common.MessageKindText.String(),
		Text:           in.Text,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.SaveMessage(ctx, msg); err != nil {
		return nil, nil, err
	}
	return conv, msg, nil
}

func (s *chatService) ResolveDirect(ctx context.Context, conversationID, from, to string) (*dbmysql.Conversation, error) {
	if conversationID != "" {
		return s.repo.FindByID(ctx, conversationID)
	}
	if from == "" || to == "" || from == to {
		return nil, repository.ErrConversationNotFound
	}
	return s.repo.FindOrCreate(ctx, dbmysql.ConversationKindDirect, []string{to, from})
}

func (s *chatService) ResolveGroup(ctx context.Context, conversationID string, participants []string) (*dbmysql.Conversation, error) {
	if conversationID != "" {
		return s.repo.FindByID(ctx, conversationID)
	}
	if len(participants) < 2 {
		return nil, repository.ErrConversationNotFound
	}
	return s.repo.FindOrCreate(ctx, dbmysql.ConversationKindGroup, participants)
}

// AppendFileMessage appends a message whose file location was filled in by
// the upload pipeline
func (s *chatService) AppendFileMessage(ctx context.Context, msg *dbmysql.Message) (*dbmysql.Message, error) {
	if msg.ConversationID == "" {
		return nil, errors.New("conversation ID cannot be empty")
	}
	if msg.SenderID == "" {
		return nil, errors.New("sender ID cannot be empty")
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *chatService) view(ctx context.Context, conv *dbmysql.Conversation) (*ConversationView, error) {
	users, err := s.users.GetUsers(ctx, conv.Participants())
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.FetchHistory(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*dbmysql.Message{}
	}
	return &ConversationView{Conversation: conv, Participants: users, Messages: messages}, nil
}

// correctedRecipient picks the other side of the stored pair relative to the
// sender
func correctedRecipient(conv *dbmysql.Conversation, from string) string {
	participants := conv.Participants()
	if len(participants) == 0 {
		return ""
	}
	to := participants[0]
	if to == from && len(participants) > 1 {
		to = participants[1]
	}
	return to
}
