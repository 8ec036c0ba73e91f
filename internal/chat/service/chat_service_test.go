package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/mock/gomock"

	"gorelay/internal/chat/service/mocks"
	"gorelay/internal/dbmysql"
)

func directConversation(t *testing.T, id string, participants ...string) *dbmysql.Conversation {
	t.Helper()
	conv := &dbmysql.Conversation{ID: id, Kind: dbmysql.ConversationKindDirect}
	require.NoError(t, conv.SetParticipants(participants))
	return conv
}

func TestChatService_SendDirectText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockChatRepository(ctrl)
	mockUsers := mocks.NewMockUserLoader(ctrl)
	svc := NewChatService(mockRepo, mockUsers)

	tests := []struct {
		name        string
		input       DirectText
		mockSetup   func(t *testing.T)
		wantTo      string
		wantKind    string
		expectError bool
		errorMsg    string
	}{
		{
			name:  "resolves conversation by id and self-corrects recipient",
			input: DirectText{ConversationID: "conv-1", From: "user-1", To: "user-stale", Text: "hi"},
			mockSetup: func(t *testing.T) {
				mockRepo.EXPECT().
					FindByID(gomock.Any(), "conv-1").
					Return(directConversation(t, "conv-1", "user-2", "user-1"), nil)
				mockRepo.EXPECT().
					SaveMessage(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, msg *dbmysql.Message) error {
						assert.WithinDuration(t, time.Now().UTC(), msg.CreatedAt, time.Second)
						return nil
					})
			},
			// recipient comes from the stored pair, not the caller's `to`
			wantTo:   "user-2",
			wantKind: "Text",
		},
		{
			name:  "recipient corrected when first participant is the sender",
			input: DirectText{ConversationID: "conv-1", From: "user-1", To: "user-1", Text: "hi"},
			mockSetup: func(t *testing.T) {
				mockRepo.EXPECT().
					FindByID(gomock.Any(), "conv-1").
					Return(directConversation(t, "conv-1", "user-1", "user-2"), nil)
				mockRepo.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTo:   "user-2",
			wantKind: "Text",
		},
		{
			name:  "without conversation id the pair find-or-creates",
			input: DirectText{From: "user-1", To: "user-2", Kind: "Link", Text: "https://example.com"},
			mockSetup: func(t *testing.T) {
				mockRepo.EXPECT().
					FindOrCreate(gomock.Any(), dbmysql.ConversationKindDirect, []string{"user-2", "user-1"}).
					Return(directConversation(t, "conv-9", "user-2", "user-1"), nil)
				mockRepo.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTo:   "user-2",
			wantKind: "Link",
		},
		{
			name:  "invalid kind defaults to Text",
			input: DirectText{ConversationID: "conv-1", From: "user-1", Kind: "bogus", Text: "hi"},
			mockSetup: func(t *testing.T) {
				mockRepo.EXPECT().
					FindByID(gomock.Any(), "conv-1").
					Return(directConversation(t, "conv-1", "user-1", "user-2"), nil)
				mockRepo.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTo:   "user-2",
			wantKind: "Text",
		},
		{
			name:        "empty text",
			input:       DirectText{ConversationID: "conv-1", From: "user-1"},
			mockSetup:   func(t *testing.T) {},
			expectError: true,
			errorMsg:    "message text cannot be empty",
		},
		{
			name:        "empty sender",
			input:       DirectText{ConversationID: "conv-1", Text: "hi"},
			mockSetup:   func(t *testing.T) {},
			expectError: true,
			errorMsg:    "sender ID cannot be empty",
		},
		{
			name:  "repository save error",
			input: DirectText{ConversationID: "conv-1", From: "user-1", Text: "hi"},
			mockSetup: func(t *testing.T) {
				mockRepo.EXPECT().
					FindByID(gomock.Any(), "conv-1").
					Return(directConversation(t, "conv-1", "user-1", "user-2"), nil)
				mockRepo.EXPECT().
					SaveMessage(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectError: true,
			errorMsg:    "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup(t)

			conv, msg, err := svc.SendDirectText(context.Background(), tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, conv)
			require.NotNil(t, msg)
			assert.Equal(t, conv.ID, msg.ConversationID)
			assert.Equal(t, tt.input.From, msg.SenderID)
			assert.Equal(t, tt.wantTo, msg.RecipientID)
			assert.Equal(t, tt.wantKind, msg.Kind)
		})
	}
}

func TestChatService_StartDirect(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockChatRepository(ctrl)
	mockUsers := mocks.NewMockUserLoader(ctrl)
	svc := NewChatService(mockRepo, mockUsers)

	conv := directConversation(t, "conv-1", "user-2", "user-1")
	mockRepo.EXPECT().
		FindOrCreate(gomock.Any(), dbmysql.ConversationKindDirect, []string{"user-2", "user-1"}).
		Return(conv, nil)
	mockUsers.EXPECT().
		GetUsers(gomock.Any(), []string{"user-2", "user-1"}).
		Return([]*dbmysql.User{{UserID: "user-2"}, {UserID: "user-1"}}, nil)
	mockRepo.EXPECT().FetchHistory(gomock.Any(), "conv-1").Return(nil, nil)

	view, err := svc.StartDirect(context.Background(), "user-1", "user-2")
	require.NoError(t, err)
	assert.Equal(t, "conv-1", view.Conversation.ID)
	assert.Len(t, view.Participants, 2)
	// a fresh conversation carries an empty, non-nil message log
	require.NotNil(t, view.Messages)
	assert.Empty(t, view.Messages)
}

func TestChatService_ListDirect_IncludesMessageLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockChatRepository(ctrl)
	mockUsers := mocks.NewMockUserLoader(ctrl)
	svc := NewChatService(mockRepo, mockUsers)

	conv := directConversation(t, "conv-1", "user-1", "user-2")
	log := []*dbmysql.Message{
		{ID: 1, ConversationID: "conv-1", SenderID: "user-1", Text: "hi"},
		{ID: 2, ConversationID: "conv-1", SenderID: "user-2", Text: "hey"},
	}

	mockRepo.EXPECT().
		ListFor(gomock.Any(), dbmysql.ConversationKindDirect, "user-1").
		Return([]*dbmysql.Conversation{conv}, nil)
	mockUsers.EXPECT().
		GetUsers(gomock.Any(), []string{"user-1", "user-2"}).
		Return([]*dbmysql.User{{UserID: "user-1"}, {UserID: "user-2"}}, nil)
	mockRepo.EXPECT().FetchHistory(gomock.Any(), "conv-1").Return(log, nil)

	views, err := svc.ListDirect(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, log, views[0].Messages)
}

func TestChatService_StartDirect_SelfConversation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewChatService(mocks.NewMockChatRepository(ctrl), mocks.NewMockUserLoader(ctrl))

	_, err := svc.StartDirect(context.Background(), "user-1", "user-1")
	assert.Error(t, err)
}

func TestChatService_StartGroup_NeedsTwoParticipants(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewChatService(mocks.NewMockChatRepository(ctrl), mocks.NewMockUserLoader(ctrl))

	_, err := svc.StartGroup(context.Background(), []string{"user-1"})
	assert.Error(t, err)
}

func TestChatService_SendGroupText(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockChatRepository(ctrl)
	svc := NewChatService(mockRepo, mocks.NewMockUserLoader(ctrl))

	conv := &dbmysql.Conversation{ID: "group-1", Kind: dbmysql.ConversationKindGroup}
	require.NoError(t, conv.SetParticipants([]string{"user-1", "user-2", "user-3"}))

	mockRepo.EXPECT().
		FindOrCreate(gomock.Any(), dbmysql.ConversationKindGroup, []string{"user-1", "user-2", "user-3"}).
		Return(conv, nil)
	mockRepo.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).Return(nil)

	got, msg, err := svc.SendGroupText(context.Background(), GroupText{
		From:         "user-1",
		Participants: []string{"user-1", "user-2", "user-3"},
		Text:         "hello all",
	})
	require.NoError(t, err)
	assert.Equal(t, "group-1", got.ID)
	assert.Equal(t, "Text", msg.Kind)
	assert.Empty(t, msg.RecipientID)
}

func TestChatService_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockChatRepository(ctrl)
	svc := NewChatService(mockRepo, mocks.NewMockUserLoader(ctrl))

	_, err := svc.History(context.Background(), "")
	assert.Error(t, err)

	expected := []*dbmysql.Message{{ID: 1}, {ID: 2}}
	mockRepo.EXPECT().FetchHistory(gomock.Any(), "conv-1").Return(expected, nil)

	messages, err := svc.History(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, expected, messages)
}

func TestChatService_AppendFileMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockChatRepository(ctrl)
	svc := NewChatService(mockRepo, mocks.NewMockUserLoader(ctrl))

	mockRepo.EXPECT().
		SaveMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg *dbmysql.Message) error {
			assert.False(t, msg.CreatedAt.IsZero())
			return nil
		})

	msg, err := svc.AppendFileMessage(context.Background(), &dbmysql.Message{
		ConversationID: "conv-1",
		SenderID:       "user-1",
		Kind:           "Image",
		Text:           "photo.png",
		FileURL:        "/media/abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, "/media/abc123", msg.FileURL)
}
