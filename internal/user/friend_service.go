package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"gorelay/internal/dbmysql"
)

// FriendService handles friend-request creation and acceptance
type FriendService interface {
	SendRequest(ctx context.Context, from, to string) (*dbmysql.FriendRequest, error)
	// AcceptRequest returns the accepted request so the caller knows both
	// parties to notify
	AcceptRequest(ctx context.Context, requestID string) (*dbmysql.FriendRequest, error)
	ListFriends(ctx context.Context, userID string) ([]*dbmysql.User, error)
}

type friendService struct {
	userRepo   UserRepository
	friendRepo FriendRepository
}

func NewFriendService(userRepo UserRepository, friendRepo FriendRepository) FriendService {
	return &friendService{userRepo: userRepo, friendRepo: friendRepo}
}

func (s *friendService) SendRequest(ctx context.Context, from, to string) (*dbmysql.FriendRequest, error) {
	if from == "" || to == "" {
		return nil, errors.New("both sender and recipient are required")
	}
	if from == to {
		return nil, errors.New("cannot send a friend request to yourself")
	}

	req := &dbmysql.FriendRequest{
		ID:          uuid.NewString(),
		SenderID:    from,
		RecipientID: to,
	}
	if err := s.friendRepo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *friendService) AcceptRequest(ctx context.Context, requestID string) (*dbmysql.FriendRequest, error) {
	if requestID == "" {
		return nil, errors.New("request ID is required")
	}

	req, err := s.friendRepo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.friendRepo.AcceptRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *friendService) ListFriends(ctx context.Context, userID string) ([]*dbmysql.User, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	return s.friendRepo.ListFriends(ctx, userID)
}
