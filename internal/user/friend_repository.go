package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gorelay/internal/dbmysql"
)

var (
	ErrRequestNotFound  = errors.New("friend request not found")
	ErrDuplicateRequest = errors.New("friend request already pending")
)

type FriendRepository interface {
	CreateRequest(ctx context.Context, req *dbmysql.FriendRequest) error
	GetRequest(ctx context.Context, requestID string) (*dbmysql.FriendRequest, error)
	// AcceptRequest writes both friendship directions and deletes the
	// request in one transaction, so a failure can never leave a
	// one-directional friendship behind.
	AcceptRequest(ctx context.Context, req *dbmysql.FriendRequest) error
	ListFriends(ctx context.Context, userID string) ([]*dbmysql.User, error)
}

type friendRepository struct {
	db *gorm.DB
}

func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateRequest(ctx context.Context, req *dbmysql.FriendRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRequest
	}
	return err
}

func (r *friendRepository) GetRequest(ctx context.Context, requestID string) (*dbmysql.FriendRequest, error) {
	var req dbmysql.FriendRequest
	err := r.db.WithContext(ctx).Where("id = ?", requestID).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *friendRepository) AcceptRequest(ctx context.Context, req *dbmysql.FriendRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pair := []*dbmysql.Friend{
			{UserID: req.SenderID, FriendUserID: req.RecipientID},
			{UserID: req.RecipientID, FriendUserID: req.SenderID},
		}
		for _, friend := range pair {
			if err := tx.Create(friend).Error; err != nil {
				// already friends is fine once, for example after a
				// crossed pair of requests
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				return err
			}
		}

		result := tx.Where("id = ?", req.ID).Delete(&dbmysql.FriendRequest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// someone else accepted it first; roll everything back
			return ErrRequestNotFound
		}
		return nil
	})
}

func (r *friendRepository) ListFriends(ctx context.Context, userID string) ([]*dbmysql.User, error) {
	var friends []dbmysql.Friend
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&friends).Error
	if err != nil {
		return nil, err
	}

	if len(friends) == 0 {
		return []*dbmysql.User{}, nil
	}

	ids := make([]string, 0, len(friends))
	for _, f := range friends {
		ids = append(ids, f.FriendUserID)
	}

	var users []*dbmysql.User
	err = r.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error
	return users, err
}
