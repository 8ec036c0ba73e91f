package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gorelay/internal/dbmysql"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*dbmysql.User, error)
	GetUsers(ctx context.Context, ids []string) ([]*dbmysql.User, error)
	SetOnline(ctx context.Context, userID, socketID string) error
	SetOffline(ctx context.Context, userID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUser(ctx context.Context, userID string) (*dbmysql.User, error) {
	var user dbmysql.User
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUsers(ctx context.Context, ids []string) ([]*dbmysql.User, error) {
	if len(ids) == 0 {
		return []*dbmysql.User{}, nil
	}
	var users []*dbmysql.User
	err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error
	return users, err
}

// SetOnline records the live socket id on the user row. Updating zero rows
// is not an error: the identity may belong to a user this instance has
// never stored.
func (r *userRepository) SetOnline(ctx context.Context, userID, socketID string) error {
	return r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":    dbmysql.UserStatusOnline,
			"socket_id": socketID,
		}).Error
}

func (r *userRepository) SetOffline(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&dbmysql.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":    dbmysql.UserStatusOffline,
			"socket_id": "",
		}).Error
}
