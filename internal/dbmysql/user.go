package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

const (
	UserStatusOnline  = "Online"
	UserStatusOffline = "Offline"
)

type User struct {
	UserID      string         `gorm:"primaryKey;column:user_id;size:36" json:"user_id"`
	DisplayName string         `gorm:"column:display_name;size:100;not null" json:"display_name"`
	Email       string         `gorm:"column:email;size:255" json:"email"`
	Status      string         `gorm:"column:status;type:enum('Online','Offline');default:'Offline'" json:"status"`
	SocketID    string         `gorm:"column:socket_id;size:64" json:"socket_id,omitempty"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
