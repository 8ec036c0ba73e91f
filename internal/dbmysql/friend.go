package dbmysql

import (
	"time"
)

// FriendRequest exists only while pending; acceptance deletes the row. The
// unique (sender, recipient) index stops duplicate pending requests.
type FriendRequest struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	SenderID    string    `gorm:"column:sender_id;size:36;not null;uniqueIndex:idx_sender_recipient,priority:1" json:"sender_id"`
	RecipientID string    `gorm:"column:recipient_id;size:36;not null;uniqueIndex:idx_sender_recipient,priority:2" json:"recipient_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Friend is one direction of an accepted friendship. Acceptance writes both
// directions inside a single transaction, so the relation stays symmetric.
type Friend struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string    `gorm:"column:user_id;size:36;not null;uniqueIndex:idx_user_friend,priority:1" json:"user_id"`
	FriendUserID string    `gorm:"column:friend_user_id;size:36;not null;uniqueIndex:idx_user_friend,priority:2" json:"friend_user_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
