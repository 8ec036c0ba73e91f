package dbmysql

import (
	"time"
)

// Message is one entry in a conversation's append-only log. The
// auto-increment primary key doubles as the append order. FileURL stays
// empty until the upload pipeline fills it in for file-kind messages.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"index;size:36;not null" json:"conversation_id"`
	SenderID       string    `gorm:"index;size:36;not null" json:"from"`
	RecipientID    string    `gorm:"size:36" json:"to,omitempty"` // direct conversations only
	Kind           string    `gorm:"size:16" json:"type"`
	Text           string    `gorm:"type:text" json:"text"`
	FileURL        string    `gorm:"size:512" json:"file,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}
