package dbmysql

import (
	"encoding/json"
	"time"
)

const (
	ConversationKindDirect = "direct"
	ConversationKindGroup  = "group"
)

// Conversation is a direct or group thread. ParticipantKey is the canonical
// sorted participant list; the unique index makes find-or-create idempotent
// under concurrent calls for the same pair or set.
type Conversation struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Kind            string    `gorm:"type:enum('direct','group');not null;uniqueIndex:idx_kind_participants,priority:1" json:"kind"`
	ParticipantKey  string    `gorm:"size:768;not null;uniqueIndex:idx_kind_participants,priority:2" json:"-"`
	ParticipantsIDs string    `gorm:"type:json" json:"participants"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Participants decodes the stored participant id list
func (c *Conversation) Participants() []string {
	var ids []string
	if err := json.Unmarshal([]byte(c.ParticipantsIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// SetParticipants encodes the participant id list
func (c *Conversation) SetParticipants(ids []string) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	c.ParticipantsIDs = string(raw)
	return nil
}
