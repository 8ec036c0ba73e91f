package dbmysql

import (
	"time"
)

const (
	CallKindAudio = "audio"
	CallKindVideo = "video"

	CallStatusOngoing = "Ongoing"
	CallStatusEnded   = "Ended"

	CallVerdictAccepted = "Accepted"
	CallVerdictDenied   = "Denied"
	CallVerdictMissed   = "Missed"
	CallVerdictBusy     = "Busy"
)

// CallSession records one call attempt. Rows are append-mostly: created on
// call start, mutated once by the receiver's disposition, never deleted.
// Verdict stays empty while the call is Ongoing and undecided.
type CallSession struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	Kind           string     `gorm:"type:enum('audio','video');not null;index:idx_kind_pair,priority:1" json:"kind"`
	ParticipantKey string     `gorm:"size:96;not null;index:idx_kind_pair,priority:2" json:"-"`
	FromID         string     `gorm:"column:from_id;size:36;not null" json:"from"`
	ToID           string     `gorm:"column:to_id;size:36;not null" json:"to"`
	RoomID         string     `gorm:"column:room_id;size:64" json:"room_id"`
	Status         string     `gorm:"type:enum('Ongoing','Ended');default:'Ongoing'" json:"status"`
	Verdict        string     `gorm:"size:16" json:"verdict,omitempty"`
	StartedAt      time.Time  `gorm:"column:started_at;autoCreateTime" json:"started_at"`
	EndedAt        *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
}
