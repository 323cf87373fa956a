// internal/models/livestream.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// LiveStream always starts in scheduled, even when StartTime is already in
// the past; activation is an explicit producer action, never wall-clock.
type LiveStream struct {
	BaseModel
	ProducerID  uuid.UUID        `json:"producer_id" gorm:"type:uuid;not null;index"`
	Title       string           `json:"title" gorm:"size:255;not null"`
	Description string           `json:"description" gorm:"type:text"`
	StartTime   time.Time        `json:"start_time" gorm:"not null"`
	Status      LiveStreamStatus `json:"status" gorm:"type:varchar(20);default:'scheduled';index"`
	Story       string           `json:"story" gorm:"type:text"`

	// Relationships
	Producer Producer `json:"producer,omitempty" gorm:"foreignKey:ProducerID;references:UserID"`
}

// Strictly forward, no reversal.
var liveStreamTransitions = map[LiveStreamStatus]LiveStreamStatus{
	LiveStreamStatusScheduled: LiveStreamStatusActive,
	LiveStreamStatusActive:    LiveStreamStatusEnded,
}

func (s LiveStreamStatus) CanTransitionTo(next LiveStreamStatus) bool {
	return liveStreamTransitions[s] == next
}

func (s LiveStreamStatus) Valid() bool {
	switch s {
	case LiveStreamStatusScheduled, LiveStreamStatusActive, LiveStreamStatusEnded:
		return true
	}
	return false
}
