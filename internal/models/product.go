// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Product prices are integer paise. Stock is decremented only inside the
// order-creation transaction, never set negative by any write path.
type Product struct {
	BaseModel
	ProducerID         uuid.UUID  `json:"producer_id" gorm:"type:uuid;not null;index"`
	Title              string     `json:"title" gorm:"size:255;not null"`
	Description        string     `json:"description" gorm:"type:text"`
	Price              int64      `json:"price" gorm:"not null"`
	Stock              int        `json:"stock" gorm:"not null;default:0"`
	Region             string     `json:"region" gorm:"size:100;index"`
	RarityBadge        string     `json:"rarity_badge" gorm:"size:50;index"`
	RarityCountdownEnd *time.Time `json:"rarity_countdown_end"`
	LiveVideoURL       string     `json:"live_video_url" gorm:"size:512"`
	ThumbnailURL       string     `json:"thumbnail_url" gorm:"size:512"`
	VoiceNoteURL       string     `json:"voice_note_url" gorm:"size:512"`

	// Relationships
	Producer Producer `json:"producer,omitempty" gorm:"foreignKey:ProducerID;references:UserID"`
	Orders   []Order  `json:"orders,omitempty" gorm:"foreignKey:ProductID"`
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}
