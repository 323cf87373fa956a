// internal/models/producer.go
package models

import (
	"github.com/google/uuid"
)

// Producer is the public profile of a selling user. The record is keyed by
// the owning user so "producer identity" and "user identity" are the same
// value everywhere (products, follows, live streams all reference UserID).
type Producer struct {
	BaseModel
	UserID          uuid.UUID      `json:"user_id" gorm:"type:uuid;uniqueIndex;not null"`
	Name            string         `json:"name" gorm:"size:100;not null"`
	Region          string         `json:"region" gorm:"size:100;index"`
	Bio             string         `json:"bio" gorm:"type:text"`
	ProfilePhotoURL string         `json:"profile_photo_url" gorm:"size:512"`
	BrandName       string         `json:"brand_name" gorm:"size:100"`
	BrandTagline    string         `json:"brand_tagline" gorm:"size:255"`
	BrandLogoURL    string         `json:"brand_logo_url" gorm:"size:512"`
	BrandColor      string         `json:"brand_color" gorm:"size:7"`
	VoiceStoryURL   string         `json:"voice_story_url" gorm:"size:512"`
	WhatsApp        string         `json:"whatsapp" gorm:"size:20"`
	RarityBadge     string         `json:"rarity_badge" gorm:"size:50"`
	SocialLinks     JSONB          `json:"social_links" gorm:"type:jsonb"`
	ApprovalStatus  ApprovalStatus `json:"approval_status" gorm:"type:varchar(20);default:'pending';index"`

	// Derived from the follow edge set on every read, never stored.
	FollowerCount int64 `json:"follower_count" gorm:"-"`

	// Relationships
	User     User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:ProducerID;references:UserID"`
}

// Follow is a buyer-to-producer subscription edge, unique per pair. Both
// columns hold user IDs.
type Follow struct {
	BaseModel
	BuyerID    uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_buyer_producer"`
	ProducerID uuid.UUID `json:"producer_id" gorm:"type:uuid;not null;uniqueIndex:idx_follows_buyer_producer;index"`
}
