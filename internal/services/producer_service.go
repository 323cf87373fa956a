// internal/services/producer_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/cache"
	"github.com/karigarh/marketplace-backend/internal/models"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type ProducerService struct {
	db    *gorm.DB
	cache *cache.Cache
}

type SaveProducerRequest struct {
	Name            string                 `json:"name" validate:"required,min=2,max=100"`
	Region          string                 `json:"region" validate:"max=100"`
	Bio             string                 `json:"bio" validate:"max=2000"`
	ProfilePhotoURL string                 `json:"profile_photo_url" validate:"omitempty,url"`
	BrandName       string                 `json:"brand_name" validate:"max=100"`
	BrandTagline    string                 `json:"brand_tagline" validate:"max=255"`
	BrandLogoURL    string                 `json:"brand_logo_url" validate:"omitempty,url"`
	BrandColor      string                 `json:"brand_color" validate:"hex_color"`
	VoiceStoryURL   string                 `json:"voice_story_url" validate:"omitempty,url"`
	WhatsApp        string                 `json:"whatsapp" validate:"max=20"`
	RarityBadge     string                 `json:"rarity_badge" validate:"max=50"`
	SocialLinks     map[string]interface{} `json:"social_links"`
}

func NewProducerService(db *gorm.DB, c *cache.Cache) *ProducerService {
	return &ProducerService{db: db, cache: c}
}

// SaveProfile creates or updates the caller's producer profile. A fresh
// profile enters the approval queue as pending; an update never touches
// ApprovalStatus, so editing a profile cannot launder a rejection into a
// re-review or strip an existing approval.
func (s *ProducerService) SaveProfile(userID uuid.UUID, req *SaveProducerRequest) (*models.Producer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var producer models.Producer
	err := s.db.First(&producer, "user_id = ?", userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		producer = models.Producer{
			UserID:         userID,
			ApprovalStatus: models.ApprovalStatusPending,
		}
	case err != nil:
		return nil, fmt.Errorf("database error: %w", err)
	}

	producer.Name = req.Name
	producer.Region = req.Region
	producer.Bio = req.Bio
	producer.ProfilePhotoURL = req.ProfilePhotoURL
	producer.BrandName = req.BrandName
	producer.BrandTagline = req.BrandTagline
	producer.BrandLogoURL = req.BrandLogoURL
	producer.BrandColor = req.BrandColor
	producer.VoiceStoryURL = req.VoiceStoryURL
	producer.WhatsApp = req.WhatsApp
	producer.RarityBadge = req.RarityBadge
	if req.SocialLinks != nil {
		producer.SocialLinks = models.JSONB(req.SocialLinks)
	}

	if err := s.db.Save(&producer).Error; err != nil {
		return nil, fmt.Errorf("failed to save producer profile: %w", err)
	}

	s.cache.Invalidate(producerWriteInvalidates...)

	producer.FollowerCount, _ = s.countFollowers(producer.UserID)
	return &producer, nil
}

// GetProducer looks up a producer by the owning user's ID.
func (s *ProducerService) GetProducer(userID uuid.UUID) (*models.Producer, error) {
	key := cache.Key{Family: FamilyProducer, Param: userID.String()}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		var producer models.Producer
		if err := s.db.First(&producer, "user_id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}

		count, err := s.countFollowers(producer.UserID)
		if err != nil {
			return nil, err
		}
		producer.FollowerCount = count

		return &producer, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Producer), nil
}

func (s *ProducerService) ListProducers(params utils.PaginationParams) (*utils.PaginationResult, error) {
	return s.listProducers(FamilyProducers, params, nil)
}

// ListVerifiedProducers is the buyer-facing discovery surface: approved
// profiles only.
func (s *ProducerService) ListVerifiedProducers(params utils.PaginationParams) (*utils.PaginationResult, error) {
	return s.listProducers(FamilyVerifiedProducers, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("approval_status = ?", models.ApprovalStatusApproved)
	})
}

func (s *ProducerService) listProducers(family string, params utils.PaginationParams, scope func(*gorm.DB) *gorm.DB) (*utils.PaginationResult, error) {
	key := cache.Key{Family: family, Param: params.Fingerprint()}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		query := s.db.Model(&models.Producer{})
		if scope != nil {
			query = scope(query)
		}
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			query = query.Where("name ILIKE ? OR region ILIKE ? OR brand_name ILIKE ?", pattern, pattern, pattern)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count producers: %w", err)
		}

		var producers []models.Producer
		query = utils.ApplySort(query, params, []string{"created_at", "name", "region"})
		query = utils.ApplyPagination(query, params)
		if err := query.Find(&producers).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch producers: %w", err)
		}

		if err := s.attachFollowerCounts(producers); err != nil {
			return nil, err
		}

		result := utils.CreatePaginationResult(producers, total, params)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*utils.PaginationResult), nil
}

// RequestApproval puts a rejected profile back in the review queue. An
// already-approved profile is left alone; a pending one stays pending.
func (s *ProducerService) RequestApproval(userID uuid.UUID) (*models.Producer, error) {
	var producer models.Producer
	if err := s.db.First(&producer, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if producer.ApprovalStatus != models.ApprovalStatusRejected {
		return &producer, nil
	}

	if err := s.db.Model(&producer).Update("approval_status", models.ApprovalStatusPending).Error; err != nil {
		return nil, fmt.Errorf("failed to request approval: %w", err)
	}

	s.cache.Invalidate(producerWriteInvalidates...)

	producer.ApprovalStatus = models.ApprovalStatusPending
	return &producer, nil
}

// Follow records a buyer-to-producer edge. Re-following is a no-op, so the
// operation is idempotent and the unique pair index never trips.
func (s *ProducerService) Follow(buyerID, producerUserID uuid.UUID) error {
	if buyerID == producerUserID {
		return apperrors.ErrForbidden
	}

	var exists int64
	if err := s.db.Model(&models.Producer{}).
		Where("user_id = ?", producerUserID).
		Count(&exists).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if exists == 0 {
		return apperrors.ErrNotFound
	}

	follow := models.Follow{BuyerID: buyerID, ProducerID: producerUserID}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow).Error
	if err != nil {
		return fmt.Errorf("failed to follow producer: %w", err)
	}

	s.cache.Invalidate(followInvalidates...)
	return nil
}

// Unfollow removes the edge if present; removing a non-existent edge is not
// an error. The delete is hard: a soft-deleted edge would still occupy the
// unique (buyer, producer) slot and block re-following.
func (s *ProducerService) Unfollow(buyerID, producerUserID uuid.UUID) error {
	err := s.db.Unscoped().
		Where("buyer_id = ? AND producer_id = ?", buyerID, producerUserID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return fmt.Errorf("failed to unfollow producer: %w", err)
	}

	s.cache.Invalidate(followInvalidates...)
	return nil
}

func (s *ProducerService) IsFollowing(buyerID, producerUserID uuid.UUID) (bool, error) {
	key := cache.Key{
		Family: FamilyIsFollowing,
		Param:  buyerID.String() + ":" + producerUserID.String(),
	}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		var count int64
		err := s.db.Model(&models.Follow{}).
			Where("buyer_id = ? AND producer_id = ?", buyerID, producerUserID).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		return count > 0, nil
	})
	if err != nil {
		return false, err
	}

	return v.(bool), nil
}

func (s *ProducerService) FollowerCount(producerUserID uuid.UUID) (int64, error) {
	key := cache.Key{Family: FamilyFollowerCount, Param: producerUserID.String()}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		count, err := s.countFollowers(producerUserID)
		if err != nil {
			return nil, err
		}
		return count, nil
	})
	if err != nil {
		return 0, err
	}

	return v.(int64), nil
}

func (s *ProducerService) countFollowers(producerUserID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("producer_id = ?", producerUserID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

// attachFollowerCounts fills the derived counts for a page of producers with
// one grouped query instead of a count per row.
func (s *ProducerService) attachFollowerCounts(producers []models.Producer) error {
	if len(producers) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(producers))
	for i, p := range producers {
		ids[i] = p.UserID
	}

	type followCount struct {
		ProducerID uuid.UUID
		Count      int64
	}
	var rows []followCount
	err := s.db.Model(&models.Follow{}).
		Select("producer_id, COUNT(*) as count").
		Where("producer_id IN ?", ids).
		Group("producer_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to count followers: %w", err)
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		counts[r.ProducerID] = r.Count
	}
	for i := range producers {
		producers[i].FollowerCount = counts[producers[i].UserID]
	}

	return nil
}
