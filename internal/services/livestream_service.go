// internal/services/livestream_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/cache"
	"github.com/karigarh/marketplace-backend/internal/models"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type LiveStreamService struct {
	db    *gorm.DB
	cache *cache.Cache
}

type CreateLiveStreamRequest struct {
	Title       string    `json:"title" validate:"required,min=2,max=255"`
	Description string    `json:"description" validate:"max=5000"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	Story       string    `json:"story" validate:"max=10000"`
}

type UpdateLiveStreamStatusRequest struct {
	Status models.LiveStreamStatus `json:"status" validate:"required"`
}

type UpdateLiveStreamStoryRequest struct {
	Story string `json:"story" validate:"max=10000"`
}

func NewLiveStreamService(db *gorm.DB, c *cache.Cache) *LiveStreamService {
	return &LiveStreamService{db: db, cache: c}
}

// CreateLiveStream always creates in scheduled, even when StartTime is
// already past. Going live is an explicit action by the producer, not a
// wall-clock side effect.
func (s *LiveStreamService) CreateLiveStream(producerUserID uuid.UUID, req *CreateLiveStreamRequest) (*models.LiveStream, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var exists int64
	if err := s.db.Model(&models.Producer{}).
		Where("user_id = ?", producerUserID).
		Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if exists == 0 {
		return nil, apperrors.ErrForbidden
	}

	stream := &models.LiveStream{
		ProducerID:  producerUserID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		Status:      models.LiveStreamStatusScheduled,
		Story:       req.Story,
	}

	if err := s.db.Create(stream).Error; err != nil {
		return nil, fmt.Errorf("failed to create live stream: %w", err)
	}

	s.cache.Invalidate(liveStreamWriteInvalidates...)

	return stream, nil
}

// UpdateStatus moves the stream one step forward. Only the owning producer
// may drive the machine, and there is no way back: ended is terminal and
// active cannot return to scheduled.
func (s *LiveStreamService) UpdateStatus(actorID, streamID uuid.UUID, next models.LiveStreamStatus) (*models.LiveStream, error) {
	if !next.Valid() {
		return nil, apperrors.ErrInvalidTransition
	}

	var stream models.LiveStream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !stream.Status.CanTransitionTo(next) {
		return nil, apperrors.ErrInvalidTransition
	}

	if stream.ProducerID != actorID {
		return nil, apperrors.ErrForbidden
	}

	// Guard on the status we validated against, so a concurrent transition
	// since the read cannot be overwritten with an unchecked edge.
	res := s.db.Model(&stream).
		Where("status = ?", stream.Status).
		Update("status", next)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update live stream status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrInvalidTransition
	}

	s.cache.Invalidate(liveStreamWriteInvalidates...)

	stream.Status = next
	return &stream, nil
}

// UpdateStory edits the stream's narrative. The story freezes once the
// stream has ended; the session record is then an archive.
func (s *LiveStreamService) UpdateStory(actorID, streamID uuid.UUID, req *UpdateLiveStreamStoryRequest) (*models.LiveStream, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var stream models.LiveStream
	if err := s.db.First(&stream, "id = ?", streamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if stream.ProducerID != actorID {
		return nil, apperrors.ErrForbidden
	}

	if stream.Status == models.LiveStreamStatusEnded {
		return nil, apperrors.ErrInvalidTransition
	}

	// The not-ended precondition is re-checked by the write itself: if the
	// stream ended concurrently, zero rows are touched and the archive stays
	// frozen.
	res := s.db.Model(&stream).
		Where("status <> ?", models.LiveStreamStatusEnded).
		Update("story", req.Story)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update live stream story: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrInvalidTransition
	}

	s.cache.Invalidate(liveStreamWriteInvalidates...)

	stream.Story = req.Story
	return &stream, nil
}

func (s *LiveStreamService) GetLiveStream(id uuid.UUID) (*models.LiveStream, error) {
	key := cache.Key{Family: FamilyLiveStream, Param: id.String()}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		var stream models.LiveStream
		if err := s.db.Preload("Producer").First(&stream, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		return &stream, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.LiveStream), nil
}

func (s *LiveStreamService) ListLiveStreams(params utils.PaginationParams) (*utils.PaginationResult, error) {
	return s.listLiveStreams(FamilyLiveStreams, params.Fingerprint(), params, nil)
}

func (s *LiveStreamService) ListByProducer(producerUserID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	param := producerUserID.String() + ";" + params.Fingerprint()
	return s.listLiveStreams(FamilyLiveStreamsByProducer, param, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("producer_id = ?", producerUserID)
	})
}

func (s *LiveStreamService) ListByStatus(status models.LiveStreamStatus, params utils.PaginationParams) (*utils.PaginationResult, error) {
	if !status.Valid() {
		return nil, apperrors.ErrNotFound
	}
	param := string(status) + ";" + params.Fingerprint()
	return s.listLiveStreams(FamilyLiveStreamsByStatus, param, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", status)
	})
}

// ListByRegions returns the streams of producers based in any of the given
// regions, for the regional discovery page.
func (s *LiveStreamService) ListByRegions(regions []string, params utils.PaginationParams) (*utils.PaginationResult, error) {
	param := strings.Join(regions, ",") + ";" + params.Fingerprint()
	return s.listLiveStreams(FamilyLiveStreamsByRegion, param, params, func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN producers ON producers.user_id = live_streams.producer_id").
			Where("producers.region IN ?", regions).
			Where("producers.deleted_at IS NULL")
	})
}

func (s *LiveStreamService) listLiveStreams(family, param string, params utils.PaginationParams, scope func(*gorm.DB) *gorm.DB) (*utils.PaginationResult, error) {
	key := cache.Key{Family: family, Param: param}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		query := s.db.Model(&models.LiveStream{})
		if scope != nil {
			query = scope(query)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count live streams: %w", err)
		}

		// Qualified sort column: the regions listing joins producers, which
		// also has created_at.
		sortField := params.Sort
		switch sortField {
		case "created_at", "start_time", "title":
		default:
			sortField = "created_at"
		}

		var streams []models.LiveStream
		query = query.Order("live_streams." + sortField + " " + params.Order)
		query = utils.ApplyPagination(query, params)
		if err := query.Preload("Producer").Find(&streams).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch live streams: %w", err)
		}

		result := utils.CreatePaginationResult(streams, total, params)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*utils.PaginationResult), nil
}
