// internal/services/approval_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/cache"
	"github.com/karigarh/marketplace-backend/internal/models"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

// ApprovalService is the admin-side trust machine for producers. Decisions
// are reversible in both directions; every decision is written to the audit
// log so reversals leave a trail.
type ApprovalService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewApprovalService(db *gorm.DB, c *cache.Cache) *ApprovalService {
	return &ApprovalService{db: db, cache: c}
}

func (s *ApprovalService) ApproveProducer(actorID, producerUserID uuid.UUID, ipAddress string) (*models.Producer, error) {
	return s.decide(actorID, producerUserID, models.ApprovalStatusApproved, ipAddress)
}

func (s *ApprovalService) RejectProducer(actorID, producerUserID uuid.UUID, ipAddress string) (*models.Producer, error) {
	return s.decide(actorID, producerUserID, models.ApprovalStatusRejected, ipAddress)
}

func (s *ApprovalService) requireAdmin(actorID uuid.UUID) error {
	var actor models.User
	if err := s.db.First(&actor, "id = ?", actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrForbidden
		}
		return fmt.Errorf("database error: %w", err)
	}
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *ApprovalService) decide(actorID, producerUserID uuid.UUID, decision models.ApprovalStatus, ipAddress string) (*models.Producer, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	var producer models.Producer
	if err := s.db.First(&producer, "user_id = ?", producerUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	previous := producer.ApprovalStatus
	if previous == decision {
		return &producer, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&producer).Update("approval_status", decision).Error; err != nil {
			return fmt.Errorf("failed to update approval status: %w", err)
		}

		resourceID := producer.ID
		entry := models.AuditLog{
			ActorID:      actorID,
			Action:       "producer." + string(decision),
			ResourceType: "producer",
			ResourceID:   &resourceID,
			OldValues:    models.JSONB{"approval_status": string(previous)},
			NewValues:    models.JSONB{"approval_status": string(decision)},
			IPAddress:    ipAddress,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(approvalInvalidates...)

	logrus.WithFields(logrus.Fields{
		"actor_id":    actorID,
		"producer_id": producerUserID,
		"from":        previous,
		"to":          decision,
	}).Info("Producer approval status changed")

	producer.ApprovalStatus = decision
	return &producer, nil
}

// DeleteProducer retires a producer profile. The delete is soft, so the audit
// history and existing orders keep their references; the profile disappears
// from lookups and its products drop off the verified storefront.
func (s *ApprovalService) DeleteProducer(actorID, producerUserID uuid.UUID, ipAddress string) error {
	if err := s.requireAdmin(actorID); err != nil {
		return err
	}

	var producer models.Producer
	if err := s.db.First(&producer, "user_id = ?", producerUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&producer).Error; err != nil {
			return fmt.Errorf("failed to delete producer: %w", err)
		}

		resourceID := producer.ID
		entry := models.AuditLog{
			ActorID:      actorID,
			Action:       "producer.deleted",
			ResourceType: "producer",
			ResourceID:   &resourceID,
			OldValues:    models.JSONB{"approval_status": string(producer.ApprovalStatus)},
			IPAddress:    ipAddress,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(approvalInvalidates...)

	logrus.WithFields(logrus.Fields{
		"actor_id":    actorID,
		"producer_id": producerUserID,
	}).Info("Producer deleted")

	return nil
}

// ListPending returns profiles awaiting a first decision.
func (s *ApprovalService) ListPending(params utils.PaginationParams) (*utils.PaginationResult, error) {
	key := cache.Key{Family: FamilyApprovals, Param: params.Fingerprint()}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		query := s.db.Model(&models.Producer{}).
			Where("approval_status = ?", models.ApprovalStatusPending)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count pending producers: %w", err)
		}

		var producers []models.Producer
		query = utils.ApplySort(query, params, []string{"created_at", "name"})
		query = utils.ApplyPagination(query, params)
		if err := query.Preload("User").Find(&producers).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch pending producers: %w", err)
		}

		result := utils.CreatePaginationResult(producers, total, params)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*utils.PaginationResult), nil
}

// DecisionHistory returns the audit trail for one producer, newest first.
// The unscoped lookup keeps the trail readable after the profile itself has
// been retired.
func (s *ApprovalService) DecisionHistory(producerUserID uuid.UUID) ([]models.AuditLog, error) {
	var producer models.Producer
	if err := s.db.Unscoped().First(&producer, "user_id = ?", producerUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var entries []models.AuditLog
	err := s.db.
		Where("resource_type = ? AND resource_id = ?", "producer", producer.ID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit log: %w", err)
	}

	return entries, nil
}
