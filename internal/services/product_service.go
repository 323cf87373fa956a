// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/karigarh/marketplace-backend/internal/apperrors"
	"github.com/karigarh/marketplace-backend/internal/cache"
	"github.com/karigarh/marketplace-backend/internal/models"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type ProductService struct {
	db    *gorm.DB
	cache *cache.Cache
}

type CreateProductRequest struct {
	Title              string     `json:"title" validate:"required,min=2,max=255"`
	Description        string     `json:"description" validate:"max=5000"`
	Price              int64      `json:"price" validate:"required,min=1"`
	Stock              int        `json:"stock" validate:"min=0"`
	Region             string     `json:"region" validate:"max=100"`
	RarityBadge        string     `json:"rarity_badge" validate:"max=50"`
	RarityCountdownEnd *time.Time `json:"rarity_countdown_end"`
	LiveVideoURL       string     `json:"live_video_url" validate:"omitempty,url"`
	ThumbnailURL       string     `json:"thumbnail_url" validate:"omitempty,url"`
	VoiceNoteURL       string     `json:"voice_note_url" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Title              *string    `json:"title" validate:"omitempty,min=2,max=255"`
	Description        *string    `json:"description" validate:"omitempty,max=5000"`
	Price              *int64     `json:"price" validate:"omitempty,min=1"`
	Stock              *int       `json:"stock" validate:"omitempty,min=0"`
	Region             *string    `json:"region" validate:"omitempty,max=100"`
	RarityBadge        *string    `json:"rarity_badge" validate:"omitempty,max=50"`
	RarityCountdownEnd *time.Time `json:"rarity_countdown_end"`
	LiveVideoURL       *string    `json:"live_video_url" validate:"omitempty,url"`
	ThumbnailURL       *string    `json:"thumbnail_url" validate:"omitempty,url"`
	VoiceNoteURL       *string    `json:"voice_note_url" validate:"omitempty,url"`
}

func NewProductService(db *gorm.DB, c *cache.Cache) *ProductService {
	return &ProductService{db: db, cache: c}
}

// CreateProduct requires the caller to already have a producer profile; the
// profile does not need to be approved yet, but the product will only surface
// in verified listings once the profile is.
func (s *ProductService) CreateProduct(producerUserID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
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

	product := &models.Product{
		ProducerID:         producerUserID,
		Title:              req.Title,
		Description:        req.Description,
		Price:              req.Price,
		Stock:              req.Stock,
		Region:             req.Region,
		RarityBadge:        req.RarityBadge,
		RarityCountdownEnd: req.RarityCountdownEnd,
		LiveVideoURL:       req.LiveVideoURL,
		ThumbnailURL:       req.ThumbnailURL,
		VoiceNoteURL:       req.VoiceNoteURL,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.cache.Invalidate(productListFamilies...)

	return product, nil
}

func (s *ProductService) UpdateProduct(producerUserID, productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.ProducerID != producerUserID {
		return nil, apperrors.ErrForbidden
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Region != nil {
		product.Region = *req.Region
	}
	if req.RarityBadge != nil {
		product.RarityBadge = *req.RarityBadge
	}
	if req.RarityCountdownEnd != nil {
		product.RarityCountdownEnd = req.RarityCountdownEnd
	}
	if req.LiveVideoURL != nil {
		product.LiveVideoURL = *req.LiveVideoURL
	}
	if req.ThumbnailURL != nil {
		product.ThumbnailURL = *req.ThumbnailURL
	}
	if req.VoiceNoteURL != nil {
		product.VoiceNoteURL = *req.VoiceNoteURL
	}

	if err := s.db.Save(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.cache.Invalidate(append([]string{FamilyProduct}, productListFamilies...)...)

	return &product, nil
}

func (s *ProductService) DeleteProduct(producerUserID, productID uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if product.ProducerID != producerUserID {
		return apperrors.ErrForbidden
	}

	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.cache.Invalidate(append([]string{FamilyProduct}, productListFamilies...)...)

	return nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	key := cache.Key{Family: FamilyProduct, Param: id.String()}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		var product models.Product
		if err := s.db.Preload("Producer").First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
		return &product, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Product), nil
}

// ListProducts returns every product regardless of the producer's trust
// status. This is the admin/back-office surface, not the storefront.
func (s *ProductService) ListProducts(params utils.PaginationParams) (*utils.PaginationResult, error) {
	return s.listProducts(FamilyProducts, params.Fingerprint(), params, nil)
}

// ListVerifiedProducts is the storefront: only products of approved producers
// appear, and an approval flip in either direction changes the result on the
// next read.
func (s *ProductService) ListVerifiedProducts(params utils.PaginationParams) (*utils.PaginationResult, error) {
	return s.listProducts(FamilyVerifiedProducts, params.Fingerprint(), params, func(q *gorm.DB) *gorm.DB {
		return q.Joins("JOIN producers ON producers.user_id = products.producer_id").
			Where("producers.approval_status = ?", models.ApprovalStatusApproved).
			Where("producers.deleted_at IS NULL")
	})
}

func (s *ProductService) ListProductsInStock(params utils.PaginationParams) (*utils.PaginationResult, error) {
	return s.listProducts(FamilyProductsInStock, params.Fingerprint(), params, func(q *gorm.DB) *gorm.DB {
		return q.Where("products.stock > 0")
	})
}

func (s *ProductService) ListProductsByProducer(producerUserID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	param := producerUserID.String() + ";" + params.Fingerprint()
	return s.listProducts(FamilyProductsByProducer, param, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("products.producer_id = ?", producerUserID)
	})
}

func (s *ProductService) ListProductsByRegion(region string, params utils.PaginationParams) (*utils.PaginationResult, error) {
	param := region + ";" + params.Fingerprint()
	return s.listProducts(FamilyProductsByRegion, param, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("products.region = ?", region)
	})
}

// ListProductsByPriceRange bounds are paise, inclusive; max <= 0 means
// unbounded above.
func (s *ProductService) ListProductsByPriceRange(min, max int64, params utils.PaginationParams) (*utils.PaginationResult, error) {
	param := fmt.Sprintf("%d-%d;%s", min, max, params.Fingerprint())
	return s.listProducts(FamilyProductsByPrice, param, params, func(q *gorm.DB) *gorm.DB {
		q = q.Where("products.price >= ?", min)
		if max > 0 {
			q = q.Where("products.price <= ?", max)
		}
		return q
	})
}

func (s *ProductService) ListProductsByRarity(badge string, params utils.PaginationParams) (*utils.PaginationResult, error) {
	param := badge + ";" + params.Fingerprint()
	return s.listProducts(FamilyProductsByRarity, param, params, func(q *gorm.DB) *gorm.DB {
		return q.Where("products.rarity_badge = ?", badge)
	})
}

func (s *ProductService) listProducts(family, param string, params utils.PaginationParams, scope func(*gorm.DB) *gorm.DB) (*utils.PaginationResult, error) {
	key := cache.Key{Family: family, Param: param}

	v, err := s.cache.GetOrLoad(key, func() (interface{}, error) {
		query := s.db.Model(&models.Product{})
		if scope != nil {
			query = scope(query)
		}
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			query = query.Where("products.title ILIKE ? OR products.description ILIKE ?", pattern, pattern)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}

		// Qualified sort column: the verified listing joins producers, which
		// also has created_at.
		sortField := params.Sort
		switch sortField {
		case "price", "title", "stock", "created_at":
		default:
			sortField = "created_at"
		}

		var products []models.Product
		query = query.Order("products." + sortField + " " + params.Order)
		query = utils.ApplyPagination(query, params)
		if err := query.Preload("Producer").Find(&products).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}

		result := utils.CreatePaginationResult(products, total, params)
		return &result, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*utils.PaginationResult), nil
}
