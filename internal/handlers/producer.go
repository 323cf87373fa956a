// internal/handlers/producer.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karigarh/marketplace-backend/internal/i18n"
	"github.com/karigarh/marketplace-backend/internal/services"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type ProducerHandler struct {
	producerService *services.ProducerService
}

func NewProducerHandler(producerService *services.ProducerService) *ProducerHandler {
	return &ProducerHandler{producerService: producerService}
}

// SaveProfile creates or updates the caller's own producer profile.
func (h *ProducerHandler) SaveProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.SaveProducerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	producer, err := h.producerService.SaveProfile(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, producer)
}

func (h *ProducerHandler) GetProducer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	producer, svcErr := h.producerService.GetProducer(id)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, producer)
}

// GetMyProfile returns the caller's producer profile if one exists.
func (h *ProducerHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	producer, err := h.producerService.GetProducer(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, producer)
}

// RequestApproval re-enters the review queue after a rejection.
func (h *ProducerHandler) RequestApproval(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	producer, err := h.producerService.RequestApproval(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, producer)
}

func (h *ProducerHandler) ListProducers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.producerService.ListProducers(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

func (h *ProducerHandler) ListVerifiedProducers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.producerService.ListVerifiedProducers(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

func (h *ProducerHandler) Follow(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	producerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	if err := h.producerService.Follow(buyerID, producerID); err != nil {
		respondServiceError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyProducerFollowed)})
}

func (h *ProducerHandler) Unfollow(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	producerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	if err := h.producerService.Unfollow(buyerID, producerID); err != nil {
		respondServiceError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyProducerUnfollowed)})
}

func (h *ProducerHandler) IsFollowing(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	producerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	following, svcErr := h.producerService.IsFollowing(buyerID, producerID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, gin.H{"following": following})
}

func (h *ProducerHandler) FollowerCount(c *gin.Context) {
	producerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	count, svcErr := h.producerService.FollowerCount(producerID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, gin.H{"follower_count": count})
}
