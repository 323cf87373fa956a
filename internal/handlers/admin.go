// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karigarh/marketplace-backend/internal/i18n"
	"github.com/karigarh/marketplace-backend/internal/services"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type AdminHandler struct {
	approvalService *services.ApprovalService
}

func NewAdminHandler(approvalService *services.ApprovalService) *AdminHandler {
	return &AdminHandler{approvalService: approvalService}
}

func (h *AdminHandler) ApproveProducer(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	producerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	producer, svcErr := h.approvalService.ApproveProducer(actorID, producerID, c.ClientIP())
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, producer)
}

func (h *AdminHandler) RejectProducer(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	producerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	producer, svcErr := h.approvalService.RejectProducer(actorID, producerID, c.ClientIP())
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, producer)
}

func (h *AdminHandler) DeleteProducer(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	producerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	if err := h.approvalService.DeleteProducer(actorID, producerID, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{"message": i18n.T(lang, i18n.KeyAdminActionSuccess)})
}

func (h *AdminHandler) PendingProducers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	result, err := h.approvalService.ListPending(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

func (h *AdminHandler) ApprovalHistory(c *gin.Context) {
	producerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid producer ID", nil)
		return
	}

	entries, svcErr := h.approvalService.DecisionHistory(producerID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, entries)
}
