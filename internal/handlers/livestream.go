// internal/handlers/livestream.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/karigarh/marketplace-backend/internal/models"
	"github.com/karigarh/marketplace-backend/internal/services"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type LiveStreamHandler struct {
	liveStreamService *services.LiveStreamService
}

func NewLiveStreamHandler(liveStreamService *services.LiveStreamService) *LiveStreamHandler {
	return &LiveStreamHandler{liveStreamService: liveStreamService}
}

func (h *LiveStreamHandler) CreateLiveStream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateLiveStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	stream, err := h.liveStreamService.CreateLiveStream(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, stream)
}

func (h *LiveStreamHandler) GetLiveStream(c *gin.Context) {
	streamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid live stream ID", nil)
		return
	}

	stream, svcErr := h.liveStreamService.GetLiveStream(streamID)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, stream)
}

// ListLiveStreams supports ?producer_id=, ?status= and ?regions=a,b filters.
func (h *LiveStreamHandler) ListLiveStreams(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var (
		result *utils.PaginationResult
		err    error
	)

	switch {
	case c.Query("producer_id") != "":
		var producerID uuid.UUID
		producerID, err = uuid.Parse(c.Query("producer_id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid producer ID", nil)
			return
		}
		result, err = h.liveStreamService.ListByProducer(producerID, params)
	case c.Query("status") != "":
		result, err = h.liveStreamService.ListByStatus(models.LiveStreamStatus(c.Query("status")), params)
	case c.Query("regions") != "":
		result, err = h.liveStreamService.ListByRegions(strings.Split(c.Query("regions"), ","), params)
	default:
		result, err = h.liveStreamService.ListLiveStreams(params)
	}

	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

func (h *LiveStreamHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	streamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid live stream ID", nil)
		return
	}

	var req services.UpdateLiveStreamStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	stream, svcErr := h.liveStreamService.UpdateStatus(userID, streamID, req.Status)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, stream)
}

func (h *LiveStreamHandler) UpdateStory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	streamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid live stream ID", nil)
		return
	}

	var req services.UpdateLiveStreamStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	stream, svcErr := h.liveStreamService.UpdateStory(userID, streamID, &req)
	if svcErr != nil {
		respondServiceError(c, svcErr)
		return
	}

	utils.SuccessResponse(c, stream)
}
