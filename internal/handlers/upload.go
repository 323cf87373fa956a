// internal/handlers/upload.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/karigarh/marketplace-backend/internal/i18n"
	"github.com/karigarh/marketplace-backend/internal/services"
	"github.com/karigarh/marketplace-backend/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{storageService: storageService}
}

var uploadFolders = map[string]string{
	"thumbnail":  services.FolderThumbnails,
	"voice-note": services.FolderVoiceNotes,
	"brand":      services.FolderBrandAssets,
	"live-clip":  services.FolderLiveClips,
}

// Upload accepts multipart form uploads under a named kind and returns the
// public URL to store on the product or profile.
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	folder, ok := uploadFolders[c.Param("kind")]
	if !ok {
		utils.BadRequestResponse(c, "Unknown upload kind", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "file field is required", nil)
		return
	}

	url, err := h.storageService.UploadFile(fileHeader, folder, userID)
	if err != nil {
		lang := utils.GetLangFromContext(c)
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"url": url})
}
