// internal/handlers/upload.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farmagate/pharmacy-backend/internal/i18n"
	"github.com/farmagate/pharmacy-backend/internal/services"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
	}
}

// GET /uploads/put-url?filename=&content_type=
func (h *UploadHandler) GenerateUploadURL(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	filename := c.Query("filename")
	contentType := c.Query("content_type")
	if filename == "" || contentType == "" {
		utils.BadRequestResponse(c, "filename and content_type are required", nil)
		return
	}

	result, err := h.storageService.GenerateUploadURL(filename, contentType)
	if err != nil {
		if errors.Is(err, services.ErrStorageNotConfigured) {
			utils.ErrorResponse(c, 503, "STORAGE_UNAVAILABLE", i18n.T(lang, i18n.KeyUploadURLFailed), nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /uploads/get-url/*key
func (h *UploadHandler) GenerateDownloadURL(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	// Wildcard params keep their leading slash.
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		utils.BadRequestResponse(c, "key is required", nil)
		return
	}

	result, err := h.storageService.GenerateDownloadURL(key)
	if err != nil {
		if errors.Is(err, services.ErrStorageNotConfigured) {
			utils.ErrorResponse(c, 503, "STORAGE_UNAVAILABLE", i18n.T(lang, i18n.KeyUploadURLFailed), nil)
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, result)
}
