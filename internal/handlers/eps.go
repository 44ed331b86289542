// internal/handlers/eps.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmagate/pharmacy-backend/internal/i18n"
	"github.com/farmagate/pharmacy-backend/internal/services"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

type EPSHandler struct {
	epsService *services.EPSService
}

func NewEPSHandler(epsService *services.EPSService) *EPSHandler {
	return &EPSHandler{
		epsService: epsService,
	}
}

// GET /eps
func (h *EPSHandler) ListEPS(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	providers, total, err := h.epsService.ListEPS(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(providers, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /eps/:id
func (h *EPSHandler) GetEPS(c *gin.Context) {
	epsID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid eps ID", nil)
		return
	}

	eps, err := h.epsService.GetEPS(epsID)
	if err != nil {
		if errors.Is(err, services.ErrEPSNotFound) {
			utils.NotFoundResponse(c, "eps")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, eps)
}

// POST /eps
func (h *EPSHandler) CreateEPS(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateEPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	eps, err := h.epsService.CreateEPS(&req)
	if err != nil {
		if errors.Is(err, services.ErrEPSExists) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEPSCreated),
		"eps":     eps,
	})
}

// PUT /eps/:id
func (h *EPSHandler) UpdateEPS(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	epsID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid eps ID", nil)
		return
	}

	var req services.UpdateEPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	eps, err := h.epsService.UpdateEPS(epsID, &req)
	if err != nil {
		if errors.Is(err, services.ErrEPSNotFound) {
			utils.NotFoundResponse(c, "eps")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEPSUpdated),
		"eps":     eps,
	})
}

// DELETE /eps/:id
func (h *EPSHandler) DeleteEPS(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	epsID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid eps ID", nil)
		return
	}

	if err := h.epsService.DeleteEPS(epsID); err != nil {
		if errors.Is(err, services.ErrEPSNotFound) {
			utils.NotFoundResponse(c, "eps")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEPSDeleted),
	})
}

// POST /eps/assign
func (h *EPSHandler) AssignEPS(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.AssignEPSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	user, err := h.epsService.AssignEPS(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEPSNotFound):
			utils.NotFoundResponse(c, "eps")
		case errors.Is(err, services.ErrUserNotFound):
			utils.NotFoundResponse(c, "user")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyEPSAssigned),
		"user":    user,
	})
}
