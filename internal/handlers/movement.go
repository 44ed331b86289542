// internal/handlers/movement.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/farmagate/pharmacy-backend/internal/services"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

type MovementHandler struct {
	ledgerService *services.LedgerService
}

func NewMovementHandler(ledgerService *services.LedgerService) *MovementHandler {
	return &MovementHandler{
		ledgerService: ledgerService,
	}
}

// GET /movements/financial
func (h *MovementHandler) ListFinancialMovements(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	movements, total, err := h.ledgerService.ListFinancialMovements(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(movements, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /movements/stock
func (h *MovementHandler) ListStockMovements(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	movements, total, err := h.ledgerService.ListStockMovements(params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(movements, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /movements/summary
func (h *MovementHandler) GetSummary(c *gin.Context) {
	summary, err := h.ledgerService.GetSummary()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, summary)
}
