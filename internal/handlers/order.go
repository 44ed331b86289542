// internal/handlers/order.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmagate/pharmacy-backend/internal/i18n"
	"github.com/farmagate/pharmacy-backend/internal/services"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.orderService.PlaceOrder(principal, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderEmpty):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderEmpty), nil)
		case errors.Is(err, services.ErrInsufficientStock):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderInsufficientStock, productNameFromError(err)), nil)
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, "product")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCreated),
		"order":   order,
	})
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListOrders(principal, params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(orders, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid order ID", nil)
		return
	}

	order, err := h.orderService.GetOrder(orderID, principal)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrOrderAccessDenied):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyOrderForbidden))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, order)
}

// POST /orders/:id/confirm
func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid order ID", nil)
		return
	}

	order, err := h.orderService.ConfirmOrder(orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrOrderNotPending):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderNotPending))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderConfirmed),
		"order":   order,
	})
}

// POST /orders/:id/deliver
func (h *OrderHandler) DeliverOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid order ID", nil)
		return
	}

	order, err := h.orderService.DeliverOrder(orderID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrOrderNotConfirmed):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyOrderNotConfirmed))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderDelivered),
		"order":   order,
	})
}

// DELETE /orders/:id
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid order ID", nil)
		return
	}

	if err := h.orderService.CancelOrder(orderID, principal); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrOrderNotPending):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyOrderNotPending), nil)
		case errors.Is(err, services.ErrOrderAccessDenied):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyOrderForbidden))
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyOrderCancelled),
	})
}

// productNameFromError extracts the product name wrapped after the sentinel,
// e.g. "insufficient stock: Acetaminofén".
func productNameFromError(err error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx >= 0 {
		return msg[idx+2:]
	}
	return msg
}
