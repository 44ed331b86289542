// internal/handlers/payment.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmagate/pharmacy-backend/internal/i18n"
	"github.com/farmagate/pharmacy-backend/internal/services"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

type createIntentRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
}

// POST /payments/intent
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	principal, ok := utils.GetPrincipalFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == uuid.Nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "order_id"), nil)
		return
	}

	intent, err := h.paymentService.CreateOrderPaymentIntent(req.OrderID, principal)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrOrderAccessDenied):
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyOrderForbidden))
		case errors.Is(err, services.ErrOrderAlreadyPaid):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyPaymentAlreadyPaid))
		case errors.Is(err, services.ErrPaymentUpstream):
			utils.ErrorResponse(c, 502, "UPSTREAM_ERROR", i18n.T(lang, i18n.KeyPaymentFailed), nil)
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, intent)
}

// POST /payments/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	order, err := h.paymentService.ConfirmOrderPayment(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrPaymentUpstream):
			utils.ErrorResponse(c, 502, "UPSTREAM_ERROR", i18n.T(lang, i18n.KeyPaymentFailed), nil)
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyPaymentSuccess),
		"order":   order,
	})
}

// GET /payments/config
func (h *PaymentHandler) GetConfig(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"publishable_key": h.paymentService.GetPublishableKey(),
	})
}
