// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/config"
	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

var (
	ErrOrderAlreadyPaid = errors.New("order already paid")
	ErrPaymentUpstream  = errors.New("payment provider error")
)

// PaymentService bridges orders to the Stripe payment-intent API. Order
// totals are already stored in minor units, so amounts pass through to
// Stripe unchanged.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:     db,
		config: config,
	}
}

// CreateOrderPaymentIntent opens a payment intent for an unpaid order.
// Customers can only pay for their own orders.
func (s *PaymentService) CreateOrderPaymentIntent(orderID uuid.UUID, principal *utils.Principal) (*PaymentIntentResponse, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if principal.Role == models.RoleCustomer && order.CustomerID != principal.UserID {
		return nil, ErrOrderAccessDenied
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrOrderAlreadyPaid
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(order.Total),
		Currency: stripe.String(s.config.Payment.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("customer_id", order.CustomerID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to create payment intent")
		return nil, fmt.Errorf("%w: %v", ErrPaymentUpstream, err)
	}

	if err := s.db.Model(&order).Update("payment_intent_id", pi.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to store payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
		Amount:          pi.Amount,
		Currency:        string(pi.Currency),
		Status:          string(pi.Status),
	}, nil
}

// ConfirmOrderPayment checks the intent's status with Stripe and marks the
// matching order paid once the intent has succeeded.
func (s *PaymentService) ConfirmOrderPayment(req *ConfirmPaymentRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentUpstream, err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: intent status %s", ErrPaymentUpstream, pi.Status)
	}

	var order models.Order
	if err := s.db.First(&order, "payment_intent_id = ?", pi.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		return &order, nil
	}

	if err := s.db.Model(&order).Update("payment_status", models.PaymentStatusPaid).Error; err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	order.PaymentStatus = models.PaymentStatusPaid

	logrus.WithFields(logrus.Fields{
		"order_id":          order.ID,
		"payment_intent_id": pi.ID,
		"amount":            pi.Amount,
	}).Info("Order payment confirmed")

	return &order, nil
}

// GetPublishableKey exposes the client-side Stripe key.
func (s *PaymentService) GetPublishableKey() string {
	return s.config.Payment.StripePublishableKey
}
