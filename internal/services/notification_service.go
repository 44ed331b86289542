// internal/services/notification_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService records operational events (stock exhaustion, order
// confirmations) for staff to review. Failures here are logged and swallowed:
// a notification must never break the transaction it describes.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// NotifyLowStock records that a product's stock hit zero.
func (s *NotificationService) NotifyLowStock(product *models.Product) {
	productID := product.ID
	notification := &models.Notification{
		Type:              models.NotificationTypeLowStock,
		Title:             "Producto agotado",
		Message:           fmt.Sprintf("El producto %s se ha quedado sin stock", product.Name),
		RelatedResourceID: &productID,
	}
	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("product_id", product.ID).Error("Failed to create low stock notification")
	}
}

// NotifyOrderConfirmed records a confirmation event for the order.
func (s *NotificationService) NotifyOrderConfirmed(order *models.Order) {
	orderID := order.ID
	notification := &models.Notification{
		Type:              models.NotificationTypeOrderConfirmed,
		Title:             "Orden confirmada",
		Message:           fmt.Sprintf("La orden %s ha sido confirmada por un total de %d", order.ID, order.Total),
		RelatedResourceID: &orderID,
	}
	if err := s.db.Create(notification).Error; err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).Error("Failed to create order notification")
	}
}

func (s *NotificationService) ListNotifications(params utils.PaginationParams, unreadOnly bool) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{})
	if unreadOnly {
		query = query.Where("status = ?", "unread")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	allowedSortFields := []string{"created_at", "type", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var notifications []models.Notification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) MarkRead(notificationID uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, "id = ?", notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	if err := s.db.Model(&notification).Updates(map[string]interface{}{
		"status":  "read",
		"read_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}

	notification.Status = "read"
	notification.ReadAt = &now
	return &notification, nil
}
