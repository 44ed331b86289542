// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderEmpty        = errors.New("order must contain at least one product")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderNotPending   = errors.New("order is not pending")
	ErrOrderNotConfirmed = errors.New("order is not confirmed")
	ErrOrderAccessDenied = errors.New("no access to this order")
)

// OrderService runs the order-fulfillment transaction: placement with stock
// reservation and discount pricing, and the pending → confirmed → delivered
// transitions with ledger emission.
type OrderService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

func NewOrderService(db *gorm.DB, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		notificationService: notificationService,
	}
}

// PlaceOrder creates a pending order from the requested item list. Stock is
// reserved per item with a conditional decrement so that two concurrent
// placements can never both take the last unit; any failure rolls the whole
// order back, leaving stock for earlier items untouched.
func (s *OrderService) PlaceOrder(principal *utils.Principal, req *CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrOrderEmpty
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Resolve the caller's discount affiliation, if any.
	var eps *models.EPS
	if principal.EPSID != nil {
		eps = &models.EPS{}
		if err := s.db.First(eps, "id = ?", *principal.EPSID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				eps = nil
			} else {
				return nil, fmt.Errorf("database error: %w", err)
			}
		}
	}

	var order *models.Order
	var depleted []models.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var total int64
		items := make([]models.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
				}
				return fmt.Errorf("database error: %w", err)
			}

			// Conditional decrement: zero rows affected means another order
			// got there first or stock was already short.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to reserve stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			total += product.Price * int64(item.Quantity)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
			})

			if product.Stock-item.Quantity == 0 {
				depleted = append(depleted, product)
			}
		}

		// Discount applies to the whole order total, not per line.
		total = eps.DiscountedTotal(total)

		order = &models.Order{
			CustomerID:    principal.UserID,
			Status:        models.OrderStatusPending,
			Total:         total,
			PaymentStatus: models.PaymentStatusUnpaid,
			Items:         items,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		for i := range depleted {
			s.notificationService.NotifyLowStock(&depleted[i])
		}
	}

	return order, nil
}

// ConfirmOrder transitions a pending order to confirmed and emits the audit
// ledger: one financial movement for the order total and one stock movement
// per item. The stock counter itself was already decremented at placement, so
// the movements are records only. Re-confirming is rejected.
func (s *OrderService) ConfirmOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status != models.OrderStatusPending {
			return ErrOrderNotPending
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusConfirmed).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		movement := &models.FinancialMovement{
			OrderID:     order.ID,
			Amount:      order.Total,
			Description: "Orden confirmada",
		}
		if err := tx.Create(movement).Error; err != nil {
			return fmt.Errorf("failed to create financial movement: %w", err)
		}

		for _, item := range order.Items {
			stockMovement := &models.StockMovement{
				ProductID:   item.ProductID,
				Change:      -item.Quantity,
				Description: "Stock disminuido por orden confirmada",
			}
			if err := tx.Create(stockMovement).Error; err != nil {
				return fmt.Errorf("failed to create stock movement: %w", err)
			}
		}

		order.Status = models.OrderStatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		s.notificationService.NotifyOrderConfirmed(&order)
	}

	return &order, nil
}

// DeliverOrder transitions a confirmed order to delivered.
func (s *OrderService) DeliverOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if order.Status != models.OrderStatusConfirmed {
		return nil, ErrOrderNotConfirmed
	}

	if err := s.db.Model(&order).Update("status", models.OrderStatusDelivered).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = models.OrderStatusDelivered
	return &order, nil
}

// CancelOrder deletes a pending order. The stock reserved at placement is
// restored with a compensating movement so cancellation never leaks
// inventory. Customers may only cancel their own orders.
func (s *OrderService) CancelOrder(orderID uuid.UUID, principal *utils.Principal) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status != models.OrderStatusPending {
			return ErrOrderNotPending
		}

		if principal.Role == models.RoleCustomer && order.CustomerID != principal.UserID {
			return ErrOrderAccessDenied
		}

		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to restore stock: %w", res.Error)
			}

			stockMovement := &models.StockMovement{
				ProductID:   item.ProductID,
				Change:      item.Quantity,
				Description: "Stock restaurado por orden cancelada",
			}
			if err := tx.Create(stockMovement).Error; err != nil {
				return fmt.Errorf("failed to create stock movement: %w", err)
			}
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}

		return nil
	})
}

// GetOrder returns a single order. Customers only see their own.
func (s *OrderService) GetOrder(orderID uuid.UUID, principal *utils.Principal) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Items.Product").
		First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if principal.Role == models.RoleCustomer && order.CustomerID != principal.UserID {
		return nil, ErrOrderAccessDenied
	}

	return &order, nil
}

// ListOrders returns orders filtered by role: customers get their own, staff
// get everything.
func (s *OrderService) ListOrders(principal *utils.Principal, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items")

	if principal.Role == models.RoleCustomer {
		query = query.Where("customer_id = ?", principal.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "status", "total"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}
