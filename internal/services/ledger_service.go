// internal/services/ledger_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

// LedgerService reads the append-only movement tables. There is deliberately
// no write path here: movements are created inside the order confirmation and
// cancellation transactions and nowhere else.
type LedgerService struct {
	db *gorm.DB
}

// LedgerSummary aggregates the ledger for dashboards.
type LedgerSummary struct {
	TotalRevenue    int64 `json:"total_revenue"`
	MovementCount   int64 `json:"movement_count"`
	UnitsDepleted   int64 `json:"units_depleted"`
	UnitsRestored   int64 `json:"units_restored"`
	PendingOrders   int64 `json:"pending_orders"`
	ConfirmedOrders int64 `json:"confirmed_orders"`
	DeliveredOrders int64 `json:"delivered_orders"`
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

func (s *LedgerService) ListFinancialMovements(params utils.PaginationParams) ([]models.FinancialMovement, int64, error) {
	query := s.db.Model(&models.FinancialMovement{}).Preload("Order")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count financial movements: %w", err)
	}

	allowedSortFields := []string{"created_at", "amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var movements []models.FinancialMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch financial movements: %w", err)
	}

	return movements, total, nil
}

func (s *LedgerService) ListStockMovements(params utils.PaginationParams) ([]models.StockMovement, int64, error) {
	query := s.db.Model(&models.StockMovement{}).Preload("Product")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock movements: %w", err)
	}

	allowedSortFields := []string{"created_at", "change"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var movements []models.StockMovement
	if err := query.Find(&movements).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stock movements: %w", err)
	}

	return movements, total, nil
}

// GetSummary computes ledger and order-state aggregates for the admin
// dashboard.
func (s *LedgerService) GetSummary() (*LedgerSummary, error) {
	summary := &LedgerSummary{}

	row := s.db.Model(&models.FinancialMovement{}).
		Select("COALESCE(SUM(amount), 0), COUNT(*)").Row()
	if err := row.Scan(&summary.TotalRevenue, &summary.MovementCount); err != nil {
		return nil, fmt.Errorf("failed to aggregate financial movements: %w", err)
	}

	if err := s.db.Model(&models.StockMovement{}).
		Where("change < 0").
		Select("COALESCE(SUM(-change), 0)").
		Scan(&summary.UnitsDepleted).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate stock depletion: %w", err)
	}

	if err := s.db.Model(&models.StockMovement{}).
		Where("change > 0").
		Select("COALESCE(SUM(change), 0)").
		Scan(&summary.UnitsRestored).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate stock restoration: %w", err)
	}

	statusCounts := []struct {
		Status models.OrderStatus
		Count  int64
	}{}
	if err := s.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case models.OrderStatusPending:
			summary.PendingOrders = sc.Count
		case models.OrderStatusConfirmed:
			summary.ConfirmedOrders = sc.Count
		case models.OrderStatusDelivered:
			summary.DeliveredOrders = sc.Count
		}
	}

	return summary, nil
}
