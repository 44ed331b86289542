// internal/services/order_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

type OrderServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *OrderService
	customer *models.User
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewOrderService(suite.db, NewNotificationService(suite.db))
	suite.customer = createTestUser(suite.T(), suite.db, "cliente1", models.RoleCustomer, nil)
}

func (suite *OrderServiceTestSuite) placeOrder(p *utils.Principal, items ...OrderItemRequest) (*models.Order, error) {
	return suite.service.PlaceOrder(p, &CreateOrderRequest{Items: items})
}

func (suite *OrderServiceTestSuite) TestPlaceOrderComputesTotal() {
	aspirin := createTestProduct(suite.T(), suite.db, "Aspirina", 5000, 10)
	gauze := createTestProduct(suite.T(), suite.db, "Gasa", 3000, 10)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: aspirin.ID, Quantity: 2},
		OrderItemRequest{ProductID: gauze.ID, Quantity: 3},
	)

	suite.NoError(err)
	suite.Equal(models.OrderStatusPending, order.Status)
	suite.Equal(models.PaymentStatusUnpaid, order.PaymentStatus)
	suite.Equal(int64(2*5000+3*3000), order.Total)
	suite.Len(order.Items, 2)

	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", aspirin.ID).Error)
	suite.Equal(8, stored.Stock)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderAppliesDiscount() {
	eps := createTestEPS(suite.T(), suite.db, "Sura", 10)
	member := createTestUser(suite.T(), suite.db, "afiliado", models.RoleCustomer, &eps.ID)
	product := createTestProduct(suite.T(), suite.db, "Ibuprofeno", 10000, 5)

	order, err := suite.placeOrder(principalFor(member),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)

	suite.NoError(err)
	suite.Equal(int64(9000), order.Total)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderDiscountRoundsDown() {
	eps := createTestEPS(suite.T(), suite.db, "Sanitas", 15)
	member := createTestUser(suite.T(), suite.db, "afiliado2", models.RoleCustomer, &eps.ID)
	product := createTestProduct(suite.T(), suite.db, "Jarabe", 333, 5)

	order, err := suite.placeOrder(principalFor(member),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)

	// 333 * 0.85 = 283.05, truncated
	suite.NoError(err)
	suite.Equal(int64(283), order.Total)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderTakesExactStock() {
	product := createTestProduct(suite.T(), suite.db, "Vendas", 2000, 3)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 3},
	)

	suite.NoError(err)
	suite.Equal(int64(6000), order.Total)

	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", product.ID).Error)
	suite.Equal(0, stored.Stock)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderRejectsEmptyList() {
	_, err := suite.placeOrder(principalFor(suite.customer))
	suite.ErrorIs(err, ErrOrderEmpty)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderInsufficientStock() {
	product := createTestProduct(suite.T(), suite.db, "Alcohol", 4000, 2)

	_, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 5},
	)

	suite.ErrorIs(err, ErrInsufficientStock)
	suite.Contains(err.Error(), "Alcohol")

	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", product.ID).Error)
	suite.Equal(2, stored.Stock)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderRollsBackEarlierItems() {
	first := createTestProduct(suite.T(), suite.db, "Acetaminofén", 3000, 10)
	second := createTestProduct(suite.T(), suite.db, "Termómetro", 25000, 1)

	_, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: first.ID, Quantity: 4},
		OrderItemRequest{ProductID: second.ID, Quantity: 2},
	)

	suite.ErrorIs(err, ErrInsufficientStock)

	// The decrement on the first item must not survive the rollback.
	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", first.ID).Error)
	suite.Equal(10, stored.Stock)

	var orderCount int64
	suite.NoError(suite.db.Model(&models.Order{}).Count(&orderCount).Error)
	suite.Zero(orderCount)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderUnknownProduct() {
	_, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: uuid.New(), Quantity: 1},
	)
	suite.ErrorIs(err, ErrProductNotFound)
}

func (suite *OrderServiceTestSuite) TestExactlyOneOrderWinsLastUnit() {
	product := createTestProduct(suite.T(), suite.db, "Insulina", 80000, 1)
	other := createTestUser(suite.T(), suite.db, "cliente2", models.RoleCustomer, nil)

	_, firstErr := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)
	_, secondErr := suite.placeOrder(principalFor(other),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)

	suite.NoError(firstErr)
	suite.ErrorIs(secondErr, ErrInsufficientStock)

	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", product.ID).Error)
	suite.Equal(0, stored.Stock)
}

func (suite *OrderServiceTestSuite) TestConfirmOrderEmitsLedger() {
	first := createTestProduct(suite.T(), suite.db, "Suero", 7000, 10)
	second := createTestProduct(suite.T(), suite.db, "Algodón", 1500, 10)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: first.ID, Quantity: 2},
		OrderItemRequest{ProductID: second.ID, Quantity: 1},
	)
	suite.Require().NoError(err)

	confirmed, err := suite.service.ConfirmOrder(order.ID)
	suite.NoError(err)
	suite.Equal(models.OrderStatusConfirmed, confirmed.Status)

	var financial []models.FinancialMovement
	suite.NoError(suite.db.Find(&financial).Error)
	suite.Require().Len(financial, 1)
	suite.Equal(order.ID, financial[0].OrderID)
	suite.Equal(order.Total, financial[0].Amount)

	var stock []models.StockMovement
	suite.NoError(suite.db.Order("change").Find(&stock).Error)
	suite.Require().Len(stock, 2)
	suite.Equal(-2, stock[0].Change)
	suite.Equal(first.ID, stock[0].ProductID)
	suite.Equal(-1, stock[1].Change)
	suite.Equal(second.ID, stock[1].ProductID)

	// Confirmation records movements only; the counter moved at placement.
	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", first.ID).Error)
	suite.Equal(8, stored.Stock)
}

func (suite *OrderServiceTestSuite) TestConfirmOrderTwiceRejected() {
	product := createTestProduct(suite.T(), suite.db, "Crema", 9000, 5)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)
	suite.Require().NoError(err)

	_, err = suite.service.ConfirmOrder(order.ID)
	suite.Require().NoError(err)

	_, err = suite.service.ConfirmOrder(order.ID)
	suite.ErrorIs(err, ErrOrderNotPending)

	// No duplicate ledger rows from the rejected attempt.
	var count int64
	suite.NoError(suite.db.Model(&models.FinancialMovement{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *OrderServiceTestSuite) TestConfirmUnknownOrder() {
	_, err := suite.service.ConfirmOrder(uuid.New())
	suite.ErrorIs(err, ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestDeliverRequiresConfirmed() {
	product := createTestProduct(suite.T(), suite.db, "Pañales", 30000, 5)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)
	suite.Require().NoError(err)

	_, err = suite.service.DeliverOrder(order.ID)
	suite.ErrorIs(err, ErrOrderNotConfirmed)

	_, err = suite.service.ConfirmOrder(order.ID)
	suite.Require().NoError(err)

	delivered, err := suite.service.DeliverOrder(order.ID)
	suite.NoError(err)
	suite.Equal(models.OrderStatusDelivered, delivered.Status)

	// Delivered is terminal.
	_, err = suite.service.DeliverOrder(order.ID)
	suite.ErrorIs(err, ErrOrderNotConfirmed)
}

func (suite *OrderServiceTestSuite) TestCancelRestoresStock() {
	product := createTestProduct(suite.T(), suite.db, "Curitas", 2500, 10)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 4},
	)
	suite.Require().NoError(err)

	suite.NoError(suite.service.CancelOrder(order.ID, principalFor(suite.customer)))

	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", product.ID).Error)
	suite.Equal(10, stored.Stock)

	var movements []models.StockMovement
	suite.NoError(suite.db.Find(&movements).Error)
	suite.Require().Len(movements, 1)
	suite.Equal(4, movements[0].Change)

	_, err = suite.service.GetOrder(order.ID, principalFor(suite.customer))
	suite.ErrorIs(err, ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestCancelConfirmedOrderRejected() {
	product := createTestProduct(suite.T(), suite.db, "Vitaminas", 12000, 5)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)
	suite.Require().NoError(err)

	_, err = suite.service.ConfirmOrder(order.ID)
	suite.Require().NoError(err)

	err = suite.service.CancelOrder(order.ID, principalFor(suite.customer))
	suite.ErrorIs(err, ErrOrderNotPending)
}

func (suite *OrderServiceTestSuite) TestCancelUnknownOrder() {
	err := suite.service.CancelOrder(uuid.New(), principalFor(suite.customer))
	suite.ErrorIs(err, ErrOrderNotFound)
}

func (suite *OrderServiceTestSuite) TestCancelForeignOrderRejected() {
	product := createTestProduct(suite.T(), suite.db, "Protector solar", 35000, 5)
	other := createTestUser(suite.T(), suite.db, "otro", models.RoleCustomer, nil)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)
	suite.Require().NoError(err)

	err = suite.service.CancelOrder(order.ID, principalFor(other))
	suite.ErrorIs(err, ErrOrderAccessDenied)
}

func (suite *OrderServiceTestSuite) TestAdminCanCancelAnyPendingOrder() {
	product := createTestProduct(suite.T(), suite.db, "Antibiótico", 18000, 5)
	admin := createTestUser(suite.T(), suite.db, "admin1", models.RoleAdmin, nil)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 2},
	)
	suite.Require().NoError(err)

	suite.NoError(suite.service.CancelOrder(order.ID, principalFor(admin)))

	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", product.ID).Error)
	suite.Equal(5, stored.Stock)
}

func (suite *OrderServiceTestSuite) TestGetOrderHidesForeignOrders() {
	product := createTestProduct(suite.T(), suite.db, "Mascarillas", 5000, 20)
	other := createTestUser(suite.T(), suite.db, "intruso", models.RoleCustomer, nil)

	order, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)
	suite.Require().NoError(err)

	_, err = suite.service.GetOrder(order.ID, principalFor(other))
	suite.ErrorIs(err, ErrOrderAccessDenied)

	admin := createTestUser(suite.T(), suite.db, "admin2", models.RoleAdmin, nil)
	got, err := suite.service.GetOrder(order.ID, principalFor(admin))
	suite.NoError(err)
	suite.Equal(order.ID, got.ID)
}

func (suite *OrderServiceTestSuite) TestListOrdersFiltersByRole() {
	product := createTestProduct(suite.T(), suite.db, "Jeringas", 1000, 50)
	other := createTestUser(suite.T(), suite.db, "cliente3", models.RoleCustomer, nil)

	_, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 1},
	)
	suite.Require().NoError(err)
	_, err = suite.placeOrder(principalFor(other),
		OrderItemRequest{ProductID: product.ID, Quantity: 2},
	)
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 20}

	mine, total, err := suite.service.ListOrders(principalFor(suite.customer), params)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(mine, 1)
	suite.Equal(suite.customer.ID, mine[0].CustomerID)

	warehouse := createTestUser(suite.T(), suite.db, "bodega", models.RoleWarehouse, nil)
	all, total, err := suite.service.ListOrders(principalFor(warehouse), params)
	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(all, 2)
}

func (suite *OrderServiceTestSuite) TestLowStockNotificationOnDepletion() {
	product := createTestProduct(suite.T(), suite.db, "Oxímetro", 60000, 2)

	_, err := suite.placeOrder(principalFor(suite.customer),
		OrderItemRequest{ProductID: product.ID, Quantity: 2},
	)
	suite.Require().NoError(err)

	var notifications []models.Notification
	suite.NoError(suite.db.Where("type = ?", models.NotificationTypeLowStock).Find(&notifications).Error)
	suite.Require().Len(notifications, 1)
	suite.Contains(notifications[0].Message, "Oxímetro")
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
