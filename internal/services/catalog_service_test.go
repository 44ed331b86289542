// internal/services/catalog_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

// stubFieldValidator lets tests script the remote validator's verdict.
type stubFieldValidator struct {
	similarName string
	usernameErr error
	productErr  error
}

func (s *stubFieldValidator) ValidateUsername(username string) error {
	return s.usernameErr
}

func (s *stubFieldValidator) ValidateProduct(name string, price int64, stock int) (*ProductValidation, error) {
	if s.productErr != nil {
		return nil, s.productErr
	}
	return &ProductValidation{SimilarName: s.similarName}, nil
}

type CatalogServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	validator *stubFieldValidator
	service   *CatalogService
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.validator = &stubFieldValidator{}
	suite.service = NewCatalogService(suite.db, suite.validator)
}

func (suite *CatalogServiceTestSuite) TestCreateProduct() {
	product, err := suite.service.CreateProduct(&CreateProductRequest{
		Name:  "Amoxicilina 500mg",
		Price: 15000,
		Stock: 30,
	}, false)

	suite.NoError(err)
	suite.Equal("Amoxicilina 500mg", product.Name)
	suite.Equal(int64(15000), product.Price)
	suite.Equal(30, product.Stock)
	suite.NotEqual(uuid.Nil, product.ID)
}

func (suite *CatalogServiceTestSuite) TestCreateProductSanitizesName() {
	product, err := suite.service.CreateProduct(&CreateProductRequest{
		Name:  `<b>Dolex</b> "forte"`,
		Price: 8000,
		Stock: 10,
	}, false)

	suite.NoError(err)
	suite.Equal("bDolex/b forte", product.Name)
}

func (suite *CatalogServiceTestSuite) TestCreateProductRejectsDuplicateName() {
	createTestProduct(suite.T(), suite.db, "Loratadina", 6000, 10)

	_, err := suite.service.CreateProduct(&CreateProductRequest{
		Name:  "Loratadina",
		Price: 6500,
		Stock: 5,
	}, false)

	suite.ErrorIs(err, ErrProductExists)
}

func (suite *CatalogServiceTestSuite) TestCreateProductSimilarRequiresConfirmation() {
	suite.validator.similarName = "Loratadina 10mg"

	req := &CreateProductRequest{
		Name:  "Loratadine 10mg",
		Price: 6000,
		Stock: 10,
	}

	_, err := suite.service.CreateProduct(req, false)
	var similar *SimilarProductError
	suite.ErrorAs(err, &similar)
	suite.Equal("Loratadina 10mg", similar.Similar)

	// Retrying with confirmation goes through.
	product, err := suite.service.CreateProduct(req, true)
	suite.NoError(err)
	suite.Equal("Loratadine 10mg", product.Name)
}

func (suite *CatalogServiceTestSuite) TestCreateProductUpstreamFailure() {
	suite.validator.productErr = ErrUpstreamValidation

	_, err := suite.service.CreateProduct(&CreateProductRequest{
		Name:  "Omeprazol",
		Price: 9000,
		Stock: 10,
	}, false)

	suite.ErrorIs(err, ErrUpstreamValidation)
}

func (suite *CatalogServiceTestSuite) TestGetProductWithDiscount() {
	eps := createTestEPS(suite.T(), suite.db, "Compensar", 20)
	member := createTestUser(suite.T(), suite.db, "afiliado", models.RoleCustomer, &eps.ID)
	product := createTestProduct(suite.T(), suite.db, "Enalapril", 10000, 5)

	view, err := suite.service.GetProduct(product.ID, principalFor(member))
	suite.NoError(err)
	suite.Require().NotNil(view.DiscountedPrice)
	suite.Equal(int64(8000), *view.DiscountedPrice)

	// No affiliation, no discounted price.
	plain, err := suite.service.GetProduct(product.ID, nil)
	suite.NoError(err)
	suite.Nil(plain.DiscountedPrice)
}

func (suite *CatalogServiceTestSuite) TestListProductsSearch() {
	createTestProduct(suite.T(), suite.db, "Acetaminofén 500mg", 4000, 10)
	createTestProduct(suite.T(), suite.db, "Acetaminofén jarabe", 7000, 10)
	createTestProduct(suite.T(), suite.db, "Ibuprofeno", 5000, 10)

	params := utils.PaginationParams{Page: 1, Limit: 20}
	views, total, err := suite.service.ListProducts(params, "acetaminofén", nil)

	suite.NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(views, 2)
}

func (suite *CatalogServiceTestSuite) TestUpdateProduct() {
	product := createTestProduct(suite.T(), suite.db, "Salbutamol", 22000, 4)

	newPrice := int64(24000)
	newStock := 8
	updated, err := suite.service.UpdateProduct(product.ID, &UpdateProductRequest{
		Price: &newPrice,
		Stock: &newStock,
	})

	suite.NoError(err)

	var stored models.Product
	suite.NoError(suite.db.First(&stored, "id = ?", updated.ID).Error)
	suite.Equal(int64(24000), stored.Price)
	suite.Equal(8, stored.Stock)
	suite.Equal("Salbutamol", stored.Name)
}

func (suite *CatalogServiceTestSuite) TestDeleteProduct() {
	product := createTestProduct(suite.T(), suite.db, "Losartán", 11000, 6)

	suite.NoError(suite.service.DeleteProduct(product.ID))
	suite.ErrorIs(suite.service.DeleteProduct(product.ID), ErrProductNotFound)
}

func (suite *CatalogServiceTestSuite) TestPurgeOutOfStock() {
	createTestProduct(suite.T(), suite.db, "Agotado A", 1000, 0)
	createTestProduct(suite.T(), suite.db, "Agotado B", 2000, 0)
	keeper := createTestProduct(suite.T(), suite.db, "Disponible", 3000, 5)

	deleted, err := suite.service.PurgeOutOfStock()
	suite.NoError(err)
	suite.Equal(int64(2), deleted)

	var remaining []models.Product
	suite.NoError(suite.db.Find(&remaining).Error)
	suite.Require().Len(remaining, 1)
	suite.Equal(keeper.ID, remaining[0].ID)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
