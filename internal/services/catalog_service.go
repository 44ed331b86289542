// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/models"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)

// SimilarProductError signals that the external validator found an existing
// product with a near-identical name. Creation proceeds only when the caller
// confirms it.
type SimilarProductError struct {
	Similar string
}

func (e *SimilarProductError) Error() string {
	return fmt.Sprintf("similar product exists: %s", e.Similar)
}

// nameSanitizer strips characters that could carry markup into stored names.
var nameSanitizer = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")

// CatalogService manages the product catalog and exposes the discounted view
// customers see when they carry an EPS affiliation.
type CatalogService struct {
	db             *gorm.DB
	fieldValidator FieldValidator
}

type CreateProductRequest struct {
	Name   string   `json:"name" validate:"required,min=2,max=100"`
	Stock  int      `json:"stock" validate:"gte=0"`
	Price  int64    `json:"price" validate:"required,gt=0"`
	Images []string `json:"images" validate:"omitempty,dive,url"`
}

type UpdateProductRequest struct {
	Name   *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Stock  *int     `json:"stock" validate:"omitempty,gte=0"`
	Price  *int64   `json:"price" validate:"omitempty,gt=0"`
	Images []string `json:"images" validate:"omitempty,dive,url"`
}

func NewCatalogService(db *gorm.DB, fieldValidator FieldValidator) *CatalogService {
	return &CatalogService{
		db:             db,
		fieldValidator: fieldValidator,
	}
}

// CreateProduct validates the product remotely and persists it. When the
// validator reports a similar existing product the creation is held back
// until the caller retries with confirmed set.
func (s *CatalogService) CreateProduct(req *CreateProductRequest, confirmed bool) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	name := nameSanitizer.Replace(strings.TrimSpace(req.Name))

	var count int64
	if err := s.db.Model(&models.Product{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrProductExists
	}

	if s.fieldValidator != nil {
		verdict, err := s.fieldValidator.ValidateProduct(name, req.Price, req.Stock)
		if err != nil {
			return nil, err
		}
		if verdict.SimilarName != "" && !confirmed {
			return nil, &SimilarProductError{Similar: verdict.SimilarName}
		}
	}

	product := &models.Product{
		Name:   name,
		Stock:  req.Stock,
		Price:  req.Price,
		Images: pq.StringArray(req.Images),
	}
	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetProduct returns one product, priced for the caller's EPS affiliation.
func (s *CatalogService) GetProduct(productID uuid.UUID, principal *utils.Principal) (*models.ProductView, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	view := s.buildView(product, s.resolveEPS(principal))
	return &view, nil
}

// ListProducts returns the catalog with optional name search, priced for the
// caller's EPS affiliation.
func (s *CatalogService) ListProducts(params utils.PaginationParams, search string, principal *utils.Principal) ([]models.ProductView, int64, error) {
	query := s.db.Model(&models.Product{})
	if search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "price", "stock"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	eps := s.resolveEPS(principal)
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, s.buildView(p, eps))
	}

	return views, total, nil
}

// UpdateProduct applies a partial update.
func (s *CatalogService) UpdateProduct(productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = nameSanitizer.Replace(strings.TrimSpace(*req.Name))
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return &product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(productID uuid.UUID) error {
	res := s.db.Delete(&models.Product{}, "id = ?", productID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// PurgeOutOfStock deletes every product whose stock has reached zero and
// returns how many were removed.
func (s *CatalogService) PurgeOutOfStock() (int64, error) {
	res := s.db.Where("stock = ?", 0).Delete(&models.Product{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge products: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *CatalogService) resolveEPS(principal *utils.Principal) *models.EPS {
	if principal == nil || principal.EPSID == nil {
		return nil
	}
	var eps models.EPS
	if err := s.db.First(&eps, "id = ?", *principal.EPSID).Error; err != nil {
		return nil
	}
	return &eps
}

func (s *CatalogService) buildView(product models.Product, eps *models.EPS) models.ProductView {
	view := models.ProductView{Product: product}
	if eps != nil && eps.Discount > 0 {
		discounted := eps.DiscountedTotal(product.Price)
		view.DiscountedPrice = &discounted
	}
	return view
}
