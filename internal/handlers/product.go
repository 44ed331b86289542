// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmagate/pharmacy-backend/internal/i18n"
	"github.com/farmagate/pharmacy-backend/internal/services"
	"github.com/farmagate/pharmacy-backend/internal/utils"
)

type ProductHandler struct {
	catalogService    *services.CatalogService
	priceCheckService *services.PriceCheckService
}

func NewProductHandler(catalogService *services.CatalogService, priceCheckService *services.PriceCheckService) *ProductHandler {
	return &ProductHandler{
		catalogService:    catalogService,
		priceCheckService: priceCheckService,
	}
}

// GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	search := c.Query("search")
	principal, _ := utils.GetPrincipalFromContext(c)

	products, total, err := h.catalogService.ListProducts(params, search, principal)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product ID", nil)
		return
	}

	principal, _ := utils.GetPrincipalFromContext(c)

	product, err := h.catalogService.GetProduct(productID, principal)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	confirmed := c.Query("confirmed") == "true"

	product, err := h.catalogService.CreateProduct(&req, confirmed)
	if err != nil {
		var similar *services.SimilarProductError
		switch {
		case errors.As(err, &similar):
			utils.ErrorResponse(c, 409, "SIMILAR_PRODUCT",
				i18n.T(lang, i18n.KeyProductSimilar, similar.Similar),
				gin.H{"producto_similar": similar.Similar})
		case errors.Is(err, services.ErrProductExists):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyProductSimilar, req.Name))
		case errors.Is(err, services.ErrUpstreamValidation):
			utils.ErrorResponse(c, 502, "UPSTREAM_ERROR", i18n.T(lang, i18n.KeyUpstreamFailure), nil)
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": product,
	})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product ID", nil)
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.catalogService.UpdateProduct(productID, &req)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": product,
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product ID", nil)
		return
	}

	if err := h.catalogService.DeleteProduct(productID); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.NotFoundResponse(c, "product")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// DELETE /products/out-of-stock
func (h *ProductHandler) PurgeOutOfStock(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	deleted, err := h.catalogService.PurgeOutOfStock()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductStockPurged),
		"deleted": deleted,
	})
}

// GET /products/:id/external-price
func (h *ProductHandler) ComparePrice(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product ID", nil)
		return
	}

	comparison, err := h.priceCheckService.CompareProductPrice(productID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, "product")
		case errors.Is(err, services.ErrPriceSourceUnavailable):
			utils.ErrorResponse(c, 502, "UPSTREAM_ERROR", i18n.T(lang, i18n.KeyUpstreamFailure), nil)
		default:
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.SuccessResponse(c, comparison)
}

// GET /products/:id/external-price/history
func (h *ProductHandler) PriceHistory(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid product ID", nil)
		return
	}

	quotes, err := h.priceCheckService.ListQuoteHistory(productID)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, quotes)
}
