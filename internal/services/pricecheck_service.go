// internal/services/pricecheck_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/farmagate/pharmacy-backend/internal/config"
	"github.com/farmagate/pharmacy-backend/internal/models"
)

var ErrPriceSourceUnavailable = errors.New("external price source unavailable")

// PriceQuote is an external market price for a product.
type PriceQuote struct {
	Price string `json:"price"`
	URL   string `json:"url"`
}

// PriceSource looks up what a product sells for elsewhere.
type PriceSource interface {
	Quote(productName string) (*PriceQuote, error)
}

// HTTPPriceSource queries the configured price-scraping endpoint.
type HTTPPriceSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPriceSource(cfg *config.Config) *HTTPPriceSource {
	return &HTTPPriceSource{
		baseURL: cfg.PriceSource.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.PriceSource.TimeoutSec) * time.Second,
		},
	}
}

func (p *HTTPPriceSource) Quote(productName string) (*PriceQuote, error) {
	if p.baseURL == "" {
		return nil, ErrPriceSourceUnavailable
	}

	endpoint := fmt.Sprintf("%s?q=%s", p.baseURL, url.QueryEscape(productName))
	resp, err := p.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrPriceSourceUnavailable, resp.StatusCode)
	}

	var quote PriceQuote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPriceSourceUnavailable, err)
	}
	if quote.Price == "" {
		return nil, fmt.Errorf("%w: empty quote", ErrPriceSourceUnavailable)
	}

	return &quote, nil
}

// PriceCheckService compares catalog prices against an external market
// source and keeps a history of the quotes it fetched.
type PriceCheckService struct {
	db     *gorm.DB
	source PriceSource
}

type PriceComparison struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	InternalPrice int64     `json:"internal_price"`
	ExternalPrice string    `json:"external_price"`
	SourceURL     string    `json:"source_url"`
}

func NewPriceCheckService(db *gorm.DB, source PriceSource) *PriceCheckService {
	return &PriceCheckService{
		db:     db,
		source: source,
	}
}

// CompareProductPrice fetches an external quote for the product and records
// it. Quote history survives even when the external source later goes dark.
func (s *PriceCheckService) CompareProductPrice(productID uuid.UUID) (*PriceComparison, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	quote, err := s.source.Quote(product.Name)
	if err != nil {
		return nil, err
	}

	record := &models.ExternalPrice{
		ProductID: product.ID,
		Price:     quote.Price,
		URL:       quote.URL,
	}
	if err := s.db.Create(record).Error; err != nil {
		logrus.WithError(err).WithField("product_id", product.ID).Error("Failed to store external price")
	}

	return &PriceComparison{
		ProductID:     product.ID,
		ProductName:   product.Name,
		InternalPrice: product.Price,
		ExternalPrice: quote.Price,
		SourceURL:     quote.URL,
	}, nil
}

// ListQuoteHistory returns the stored external quotes for a product, newest
// first.
func (s *PriceCheckService) ListQuoteHistory(productID uuid.UUID) ([]models.ExternalPrice, error) {
	var quotes []models.ExternalPrice
	if err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&quotes).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch price history: %w", err)
	}
	return quotes, nil
}
