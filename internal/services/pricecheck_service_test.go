// internal/services/pricecheck_service_test.go
package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmagate/pharmacy-backend/internal/config"
	"github.com/farmagate/pharmacy-backend/internal/models"
)

type stubPriceSource struct {
	quote *PriceQuote
	err   error
}

func (s *stubPriceSource) Quote(productName string) (*PriceQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

func TestCompareProductPrice(t *testing.T) {
	db := newTestDB(t)
	product := createTestProduct(t, db, "Vitamina C", 12000, 10)

	source := &stubPriceSource{quote: &PriceQuote{Price: "13.500", URL: "https://example.com/vitamina-c"}}
	service := NewPriceCheckService(db, source)

	comparison, err := service.CompareProductPrice(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Vitamina C", comparison.ProductName)
	assert.Equal(t, int64(12000), comparison.InternalPrice)
	assert.Equal(t, "13.500", comparison.ExternalPrice)

	// The quote is kept as history.
	var stored []models.ExternalPrice
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, product.ID, stored[0].ProductID)

	history, err := service.ListQuoteHistory(product.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCompareProductPriceUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	service := NewPriceCheckService(db, &stubPriceSource{})

	_, err := service.CompareProductPrice(uuid.New())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCompareProductPriceSourceDown(t *testing.T) {
	db := newTestDB(t)
	product := createTestProduct(t, db, "Calcio", 9000, 10)

	service := NewPriceCheckService(db, &stubPriceSource{err: ErrPriceSourceUnavailable})

	_, err := service.CompareProductPrice(product.ID)
	assert.ErrorIs(t, err, ErrPriceSourceUnavailable)

	var count int64
	require.NoError(t, db.Model(&models.ExternalPrice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHTTPPriceSourceQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Dolex", r.URL.Query().Get("q"))
		json.NewEncoder(w).Encode(PriceQuote{Price: "8.900", URL: "https://example.com/dolex"})
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.PriceSource.BaseURL = server.URL
	cfg.PriceSource.TimeoutSec = 5

	source := NewHTTPPriceSource(cfg)
	quote, err := source.Quote("Dolex")
	require.NoError(t, err)
	assert.Equal(t, "8.900", quote.Price)
	assert.Equal(t, "https://example.com/dolex", quote.URL)
}

func TestHTTPPriceSourceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.PriceSource.BaseURL = server.URL
	cfg.PriceSource.TimeoutSec = 5

	source := NewHTTPPriceSource(cfg)
	_, err := source.Quote("Dolex")
	assert.ErrorIs(t, err, ErrPriceSourceUnavailable)

	// Unconfigured source fails fast.
	unconfigured := NewHTTPPriceSource(&config.Config{})
	_, err = unconfigured.Quote("Dolex")
	assert.ErrorIs(t, err, ErrPriceSourceUnavailable)
}
