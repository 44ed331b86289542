// internal/services/validation_service.go
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/farmagate/pharmacy-backend/internal/config"
)

var ErrUpstreamValidation = errors.New("external validation service unavailable")

// ProductValidation is the verdict of the external product validator. A
// non-empty SimilarName means a fuzzy match against an existing product was
// found and the caller must explicitly confirm the creation.
type ProductValidation struct {
	SimilarName string
}

// FieldValidator is the remote validation collaborator. Usernames and new
// products are sent out for validation before they are persisted.
type FieldValidator interface {
	ValidateUsername(username string) error
	ValidateProduct(name string, price int64, stock int) (*ProductValidation, error)
}

// HTTPFieldValidator calls the serverless validation endpoints configured in
// the environment. When no endpoint is configured (local development) every
// check passes.
type HTTPFieldValidator struct {
	usernameURL string
	productURL  string
	client      *http.Client
}

func NewHTTPFieldValidator(cfg *config.Config) *HTTPFieldValidator {
	return &HTTPFieldValidator{
		usernameURL: cfg.Validator.UsernameURL,
		productURL:  cfg.Validator.ProductURL,
		client: &http.Client{
			Timeout: time.Duration(cfg.Validator.TimeoutSec) * time.Second,
		},
	}
}

type usernameValidationRequest struct {
	Username string `json:"username"`
}

type usernameValidationResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

func (v *HTTPFieldValidator) ValidateUsername(username string) error {
	if v.usernameURL == "" {
		return nil
	}

	var result usernameValidationResponse
	if err := v.post(v.usernameURL, usernameValidationRequest{Username: username}, &result); err != nil {
		return err
	}

	if !result.Valid {
		return fmt.Errorf("invalid username: %s", result.Message)
	}
	return nil
}

type productValidationRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type productValidationResponse struct {
	Valid       bool   `json:"valid"`
	Message     string `json:"message"`
	SimilarName string `json:"producto_similar"`
}

func (v *HTTPFieldValidator) ValidateProduct(name string, price int64, stock int) (*ProductValidation, error) {
	if v.productURL == "" {
		return &ProductValidation{}, nil
	}

	var result productValidationResponse
	if err := v.post(v.productURL, productValidationRequest{Name: name, Price: price, Stock: stock}, &result); err != nil {
		return nil, err
	}

	if !result.Valid && result.SimilarName == "" {
		return nil, fmt.Errorf("invalid product: %s", result.Message)
	}

	return &ProductValidation{SimilarName: result.SimilarName}, nil
}

func (v *HTTPFieldValidator) post(url string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode validation request: %w", err)
	}

	resp, err := v.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).WithField("url", url).Error("Validation service unreachable")
		return fmt.Errorf("%w: %v", ErrUpstreamValidation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status %d", ErrUpstreamValidation, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamValidation, err)
	}
	return nil
}
