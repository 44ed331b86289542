// internal/models/product.go
package models

import (
	"github.com/lib/pq"
)

// Product is a catalog entry. Price is stored in minor currency units (COP
// centavos). Stock never goes below zero after a committed transaction.
type Product struct {
	BaseModel
	Name   string         `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Stock  int            `json:"stock" gorm:"not null;default:0"`
	Price  int64          `json:"price" gorm:"not null"`
	Images pq.StringArray `json:"images" gorm:"type:text[]"`

	// Relationships
	StockMovements []StockMovement `json:"stock_movements,omitempty" gorm:"foreignKey:ProductID"`
	ExternalPrices []ExternalPrice `json:"external_prices,omitempty" gorm:"foreignKey:ProductID"`
}

// ProductView is a read model returned by catalog lookups. DiscountedPrice is
// populated only when the caller has an EPS affiliation.
type ProductView struct {
	Product
	DiscountedPrice *int64 `json:"discounted_price,omitempty"`
}
