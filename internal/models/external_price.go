// internal/models/external_price.go
package models

import (
	"github.com/google/uuid"
)

// ExternalPrice is a snapshot of a competitor price fetched through the
// price-source collaborator. Kept as the raw string the source returned.
type ExternalPrice struct {
	BaseModel
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Price     string    `json:"price" gorm:"size:20;not null"`
	URL       string    `json:"url" gorm:"size:2083;not null"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
