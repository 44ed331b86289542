// internal/models/movement.go
package models

import (
	"github.com/google/uuid"
)

// FinancialMovement is an append-only ledger row created exactly once per
// order confirmation. No update or delete path exists.
type FinancialMovement struct {
	BaseModel
	OrderID     uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	Amount      int64     `json:"amount" gorm:"not null"`
	Description string    `json:"description" gorm:"size:255"`

	// Relationships
	Order Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

// StockMovement records a signed inventory delta. Negative = depletion.
// Confirmation rows are audit records only; the stock counter itself is
// mutated at order placement.
type StockMovement struct {
	BaseModel
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Change      int       `json:"change" gorm:"not null"`
	Description string    `json:"description" gorm:"size:255"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
