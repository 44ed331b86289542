// internal/models/order.go
package models

import (
	"github.com/google/uuid"
)

// Order owns its items. Total is derived at placement time and never edited
// afterwards; status only moves through the confirm/deliver/cancel
// transitions.
type Order struct {
	BaseModel
	CustomerID      uuid.UUID     `json:"customer_id" gorm:"type:uuid;not null;index"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Total           int64         `json:"total" gorm:"not null;default:0"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'unpaid'"`
	PaymentIntentID string        `json:"payment_intent_id,omitempty" gorm:"size:100"`

	// Relationships
	Customer User        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is immutable once its order is created.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
