// internal/models/eps.go
package models

import "math"

// EPS is a health-insurance affiliation that grants a percentage discount on
// order totals. Customers are linked to at most one EPS.
type EPS struct {
	BaseModel
	Name     string  `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Discount float64 `json:"discount" gorm:"type:decimal(5,2);not null"`

	// Relationships
	Affiliates []User `json:"affiliates,omitempty" gorm:"foreignKey:EPSID"`
}

func (EPS) TableName() string { return "eps" }

// DiscountedTotal applies the affiliation discount to an order total in minor
// currency units, rounding down.
func (e *EPS) DiscountedTotal(total int64) int64 {
	if e == nil || e.Discount <= 0 {
		return total
	}
	// Integer arithmetic in basis points keeps exactly-divisible totals exact.
	bp := int64(math.Round(e.Discount * 100))
	if bp >= 10000 {
		return 0
	}
	return total * (10000 - bp) / 10000
}
