// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification surfaces operational events (stock depletion, confirmed
// orders) to admin and warehouse dashboards.
type Notification struct {
	BaseModel
	Type              NotificationType `json:"type" gorm:"type:varchar(50);not null;index"`
	Title             string           `json:"title" gorm:"size:255;not null"`
	Message           string           `json:"message" gorm:"type:text;not null"`
	Status            string           `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	RelatedResourceID *uuid.UUID       `json:"related_resource_id" gorm:"type:uuid"`
	ReadAt            *time.Time       `json:"read_at"`
}
