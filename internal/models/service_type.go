package models

import "time"

// ServiceType is a catalog entry a request references. The amount charged for
// a request is resolved from here at creation time and frozen on the request.
type ServiceType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Amount      float64   `gorm:"not null" json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (ServiceType) TableName() string {
	return "service_types"
}
