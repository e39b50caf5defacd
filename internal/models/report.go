package models

import "time"

// ReportStatus tracks the handling state of a technician report.
type ReportStatus string

const (
	// ReportStatusOpen is the initial state of every filed report.
	ReportStatusOpen ReportStatus = "open"
	// ReportStatusResolved marks a report closed by support staff.
	ReportStatusResolved ReportStatus = "resolved"
)

// Report is a customer complaint against the technician bound to one of
// their service requests.
type Report struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	RequestID    string       `gorm:"type:uuid;not null;index" json:"request_id"`
	CustomerID   uint         `gorm:"not null;index" json:"customer_id"`
	TechnicianID uint         `gorm:"not null;index" json:"technician_id"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Status       ReportStatus `gorm:"type:varchar(20);default:'open'" json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Report) TableName() string {
	return "reports"
}
