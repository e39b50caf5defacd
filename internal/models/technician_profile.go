package models

import "time"

// TechnicianProfile holds the profile a technician must complete before
// accepting work. Identity itself is issued externally; this table only backs
// the completeness gate.
type TechnicianProfile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TechnicianID uint      `gorm:"not null;uniqueIndex" json:"technician_id"`
	FullName     string    `gorm:"not null" json:"full_name"`
	Phone        string    `json:"phone"`
	Specialty    string    `json:"specialty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (TechnicianProfile) TableName() string {
	return "technician_profiles"
}

// Complete reports whether the profile satisfies the assignment gate.
func (p *TechnicianProfile) Complete() bool {
	return p.FullName != "" && p.Phone != "" && p.Specialty != ""
}
