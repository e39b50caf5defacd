package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressEntry is an append-only record of a stage transition. Entries
// reference their request by ID and are never mutated after insert.
type ProgressEntry struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID    string    `gorm:"type:uuid;not null;index" json:"request_id"`
	TechnicianID uint      `gorm:"not null" json:"technician_id"`
	Stage        Stage     `gorm:"type:varchar(20);not null" json:"stage"`
	Detail       string    `gorm:"type:text" json:"detail"`
	Timestamp    time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

// TableName specifies the table name for GORM
func (ProgressEntry) TableName() string {
	return "progress_entries"
}

// BeforeCreate assigns the entry identifier.
func (e *ProgressEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
