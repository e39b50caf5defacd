package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentMethod identifies how a customer settles a completed service.
type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// ValidPaymentMethod reports whether the method is supported.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCard, PaymentMethodCash, PaymentMethodTransfer:
		return true
	}
	return false
}

// PaymentStatus is the processor-reported outcome of a charge.
type PaymentStatus string

const (
	// PaymentStatusPending indicates a deferred method (cash, transfer)
	// awaiting a follow-up confirmation.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusConfirmed indicates a final successful charge.
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	// PaymentStatusFailed indicates the processor rejected the charge.
	PaymentStatusFailed PaymentStatus = "failed"
)

// Payment records the settlement of a completed service request. The unique
// index on RequestID is the idempotency guard: a request is charged at most
// once, retries confirm the existing row instead of charging again.
type Payment struct {
	ID           string        `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID    string        `gorm:"type:uuid;not null;uniqueIndex" json:"request_id"`
	TechnicianID uint          `gorm:"index" json:"technician_id"`
	Amount       float64       `gorm:"not null" json:"amount"`
	Method       PaymentMethod `gorm:"type:varchar(20);not null" json:"method"`
	Status       PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	// Reference is the processor charge reference, or the voucher reference
	// for deferred methods.
	Reference string     `json:"reference"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate assigns the payment identifier.
func (p *Payment) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
