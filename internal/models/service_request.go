// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestStatus represents the status of a service request.
type RequestStatus string

const (
	// RequestStatusPending indicates a request waiting for a technician.
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusAssigned indicates a technician has accepted the request.
	RequestStatusAssigned RequestStatus = "assigned"
	// RequestStatusEnRoute indicates the technician is on the way.
	RequestStatusEnRoute RequestStatus = "en_route"
	// RequestStatusOnSite indicates the technician arrived at the address.
	RequestStatusOnSite RequestStatus = "on_site"
	// RequestStatusInProgress indicates the repair work has started.
	RequestStatusInProgress RequestStatus = "in_progress"
	// RequestStatusCompleted indicates the work is done and awaiting payment.
	RequestStatusCompleted RequestStatus = "completed"
	// RequestStatusPaid indicates the payment was confirmed.
	RequestStatusPaid RequestStatus = "paid"
)

// ActiveStatuses are the non-terminal statuses. A customer may hold at most
// one request in any of these at a time.
var ActiveStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusAssigned,
	RequestStatusEnRoute,
	RequestStatusOnSite,
	RequestStatusInProgress,
}

// WorkingStatuses are the statuses a technician occupies between accepting a
// request and completing it. A technician may hold at most one of these.
var WorkingStatuses = []RequestStatus{
	RequestStatusAssigned,
	RequestStatusEnRoute,
	RequestStatusOnSite,
	RequestStatusInProgress,
}

// Working reports whether the status sits between assignment and completion,
// where stage advances are allowed.
func (s RequestStatus) Working() bool {
	for _, ws := range WorkingStatuses {
		if s == ws {
			return true
		}
	}
	return false
}

// Stage is one of the ordered sub-states a technician walks a request through
// after assignment.
type Stage string

const (
	StageEnRoute    Stage = "en_route"
	StageOnSite     Stage = "on_site"
	StageInProgress Stage = "in_progress"
	StageCompleted  Stage = "completed"
)

// StageOrder is the canonical single-step progression. Index -1 (no entry yet)
// means the request is still at its assigned baseline.
var StageOrder = []Stage{StageEnRoute, StageOnSite, StageInProgress, StageCompleted}

// stageAliases maps legacy stage spellings from older clients onto the
// canonical names.
var stageAliases = map[string]Stage{
	"en_camino":  StageEnRoute,
	"en camino":  StageEnRoute,
	"en_lugar":   StageOnSite,
	"en lugar":   StageOnSite,
	"en_proceso": StageInProgress,
	"en proceso": StageInProgress,
	"finalizado": StageCompleted,
}

// ParseStage normalizes external input to a canonical stage. Comparison is
// case-insensitive on the trimmed value. Returns false for anything that is
// not a known stage.
func ParseStage(raw string) (Stage, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := stageAliases[s]; ok {
		return alias, true
	}
	for _, stage := range StageOrder {
		if s == string(stage) {
			return stage, true
		}
	}
	return "", false
}

// StageIndex returns the position of the stage in the canonical order, or -1.
func StageIndex(s Stage) int {
	for i, stage := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// RequiresConfirmationCode reports whether advancing to the stage requires
// the confirmation code shared with the customer at assignment time.
func (s Stage) RequiresConfirmationCode() bool {
	return s == StageOnSite || s == StageCompleted
}

// Status returns the request status that corresponds to the stage.
func (s Stage) Status() RequestStatus {
	switch s {
	case StageEnRoute:
		return RequestStatusEnRoute
	case StageOnSite:
		return RequestStatusOnSite
	case StageInProgress:
		return RequestStatusInProgress
	case StageCompleted:
		return RequestStatusCompleted
	}
	return RequestStatusAssigned
}

// ServiceRequest represents a customer's repair request and is the central
// entity of the lifecycle state machine.
type ServiceRequest struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID    uint          `gorm:"not null;index" json:"customer_id"`
	ServiceTypeID uint          `gorm:"not null" json:"service_type_id"`
	ServiceName   string        `json:"service_name"`
	TechnicianID  *uint         `gorm:"index" json:"technician_id,omitempty"`
	Status        RequestStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	// ConfirmationCode is generated once at assignment and never changes.
	ConfirmationCode string  `gorm:"type:varchar(12)" json:"-"`
	Amount           float64 `gorm:"not null" json:"amount"`

	ApplianceBrand string `json:"appliance_brand"`
	ApplianceType  string `json:"appliance_type"`
	Description    string `gorm:"type:text" json:"description"`
	Address        string `gorm:"not null" json:"address"`
	ScheduledDate  string `json:"scheduled_date"`
	ScheduledTime  string `json:"scheduled_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// TableName specifies the table name for GORM
func (ServiceRequest) TableName() string {
	return "service_requests"
}

// BeforeCreate assigns the opaque identifier.
func (r *ServiceRequest) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsActive reports whether the request occupies a non-terminal status.
func (r *ServiceRequest) IsActive() bool {
	for _, s := range ActiveStatuses {
		if r.Status == s {
			return true
		}
	}
	return false
}
