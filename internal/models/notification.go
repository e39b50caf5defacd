package models

import "time"

// NotificationTTL is how long a notification row is kept before the purge
// sweep removes it.
const NotificationTTL = 7 * 24 * time.Hour

// Notification is a user-facing message produced by a lifecycle transition.
// Delivery is best-effort; rows expire after NotificationTTL.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
