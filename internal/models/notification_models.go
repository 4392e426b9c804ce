package models

import "time"

// Notification is a timestamped message shown in the UI bell menu.
type Notification struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message" db:"message" binding:"required"`
	Type      string    `json:"type" db:"type"` // e.g. info, warning, expiry, stock
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RecentActivity is an audit-style log entry recorded on inventory changes.
type RecentActivity struct {
	ID           int64     `json:"id"`
	Action       string    `json:"action" db:"action"` // e.g. added, updated, deleted
	MedicineName string    `json:"medicine_name" db:"medicine_name"`
	Details      string    `json:"details,omitempty" db:"details"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
