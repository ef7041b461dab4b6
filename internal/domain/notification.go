package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationOverdue  NotificationKind = "overdue"
	NotificationReminder NotificationKind = "reminder"
	NotificationInfo     NotificationKind = "info"
)

// Notification is a readable/unread message addressed to one user
type Notification struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	UserID    uuid.UUID        `json:"user_id" db:"user_id"`
	LoanID    *uuid.UUID       `json:"loan_id,omitempty" db:"loan_id"`
	Kind      NotificationKind `json:"kind" db:"kind"`
	Message   string           `json:"message" db:"message"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

type UnreadCountResponse struct {
	Unread int `json:"unread"`
}
