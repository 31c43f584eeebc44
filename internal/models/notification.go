package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeEvent     = "event"
	NotificationTypeNotice    = "notice"
	NotificationTypeAdvertise = "advertise"
	NotificationTypeApproval  = "approval"
	NotificationTypeCommunity = "community"
	NotificationTypeGeneral   = "general"
)

type Notification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	IdentityID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"-"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Message       string     `gorm:"type:text" json:"message"`
	Type          string     `gorm:"size:20;not null" json:"type"`
	IsRead        bool       `gorm:"not null" json:"is_read"`
	ReferenceID   string     `gorm:"size:50" json:"reference_id,omitempty"`
	ReferenceType string     `gorm:"size:50" json:"reference_type,omitempty"`
	ActionDate    *time.Time `gorm:"type:date" json:"action_date,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	Identity      Identity   `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE" json:"-"`
}
