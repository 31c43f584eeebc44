package models

import (
	"time"

	"github.com/google/uuid"
)

// Family groups members under one head identity. HeadID mirrors the
// identity of the member currently holding the familyHead role.
type Family struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	HeadID    *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"head_id"`
	Head      *Identity  `gorm:"foreignKey:HeadID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Family) TableName() string {
	return "families"
}

// DisplayID is the human facing family label.
func (f *Family) DisplayID() string {
	if f.HeadID == nil {
		return "Unassigned"
	}
	return "F_" + f.HeadID.String()
}
