package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefreshToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IdentityID uuid.UUID `gorm:"type:uuid;not null;index" json:"identity_id"`
	TokenHash  string    `gorm:"uniqueIndex;not null;size:64" json:"-"`
	Device     string    `gorm:"size:100" json:"device"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	Revoked    bool      `gorm:"not null" json:"revoked"`
	CreatedAt  time.Time `json:"created_at"`
	Identity   Identity  `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE" json:"-"`
}

func (rt *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	return nil
}
