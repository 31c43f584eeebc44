package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	IdentityRoleAdmin  = "admin"
	IdentityRoleMember = "member"
)

// Identity is the authenticated account. Members are unique on
// (country_code, phone); admins are unique on email.
type Identity struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CountryCode  string    `gorm:"size:5;not null;uniqueIndex:idx_identities_phone,priority:1" json:"country_code"`
	Phone        *string   `gorm:"size:15;uniqueIndex:idx_identities_phone,priority:2" json:"phone,omitempty"`
	Email        *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	Role         string    `gorm:"size:10;not null;default:'member'" json:"role"`
	FCMToken     string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (i *Identity) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (Identity) TableName() string {
	return "identities"
}

func (i *Identity) IsAdmin() bool {
	return i.Role == IdentityRoleAdmin
}
