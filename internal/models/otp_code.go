package models

import "time"

// OTPCode is a code issued to a phone. Only the latest row per
// (country_code, phone) is ever compared.
type OTPCode struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CountryCode string    `gorm:"size:5;not null;index:idx_otp_codes_phone,priority:1" json:"country_code"`
	Phone       string    `gorm:"size:15;not null;index:idx_otp_codes_phone,priority:2" json:"phone"`
	Code        string    `gorm:"size:6;not null" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (OTPCode) TableName() string {
	return "otp_codes"
}
