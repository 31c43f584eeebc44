package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForIdentity filters rows owned by an identity.
func ForIdentity(identityID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("identity_id = ?", identityID)
	}
}

// ForFamily filters members of one family.
func ForFamily(familyID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("family_id = ?", familyID)
	}
}

// ForPhone filters member rows by (country_code, mobile).
func ForPhone(countryCode, mobile string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("country_code = ? AND mobile = ?", countryCode, mobile)
	}
}

// OwnNumber excludes dependents that only carry the head's number.
func OwnNumber() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("mobile_inherited = ?", false)
	}
}
