package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/otp"
)

const bypassCode = "123456"

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "development",
		JWTSecret:          "test-secret",
		JWTAccessExpiry:    15 * time.Minute,
		JWTRefreshExpiry:   time.Hour,
		OTPBypassCode:      bypassCode,
		OTPTTL:             10 * time.Minute,
		OTPResendInterval:  time.Minute,
		DefaultCountryCode: "+91",
	}
}

func newAuthService(db *gorm.DB) *AuthService {
	cfg := testConfig()
	issuer := otp.NewIssuer(otp.NewDBStore(db), otp.LogSender{}, cfg)
	return NewAuthService(db, cfg, issuer)
}

func strPtr(s string) *string { return &s }

func reloadMember(t *testing.T, db *gorm.DB, id uint) models.Member {
	t.Helper()
	var m models.Member
	if err := db.First(&m, id).Error; err != nil {
		t.Fatalf("Failed to reload member %d: %v", id, err)
	}
	return m
}

func loadProfile(t *testing.T, db *gorm.DB, identityID interface{}) models.ProfileAggregate {
	t.Helper()
	var p models.ProfileAggregate
	if err := db.Preload("Personal").Preload("Education").Preload("Job").
		Where("identity_id = ?", identityID).First(&p).Error; err != nil {
		t.Fatalf("Failed to load profile: %v", err)
	}
	return p
}
