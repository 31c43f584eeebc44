// Package testutil provides database fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

// SetupSQLiteTestDB opens a private in-memory SQLite database with the full
// schema. A single connection is used so every query sees the same memory DB.
func SetupSQLiteTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to SQLite test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := database.MigrateModels(db, models.ContentModels()); err != nil {
		t.Fatalf("Failed to migrate content tables: %v", err)
	}
	return db
}

// CreateIdentity inserts a member identity for (countryCode, phone).
func CreateIdentity(t *testing.T, db *gorm.DB, countryCode, phone string) *models.Identity {
	t.Helper()
	p := phone
	identity := &models.Identity{CountryCode: countryCode, Phone: &p, Role: models.IdentityRoleMember}
	if err := db.Create(identity).Error; err != nil {
		t.Fatalf("Failed to create identity: %v", err)
	}
	return identity
}

// CreateFamily inserts a family headed by identity, plus the head member row.
func CreateFamily(t *testing.T, db *gorm.DB, head *models.Identity, name string) (*models.Family, *models.Member) {
	t.Helper()
	fam := &models.Family{HeadID: &head.ID}
	if err := db.Create(fam).Error; err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	member := &models.Member{
		IdentityID:  &head.ID,
		FamilyID:    &fam.ID,
		CountryCode: head.CountryCode,
		Mobile:      *head.Phone,
		Name:        name,
		Role:        models.MemberRoleFamilyHead,
		Status:      models.StatusActive,
		Relation:    models.RelationSelf,
		Gender:      models.GenderMale,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("Failed to create head member: %v", err)
	}
	return fam, member
}

// CreateMember inserts m as given.
func CreateMember(t *testing.T, db *gorm.DB, m *models.Member) *models.Member {
	t.Helper()
	if m.Role == "" {
		m.Role = models.MemberRoleMember
	}
	if m.Status == "" {
		m.Status = models.StatusPending
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("Failed to create member: %v", err)
	}
	return m
}

// Date parses a YYYY-MM-DD literal.
func Date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return &d
}

func UUIDPtr(id uuid.UUID) *uuid.UUID { return &id }

func UintPtr(id uint) *uint { return &id }
