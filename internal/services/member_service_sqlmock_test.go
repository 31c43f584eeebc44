package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	var (
		db   *sql.DB
		mock sqlmock.Sqlmock
		err  error
	)
	db, mock, err = sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       db,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func TestMakeFamilyHeadLocksFamilyRow(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewMemberService(db, testConfig(), notify.NewStore(db))
	identityID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "members" WHERE "members"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "identity_id", "family_id", "country_code", "mobile", "name", "role", "status"}).
			AddRow(7, identityID.String(), 3, "+91", "9100000001", "Wife", models.MemberRoleMember, models.StatusActive))
	mock.ExpectQuery(`SELECT \* FROM "families" WHERE "families"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "head_id"}).AddRow(3, uuid.New().String()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "families" WHERE head_id = \$1 AND id <> \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := svc.MakeFamilyHead(context.Background(), 7)
	assert.ErrorIs(t, err, ErrHeadElsewhere)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkSpouseGuardedUpdateDetectsRace(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := NewMemberService(db, testConfig(), notify.NewStore(db))
	familyID := uint(1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "members" WHERE "members"."id" = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "family_id", "name", "spouse_id"}).
			AddRow(2, familyID, "Target", nil))
	mock.ExpectExec(`UPDATE "members" SET "spouse_id"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "members" SET "spouse_id"=\$1,"updated_at"=\$2 WHERE id = \$3 AND \(spouse_id IS NULL OR spouse_id = \$4\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx := db.Begin()
	require.NoError(t, tx.Error)
	m := &models.Member{ID: 1, FamilyID: &familyID, Name: "Caller"}
	err := svc.linkSpouse(tx, m, 2)
	tx.Rollback()

	assert.ErrorIs(t, err, ErrSpouseLinked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
