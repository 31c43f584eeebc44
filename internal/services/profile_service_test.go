package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/testutil"
)

func TestProfileSaveCreatesSelfMemberAndPushes(t *testing.T) {
	db := testutil.SetupSQLiteTestDB(t)
	auth := newAuthService(db)
	svc := NewProfileService(db, testConfig())
	ctx := context.Background()

	login, err := auth.VerifyOTP(ctx, &dto.VerifyOTPRequest{
		CountryCode: "+91", Phone: "9700000000", OTP: bypassCode,
	}, "")
	require.NoError(t, err)
	assert.False(t, login.ProfileCompleted)
	assert.Nil(t, login.Data.SelectedRole)

	resp, err := svc.Save(ctx, login.UserID, &dto.ProfilePayload{
		SelectedRole: models.RegistrationRoleFamilyHead,
		Personal:     &dto.PersonalPayload{FullName: "Asha", Gender: "female", DOB: "1992-09-09", CurrentCity: "Pune"},
		Job:          &dto.JobPayload{OccupationType: "Teacher"},
	})
	require.NoError(t, err)
	assert.True(t, resp.ProfileCompleted)
	assert.Equal(t, "Asha", resp.Data.Personal.FullName)

	var members []models.Member
	require.NoError(t, db.Where("identity_id = ?", login.UserID).Find(&members).Error)
	require.Len(t, members, 1)
	self := members[0]
	assert.Equal(t, models.MemberRoleFamilyHead, self.Role)
	assert.Equal(t, models.RelationSelf, self.Relation)
	assert.Equal(t, "9700000000", self.Mobile)
	assert.Equal(t, "Teacher", self.Occupation)
	assert.True(t, self.ProfileCompleted)

	_, err = svc.Save(ctx, login.UserID, &dto.ProfilePayload{
		SelectedRole: models.RegistrationRoleMember,
		Personal:     &dto.PersonalPayload{FullName: "Asha Rani"},
	})
	require.NoError(t, err)

	got := reloadMember(t, db, self.ID)
	assert.Equal(t, "Asha Rani", got.Name)
	assert.Equal(t, models.MemberRoleMember, got.Role)

	var count int64
	db.Model(&models.Member{}).Where("identity_id = ?", login.UserID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProfileSaveKeepsRoleOnceInFamily(t *testing.T) {
	db := testutil.SetupSQLiteTestDB(t)
	svc := NewProfileService(db, testConfig())
	head := testutil.CreateIdentity(t, db, "+91", "9000000001")
	_, hm := testutil.CreateFamily(t, db, head, "Head")

	_, err := svc.Save(context.Background(), head.ID, &dto.ProfilePayload{SelectedRole: models.RegistrationRoleMember})
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleFamilyHead, reloadMember(t, db, hm.ID).Role)
}

func TestProfileSaveValidation(t *testing.T) {
	db := testutil.SetupSQLiteTestDB(t)
	svc := NewProfileService(db, testConfig())
	identity := testutil.CreateIdentity(t, db, "+91", "9700000001")

	_, err := svc.Save(context.Background(), identity.ID, &dto.ProfilePayload{
		Personal: &dto.PersonalPayload{DOB: "09-09-1992"},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "personal.dob", apperr.FieldOf(err))

	_, err = svc.Save(context.Background(), identity.ID, &dto.ProfilePayload{SelectedRole: "admin"})
	assert.Equal(t, "selectedRole", apperr.FieldOf(err))

	_, err = svc.Save(context.Background(), uuid.New(), &dto.ProfilePayload{})
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestProfileGet(t *testing.T) {
	db := testutil.SetupSQLiteTestDB(t)
	cfg := testConfig()
	cfg.MediaBaseURL = "https://cdn.example.com/media"
	svc := NewProfileService(db, cfg)
	identity := testutil.CreateIdentity(t, db, "+91", "9700000002")

	_, err := svc.Save(context.Background(), identity.ID, &dto.ProfilePayload{
		Personal:  &dto.PersonalPayload{ProfileImage: "avatars/a.png"},
		Education: &dto.EducationPayload{StartYear: intPtr(2020), EndYear: intPtr(2024), CurrentlyStudying: boolPtr(true)},
	})
	require.NoError(t, err)

	resp, err := svc.Get(context.Background(), identity.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Data.Personal.ProfileImageURL)
	assert.Equal(t, "https://cdn.example.com/media/avatars/a.png", *resp.Data.Personal.ProfileImageURL)
	assert.Nil(t, resp.Data.Education.EndYear)
	assert.True(t, resp.Data.Education.CurrentlyStudying)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrIdentityNotFound)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }
