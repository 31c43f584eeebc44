package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/notify/mocks"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/testutil"
)

type familyFixture struct {
	db         *gorm.DB
	svc        *MemberService
	head       *models.Identity
	family     *models.Family
	headMember *models.Member
}

func newFamilyFixture(t *testing.T) *familyFixture {
	t.Helper()
	db := testutil.SetupSQLiteTestDB(t)
	head := testutil.CreateIdentity(t, db, "+91", "9000000001")
	fam, hm := testutil.CreateFamily(t, db, head, "Ramesh")
	return &familyFixture{
		db:         db,
		svc:        NewMemberService(db, testConfig(), notify.NewStore(db)),
		head:       head,
		family:     fam,
		headMember: hm,
	}
}

func TestAddMemberDependentInheritsHeadNumber(t *testing.T) {
	f := newFamilyFixture(t)

	resp, err := f.svc.AddMember(context.Background(), f.head.ID, &dto.MemberRequest{
		Name:        strPtr("Kid"),
		Relation:    strPtr(models.RelationSon),
		DateOfBirth: strPtr("2015-03-03"),
		ParentID:    testutil.UintPtr(f.headMember.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "9000000001", resp.Mobile)
	assert.Equal(t, models.StatusActive, resp.Status)
	assert.Equal(t, models.MemberRoleMember, resp.Role)

	got := reloadMember(t, f.db, resp.ID)
	assert.True(t, got.MobileInherited)
	assert.Equal(t, f.family.ID, *got.FamilyID)
	assert.Equal(t, f.headMember.ID, *got.ParentID)
}

func TestAddMemberValidation(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Bro"), Relation: strPtr(models.RelationBrother), DateOfBirth: strPtr("1985-01-01"),
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "mobile", apperr.FieldOf(err))

	_, err = f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("X"), Relation: strPtr("cousin"), DateOfBirth: strPtr("1985-01-01"), Mobile: strPtr("9100000000"),
	})
	assert.Equal(t, "relation", apperr.FieldOf(err))

	_, err = f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("X"), Relation: strPtr(models.RelationBrother), Mobile: strPtr("9100000000"),
	})
	assert.Equal(t, "date_of_birth", apperr.FieldOf(err))

	_, err = f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("X"), Relation: strPtr(models.RelationBrother), DateOfBirth: strPtr("1985-01-01"),
		Mobile: strPtr("9100000000"), Role: strPtr(models.MemberRoleFamilyHead),
	})
	assert.ErrorIs(t, err, ErrHeadExists)

	_, err = f.svc.AddMember(ctx, uuid.New(), &dto.MemberRequest{
		Name: strPtr("X"), Relation: strPtr(models.RelationSon), DateOfBirth: strPtr("2010-01-01"),
	})
	assert.ErrorIs(t, err, ErrNotFamilyHead)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestAddMemberDuplicateMobile(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	other := testutil.CreateIdentity(t, f.db, "+91", "9555555555")
	testutil.CreateFamily(t, f.db, other, "Other")

	_, err := f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Wife"), Relation: strPtr(models.RelationSpouse), DateOfBirth: strPtr("1988-02-02"),
		Mobile: strPtr("9000000001"),
	})
	assert.ErrorIs(t, err, ErrMobileInFamily)

	_, err = f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Wife"), Relation: strPtr(models.RelationSpouse), DateOfBirth: strPtr("1988-02-02"),
		Mobile: strPtr("9555555555"),
	})
	assert.ErrorIs(t, err, ErrMobileOtherFamily)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAddMemberCreatesFamilyOnFirstUse(t *testing.T) {
	db := testutil.SetupSQLiteTestDB(t)
	svc := NewMemberService(db, testConfig(), notify.NewStore(db))
	identity := testutil.CreateIdentity(t, db, "+91", "9000000009")
	head := testutil.CreateMember(t, db, &models.Member{
		IdentityID: &identity.ID, CountryCode: "+91", Mobile: "9000000009",
		Name: "New Head", Role: models.MemberRoleFamilyHead, Relation: models.RelationSelf,
	})

	resp, err := svc.AddMember(context.Background(), identity.ID, &dto.MemberRequest{
		Name: strPtr("Kid"), Relation: strPtr(models.RelationDaughter), DateOfBirth: strPtr("2018-08-08"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.FamilyID)

	var fam models.Family
	require.NoError(t, db.First(&fam, *resp.FamilyID).Error)
	assert.Equal(t, identity.ID, *fam.HeadID)
	assert.Equal(t, fam.ID, *reloadMember(t, db, head.ID).FamilyID)
}

func TestSpouseLinking(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	wife, err := f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Wife"), Relation: strPtr(models.RelationSpouse), DateOfBirth: strPtr("1988-02-02"),
		Mobile: strPtr("9100000001"), SpouseID: testutil.UintPtr(f.headMember.ID),
	})
	require.NoError(t, err)
	require.NotNil(t, wife.SpouseID)
	assert.Equal(t, f.headMember.ID, *wife.SpouseID)
	assert.Equal(t, wife.ID, *reloadMember(t, f.db, f.headMember.ID).SpouseID)

	_, err = f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Second"), Relation: strPtr(models.RelationSpouse), DateOfBirth: strPtr("1990-02-02"),
		Mobile: strPtr("9100000002"), SpouseID: testutil.UintPtr(f.headMember.ID),
	})
	assert.ErrorIs(t, err, ErrSpouseLinked)

	var count int64
	f.db.Model(&models.Member{}).Where("family_id = ?", f.family.ID).Count(&count)
	assert.Equal(t, int64(2), count)

	_, err = f.svc.UpdateMember(ctx, f.head.ID, wife.ID, &dto.MemberRequest{SpouseID: testutil.UintPtr(wife.ID)}, false)
	assert.ErrorIs(t, err, ErrSpouseSelf)

	cleared, err := f.svc.UpdateMember(ctx, f.head.ID, wife.ID, &dto.MemberRequest{SpouseID: testutil.UintPtr(0)}, false)
	require.NoError(t, err)
	assert.Nil(t, cleared.SpouseID)
	assert.Nil(t, reloadMember(t, f.db, f.headMember.ID).SpouseID)
}

func TestSpouseMustShareFamily(t *testing.T) {
	f := newFamilyFixture(t)
	other := testutil.CreateIdentity(t, f.db, "+91", "9555555555")
	_, otherHead := testutil.CreateFamily(t, f.db, other, "Other")

	_, err := f.svc.AddMember(context.Background(), f.head.ID, &dto.MemberRequest{
		Name: strPtr("Wife"), Relation: strPtr(models.RelationSpouse), DateOfBirth: strPtr("1988-02-02"),
		Mobile: strPtr("9100000001"), SpouseID: testutil.UintPtr(otherHead.ID),
	})
	assert.ErrorIs(t, err, ErrSpouseOtherFamily)
	assert.Nil(t, reloadMember(t, f.db, otherHead.ID).SpouseID)
}

func TestUpdateMemberRules(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	kid, err := f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Kid"), Relation: strPtr(models.RelationSon), DateOfBirth: strPtr("2015-03-03"),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateMember(ctx, f.head.ID, kid.ID, &dto.MemberRequest{Role: strPtr(models.MemberRoleFamilyHead)}, false)
	assert.ErrorIs(t, err, ErrRoleChange)

	_, err = f.svc.UpdateMember(ctx, f.head.ID, kid.ID, &dto.MemberRequest{Name: strPtr("Kid")}, true)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdateMember(ctx, f.head.ID, kid.ID, &dto.MemberRequest{ParentID: testutil.UintPtr(kid.ID)}, false)
	assert.ErrorIs(t, err, ErrParentSelf)

	_, err = f.svc.UpdateMember(ctx, f.head.ID, kid.ID, &dto.MemberRequest{Relation: strPtr(models.RelationBrother)}, false)
	assert.Equal(t, "mobile", apperr.FieldOf(err))

	updated, err := f.svc.UpdateMember(ctx, f.head.ID, kid.ID, &dto.MemberRequest{
		Name: strPtr("Kid Kumar"), Mobile: strPtr("9100000005"),
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "Kid Kumar", updated.Name)
	assert.Equal(t, "9100000005", updated.Mobile)
	assert.False(t, reloadMember(t, f.db, kid.ID).MobileInherited)

	full, err := f.svc.UpdateMember(ctx, f.head.ID, kid.ID, &dto.MemberRequest{
		Name: strPtr("Kid Kumar"), Role: strPtr(models.MemberRoleMember), Relation: strPtr(models.RelationSon),
		Gender: strPtr("M"), DateOfBirth: strPtr("2015-03-04"),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, models.GenderMale, full.Gender)
	assert.Equal(t, "2015-03-04", *full.DateOfBirth)

	other := testutil.CreateIdentity(t, f.db, "+91", "9555555555")
	_, otherHead := testutil.CreateFamily(t, f.db, other, "Other")
	_, err = f.svc.UpdateMember(ctx, f.head.ID, otherHead.ID, &dto.MemberRequest{Name: strPtr("Nope")}, false)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMakeFamilyHead(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	wifeID := testutil.CreateIdentity(t, f.db, "+91", "9100000001")
	wife := testutil.CreateMember(t, f.db, &models.Member{
		IdentityID: &wifeID.ID, FamilyID: &f.family.ID, CountryCode: "+91", Mobile: "9100000001",
		Name: "Wife", Relation: models.RelationSpouse, Status: models.StatusActive,
	})
	kid := testutil.CreateMember(t, f.db, &models.Member{
		FamilyID: &f.family.ID, CountryCode: "+91", Mobile: "9000000001", MobileInherited: true,
		Name: "Kid", Relation: models.RelationSon,
	})

	_, err := f.svc.MakeFamilyHead(ctx, kid.ID)
	assert.ErrorIs(t, err, ErrMemberWithoutIdentity)
	assert.ErrorIs(t, err, apperr.ErrInvariant)

	resp, err := f.svc.MakeFamilyHead(ctx, wife.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleFamilyHead, resp.Role)
	assert.Equal(t, models.MemberRoleMember, reloadMember(t, f.db, f.headMember.ID).Role)

	var fam models.Family
	require.NoError(t, f.db.First(&fam, f.family.ID).Error)
	assert.Equal(t, wifeID.ID, *fam.HeadID)

	assert.Equal(t, models.RegistrationRoleFamilyHead, loadProfile(t, f.db, wifeID.ID).RegistrationRole)
	assert.Equal(t, models.RegistrationRoleMember, loadProfile(t, f.db, f.head.ID).RegistrationRole)

	_, err = f.svc.TransferHead(ctx, f.head.ID, f.headMember.ID)
	assert.ErrorIs(t, err, ErrNotFamilyHead)

	_, err = f.svc.TransferHead(ctx, wifeID.ID, f.headMember.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleFamilyHead, reloadMember(t, f.db, f.headMember.ID).Role)
	assert.Equal(t, models.MemberRoleMember, reloadMember(t, f.db, wife.ID).Role)
}

func TestMakeFamilyHeadInvariants(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	loner := testutil.CreateIdentity(t, f.db, "+91", "9200000000")
	unattached := testutil.CreateMember(t, f.db, &models.Member{
		IdentityID: &loner.ID, CountryCode: "+91", Mobile: "9200000000", Name: "Loner", Relation: models.RelationSelf,
	})
	_, err := f.svc.MakeFamilyHead(ctx, unattached.ID)
	assert.ErrorIs(t, err, ErrMemberWithoutFamily)

	other := testutil.CreateIdentity(t, f.db, "+91", "9555555555")
	testutil.CreateFamily(t, f.db, other, "Other")
	dual := testutil.CreateMember(t, f.db, &models.Member{
		IdentityID: &other.ID, FamilyID: &f.family.ID, CountryCode: "+91", Mobile: "9555555555",
		Name: "Other Head", Relation: models.RelationBrother,
	})
	_, err = f.svc.MakeFamilyHead(ctx, dual.ID)
	assert.ErrorIs(t, err, ErrHeadElsewhere)
	assert.Equal(t, models.MemberRoleFamilyHead, reloadMember(t, f.db, f.headMember.ID).Role)

	_, err = f.svc.MakeFamilyHead(ctx, 9999)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMakeFamilyHeadDemotesFamilylessHeadRows(t *testing.T) {
	for _, tc := range []struct {
		name        string
		strayMobile string
	}{
		{"different number", "9300000009"},
		{"same number", "9300000001"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFamilyFixture(t)
			ctx := context.Background()

			heir := testutil.CreateIdentity(t, f.db, "+91", "9300000001")
			stray := testutil.CreateMember(t, f.db, &models.Member{
				IdentityID: &heir.ID, CountryCode: "+91", Mobile: tc.strayMobile,
				Name: "Heir", Relation: models.RelationSelf, Role: models.MemberRoleFamilyHead,
			})
			bound := testutil.CreateMember(t, f.db, &models.Member{
				IdentityID: &heir.ID, FamilyID: &f.family.ID, CountryCode: "+91", Mobile: "9300000001",
				Name: "Heir", Relation: models.RelationBrother, Status: models.StatusActive,
			})

			_, err := f.svc.MakeFamilyHead(ctx, bound.ID)
			require.NoError(t, err)
			assert.Equal(t, models.MemberRoleMember, reloadMember(t, f.db, stray.ID).Role)

			kid, err := f.svc.AddMember(ctx, heir.ID, &dto.MemberRequest{
				Name: strPtr("Kid"), Relation: strPtr(models.RelationSon), DateOfBirth: strPtr("2016-06-06"),
			})
			require.NoError(t, err)
			assert.Equal(t, "9300000001", kid.Mobile)
			assert.Equal(t, f.family.ID, *reloadMember(t, f.db, kid.ID).FamilyID)
			assert.Nil(t, reloadMember(t, f.db, stray.ID).FamilyID)

			var heads int64
			require.NoError(t, f.db.Model(&models.Member{}).
				Where("family_id = ? AND role = ?", f.family.ID, models.MemberRoleFamilyHead).
				Count(&heads).Error)
			assert.EqualValues(t, 1, heads)
		})
	}
}

func TestHeadOfRefusesSecondHeadInFamily(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	owner := testutil.CreateIdentity(t, f.db, "+91", "9400000001")
	require.NoError(t, f.db.Model(f.family).Update("head_id", owner.ID).Error)
	loose := testutil.CreateMember(t, f.db, &models.Member{
		IdentityID: &owner.ID, CountryCode: "+91", Mobile: "9400000001",
		Name: "Owner", Relation: models.RelationSelf, Role: models.MemberRoleFamilyHead,
	})

	_, err := f.svc.AddMember(ctx, owner.ID, &dto.MemberRequest{
		Name: strPtr("Kid"), Relation: strPtr(models.RelationSon), DateOfBirth: strPtr("2016-06-06"),
	})
	assert.ErrorIs(t, err, ErrFamilyHeadTaken)
	assert.ErrorIs(t, err, apperr.ErrInvariant)
	assert.Nil(t, reloadMember(t, f.db, loose.ID).FamilyID)
}

func TestInheritedNumbersFollowHead(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	kid, err := f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Kid"), Relation: strPtr(models.RelationDaughter), DateOfBirth: strPtr("2014-04-04"),
	})
	require.NoError(t, err)
	assert.Equal(t, "9000000001", kid.Mobile)

	_, err = f.svc.UpdateMember(ctx, f.head.ID, f.headMember.ID, &dto.MemberRequest{Mobile: strPtr("9000000002")}, false)
	require.NoError(t, err)
	got := reloadMember(t, f.db, kid.ID)
	assert.Equal(t, "9000000002", got.Mobile)
	assert.True(t, got.MobileInherited)

	wifeID := testutil.CreateIdentity(t, f.db, "+91", "9100000001")
	wife := testutil.CreateMember(t, f.db, &models.Member{
		IdentityID: &wifeID.ID, FamilyID: &f.family.ID, CountryCode: "+91", Mobile: "9100000001",
		Name: "Wife", Relation: models.RelationSpouse, Status: models.StatusActive,
	})
	_, err = f.svc.MakeFamilyHead(ctx, wife.ID)
	require.NoError(t, err)

	got = reloadMember(t, f.db, kid.ID)
	assert.Equal(t, "9100000001", got.Mobile)
	assert.True(t, got.MobileInherited)
	assert.Equal(t, "9000000002", reloadMember(t, f.db, f.headMember.ID).Mobile)
}

func TestParentMustShareFamily(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	other := testutil.CreateIdentity(t, f.db, "+91", "9555555555")
	_, otherHead := testutil.CreateFamily(t, f.db, other, "Other")

	_, err := f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Kid"), Relation: strPtr(models.RelationSon), DateOfBirth: strPtr("2015-03-03"),
		ParentID: testutil.UintPtr(otherHead.ID),
	})
	assert.ErrorIs(t, err, ErrParentNotInFamily)
	assert.Equal(t, "parent_id", apperr.FieldOf(err))

	_, err = f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Kid"), Relation: strPtr(models.RelationSon), DateOfBirth: strPtr("2015-03-03"),
		ParentID: testutil.UintPtr(9999),
	})
	assert.ErrorIs(t, err, ErrParentNotInFamily)

	kid, err := f.svc.AddMember(ctx, f.head.ID, &dto.MemberRequest{
		Name: strPtr("Kid"), Relation: strPtr(models.RelationSon), DateOfBirth: strPtr("2015-03-03"),
	})
	require.NoError(t, err)
	_, err = f.svc.UpdateMember(ctx, f.head.ID, kid.ID, &dto.MemberRequest{ParentID: testutil.UintPtr(otherHead.ID)}, false)
	assert.ErrorIs(t, err, ErrParentNotInFamily)

	_, err = f.svc.UpdateMember(ctx, f.head.ID, kid.ID, &dto.MemberRequest{ParentID: testutil.UintPtr(f.headMember.ID)}, false)
	require.NoError(t, err)
	assert.Equal(t, f.headMember.ID, *reloadMember(t, f.db, kid.ID).ParentID)
}

func TestMyFamilyRelationLabels(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()

	wifeID := testutil.CreateIdentity(t, f.db, "+91", "9100000001")
	wife := testutil.CreateMember(t, f.db, &models.Member{
		IdentityID: &wifeID.ID, FamilyID: &f.family.ID, CountryCode: "+91", Mobile: "9100000001",
		Name: "Wife", Relation: models.RelationSpouse, Gender: models.GenderFemale,
		SpouseID: &f.headMember.ID,
	})
	require.NoError(t, f.db.Model(f.headMember).Update("spouse_id", wife.ID).Error)

	sonID := testutil.CreateIdentity(t, f.db, "+91", "9100000002")
	son := testutil.CreateMember(t, f.db, &models.Member{
		IdentityID: &sonID.ID, FamilyID: &f.family.ID, CountryCode: "+91", Mobile: "9100000002",
		Name: "Son", Relation: models.RelationSon, Gender: models.GenderMale, ParentID: &f.headMember.ID,
	})

	labels := func(resp *dto.FamilyResponse) map[uint]string {
		out := map[uint]string{}
		for _, m := range resp.Members {
			out[m.ID] = m.RelationToViewer
		}
		return out
	}

	resp, err := f.svc.MyFamily(ctx, sonID.ID)
	require.NoError(t, err)
	assert.Equal(t, f.family.DisplayID(), resp.FamilyDisplayID)
	assert.Len(t, resp.Members, 3)
	got := labels(resp)
	assert.Equal(t, "father", got[f.headMember.ID])
	assert.Equal(t, "mother", got[wife.ID])
	assert.Equal(t, models.RelationSelf, got[son.ID])

	resp, err = f.svc.MyFamily(ctx, wifeID.ID)
	require.NoError(t, err)
	assert.Equal(t, "spouse", labels(resp)[f.headMember.ID])

	_, err = f.svc.MyFamily(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNoFamily)
}

func TestGetMemberAuthorization(t *testing.T) {
	f := newFamilyFixture(t)
	ctx := context.Background()
	outsider := testutil.CreateIdentity(t, f.db, "+91", "9300000000")

	resp, err := f.svc.Get(ctx, f.head.ID, false, f.headMember.ID)
	require.NoError(t, err)
	assert.Equal(t, f.family.DisplayID(), resp.FamilyDisplayID)

	_, err = f.svc.Get(ctx, outsider.ID, false, f.headMember.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	_, err = f.svc.Get(ctx, outsider.ID, true, f.headMember.ID)
	assert.NoError(t, err)
}

func TestAdminList(t *testing.T) {
	f := newFamilyFixture(t)
	testutil.CreateMember(t, f.db, &models.Member{
		CountryCode: "+91", Mobile: "9400000000", Name: "Pending One", Relation: models.RelationSelf,
	})

	rows, total, err := f.svc.AdminList(context.Background(), MemberFilter{Status: models.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pending One", rows[0].Name)
	assert.Equal(t, "Unassigned", rows[0].FamilyDisplayID)

	rows, total, err = f.svc.AdminList(context.Background(), MemberFilter{FamilyID: &f.family.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, f.headMember.ID, rows[0].ID)

	_, _, err = f.svc.AdminList(context.Background(), MemberFilter{Status: "archived"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSetStatusNotifiesBoundMember(t *testing.T) {
	db := testutil.SetupSQLiteTestDB(t)
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	svc := NewMemberService(db, testConfig(), notifier)

	identity := testutil.CreateIdentity(t, db, "+91", "9500000000")
	bound := testutil.CreateMember(t, db, &models.Member{
		IdentityID: &identity.ID, CountryCode: "+91", Mobile: "9500000000", Name: "Bound", Relation: models.RelationSelf,
	})
	unbound := testutil.CreateMember(t, db, &models.Member{
		CountryCode: "+91", Mobile: "9500000001", Name: "Unbound", Relation: models.RelationSelf,
	})

	notifier.EXPECT().
		Notify(gomock.Any(), identity.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, d notify.Draft) error {
			assert.Equal(t, models.NotificationTypeApproval, d.Type)
			assert.Equal(t, "member", d.ReferenceType)
			return nil
		})

	resp, err := svc.SetStatus(context.Background(), bound.ID, models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, resp.Status)
	assert.Equal(t, models.StatusActive, loadProfile(t, db, identity.ID).Personal.Status)

	_, err = svc.SetStatus(context.Background(), unbound.ID, models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, reloadMember(t, db, unbound.ID).Status)

	_, err = svc.SetStatus(context.Background(), bound.ID, models.StatusPending)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestImportBindsExistingIdentities(t *testing.T) {
	db := testutil.SetupSQLiteTestDB(t)
	svc := NewMemberService(db, testConfig(), notify.NewStore(db))
	identity := testutil.CreateIdentity(t, db, "+91", "9666666666")

	resp, err := svc.Import(context.Background(), []dto.ImportMember{
		{Name: "Existing", Mobile: "9666666666", Gender: "F", DateOfBirth: "1970-07-07"},
		{Name: "Fresh", Mobile: "9777777777"},
		{Name: "", Mobile: "9888888888"},
		{Name: "Bad", Mobile: "abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Bound)
	assert.Equal(t, 2, resp.Skipped)

	var existing models.Member
	require.NoError(t, db.Where("mobile = ?", "9666666666").First(&existing).Error)
	require.NotNil(t, existing.IdentityID)
	assert.Equal(t, identity.ID, *existing.IdentityID)
	assert.Equal(t, models.GenderFemale, existing.Gender)
	assert.Equal(t, models.RegistrationRoleMember, loadProfile(t, db, identity.ID).RegistrationRole)
}
