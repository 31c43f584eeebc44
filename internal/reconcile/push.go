package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/scope"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/validate"
)

// Origin tells a push whether the triggering write was made directly by a
// caller or was itself a propagation. Propagated writes are never pushed
// back, which is what keeps the two directions from feeding each other.
type Origin int

const (
	OriginDirect Origin = iota
	OriginPropagated
)

// MemberPatch is the profile-side view of the columns mirrored onto members.
type MemberPatch struct {
	Name                 string
	CountryCode          string
	Mobile               string
	Gender               string
	DateOfBirth          *time.Time
	Email                string
	NativePlace          string
	Status               string
	ProfileImage         string
	Occupation           string
	HighestQualification string
	ProfileCompleted     bool
}

// PatchFromProfile builds the member patch for a loaded profile.
func PatchFromProfile(p *models.ProfileAggregate) MemberPatch {
	patch := MemberPatch{ProfileCompleted: p.IsProfileCompleted}
	if pd := p.Personal; pd != nil {
		patch.Name = pd.FullName
		patch.CountryCode = pd.CountryCode
		patch.Mobile = pd.Phone
		if !blank(pd.Gender) {
			patch.Gender = validate.Gender(pd.Gender)
		}
		patch.DateOfBirth = pd.DOB
		patch.Email = pd.Email
		patch.NativePlace = pd.NativePlace
		patch.Status = pd.Status
		patch.ProfileImage = pd.ProfileImage
	}
	if p.Job != nil {
		patch.Occupation = p.Job.OccupationType
	}
	if p.Education != nil {
		patch.HighestQualification = p.Education.Qualification
	}
	return patch
}

// Changes returns the column updates needed to bring m in line with the
// patch. Empty patch values never clear a member column, and values that
// already match are left out. Inherited numbers are not overwritten.
func (patch MemberPatch) Changes(m *models.Member) map[string]interface{} {
	changes := map[string]interface{}{}
	diff := func(col, cur, next string) {
		if !blank(next) && cur != next {
			changes[col] = next
		}
	}

	diff("name", m.Name, patch.Name)
	if !m.MobileInherited {
		diff("country_code", m.CountryCode, patch.CountryCode)
		diff("mobile", m.Mobile, patch.Mobile)
	}
	diff("gender", m.Gender, patch.Gender)
	if patch.DateOfBirth != nil && (m.DateOfBirth == nil || !sameDay(*m.DateOfBirth, *patch.DateOfBirth)) {
		changes["date_of_birth"] = *patch.DateOfBirth
	}
	diff("email", m.Email, patch.Email)
	diff("native_place", m.NativePlace, patch.NativePlace)
	diff("status", m.Status, patch.Status)
	diff("profile_image", m.ProfileImage, patch.ProfileImage)
	diff("occupation", m.Occupation, patch.Occupation)
	diff("highest_qualification", m.HighestQualification, patch.HighestQualification)
	if m.ProfileCompleted != patch.ProfileCompleted {
		changes["profile_completed"] = patch.ProfileCompleted
	}
	return changes
}

// PushProfileToMember mirrors the identity's profile onto every member row
// bound to it. Each row is written independently; a failing row does not
// stop the others. It returns the number of rows changed.
func PushProfileToMember(ctx context.Context, db *gorm.DB, identityID uuid.UUID, origin Origin) (updated int, err error) {
	if origin == OriginPropagated {
		metrics.ObserveSync(metrics.DirectionProfileToMember, metrics.ResultSkipped)
		return 0, nil
	}

	ctx, span := StartSpan(ctx, "reconcile.push_profile_to_member",
		attribute.String("identity_id", identityID.String()))
	defer func() { EndSpan(span, err) }()

	db = db.WithContext(ctx)

	var p models.ProfileAggregate
	if err := db.Preload("Personal").Preload("Education").Preload("Job").
		Where("identity_id = ?", identityID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load profile: %w", err)
	}
	patch := PatchFromProfile(&p)

	var members []models.Member
	if err := db.Scopes(scope.ForIdentity(identityID)).Order("id ASC").Find(&members).Error; err != nil {
		return 0, fmt.Errorf("failed to load members: %w", err)
	}

	var errs []error
	for i := range members {
		m := &members[i]
		changes := patch.Changes(m)
		if len(changes) == 0 {
			metrics.ObserveSync(metrics.DirectionProfileToMember, metrics.ResultSkipped)
			continue
		}
		if err := db.Model(&models.Member{}).Where("id = ?", m.ID).Updates(changes).Error; err != nil {
			metrics.ObserveSync(metrics.DirectionProfileToMember, metrics.ResultError)
			errs = append(errs, fmt.Errorf("member %d: %w", m.ID, err))
			continue
		}
		metrics.ObserveSync(metrics.DirectionProfileToMember, metrics.ResultOK)
		updated++
	}
	span.SetAttributes(attribute.Int("members.updated", updated))
	return updated, errors.Join(errs...)
}

// PushMemberToProfile mirrors status, contact and role from a member row
// back onto its identity's profile, recomputing completion.
func PushMemberToProfile(ctx context.Context, db *gorm.DB, m *models.Member, origin Origin) (changed bool, err error) {
	if origin == OriginPropagated || m.IdentityID == nil {
		metrics.ObserveSync(metrics.DirectionMemberToProfile, metrics.ResultSkipped)
		return false, nil
	}

	ctx, span := StartSpan(ctx, "reconcile.push_member_to_profile",
		attribute.Int64("member_id", int64(m.ID)),
		attribute.String("identity_id", m.IdentityID.String()))
	defer func() { EndSpan(span, err) }()

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, _, err := LoadOrCreate(tx, *m.IdentityID)
		if err != nil {
			return err
		}

		pd := p.Personal
		before := *pd
		beforeRole, beforeDone := p.RegistrationRole, p.IsProfileCompleted

		setIf(&pd.Status, m.Status)
		if !m.MobileInherited {
			setIf(&pd.CountryCode, m.CountryCode)
			setIf(&pd.Phone, m.Mobile)
		}
		if role := registrationRoleFor(m.Role); role != "" {
			p.RegistrationRole = role
		}

		relation, err := RelationFor(tx, *m.IdentityID)
		if err != nil {
			return err
		}
		Recompute(p, relation)

		changed = pd.Status != before.Status || pd.CountryCode != before.CountryCode ||
			pd.Phone != before.Phone || p.RegistrationRole != beforeRole ||
			p.IsProfileCompleted != beforeDone
		if !changed {
			return nil
		}
		return Save(tx, p)
	})
	switch {
	case err != nil:
		metrics.ObserveSync(metrics.DirectionMemberToProfile, metrics.ResultError)
	case changed:
		metrics.ObserveSync(metrics.DirectionMemberToProfile, metrics.ResultOK)
	default:
		metrics.ObserveSync(metrics.DirectionMemberToProfile, metrics.ResultSkipped)
	}
	return changed, err
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
