// Package reconcile keeps the member registry and the self-service profile
// consistent. Writes in one direction never trigger the other: every push
// is an explicit call made by the operation that owns the write.
package reconcile

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/scope"
)

// ProfileComplete is the single completion rule used by every write path.
// Registration role, gender, dob and country code are always required;
// phone is required unless the linked member is a son or daughter.
func ProfileComplete(registrationRole string, p *models.PersonalDetail, relation string) bool {
	if p == nil {
		return false
	}
	if blank(registrationRole) || blank(p.Gender) || p.DOB == nil || blank(p.CountryCode) {
		return false
	}
	if models.IsDependentRelation(relation) {
		return true
	}
	return !blank(p.Phone)
}

// Recompute refreshes the derived completion flag on the profile.
func Recompute(p *models.ProfileAggregate, relation string) bool {
	p.IsProfileCompleted = ProfileComplete(p.RegistrationRole, p.Personal, relation)
	return p.IsProfileCompleted
}

// PrimaryMember returns the identity's oldest member row, or nil.
func PrimaryMember(tx *gorm.DB, identityID uuid.UUID) (*models.Member, error) {
	var m models.Member
	err := tx.Scopes(scope.ForIdentity(identityID)).Order("id ASC").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// RelationFor is the relation of the identity's primary member row, or "".
func RelationFor(tx *gorm.DB, identityID uuid.UUID) (string, error) {
	m, err := PrimaryMember(tx, identityID)
	if err != nil || m == nil {
		return "", err
	}
	return m.Relation, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
