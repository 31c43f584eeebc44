package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	MemberRoleMember     = "member"
	MemberRoleFamilyHead = "familyHead"
	MemberRoleAdmin      = "admin"
)

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusRejected = "rejected"
)

const (
	RelationSelf     = "self"
	RelationSpouse   = "spouse"
	RelationSon      = "son"
	RelationDaughter = "daughter"
	RelationFather   = "father"
	RelationMother   = "mother"
	RelationBrother  = "brother"
	RelationSister   = "sister"
	RelationOther    = "other"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

var validRelations = map[string]bool{
	RelationSelf: true, RelationSpouse: true, RelationSon: true, RelationDaughter: true,
	RelationFather: true, RelationMother: true, RelationBrother: true, RelationSister: true,
	RelationOther: true,
}

var validStatuses = map[string]bool{
	StatusPending: true, StatusActive: true, StatusRejected: true,
}

func IsValidRelation(r string) bool { return validRelations[r] }

func IsValidStatus(s string) bool { return validStatuses[s] }

// IsDependentRelation reports relations that may lack a personal phone.
func IsDependentRelation(r string) bool {
	return r == RelationSon || r == RelationDaughter
}

// Member is a community-directory row. SpouseID and ParentID are plain
// integer handles into the same table; the spouse link is kept symmetric
// by the family graph code, never by the database.
//
// Dependents without their own number carry the head's number with
// MobileInherited set; those rows sit outside the per-family uniqueness index.
type Member struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	IdentityID           *uuid.UUID `gorm:"type:uuid;index" json:"identity_id"`
	Identity             *Identity  `gorm:"foreignKey:IdentityID;constraint:OnDelete:SET NULL" json:"-"`
	FamilyID             *uint      `gorm:"index;uniqueIndex:idx_members_family_mobile,priority:3" json:"family_id"`
	Family               *Family    `gorm:"foreignKey:FamilyID;constraint:OnDelete:SET NULL" json:"-"`
	CountryCode          string     `gorm:"size:5;not null;uniqueIndex:idx_members_family_mobile,priority:1,where:mobile_inherited = false" json:"country_code"`
	Mobile               string     `gorm:"size:20;not null;index;uniqueIndex:idx_members_family_mobile,priority:2" json:"mobile"`
	MobileInherited      bool       `gorm:"not null" json:"mobile_inherited"`
	Name                 string     `gorm:"size:100;not null" json:"name"`
	Role                 string     `gorm:"size:20;not null;default:'member'" json:"role"`
	Status               string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	Relation             string     `gorm:"size:20" json:"relation"`
	Gender               string     `gorm:"size:10" json:"gender"`
	DateOfBirth          *time.Time `gorm:"type:date" json:"date_of_birth"`
	Email                string     `gorm:"size:255" json:"email"`
	Address              string     `gorm:"type:text" json:"address"`
	City                 string     `gorm:"size:50" json:"city"`
	Gotra                string     `gorm:"size:100" json:"gotra"`
	NativePlace          string     `gorm:"size:100" json:"native_place"`
	ProfileImage         string     `gorm:"size:500" json:"profile_image"`
	BloodGroup           string     `gorm:"size:10" json:"blood_group"`
	Occupation           string     `gorm:"size:100" json:"occupation"`
	HighestQualification string     `gorm:"size:100" json:"highest_qualification"`
	SpouseID             *uint      `gorm:"index" json:"spouse_id"`
	ParentID             *uint      `gorm:"index" json:"parent_id"`
	Community            *int       `json:"community"`
	ProfileCompleted     bool       `gorm:"not null" json:"profile_completed"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

func (m *Member) IsFamilyHead() bool {
	return m.Role == MemberRoleFamilyHead
}
