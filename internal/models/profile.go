package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RegistrationRoleMember     = "member"
	RegistrationRoleFamilyHead = "familyHead"
)

// ProfileAggregate is the self-service profile owned by one Identity.
// IsProfileCompleted is derived and rewritten on every mutation.
type ProfileAggregate struct {
	ID                 uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	IdentityID         uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"identity_id"`
	RegistrationRole   string           `gorm:"size:30" json:"registration_role"`
	IsProfileCompleted bool             `gorm:"not null" json:"is_profile_completed"`
	Personal           *PersonalDetail  `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"personal,omitempty"`
	Education          *EducationDetail `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"education,omitempty"`
	Job                *JobDetail       `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	Identity           Identity         `gorm:"foreignKey:IdentityID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (p *ProfileAggregate) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (ProfileAggregate) TableName() string {
	return "profiles"
}

type PersonalDetail struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	ProfileID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"profile_id"`
	FullName     string     `gorm:"size:255" json:"full_name"`
	CountryCode  string     `gorm:"size:5" json:"country_code"`
	Phone        string     `gorm:"size:20" json:"phone"`
	Nickname     string     `gorm:"size:100" json:"nickname"`
	Gender       string     `gorm:"size:20" json:"gender"`
	DOB          *time.Time `gorm:"type:date" json:"dob"`
	Email        string     `gorm:"size:255" json:"email"`
	Address      string     `gorm:"type:text" json:"address"`
	NativePlace  string     `gorm:"size:100" json:"native_place"`
	CurrentCity  string     `gorm:"size:100" json:"current_city"`
	ProfileImage string     `gorm:"size:500" json:"profile_image"`
	Community    *int       `json:"community"`
	Status       string     `gorm:"size:20;not null" json:"status"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// EducationDetail is the single current education record.
type EducationDetail struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ProfileID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"profile_id"`
	Qualification     string    `gorm:"size:100" json:"qualification"`
	Institution       string    `gorm:"size:255" json:"institution"`
	Field             string    `gorm:"size:100" json:"field"`
	StartYear         *int      `json:"start_year"`
	EndYear           *int      `json:"end_year"`
	CurrentlyStudying bool      `gorm:"not null" json:"currently_studying"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type JobDetail struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ProfileID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"profile_id"`
	OccupationType string     `gorm:"size:100" json:"occupation_type"`
	CompanyName    string     `gorm:"size:255" json:"company_name"`
	Role           string     `gorm:"size:100" json:"role"`
	Industry       string     `gorm:"size:100" json:"industry"`
	StartDate      *time.Time `gorm:"type:date" json:"start_date"`
	IncomeRange    string     `gorm:"size:50" json:"income_range"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
