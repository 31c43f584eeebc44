package dto

import "time"

// MemberRequest carries an add or update of a family dependent. Nil
// pointers are left untouched on PATCH.
type MemberRequest struct {
	Name                 *string `json:"name"`
	CountryCode          *string `json:"country_code"`
	Mobile               *string `json:"mobile"`
	Role                 *string `json:"role"`
	Relation             *string `json:"relation"`
	Gender               *string `json:"gender"`
	DateOfBirth          *string `json:"date_of_birth"`
	Email                *string `json:"email"`
	Address              *string `json:"address"`
	City                 *string `json:"city"`
	Gotra                *string `json:"gotra"`
	NativePlace          *string `json:"native_place"`
	ProfileImage         *string `json:"profile_image"`
	BloodGroup           *string `json:"blood_group"`
	Occupation           *string `json:"occupation"`
	HighestQualification *string `json:"highest_qualification"`
	SpouseID             *uint   `json:"spouse_id"`
	ParentID             *uint   `json:"parent_id"`
}

type MemberResponse struct {
	ID                   uint    `json:"id"`
	IdentityID           *string `json:"identity_id"`
	FamilyID             *uint   `json:"family_id"`
	FamilyDisplayID      string  `json:"family_display_id"`
	Name                 string  `json:"name"`
	CountryCode          string  `json:"country_code"`
	Mobile               string  `json:"mobile"`
	Role                 string  `json:"role"`
	Status               string  `json:"status"`
	Relation             string  `json:"relation"`
	Gender               string  `json:"gender"`
	DateOfBirth          *string `json:"date_of_birth"`
	Email                string  `json:"email"`
	Address              string  `json:"address"`
	City                 string  `json:"city"`
	Gotra                string  `json:"gotra"`
	NativePlace          string  `json:"native_place"`
	ProfileImage         string  `json:"profile_image"`
	BloodGroup           string  `json:"blood_group"`
	Occupation           string  `json:"occupation"`
	HighestQualification string  `json:"highest_qualification"`
	SpouseID             *uint   `json:"spouse_id"`
	ParentID             *uint   `json:"parent_id"`
	Community            *int    `json:"community"`
	ProfileCompleted     bool    `json:"profile_completed"`
	RelationToViewer     string  `json:"relation_to_me,omitempty"`
}

type FamilyResponse struct {
	FamilyID        uint             `json:"family_id"`
	FamilyDisplayID string           `json:"family_display_id"`
	Members         []MemberResponse `json:"members"`
}

type MemberStatusRequest struct {
	Status string `json:"status"`
}

// ImportMember is one row of an admin bulk import.
type ImportMember struct {
	Name          string `json:"name"`
	CountryCode   string `json:"country_code"`
	Mobile        string `json:"mobile"`
	Relation      string `json:"relation"`
	Role          string `json:"role"`
	Gender        string `json:"gender"`
	DateOfBirth   string `json:"date_of_birth"`
	City          string `json:"city"`
	NativePlace   string `json:"native_place"`
	Gotra         string `json:"gotra"`
	Occupation    string `json:"occupation"`
	Qualification string `json:"highest_qualification"`
	Community     *int   `json:"community"`
	FamilyID      *uint  `json:"family_id"`
}

type ImportRequest struct {
	Members []ImportMember `json:"members"`
}

type ImportResponse struct {
	Created int `json:"created"`
	Bound   int `json:"bound"`
	Skipped int `json:"skipped"`
}

type NotificationResponse struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Type          string     `json:"type"`
	IsRead        bool       `json:"is_read"`
	ReferenceID   string     `json:"reference_id,omitempty"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ActionDate    *time.Time `json:"action_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type MarkReadRequest struct {
	IsRead *bool `json:"is_read"`
}

type DashboardResponse struct {
	NotificationCount int64          `json:"notificationCount"`
	Stats             DashboardStats `json:"stats"`
}

type DashboardStats struct {
	TotalMembers   int64 `json:"totalMembers"`
	UpcomingEvents int64 `json:"upcomingEvents"`
	LatestNotices  int64 `json:"latestNotices"`
	TotalAds       int64 `json:"totalAds"`
}
