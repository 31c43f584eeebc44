package dto

// ProfilePayload is the partial profile a client may send with OTP
// verification or a profile save. Blank strings are ignored.
type ProfilePayload struct {
	SelectedRole string            `json:"selectedRole"`
	Personal     *PersonalPayload  `json:"personal,omitempty"`
	Education    *EducationPayload `json:"education,omitempty"`
	Job          *JobPayload       `json:"job,omitempty"`
}

type PersonalPayload struct {
	FullName     string `json:"fullName"`
	Nickname     string `json:"nickname"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	CountryCode  string `json:"countryCode"`
	Address      string `json:"address"`
	NativePlace  string `json:"nativePlace"`
	CurrentCity  string `json:"currentCity"`
	ProfileImage string `json:"profileImage"`
	Community    *int   `json:"community"`
}

type EducationPayload struct {
	Qualification     string `json:"qualification"`
	Institution       string `json:"institution"`
	Field             string `json:"field"`
	StartYear         *int   `json:"startYear"`
	EndYear           *int   `json:"endYear"`
	CurrentlyStudying *bool  `json:"currentlyStudying"`
}

type JobPayload struct {
	OccupationType string `json:"occupationType"`
	CompanyName    string `json:"companyName"`
	Role           string `json:"role"`
	Industry       string `json:"industry"`
	StartDate      string `json:"startDate"`
	IncomeRange    string `json:"incomeRange"`
}

// ProfileSnapshot is the full profile view returned to clients.
type ProfileSnapshot struct {
	SelectedRole *string           `json:"selectedRole"`
	Personal     PersonalSnapshot  `json:"personal"`
	Education    EducationSnapshot `json:"education"`
	Job          JobSnapshot       `json:"job"`
}

type PersonalSnapshot struct {
	FullName        string  `json:"fullName"`
	Nickname        string  `json:"nickname"`
	Gender          string  `json:"gender"`
	DOB             *string `json:"dob"`
	Email           string  `json:"email"`
	CountryCode     string  `json:"country_code"`
	Phone           string  `json:"phone"`
	Address         string  `json:"address"`
	NativePlace     string  `json:"nativePlace"`
	CurrentCity     string  `json:"currentCity"`
	ProfileImageURL *string `json:"profileImageUrl"`
	Community       *int    `json:"community"`
	Status          string  `json:"status"`
}

type EducationSnapshot struct {
	Qualification     string `json:"qualification"`
	Institution       string `json:"institution"`
	Field             string `json:"field"`
	StartYear         *int   `json:"startYear"`
	EndYear           *int   `json:"endYear"`
	CurrentlyStudying bool   `json:"currentlyStudying"`
}

type JobSnapshot struct {
	OccupationType string  `json:"occupationType"`
	CompanyName    string  `json:"companyName"`
	Role           string  `json:"role"`
	Industry       string  `json:"industry"`
	StartDate      *string `json:"startDate"`
	IncomeRange    string  `json:"incomeRange"`
}

type ProfileResponse struct {
	Success          bool            `json:"success"`
	ProfileCompleted bool            `json:"profileCompleted"`
	Data             ProfileSnapshot `json:"data"`
}
