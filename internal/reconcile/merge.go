package reconcile

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/validate"
)

// textField maps one trimmed payload string onto one destination column.
type textField[S, D any] struct {
	name string
	src  func(*S) string
	dst  func(*D) *string
}

func applyText[S, D any](fields []textField[S, D], src *S, dst *D) {
	for _, f := range fields {
		if v := strings.TrimSpace(f.src(src)); v != "" {
			*f.dst(dst) = v
		}
	}
}

var personalFields = []textField[dto.PersonalPayload, models.PersonalDetail]{
	{"fullName", func(s *dto.PersonalPayload) string { return s.FullName }, func(d *models.PersonalDetail) *string { return &d.FullName }},
	{"nickname", func(s *dto.PersonalPayload) string { return s.Nickname }, func(d *models.PersonalDetail) *string { return &d.Nickname }},
	{"gender", func(s *dto.PersonalPayload) string { return strings.ToLower(s.Gender) }, func(d *models.PersonalDetail) *string { return &d.Gender }},
	{"email", func(s *dto.PersonalPayload) string { return s.Email }, func(d *models.PersonalDetail) *string { return &d.Email }},
	{"phone", func(s *dto.PersonalPayload) string { return s.Phone }, func(d *models.PersonalDetail) *string { return &d.Phone }},
	{"countryCode", func(s *dto.PersonalPayload) string { return s.CountryCode }, func(d *models.PersonalDetail) *string { return &d.CountryCode }},
	{"address", func(s *dto.PersonalPayload) string { return s.Address }, func(d *models.PersonalDetail) *string { return &d.Address }},
	{"nativePlace", func(s *dto.PersonalPayload) string { return s.NativePlace }, func(d *models.PersonalDetail) *string { return &d.NativePlace }},
	{"currentCity", func(s *dto.PersonalPayload) string { return s.CurrentCity }, func(d *models.PersonalDetail) *string { return &d.CurrentCity }},
	{"profileImage", func(s *dto.PersonalPayload) string { return s.ProfileImage }, func(d *models.PersonalDetail) *string { return &d.ProfileImage }},
}

var educationFields = []textField[dto.EducationPayload, models.EducationDetail]{
	{"qualification", func(s *dto.EducationPayload) string { return s.Qualification }, func(d *models.EducationDetail) *string { return &d.Qualification }},
	{"institution", func(s *dto.EducationPayload) string { return s.Institution }, func(d *models.EducationDetail) *string { return &d.Institution }},
	{"field", func(s *dto.EducationPayload) string { return s.Field }, func(d *models.EducationDetail) *string { return &d.Field }},
}

var jobFields = []textField[dto.JobPayload, models.JobDetail]{
	{"occupationType", func(s *dto.JobPayload) string { return s.OccupationType }, func(d *models.JobDetail) *string { return &d.OccupationType }},
	{"companyName", func(s *dto.JobPayload) string { return s.CompanyName }, func(d *models.JobDetail) *string { return &d.CompanyName }},
	{"role", func(s *dto.JobPayload) string { return s.Role }, func(d *models.JobDetail) *string { return &d.Role }},
	{"industry", func(s *dto.JobPayload) string { return s.Industry }, func(d *models.JobDetail) *string { return &d.Industry }},
	{"incomeRange", func(s *dto.JobPayload) string { return s.IncomeRange }, func(d *models.JobDetail) *string { return &d.IncomeRange }},
}

// ValidatePayload rejects malformed client input before any write.
func ValidatePayload(in *dto.ProfilePayload) error {
	if in == nil {
		return nil
	}
	if role := strings.TrimSpace(in.SelectedRole); role != "" {
		if err := validate.RegistrationRole("selectedRole", role); err != nil {
			return err
		}
	}
	if p := in.Personal; p != nil {
		if _, err := validate.Date("personal.dob", p.DOB); err != nil {
			return err
		}
		if phone := strings.TrimSpace(p.Phone); phone != "" {
			if err := validate.Phone("personal.phone", phone); err != nil {
				return err
			}
		}
		if cc := strings.TrimSpace(p.CountryCode); cc != "" {
			if err := validate.CountryCode("personal.countryCode", cc); err != nil {
				return err
			}
		}
	}
	if e := in.Education; e != nil {
		if e.StartYear != nil && e.EndYear != nil && *e.EndYear < *e.StartYear {
			return apperr.Field("education.endYear", "must not be before startYear")
		}
	}
	if j := in.Job; j != nil {
		if _, err := validate.Date("job.startDate", j.StartDate); err != nil {
			return err
		}
	}
	return nil
}

// ApplyMember copies a registry row into the profile. Only non-empty
// member values overwrite what the profile already holds.
func ApplyMember(p *models.ProfileAggregate, m *models.Member) {
	pd := p.Personal
	setIf(&pd.FullName, m.Name)
	if !m.MobileInherited {
		setIf(&pd.Phone, m.Mobile)
	}
	setIf(&pd.CountryCode, m.CountryCode)
	setIf(&pd.NativePlace, m.NativePlace)
	setIf(&pd.CurrentCity, m.City)
	setIf(&pd.Gender, m.Gender)
	if m.DateOfBirth != nil {
		pd.DOB = m.DateOfBirth
	}
	if m.Community != nil {
		pd.Community = m.Community
	}
	setIf(&pd.Status, m.Status)

	setIf(&p.Education.Qualification, m.HighestQualification)
	setIf(&p.Job.OccupationType, m.Occupation)

	if role := registrationRoleFor(m.Role); role != "" {
		p.RegistrationRole = role
	}
}

// ApplyPayload overlays the client payload onto the profile. The payload
// must already have passed ValidatePayload.
func ApplyPayload(p *models.ProfileAggregate, in *dto.ProfilePayload) error {
	if in == nil {
		return nil
	}
	setIf(&p.RegistrationRole, in.SelectedRole)

	if src := in.Personal; src != nil {
		applyText(personalFields, src, p.Personal)
		dob, err := validate.Date("personal.dob", src.DOB)
		if err != nil {
			return err
		}
		if dob != nil {
			p.Personal.DOB = dob
		}
		if src.Community != nil {
			p.Personal.Community = src.Community
		}
	}

	if src := in.Education; src != nil {
		applyText(educationFields, src, p.Education)
		if src.StartYear != nil {
			p.Education.StartYear = src.StartYear
		}
		if src.EndYear != nil {
			p.Education.EndYear = src.EndYear
		}
		if src.CurrentlyStudying != nil {
			p.Education.CurrentlyStudying = *src.CurrentlyStudying
		}
	}

	if src := in.Job; src != nil {
		applyText(jobFields, src, p.Job)
		start, err := validate.Date("job.startDate", src.StartDate)
		if err != nil {
			return err
		}
		if start != nil {
			p.Job.StartDate = start
		}
	}
	return nil
}

func registrationRoleFor(memberRole string) string {
	switch memberRole {
	case models.MemberRoleFamilyHead:
		return models.RegistrationRoleFamilyHead
	case models.MemberRoleMember:
		return models.RegistrationRoleMember
	default:
		return ""
	}
}

func setIf(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
