package reconcile

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/validate"
)

// Snapshot renders the client view of a profile. Relative image paths are
// resolved against mediaBaseURL; end year is hidden while still studying.
func Snapshot(p *models.ProfileAggregate, mediaBaseURL string) dto.ProfileSnapshot {
	var out dto.ProfileSnapshot
	if !blank(p.RegistrationRole) {
		role := p.RegistrationRole
		out.SelectedRole = &role
	}

	if pd := p.Personal; pd != nil {
		out.Personal = dto.PersonalSnapshot{
			FullName:        pd.FullName,
			Nickname:        pd.Nickname,
			Gender:          pd.Gender,
			DOB:             validate.FormatDate(pd.DOB),
			Email:           pd.Email,
			CountryCode:     pd.CountryCode,
			Phone:           pd.Phone,
			Address:         pd.Address,
			NativePlace:     pd.NativePlace,
			CurrentCity:     pd.CurrentCity,
			ProfileImageURL: MediaURL(mediaBaseURL, pd.ProfileImage),
			Community:       pd.Community,
			Status:          pd.Status,
		}
	}

	if e := p.Education; e != nil {
		out.Education = dto.EducationSnapshot{
			Qualification:     e.Qualification,
			Institution:       e.Institution,
			Field:             e.Field,
			StartYear:         e.StartYear,
			EndYear:           e.EndYear,
			CurrentlyStudying: e.CurrentlyStudying,
		}
		if e.CurrentlyStudying {
			out.Education.EndYear = nil
		}
	}

	if j := p.Job; j != nil {
		out.Job = dto.JobSnapshot{
			OccupationType: j.OccupationType,
			CompanyName:    j.CompanyName,
			Role:           j.Role,
			Industry:       j.Industry,
			StartDate:      validate.FormatDate(j.StartDate),
			IncomeRange:    j.IncomeRange,
		}
	}
	return out
}

// MediaURL turns a stored image path into an absolute URL.
func MediaURL(base, path string) *string {
	if blank(path) {
		return nil
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || base == "" {
		return &path
	}
	u := strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
	return &u
}
