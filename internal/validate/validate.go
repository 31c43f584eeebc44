// Package validate holds the input format rules shared by auth, profile and
// member writes.
package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

const DateLayout = "2006-01-02"

var (
	phoneRe       = regexp.MustCompile(`^\d{6,15}$`)
	countryCodeRe = regexp.MustCompile(`^\+\d{1,4}$`)
	otpRe         = regexp.MustCompile(`^(\d{4}|\d{6})$`)
)

// Phone checks a local number: digits only, 6 to 15 of them.
func Phone(field, phone string) error {
	if strings.TrimSpace(phone) == "" {
		return apperr.Field(field, "is required")
	}
	if !phoneRe.MatchString(phone) {
		return apperr.Field(field, "must be 6 to 15 digits")
	}
	return nil
}

func CountryCode(field, cc string) error {
	if !countryCodeRe.MatchString(cc) {
		return apperr.Field(field, "must look like +91")
	}
	return nil
}

func OTP(code string) error {
	if strings.TrimSpace(code) == "" {
		return apperr.Field("otp", "is required")
	}
	if !otpRe.MatchString(code) {
		return apperr.Field("otp", "must be 4 or 6 digits")
	}
	return nil
}

// Date parses a YYYY-MM-DD value; blank input yields nil.
func Date(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, apperr.Field(field, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}

// Gender maps free-form input onto the member vocabulary.
// Anything unrecognized becomes "other".
func Gender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case models.GenderMale, "m":
		return models.GenderMale
	case models.GenderFemale, "f":
		return models.GenderFemale
	default:
		return models.GenderOther
	}
}

func Relation(field, r string) error {
	if !models.IsValidRelation(r) {
		return apperr.Field(field, "is not a valid relation")
	}
	return nil
}

func RegistrationRole(field, r string) error {
	if r != models.RegistrationRoleMember && r != models.RegistrationRoleFamilyHead {
		return apperr.Field(field, "must be member or familyHead")
	}
	return nil
}

// FormatDate renders a date column for JSON responses.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
