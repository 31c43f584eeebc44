package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmetcoskunkizilkaya/community-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/community-backend/internal/models"
)

func TestPhone(t *testing.T) {
	assert.NoError(t, Phone("phone", "9999999999"))

	err := Phone("phone", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "phone", apperr.FieldOf(err))

	assert.Error(t, Phone("phone", "12345"))
	assert.Error(t, Phone("phone", "98765abcde"))
}

func TestCountryCodeAndOTP(t *testing.T) {
	assert.NoError(t, CountryCode("country_code", "+91"))
	assert.Error(t, CountryCode("country_code", "91"))

	assert.NoError(t, OTP("1234"))
	assert.NoError(t, OTP("123456"))
	assert.Error(t, OTP("12345"))
	assert.Error(t, OTP(""))
}

func TestDate(t *testing.T) {
	d, err := Date("dob", "1990-04-12")
	require.NoError(t, err)
	assert.Equal(t, "1990-04-12", *FormatDate(d))

	d, err = Date("dob", "  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = Date("dob", "12/04/1990")
	assert.Equal(t, "dob", apperr.FieldOf(err))
}

func TestGender(t *testing.T) {
	assert.Equal(t, models.GenderMale, Gender(" Male "))
	assert.Equal(t, models.GenderFemale, Gender("F"))
	assert.Equal(t, models.GenderOther, Gender("unknown"))
	assert.Equal(t, models.GenderOther, Gender(""))
}
