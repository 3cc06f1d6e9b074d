package auth

import (
	errors "github.com/oba-canada/alumni-portal/internal"
	"github.com/oba-canada/alumni-portal/internal/core/common/validation"
)

// SignupDTO carries the public registration form. Year of entry is the
// alumni cohort, not a birth year.
type SignupDTO struct {
	FullName           string `json:"full_name"`
	EmailAddress       string `json:"email_address"`
	Password           string `json:"password"`
	YearOfEntry        int64  `json:"year_of_entry"`
	TelephoneNumber    string `json:"telephone_number,omitempty"`
	ResidentialAddress string `json:"residential_address,omitempty"`
	PotentialMembers   string `json:"potential_members,omitempty"`
}

func (d *SignupDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("full_name", d.FullName).Required().MaxLength(200)
	validator.Field("email_address", d.EmailAddress).Required().Email()
	validator.Field("password", d.Password).Required().MinLength(8)
	validator.Field("year_of_entry", d.YearOfEntry).Required().MinInt(1900, errors.ErrCodeValidationFailed)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required()
	validator.Field("password", d.Password).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d *RefreshTokenDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("refresh_token", d.RefreshToken).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
