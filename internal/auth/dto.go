package auth

import (
	"github.com/hendrawanp/pos-management/internal"
	"github.com/hendrawanp/pos-management/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

func (d ForgotPasswordDTO) Validate() *internal.AppError {
	return validation.ValidateEmail(d.Email)
}

// ResetPasswordDTO carries the composite reset token from the email link.
type ResetPasswordDTO struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (d ResetPasswordDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("token", d.Token).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return validation.ValidatePassword(d.NewPassword)
}
