package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/voyage-tours/voyage/internal/pkg/rules"
)

type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (req *SignupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, append([]validation.Rule{validation.Required}, rules.Username...)...),
		validation.Field(&req.Email, is.Email, validation.Length(0, 254)),
		validation.Field(&req.Password, validation.Required, rules.Password),
		validation.Field(&req.ConfirmPassword, validation.Required, rules.Matches(req.Password)),
	)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}
