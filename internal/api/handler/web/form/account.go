package form

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/voyage-tours/voyage/internal/pkg/rules"
)

type Register struct {
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
}

func (f *Register) Validate() Errors {
	return fieldErrors(validation.ValidateStruct(
		f,
		validation.Field(&f.Username, append([]validation.Rule{validation.Required}, rules.Username...)...),
		validation.Field(&f.Email, is.Email, validation.Length(0, 254)),
		validation.Field(&f.Password1, validation.Required, rules.Password),
		validation.Field(&f.Password2, validation.Required, rules.Matches(f.Password1)),
	))
}

type Login struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"-"`
}

func (f *Login) Validate() Errors {
	return fieldErrors(validation.ValidateStruct(
		f,
		validation.Field(&f.Username, validation.Required),
		validation.Field(&f.Password, validation.Required),
	))
}
