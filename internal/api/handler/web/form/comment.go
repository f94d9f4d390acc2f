package form

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Comment struct {
	Text string `form:"text" json:"text"`
}

func (f *Comment) Validate() Errors {
	f.Text = strings.TrimSpace(f.Text)

	return fieldErrors(validation.ValidateStruct(
		f,
		validation.Field(&f.Text, validation.Required.Error("write something first"), validation.RuneLength(1, 2000)),
	))
}
