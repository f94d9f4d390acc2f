// Package form binds and validates the HTML forms of the site.
package form

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Errors holds field-level messages keyed by field name. The "" key carries
// errors that belong to the form as a whole.
type Errors map[string]string

func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

func (e Errors) Get(field string) string {
	return e[field]
}

// fieldErrors flattens an ozzo validation error into Errors.
func fieldErrors(err error) Errors {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return Errors{"": err.Error()}
	}

	out := make(Errors, len(verrs))
	for field, ferr := range verrs {
		out[field] = ferr.Error()
	}

	return out
}
