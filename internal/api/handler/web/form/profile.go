package form

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/voyage-tours/voyage/internal/domain"
)

var errAgeNotNumber = errors.New("enter a whole number")

// Profile mirrors the profile edit form. Checkboxes absent from the
// submission read as unchecked.
type Profile struct {
	FIO        string `json:"fio"`
	Age        string `json:"age"`
	Married    bool   `json:"married"`
	License    bool   `json:"license"`
	ClearPhoto bool   `json:"photo-clear"`

	hasFIO bool
	hasAge bool
	age    *int
}

func NewProfile(values url.Values) *Profile {
	_, hasFIO := values["fio"]
	_, hasAge := values["age"]

	return &Profile{
		FIO:        values.Get("fio"),
		Age:        strings.TrimSpace(values.Get("age")),
		Married:    checked(values.Get("married")),
		License:    checked(values.Get("license")),
		ClearPhoto: checked(values.Get("photo-clear")),
		hasFIO:     hasFIO,
		hasAge:     hasAge,
	}
}

// ProfileFrom prefills the form for display.
func ProfileFrom(p domain.Profile) *Profile {
	f := &Profile{
		FIO:     p.FIO,
		Married: p.Married,
		License: p.License,
	}
	if p.Age != nil {
		f.Age = strconv.Itoa(*p.Age)
	}

	return f
}

func checked(v string) bool {
	switch strings.ToLower(v) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func (f *Profile) Validate() Errors {
	return fieldErrors(validation.ValidateStruct(
		f,
		validation.Field(&f.FIO, validation.RuneLength(0, 255)),
		validation.Field(&f.Age, validation.By(func(interface{}) error {
			if f.Age == "" {
				f.age = nil
				return nil
			}
			n, err := strconv.Atoi(f.Age)
			if err != nil {
				return errAgeNotNumber
			}
			if err = validation.Validate(n, validation.Min(0), validation.Max(150)); err != nil {
				return err
			}
			f.age = &n

			return nil
		})),
	))
}

// Update converts a validated form into a profile update. photo is the
// stored name of a newly uploaded photo, or "" when none was sent.
func (f *Profile) Update(photo string) domain.ProfileUpdate {
	u := domain.ProfileUpdate{
		Married: &f.Married,
		License: &f.License,
	}
	if f.hasFIO {
		fio := f.FIO
		u.FIO = &fio
	}
	if f.hasAge {
		if f.age == nil {
			u.ClearAge = true
		} else {
			age := *f.age
			u.Age = &age
		}
	}
	switch {
	case photo != "":
		u.Photo = &photo
	case f.ClearPhoto:
		empty := ""
		u.Photo = &empty
	}

	return u
}
