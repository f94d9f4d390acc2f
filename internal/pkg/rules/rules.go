// Package rules holds ozzo-validation rules shared by the JSON requests and
// the HTML forms.
package rules

import (
	"errors"
	"regexp"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	passwordRegexPattern = `^(?=.*[A-Za-z])(?=.*\d).{8,}$`
	usernameRegexPattern = `^[\p{L}\p{N}_.@+-]+$`
)

var (
	ErrInvalidPassword         = errors.New("the password must be at least 8 characters and contain 1 letter and 1 number")
	ErrConfirmPasswordMismatch = errors.New("confirm password doesn't match the password")
)

var passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)

// Password enforces the account password policy.
var Password = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	ok, err := passwordExp.MatchString(s)
	if err != nil || !ok {
		return ErrInvalidPassword
	}

	return nil
})

// Username accepts up to 150 letters, digits and @.+-_ characters.
var Username = []validation.Rule{
	validation.RuneLength(1, 150),
	validation.Match(regexp.MustCompile(usernameRegexPattern)).Error("may contain only letters, numbers and @/./+/-/_ characters"),
}

// Matches fails when the value differs from other.
func Matches(other string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s != other {
			return ErrConfirmPasswordMismatch
		}

		return nil
	})
}
