package rules

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
)

func TestPassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"abcdefg1", true},
		{"1234567a", true},
		{"пароль12", false},
		{"abcdefgh", false},
		{"12345678", false},
		{"abc123", false},
		{"", true},
	}

	for _, tc := range tests {
		t.Run(tc.password, func(t *testing.T) {
			err := validation.Validate(tc.password, Password)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidPassword)
			}
		})
	}
}

func TestUsername(t *testing.T) {
	assert.NoError(t, validation.Validate("john.doe+tours@x", Username...))
	assert.NoError(t, validation.Validate("иван_1", Username...))
	assert.Error(t, validation.Validate("john doe", Username...))
	assert.Error(t, validation.Validate("semi;colon", Username...))
}

func TestMatches(t *testing.T) {
	assert.NoError(t, validation.Validate("secret123", Matches("secret123")))
	assert.ErrorIs(t, validation.Validate("secret124", Matches("secret123")), ErrConfirmPasswordMismatch)
}
