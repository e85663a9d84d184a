package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6"`
	RegNumber string `validate:"max=4"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(registerForm{Email: "nope", Password: "abc", RegNumber: "toolong"})
	require.Error(t, err)

	msg := FormatValidationError(err)
	assert.Equal(t,
		"Email must be a valid email address; Password must be at least 6 characters; Registration number must be at most 4 characters",
		msg)
}

func TestFormatValidationError_Required(t *testing.T) {
	v := validator.New()

	err := v.Struct(registerForm{})
	require.Error(t, err)
	assert.Contains(t, FormatValidationError(err), "Email is required")
	assert.Contains(t, FormatValidationError(err), "Password is required")
}

func TestFormatValidationError_PlainError(t *testing.T) {
	assert.Equal(t, "unexpected EOF", FormatValidationError(errors.New("unexpected EOF")))
}
