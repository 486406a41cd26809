package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("ada_lovelace"))
	assert.True(t, IsValidUsername("a.b-c"))
	assert.False(t, IsValidUsername("ab"))
	assert.False(t, IsValidUsername("has space"))
	assert.False(t, IsValidUsername(""))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("Ada@Example.com"))
	assert.False(t, IsValidEmail("not-an-email"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("12345678"))
	assert.False(t, IsValidPassword("short"))
}

func TestRegisterCustomValidations(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))

	type signup struct {
		Username string `validate:"username"`
	}
	assert.NoError(t, v.Struct(signup{Username: "ada"}))
	assert.Error(t, v.Struct(signup{Username: "a!"}))
}
