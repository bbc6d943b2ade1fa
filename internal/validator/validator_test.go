package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,strong_password"`
	Username *string `json:"username" validate:"omitempty,username"`
	Title    string  `json:"title" validate:"omitempty,notblank"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()
	bad := "no spaces allowed"

	err := v.Validate(&signup{Email: "not-an-email", Password: "weak", Username: &bad, Title: "   "})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "password")
	assert.Contains(t, vErr.Errors, "username")
	assert.Contains(t, vErr.Errors, "title")
}

func TestValidatePasses(t *testing.T) {
	v := New()
	name := "ink_writer"
	assert.NoError(t, v.Validate(&signup{Email: "a@example.com", Password: "Str0ng!Passw0rd", Username: &name}))
}

func TestVar(t *testing.T) {
	v := New()
	err := v.Var("q", "a", "min=2,max=100")
	require.Error(t, err)
	assert.Contains(t, err.(*ValidationError).Errors, "q")
	assert.NoError(t, v.Var("q", "go", "min=2,max=100"))
}
