package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Username string `validate:"required,min=3,max=30,lowercase"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestMessages(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name string
		form registerForm
		want []string
	}{
		{
			name: "everything missing",
			form: registerForm{},
			want: []string{
				"username must not be empty",
				"email must not be empty",
				"password must not be empty",
			},
		},
		{
			name: "bad email and short password",
			form: registerForm{Username: "alice", Email: "nope", Password: "short"},
			want: []string{
				"email must be a valid email address",
				"password must be at least 8 characters",
			},
		},
		{
			name: "uppercase username",
			form: registerForm{Username: "Alice", Email: "a@example.com", Password: "longenough"},
			want: []string{"username must be lowercase"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.form)
			require.Error(t, err)
			assert.Equal(t, tt.want, Messages(err))
		})
	}
}

func TestMessages_NonValidatorError(t *testing.T) {
	got := Messages(errors.New("unexpected EOF"))
	assert.Equal(t, []string{"request body is malformed"}, got)
}
