package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type studentRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

func TestValidate_NotBlank(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain name", "Ana", false},
		{"padded name", "  Ana Maria ", false},
		{"empty", "", true},
		{"spaces only", "   ", true},
		{"tabs and newlines", "\t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(studentRequest{Name: tt.input})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, "name", verrs[0].Field)
			assert.Equal(t, "notblank", verrs[0].Tag)
			assert.Equal(t, "name must not be blank", verrs[0].Message)
		})
	}
}

func TestValidate_MaxLength(t *testing.T) {
	v := New()
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}

	err := v.Validate(studentRequest{Name: string(long)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 100 characters")
}

func TestVar(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("Math", "notblank"))
	assert.Error(t, v.Var(" ", "notblank"))
}
