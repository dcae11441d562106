package validator

import (
	"testing"

	"sales_pipeline_backend/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestCheckReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Check(sample{Email: "nope", Kind: "c"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	fields, ok := appErr.Details.([]apperr.FieldError)
	require.True(t, ok)
	require.Len(t, fields, 3)
	assert.Equal(t, "name", fields[0].Field)
	assert.Equal(t, "required", fields[0].Message)
	assert.Equal(t, "email", fields[1].Field)
	assert.Equal(t, "kind", fields[2].Field)
}

func TestCheckPassesValidStruct(t *testing.T) {
	assert.NoError(t, New().Check(sample{Name: "Acme", Email: "a@b.co", Kind: "a"}))
}
