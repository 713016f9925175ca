package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/backoffice-api/internal/domain"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin empleado"`
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Email: "ana@example.com", Role: "admin", Date: "2024-03-01"}))
}

func TestStruct_MissingRequired(t *testing.T) {
	err := Struct(sample{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email", ve.Field)
	assert.Equal(t, domain.MissingFieldsReason, ve.Reason)
}

func TestFields_UsesJSONNames(t *testing.T) {
	fields := Fields(sample{Email: "no-es-email", Role: "root", Date: "01/03/2024"})
	require.Len(t, fields, 3)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "role", fields[1].Field)
	assert.Equal(t, "oneof", fields[1].Tag)
	assert.Equal(t, "date", fields[2].Field)
}
