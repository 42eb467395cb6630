package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type specialtiesRequest struct {
	Specialties []string `validate:"required,max=16,dive,specialty"`
}

type statusRequest struct {
	Status string `validate:"required,receivable_status"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterOn(v))
	return v
}

func TestSpecialtyTag(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(specialtiesRequest{Specialties: []string{"camera_operator", "dj"}}))

	err := v.Struct(specialtiesRequest{Specialties: []string{"camera_operator", "astronaut"}})
	require.Error(t, err)
	assert.Contains(t, Message(err), "неизвестная специальность astronaut")
}

func TestReceivableStatusTag(t *testing.T) {
	v := newValidator(t)

	for _, s := range []string{"pending", "received", "overdue", "cancelled"} {
		assert.NoError(t, v.Struct(statusRequest{Status: s}), s)
	}
	err := v.Struct(statusRequest{Status: "paid"})
	require.Error(t, err)
	assert.Contains(t, Message(err), "некорректный статус paid")

	assert.Contains(t, Message(v.Struct(statusRequest{})), "обязательное поле")
}

func TestRegister_OnGinEngine(t *testing.T) {
	assert.NoError(t, Register())
	assert.NoError(t, Register())
}

func TestMessage_NonValidationError(t *testing.T) {
	assert.Equal(t, "некорректные данные запроса", Message(assert.AnError))
}
