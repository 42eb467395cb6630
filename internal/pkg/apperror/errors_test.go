package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testStatus string

func TestStateConflict_CarriesExpectedAndActual(t *testing.T) {
	err := StateConflict("нельзя принять", testStatus("accepted"), testStatus("pending"))

	assert.Equal(t, ErrCodeStateConflict, err.Code)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus)
	assert.Equal(t, []string{"pending"}, err.Expected)
	assert.Equal(t, "accepted", err.Actual)
	assert.Contains(t, err.Error(), "actual accepted")
	assert.True(t, IsStateConflict(err))
	assert.False(t, IsConflict(err))
}

func TestHelpers_WorkThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("offer usecase: %w", ErrOfferNotFound)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsForbidden(wrapped))

	cause := errors.New("connection refused")
	transient := Transient(cause, "не удалось сохранить")
	assert.True(t, IsTransient(transient))
	assert.ErrorIs(t, transient, cause)
	assert.Equal(t, http.StatusServiceUnavailable, transient.HTTPStatus)
}

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeValidation:           http.StatusBadRequest,
		ErrCodeForbidden:            http.StatusForbidden,
		ErrCodeNotFound:             http.StatusNotFound,
		ErrCodeConflict:             http.StatusConflict,
		ErrCodeSearchFailed:         http.StatusServiceUnavailable,
		ErrCodeNotificationDelivery: http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, code)
	}
}
