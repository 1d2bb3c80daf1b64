package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesWrappedSentinel(t *testing.T) {
	sentinel := NewUnavailable("delivery failed")
	cause := errors.New("smtp: connection refused")

	err := sentinel.Wrap(cause)

	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, NewUnavailable("other"))
	assert.Equal(t, "delivery failed: smtp: connection refused", err.Error())
}

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "conflict", err: NewBusiness("dup", CodeConflict), want: http.StatusConflict},
		{name: "gone", err: NewBusiness("expired", CodeGone), want: http.StatusGone},
		{name: "unprocessable", err: NewBusiness("mismatch", CodeUnprocessable), want: http.StatusUnprocessableEntity},
		{name: "unavailable", err: NewUnavailable("down"), want: http.StatusServiceUnavailable},
		{name: "format", err: NewInvalidFormat(), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ge *Error
			require.ErrorAs(t, tt.err, &ge)
			assert.Equal(t, tt.want, ge.StatusCode())
		})
	}
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "password_confirmation", "must match password")

	var ge *Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, TypeValidation, ge.Type())
	assert.Equal(t, map[string]string{"password_confirmation": "must match password"}, ge.Fields())

	odd := NewInvalidInput(nil, "only_key")
	require.ErrorAs(t, odd, &ge)
	assert.Equal(t, CodeInvalidFormat, ge.Code())
}

func TestNewValidation_DistinctFromGenericValidation(t *testing.T) {
	sentinel := NewValidation("passwords differ", "password_confirmation", "must match")

	assert.NotErrorIs(t, NewInvalidInput(nil, "a", "b"), sentinel)
	assert.ErrorIs(t, sentinel, sentinel)
	assert.Equal(t, 422, sentinel.StatusCode())
	assert.Equal(t, map[string]string{"password_confirmation": "must match"}, sentinel.Fields())
}
