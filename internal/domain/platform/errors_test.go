package platform

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestError_Unwrap(t *testing.T) {
	t.Run("401 unwraps to ErrUnauthorized", func(t *testing.T) {
		err := &RequestError{StatusCode: 401, Message: "token expired"}
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.NotErrorIs(t, err, ErrRequestFailed)
	})

	t.Run("403 unwraps to ErrUnauthorized", func(t *testing.T) {
		err := &RequestError{StatusCode: 403}
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("500 unwraps to ErrRequestFailed", func(t *testing.T) {
		err := &RequestError{StatusCode: 500, Code: "INTERNAL_ERROR"}
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.NotErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("cart refresh: %w", &RequestError{StatusCode: 409, Message: "stock changed"})

		var reqErr *RequestError
		assert.True(t, errors.As(err, &reqErr))
		assert.Equal(t, 409, reqErr.StatusCode)
		assert.ErrorIs(t, err, ErrRequestFailed)
	})
}

func TestErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{
			"envelope message wins",
			&RequestError{StatusCode: 422, Code: "OUT_OF_STOCK", Message: "Only 2 units left"},
			"Only 2 units left",
		},
		{
			"wrapped envelope message wins",
			fmt.Errorf("add to cart: %w", &RequestError{StatusCode: 422, Message: "Only 2 units left"}),
			"Only 2 units left",
		},
		{
			"transport failure",
			fmt.Errorf("%w: dial tcp: connection refused", ErrUnavailable),
			"The service is unreachable. Check the connection and try again.",
		},
		{
			"unauthorized without envelope",
			&RequestError{StatusCode: 401},
			"The session is no longer valid. Sign in again.",
		},
		{
			"undecodable body",
			fmt.Errorf("%w: unexpected end of JSON input", ErrInvalidResponse),
			"The service returned an unexpected response.",
		},
		{
			"anything else passes through",
			errors.New("boom"),
			"boom",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorMessage(tc.err))
		})
	}
}
