package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-auth-hub/internal/errors"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"host mismatch", errors.ErrHostMismatch, http.StatusBadRequest},
		{"wrapped unknown host", fmt.Errorf("prompt: %w", errors.ErrUnknownHost), http.StatusBadRequest},
		{"pkg wrapped session mismatch", pkgerrors.Wrap(errors.ErrSessionMismatch, "submit"), http.StatusBadRequest},
		{"expired token", errors.Wrapf(errors.ErrTokenExpired, "decode %s", "x"), http.StatusUnauthorized},
		{"forbidden", errors.ErrForbidden, http.StatusForbidden},
		{"not found", errors.ErrNotFound, http.StatusNotFound},
		{"provider", errors.ErrProvider, http.StatusBadGateway},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, errors.HTTPStatus(tt.err))
		})
	}
}

func TestWrapf(t *testing.T) {
	require.NoError(t, errors.Wrapf(nil, "ignored"))

	err := errors.Wrapf(errors.ErrInvalidToken, "cookie %q", "jwt-x")
	require.True(t, errors.Is(err, errors.ErrInvalidToken))
	require.Equal(t, `cookie "jwt-x": invalid token`, err.Error())
}
