package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common error types for the auth hub
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongUser          = errors.New("request belongs to a different user")
	ErrForbidden          = errors.New("forbidden")

	// Token errors
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrAudienceMismatch = errors.New("token audience mismatch")

	// Forward-auth errors
	ErrHostMismatch    = errors.New("token host does not match the original host")
	ErrUnknownHost     = errors.New("host is not allow-listed for subrequest auth")
	ErrSessionMismatch = errors.New("token was issued to a different login session")
	ErrMissingHeader   = errors.New("missing or repeated header")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Upstream provider errors
	ErrProvider = errors.New("identity provider error")

	// General errors
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// HTTPStatus maps an error chain onto the status code a handler should answer with.
// Anything unrecognised is an internal error.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case Is(err, ErrInvalidRequest),
		Is(err, ErrMissingHeader),
		Is(err, ErrHostMismatch),
		Is(err, ErrUnknownHost),
		Is(err, ErrSessionMismatch),
		Is(err, ErrWrongUser):
		return http.StatusBadRequest
	case Is(err, ErrInvalidToken),
		Is(err, ErrTokenExpired),
		Is(err, ErrAudienceMismatch),
		Is(err, ErrInvalidCredentials),
		Is(err, ErrSessionNotFound),
		Is(err, ErrSessionExpired):
		return http.StatusUnauthorized
	case Is(err, ErrForbidden):
		return http.StatusForbidden
	case Is(err, ErrNotFound), Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case Is(err, ErrConflict):
		return http.StatusConflict
	case Is(err, ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
