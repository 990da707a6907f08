package oidc

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies authentication failures so the HTTP layer can pick a status code
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindUnavailable     Kind = "metadata_unavailable"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
)

var (
	// ErrMissingToken is returned when no bearer token was presented
	ErrMissingToken = errors.New("missing bearer token")

	// ErrMissingKid is returned when the token header carries no kid
	ErrMissingKid = errors.New("token header missing kid")

	// ErrNoMatchingKey is returned when no JWKS entry matches the token kid
	ErrNoMatchingKey = errors.New("no matching key for token kid")

	// ErrMissingKeyList is returned when the JWKS has no keys array
	ErrMissingKeyList = errors.New("JWKS missing keys list")

	// ErrUnsupportedKey is returned for keys that are not RSA / RS256
	ErrUnsupportedKey = errors.New("unsupported key type")

	// ErrFetchFailed is returned when discovery or JWKS retrieval fails
	ErrFetchFailed = errors.New("failed to fetch auth metadata")

	// ErrMissingJWKSURI is returned when the discovery document has no usable jwks_uri
	ErrMissingJWKSURI = errors.New("discovery document did not include a valid jwks_uri")
)

// Error is the typed failure returned by the verifier and the authorization gate.
// Message is safe to show to clients, Err carries the internal cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Kind sentinels for errors.Is checks
var (
	ErrConfiguration       = newError(KindConfiguration, "auth misconfiguration", nil)
	ErrMetadataUnavailable = newError(KindUnavailable, "auth metadata unavailable", nil)
	ErrUnauthenticated     = newError(KindUnauthenticated, "unauthenticated", nil)
	ErrForbidden           = newError(KindForbidden, "forbidden", nil)
)

// KindOf returns the Kind of err, or an empty Kind when err is not an *Error
func KindOf(err error) Kind {
	var oidcErr *Error
	if errors.As(err, &oidcErr) {
		return oidcErr.Kind
	}
	return ""
}

// IsConfiguration reports whether err is a server-side auth misconfiguration
func IsConfiguration(err error) bool { return KindOf(err) == KindConfiguration }

// IsUnavailable reports whether err stems from unreachable auth metadata
func IsUnavailable(err error) bool { return KindOf(err) == KindUnavailable }

// IsUnauthenticated reports whether err is an authentication failure
func IsUnauthenticated(err error) bool { return KindOf(err) == KindUnauthenticated }

// IsForbidden reports whether err is an authorization failure
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// StatusCode maps err to the HTTP status the API responds with
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindConfiguration:
		return http.StatusInternalServerError
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing message for err
func PublicMessage(err error) string {
	var oidcErr *Error
	if errors.As(err, &oidcErr) {
		return oidcErr.Message
	}
	return "An unexpected error occurred."
}
