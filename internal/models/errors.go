package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the login and dispatch lifecycle. Callers match
// them with errors.Is; call sites wrap them with %w and add context.
var (
	// ErrInvalidCredentials means the dashboard rejected the supplied
	// identity or secret.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnsupportedChallengeMethod means a two-factor challenge was
	// required but no code source (or no supported delivery method)
	// was available to solve it.
	ErrUnsupportedChallengeMethod = errors.New("unsupported challenge method")

	// ErrChallengeExhausted means every two-factor attempt was
	// consumed without an accepted code.
	ErrChallengeExhausted = errors.New("challenge attempts exhausted")

	// ErrProtocol means the dashboard answered with something the
	// client cannot interpret, such as a non-JSON body or a missing
	// token.
	ErrProtocol = errors.New("protocol error")

	// ErrSessionExpired means the session expired and a single
	// re-authentication attempt did not recover it.
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidArgument means the caller supplied malformed input,
	// detected before any network traffic.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ApiError carries an application-level failure envelope from the
// dashboard, preserving its error code and message.
type ApiError struct {
	Code    int
	Message string
}

func NewApiError(code int, message string) *ApiError {
	return &ApiError{Code: code, Message: message}
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("dashboard error %d: %s", e.Code, e.Message)
}
