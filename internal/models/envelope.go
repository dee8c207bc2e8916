package models

import "encoding/json"

// Auth levels reported by the dashboard in spHeader.authLevel.
const (
	AuthLevelSessionAuthenticated = "SESSION_AUTHENTICATED"
	AuthLevelUserIdentified       = "USER_IDENTIFIED"
	AuthLevelMFARequired          = "MFA_REQUIRED"
	AuthLevelNone                 = "NONE"
)

// SessionExpiredErrorCode is the spHeader error code the dashboard
// returns when the login session behind the cookie set has lapsed.
const SessionExpiredErrorCode = 201

// HeaderError is one entry of spHeader.errors.
type HeaderError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SpHeader is the status block every dashboard response carries.
type SpHeader struct {
	Success   bool          `json:"success"`
	AuthLevel string        `json:"authLevel,omitempty"`
	CSRF      string        `json:"csrf,omitempty"`
	Username  string        `json:"username,omitempty"`
	Status    string        `json:"status,omitempty"`
	Errors    []HeaderError `json:"errors,omitempty"`
}

// FirstError returns the leading spHeader error, if any.
func (h SpHeader) FirstError() (HeaderError, bool) {
	if len(h.Errors) == 0 {
		return HeaderError{}, false
	}
	return h.Errors[0], true
}

// SessionExpired reports whether the header carries the dashboard's
// session-expiry signal.
func (h SpHeader) SessionExpired() bool {
	if h.Success {
		return false
	}
	first, ok := h.FirstError()
	return ok && first.Code == SessionExpiredErrorCode
}

// Envelope is the top-level shape of every authenticated response:
// a header with success/error state and an opaque data payload.
type Envelope struct {
	Header SpHeader        `json:"spHeader"`
	Data   json.RawMessage `json:"spData,omitempty"`
}
