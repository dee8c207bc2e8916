package models

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Cookie is the serializable subset of an HTTP cookie that the
// dashboard relies on for session identity.
type Cookie struct {
	Name    string    `json:"name" yaml:"name"`
	Value   string    `json:"value" yaml:"value"`
	Domain  string    `json:"domain,omitempty" yaml:"domain,omitempty"`
	Path    string    `json:"path,omitempty" yaml:"path,omitempty"`
	Expires time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`
}

func (c Cookie) HTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:    c.Name,
		Value:   c.Value,
		Domain:  c.Domain,
		Path:    c.Path,
		Expires: c.Expires,
	}
}

func NewCookie(c *http.Cookie) Cookie {
	return Cookie{
		Name:    c.Name,
		Value:   c.Value,
		Domain:  c.Domain,
		Path:    c.Path,
		Expires: c.Expires,
	}
}

// Session holds the mutable authentication state for one dashboard
// login: the anti-forgery token scraped at bootstrap (and refreshed by
// the server on identification), the cookie set, and the device
// identifier the dashboard uses to remember a browser across logins.
// A Session is owned by exactly one Client and is never shared.
type Session struct {
	CSRF          string    `json:"csrf" yaml:"csrf"`
	Cookies       []Cookie  `json:"cookies" yaml:"cookies"`
	Authenticated bool      `json:"authenticated" yaml:"authenticated"`
	DeviceID      string    `json:"device_id" yaml:"device_id"`
	CachedAt      time.Time `json:"cached_at,omitempty" yaml:"cached_at,omitempty"`
}

// NewSession returns an unauthenticated session with a fresh device
// identifier.
func NewSession() *Session {
	return &Session{
		DeviceID: uuid.New().String(),
	}
}

// Invalidate clears the authentication state but keeps the device
// identifier, which is meant to persist across logins.
func (s *Session) Invalidate() {
	s.CSRF = ""
	s.Cookies = nil
	s.Authenticated = false
}

// HTTPCookies converts the stored cookie set for replay into a client
// cookie jar.
func (s *Session) HTTPCookies() []*http.Cookie {
	cookies := make([]*http.Cookie, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		cookies = append(cookies, c.HTTPCookie())
	}
	return cookies
}

// SetCookies replaces the stored cookie set from live HTTP cookies.
func (s *Session) SetCookies(cookies []*http.Cookie) {
	s.Cookies = make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		s.Cookies = append(s.Cookies, NewCookie(c))
	}
}
