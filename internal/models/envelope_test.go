package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeDecoding(t *testing.T) {
	body := `{
		"spHeader": {
			"success": true,
			"authLevel": "SESSION_AUTHENTICATED",
			"csrf": "abc-123",
			"username": "user@example.com"
		},
		"spData": {"networth": 42.5}
	}`

	var envelope Envelope
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))

	assert.True(t, envelope.Header.Success)
	assert.Equal(t, AuthLevelSessionAuthenticated, envelope.Header.AuthLevel)
	assert.Equal(t, "abc-123", envelope.Header.CSRF)
	assert.JSONEq(t, `{"networth": 42.5}`, string(envelope.Data))
}

func TestSpHeaderSessionExpired(t *testing.T) {
	tests := []struct {
		name    string
		header  SpHeader
		expired bool
	}{
		{
			name:    "expiry code on failure",
			header:  SpHeader{Success: false, Errors: []HeaderError{{Code: SessionExpiredErrorCode}}},
			expired: true,
		},
		{
			name:    "other error code",
			header:  SpHeader{Success: false, Errors: []HeaderError{{Code: 500}}},
			expired: false,
		},
		{
			name:    "failure without error detail",
			header:  SpHeader{Success: false},
			expired: false,
		},
		{
			name:    "expiry code ignored on success",
			header:  SpHeader{Success: true, Errors: []HeaderError{{Code: SessionExpiredErrorCode}}},
			expired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.header.SessionExpired())
		})
	}
}

func TestSessionInvalidateKeepsDeviceID(t *testing.T) {
	session := NewSession()
	require.NotEmpty(t, session.DeviceID)
	device := session.DeviceID

	session.CSRF = "abc"
	session.Authenticated = true
	session.Cookies = []Cookie{{Name: "PMSession", Value: "blob"}}

	session.Invalidate()

	assert.Empty(t, session.CSRF)
	assert.False(t, session.Authenticated)
	assert.Empty(t, session.Cookies)
	assert.Equal(t, device, session.DeviceID)
}
