package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/sirupsen/logrus"

	"github.com/capitalsync-io/capsync/internal/common"
	"github.com/capitalsync-io/capsync/internal/models"
)

// Dashboard endpoints, relative to the configured base URL.
const (
	identifyUserPath         = "/api/login/identifyUser"
	authenticatePasswordPath = "/api/credential/authenticatePassword"
	challengeSmsPath         = "/api/credential/challengeSms"
	authenticateSmsPath      = "/api/credential/authenticateSms"
)

// The anti-forgery token is embedded in the entry page's inline
// script. A change to this pattern upstream surfaces as ErrProtocol.
var csrfPattern = regexp.MustCompile(`csrf *= *'([-a-z0-9]+)'`)

// handshakeState tracks the linear login state machine:
// unstarted -> token fetched -> identity submitted -> secret
// submitted -> authenticated | challenge required | failed.
type handshakeState int

const (
	stateUnstarted handshakeState = iota
	stateTokenFetched
	stateIdentitySubmitted
	stateSecretSubmitted
	stateAuthenticated
	stateChallengeRequired
	stateFailed
)

// authenticate runs the full handshake for the stored credential,
// solving the two-factor challenge if the dashboard demands one, and
// persists the resulting session. Caller holds c.mu.
func (c *Client) authenticate(ctx context.Context) error {

	if c.session == nil {
		c.session = models.NewSession()
	} else {
		c.session.Invalidate()
	}
	c.resetCookies(nil)

	if err := c.fetchToken(ctx); err != nil {
		return err
	}

	if err := c.submitIdentity(ctx); err != nil {
		return err
	}

	state, err := c.submitSecret(ctx)
	if err != nil {
		return err
	}

	if state == stateChallengeRequired {
		if err := c.solveChallenge(ctx); err != nil {
			return err
		}
	}

	c.session.Authenticated = true

	logrus.WithFields(logrus.Fields{
		"deviceId": c.session.DeviceID,
	}).Debugln("Handshake complete")

	c.persistSession()
	return nil
}

// fetchToken issues the unauthenticated bootstrap request and scrapes
// the anti-forgery token from the entry page.
func (c *Client) fetchToken(ctx context.Context) error {

	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("token bootstrap request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: token bootstrap returned status %d",
			models.ErrProtocol, resp.StatusCode())
	}

	match := csrfPattern.FindSubmatch(resp.Body())
	if match == nil {
		return fmt.Errorf("%w: no anti-forgery token in entry page",
			models.ErrProtocol)
	}

	c.session.CSRF = string(match[1])

	logrus.Debugln("Fetched anti-forgery token from entry page")
	return nil
}

// submitIdentity posts the account identity. The dashboard rotates
// the anti-forgery token on identification; the new token from
// spHeader replaces the scraped one.
func (c *Client) submitIdentity(ctx context.Context) error {

	header, err := c.postHandshakeForm(ctx, identifyUserPath, map[string]string{
		"username":        c.credential.Identity,
		"deviceId":        c.session.DeviceID,
		"skipLinkAccount": "false",
		"redirectTo":      "",
		"referrerId":      "",
	})
	if err != nil {
		return err
	}

	if !header.Success {
		if first, ok := header.FirstError(); ok {
			logrus.WithFields(logrus.Fields{
				"code": first.Code,
			}).Debugln("Identity rejected")
		}
		return fmt.Errorf("%w: identity rejected", models.ErrInvalidCredentials)
	}

	if len(header.CSRF) > 0 {
		c.session.CSRF = header.CSRF
	}

	return nil
}

// submitSecret posts the account secret and interprets the three
// response shapes: immediate success, challenge required, or
// rejection. Anything else is a protocol error, never a guess.
func (c *Client) submitSecret(ctx context.Context) (handshakeState, error) {

	header, err := c.postHandshakeForm(ctx, authenticatePasswordPath, map[string]string{
		"passwd":          c.credential.Secret,
		"deviceName":      "capsync",
		"bindDevice":      "true",
		"skipLinkAccount": "false",
	})
	if err != nil {
		return stateFailed, err
	}

	if len(header.CSRF) > 0 {
		c.session.CSRF = header.CSRF
	}

	switch {
	case header.Success && header.AuthLevel == models.AuthLevelSessionAuthenticated:
		return stateAuthenticated, nil

	case header.AuthLevel == models.AuthLevelMFARequired,
		header.AuthLevel == models.AuthLevelUserIdentified:
		return stateChallengeRequired, nil

	case !header.Success:
		return stateFailed, fmt.Errorf("%w: secret rejected", models.ErrInvalidCredentials)

	default:
		return stateFailed, fmt.Errorf("%w: unrecognized auth level %q",
			models.ErrProtocol, header.AuthLevel)
	}
}

// postHandshakeForm posts a handshake step and decodes the response
// envelope header. Handshake steps carry the same csrf and apiClient
// fields as authenticated dispatch.
func (c *Client) postHandshakeForm(ctx context.Context, path string, fields map[string]string) (*models.SpHeader, error) {

	request := common.NewFormRequest(c.http, ctx, c.session.CSRF, fields)

	resp, err := common.MakeRequestFromBuilder(request, http.MethodPost, path)
	if err != nil {
		return nil, fmt.Errorf("handshake request to %s failed: %w", path, err)
	}

	common.LogResponse(resp, path)

	if resp.StatusCode() != http.StatusOK || !common.IsJSONResponse(resp) {
		return nil, fmt.Errorf("%w: %s returned status %d with content type %q",
			models.ErrProtocol, path, resp.StatusCode(),
			resp.Header().Get("Content-Type"))
	}

	var envelope models.Envelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("%w: undecodable envelope from %s: %v",
			models.ErrProtocol, path, err)
	}

	return &envelope.Header, nil
}
