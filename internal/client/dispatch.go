package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/capitalsync-io/capsync/internal/common"
	"github.com/capitalsync-io/capsync/internal/models"
)

// errExpiredOnce marks a single observed session-expiry envelope. The
// dispatcher converts it into one re-authentication and retry; a
// second observation surfaces as models.ErrSessionExpired.
var errExpiredOnce = errors.New("session expiry reported")

// Call issues one authenticated API call and unwraps the response
// envelope. If the dashboard reports the session expired, the login
// handshake is re-run transparently (including the two-factor
// exchange if re-triggered) and the call retried exactly once. A
// second expiry is terminal.
func (c *Client) Call(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || !c.session.Authenticated {
		return nil, ErrNotLoggedIn
	}

	data, err := c.dispatch(ctx, endpoint, params)
	if !errors.Is(err, errExpiredOnce) {
		return data, err
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": endpoint,
	}).Infoln("Session expired, re-authenticating")

	c.session.Invalidate()

	if c.credential == nil {
		return nil, fmt.Errorf("%w: no credential held for re-authentication",
			models.ErrSessionExpired)
	}

	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	data, err = c.dispatch(ctx, endpoint, params)
	if errors.Is(err, errExpiredOnce) {
		c.session.Invalidate()
		return nil, fmt.Errorf("%w: expiry reported again after re-authentication",
			models.ErrSessionExpired)
	}

	return data, err
}

// dispatch performs one envelope exchange with no retry logic.
// Caller holds c.mu.
func (c *Client) dispatch(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {

	request := common.NewFormRequest(c.http, ctx, c.session.CSRF, params)

	resp, err := common.MakeRequestFromBuilder(request, http.MethodPost, endpoint)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}

	common.LogResponse(resp, endpoint)

	if resp.StatusCode() != http.StatusOK || !common.IsJSONResponse(resp) {
		return nil, fmt.Errorf("%w: %s returned status %d with content type %q",
			models.ErrProtocol, endpoint, resp.StatusCode(),
			resp.Header().Get("Content-Type"))
	}

	var envelope models.Envelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("%w: undecodable envelope from %s: %v",
			models.ErrProtocol, endpoint, err)
	}

	header := envelope.Header

	if header.SessionExpired() {
		return nil, errExpiredOnce
	}

	if !header.Success {
		if first, ok := header.FirstError(); ok {
			return nil, models.NewApiError(first.Code, first.Message)
		}
		return nil, fmt.Errorf("%w: failure envelope without error detail from %s",
			models.ErrProtocol, endpoint)
	}

	if len(header.CSRF) > 0 {
		c.session.CSRF = header.CSRF
	}

	return envelope.Data, nil
}
