package client

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/capitalsync-io/capsync/internal/models"
)

// defaultMaxAttempts bounds incorrect-code submissions when the
// configuration does not say otherwise.
const defaultMaxAttempts = 3

// challengeOutcome is the result of one code submission.
type challengeOutcome int

const (
	challengeAuthenticated challengeOutcome = iota
	challengeRetry
	challengeFailed
)

// solveChallenge runs the two-factor exchange: request out-of-band
// delivery, then block on the injected code provider and submit until
// the dashboard accepts a code or the attempt bound is exhausted.
// Caller holds c.mu.
func (c *Client) solveChallenge(ctx context.Context) error {

	if c.provider == nil {
		return fmt.Errorf("%w: no two-factor code provider configured",
			models.ErrUnsupportedChallengeMethod)
	}

	challenge, err := c.requestCode(ctx, c.credential.TwoFactor)
	if err != nil {
		return err
	}

	for challenge.AttemptsRemaining > 0 {

		code, err := c.provider(challenge.Method)
		if err != nil {
			return fmt.Errorf("two-factor code provider failed: %w", err)
		}

		outcome, err := c.submitCode(ctx, challenge, code)
		if err != nil {
			return err
		}

		if outcome == challengeAuthenticated {
			return nil
		}

		logrus.WithFields(logrus.Fields{
			"attemptsRemaining": challenge.AttemptsRemaining,
		}).Warnln("Two-factor code rejected")
	}

	return models.ErrChallengeExhausted
}

// requestCode asks the dashboard to deliver a code out of band. Only
// code-via-text is supported; other delivery methods are an extension
// point and fail loudly rather than being silently ignored.
func (c *Client) requestCode(ctx context.Context, method models.DeliveryMethod) (*models.ChallengeState, error) {

	if method != models.DeliverySMS {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedChallengeMethod, method)
	}

	header, err := c.postHandshakeForm(ctx, challengeSmsPath, map[string]string{
		"challengeReason": "DEVICE_AUTH",
		"challengeMethod": "OP",
	})
	if err != nil {
		return nil, err
	}

	if !header.Success {
		if first, ok := header.FirstError(); ok {
			return nil, models.NewApiError(first.Code, first.Message)
		}
		return nil, fmt.Errorf("%w: challenge request rejected without error detail",
			models.ErrProtocol)
	}

	logrus.Infoln("Two-factor code requested, waiting for caller input")

	return &models.ChallengeState{
		ChallengeType:     "DEVICE_AUTH",
		Method:            method,
		AttemptsRemaining: c.maxAttempts,
	}, nil
}

// submitCode posts one code and decrements the remaining attempts on a
// rejection.
func (c *Client) submitCode(ctx context.Context, challenge *models.ChallengeState, code string) (challengeOutcome, error) {

	header, err := c.postHandshakeForm(ctx, authenticateSmsPath, map[string]string{
		"challengeReason": challenge.ChallengeType,
		"challengeMethod": "OP",
		"code":            code,
	})
	if err != nil {
		return challengeFailed, err
	}

	if header.Success {
		if len(header.CSRF) > 0 {
			c.session.CSRF = header.CSRF
		}
		return challengeAuthenticated, nil
	}

	challenge.AttemptsRemaining--

	if challenge.AttemptsRemaining <= 0 {
		return challengeFailed, models.ErrChallengeExhausted
	}

	return challengeRetry, nil
}
