// Package client implements the authenticated session lifecycle for
// the dashboard API: the login handshake, the two-factor challenge,
// session persistence, and the self-healing authenticated dispatcher.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/capitalsync-io/capsync/internal/config"
	"github.com/capitalsync-io/capsync/internal/models"
	"github.com/capitalsync-io/capsync/internal/sessions"
)

// ErrNotLoggedIn is returned by queries issued before a successful
// Login.
var ErrNotLoggedIn = fmt.Errorf("not logged in. Call Login before issuing queries")

// Client owns exactly one dashboard session: one cookie jar, one
// anti-forgery token, one device identifier. Embedders wanting
// concurrency across accounts use one Client per account.
type Client struct {
	mu sync.Mutex

	http    *resty.Client
	baseURL *url.URL

	session    *models.Session
	credential *models.Credential
	provider   models.TwoFactorCodeProvider

	store        *sessions.Store
	maxAttempts  int
	verifyCached bool
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithStore attaches a session cache store. Without one, sessions
// live only for the Client's lifetime.
func WithStore(store *sessions.Store) Option {
	return func(c *Client) {
		c.store = store
	}
}

// WithCodeProvider injects the two-factor code source. Required for
// any login path that can hit a challenge.
func WithCodeProvider(provider models.TwoFactorCodeProvider) Option {
	return func(c *Client) {
		c.provider = provider
	}
}

// New builds a Client against the configured dashboard endpoint.
func New(cfg *config.Config, opts ...Option) (*Client, error) {

	baseURL, err := url.Parse(cfg.API.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid api endpoint: %w", err)
	}

	httpClient := resty.New().
		SetBaseURL(cfg.API.Endpoint).
		SetHeader("User-Agent", cfg.API.UserAgent).
		SetTimeout(cfg.API.Timeout)

	c := &Client{
		http:         httpClient,
		baseURL:      baseURL,
		maxAttempts:  cfg.Challenge.MaxAttempts,
		verifyCached: cfg.Login.VerifyCached,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}

	return c, nil
}

// Login establishes an authenticated session for the credential. The
// cache is probed first; a usable cached session short-circuits the
// handshake entirely, making zero identity, secret or challenge
// calls. Otherwise the full handshake runs, including the two-factor
// exchange if the dashboard demands one, and the resulting session is
// written back to the cache.
func (c *Client) Login(ctx context.Context, credential models.Credential) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(credential.Identity) == 0 {
		return fmt.Errorf("%w: identity is required", models.ErrInvalidArgument)
	}
	if len(credential.TwoFactor) == 0 {
		credential.TwoFactor = models.DeliverySMS
	}

	c.credential = &credential

	if c.store != nil {
		if cached, ok := c.store.Load(credential.Identity); ok {
			logrus.WithFields(logrus.Fields{
				"cachedAt": cached.CachedAt,
			}).Debugln("Rehydrating session from cache")

			c.adoptSession(cached)

			if !c.verifyCached {
				return nil
			}

			// One authenticated probe; a stale cache falls through to
			// the full handshake instead of failing the login.
			if _, err := c.dispatch(ctx, accountsPath, nil); err == nil {
				return nil
			}

			logrus.Debugln("Cached session rejected by server, running handshake")
		}
	}

	// No usable cached session from here on; a secret is required
	// for the full handshake.
	if len(credential.Secret) == 0 {
		return fmt.Errorf("%w: no cached session and no secret supplied",
			models.ErrInvalidArgument)
	}

	return c.authenticate(ctx)
}

// Logout invalidates the current session and removes its cache
// record. The device identifier is kept so the dashboard can still
// remember this client on the next login.
func (c *Client) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Invalidate()
	}

	if c.store != nil && c.credential != nil {
		if err := c.store.Remove(c.credential.Identity); err != nil {
			return err
		}
	}

	c.resetCookies(nil)
	return nil
}

// IsLoggedIn probes the accounts endpoint with the current session.
// It never triggers re-authentication; an expired session simply
// reports false.
func (c *Client) IsLoggedIn(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || !c.session.Authenticated {
		return false
	}

	_, err := c.dispatch(ctx, accountsPath, nil)
	return err == nil
}

// adoptSession installs a session on the client and replays its
// cookie set into the transport's jar.
func (c *Client) adoptSession(session *models.Session) {
	c.session = session
	c.resetCookies(session.HTTPCookies())
}

// resetCookies replaces the transport cookie jar. Passing nil leaves
// an empty jar.
func (c *Client) resetCookies(cookies []*http.Cookie) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		// cookiejar.New with nil options cannot fail
		panic(err)
	}
	if len(cookies) > 0 {
		jar.SetCookies(c.baseURL, cookies)
	}
	c.http.SetCookieJar(jar)
}

// snapshotCookies copies the live jar back into the session for
// persistence.
func (c *Client) snapshotCookies() {
	jar := c.http.GetClient().Jar
	if jar == nil || c.session == nil {
		return
	}
	c.session.SetCookies(jar.Cookies(c.baseURL))
}

// persistSession writes the current session to the cache store, keyed
// by the credential identity. Cache failures are logged, not fatal: a
// session that cannot be cached still works for this process.
func (c *Client) persistSession() {
	if c.store == nil || c.credential == nil || c.session == nil {
		return
	}

	c.snapshotCookies()

	if err := c.store.Save(c.credential.Identity, c.session); err != nil {
		logrus.WithError(err).Warnln("Failed to cache session")
	}
}
