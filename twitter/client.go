// Package twitter is a small client for the Twitter v2 API that signs its own
// requests and runs them over the httpdriver.
//
// A Client is not safe for concurrent use. It holds one nonce that is
// regenerated before every signed request, so callers must serialize
// requests or use one Client per goroutine.
package twitter

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"goTweetRelay/auth"
	"goTweetRelay/httpdriver"
	"goTweetRelay/logging"
)

// DefaultHost is the API host requests are sent to.
const DefaultHost = "api.twitter.com"

const (
	tweetsEndpoint   = "/2/tweets"
	searchEndpoint   = "/2/tweets/search/recent"
	searchMaxResults = 10
	jsonContentType  = "application/json"
)

// ErrNoBearerToken is returned by calls that need a bearer token when the
// client has none.
var ErrNoBearerToken = errors.New("twitter: no bearer token")

// StatusError is returned when the API answers with an unexpected status.
type StatusError struct {
	Code int
	// Detail is the best-effort summary of the error body.
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("twitter: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("twitter: unexpected status %d: %s", e.Code, e.Detail)
}

// DecodeError is returned when a successful response body does not have the
// expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "twitter: decoding response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Client talks to the Twitter API.
type Client struct {
	driver *httpdriver.Driver
	host   string
	creds  auth.Credentials
	bearer oauth2.TokenSource
	noncer auth.Noncer
	clock  auth.Clock
	nonce  string
	log    logging.Logger
	debug  logging.Logger

	// LastTweetID is the id of the last tweet posted successfully.
	LastTweetID string
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials sets the OAuth 1.0a credentials used for user actions.
func WithCredentials(creds auth.Credentials) Option {
	return func(c *Client) { c.creds = creds }
}

// WithBearerToken sets the app-only token used for searches.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.SetBearerToken(token) }
}

// WithTokenSource sets the source of the bearer token used for searches, for
// example a clientcredentials or reuse token source.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) { c.bearer = ts }
}

// WithHost overrides DefaultHost.
func WithHost(host string) Option {
	return func(c *Client) { c.host = host }
}

// WithLogger sets the loggers for errors and for debug output. Debug output
// includes secrets.
func WithLogger(log, debug logging.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
		if debug != nil {
			c.debug = debug
		}
	}
}

// WithClock sets the time source of oauth_timestamp.
func WithClock(clock auth.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithNoncer sets the source of oauth_nonce.
func WithNoncer(n auth.Noncer) Option {
	return func(c *Client) { c.noncer = n }
}

// New creates a Client sending requests with the driver.
func New(driver *httpdriver.Driver, opts ...Option) *Client {
	c := &Client{
		driver: driver,
		host:   DefaultHost,
		noncer: auth.AlphanumericNoncer{},
		clock:  auth.SystemClock{},
		log:    logging.Discard,
		debug:  logging.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetCredentials replaces the OAuth 1.0a credentials, deriving a new signing key.
func (c *Client) SetCredentials(consumerKey, consumerSecret, accessToken, accessTokenSecret string) {
	c.creds = auth.NewCredentials(consumerKey, consumerSecret, accessToken, accessTokenSecret)
}

// SetBearerToken replaces the bearer token.
func (c *Client) SetBearerToken(token string) {
	c.bearer = auth.BearerToken(token)
}

// RefreshNonce draws a new nonce for the next signature.
func (c *Client) RefreshNonce() string {
	c.nonce = c.noncer.Nonce()
	return c.nonce
}

// Epoch returns the current timestamp, 0 if the clock is not synchronised.
func (c *Client) Epoch() uint64 {
	return auth.Epoch(c.clock)
}

// Sign signs a request with the client credentials and current nonce.
func (c *Client) Sign(method, url string, timestamp uint64, queryParams, bodyParams string) (string, error) {
	return auth.Sign(method, url, timestamp, queryParams, bodyParams, c.creds, c.nonce)
}

// Authorize refreshes the nonce, signs the request at the current time, and
// returns the Authorization header value.
func (c *Client) Authorize(method, url, queryParams, bodyParams string) (string, error) {
	c.RefreshNonce()
	now := c.Epoch()
	if now == 0 {
		c.log.Printf("Failed to obtain time, signing with timestamp 0")
	}
	c.debug.Printf("OAuth Nonce: %s", c.nonce)
	c.debug.Printf("OAuth Time: %d", now)
	sig, err := c.Sign(method, url, now, queryParams, bodyParams)
	if err != nil {
		c.log.Printf("Failed to generate OAuth signature: %v", err)
		return "", err
	}
	header := auth.AuthorizationHeader(now, sig, c.creds, c.nonce)
	c.debug.Printf("auth: %s", header)
	return header, nil
}

// Request runs a raw transaction against the client host unless req names
// another one.
func (c *Client) Request(ctx context.Context, req *httpdriver.Request, fn httpdriver.BodyFunc) (int, error) {
	if req.Host == "" {
		req.Host = c.host
	}
	return c.driver.Do(ctx, req, fn)
}

func (c *Client) url(path string) string {
	return "https://" + c.host + path
}
