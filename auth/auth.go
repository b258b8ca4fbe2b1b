// Package auth signs requests with OAuth 1.0a HMAC-SHA1 using already issued
// access tokens, and formats the Authorization header values sent with them.
package auth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"strings"
)

const (
	authorizationPrefix       = "OAuth " // trailing space is intentional
	oauthConsumerKeyParam     = "oauth_consumer_key"
	oauthNonceParam           = "oauth_nonce"
	oauthSignatureMethodParam = "oauth_signature_method"
	oauthTimestampParam       = "oauth_timestamp"
	oauthTokenParam           = "oauth_token"
	oauthVersionParam         = "oauth_version"
	defaultOauthVersion       = "1.0"
	hmacSHA1                  = "HMAC-SHA1"
)

// ErrMissingKey is wrapped by a SignatureError when credentials do not carry
// a consumer key or access token.
var ErrMissingKey = errors.New("oauth1: missing consumer key or access token")

// SignatureError reports a failure to produce a request signature.
type SignatureError struct {
	Op  string
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("oauth1: %s: %v", e.Op, e.Err)
}

func (e *SignatureError) Unwrap() error {
	return e.Err
}

// Credentials holds the consumer and access token pairs of a client. The
// signing key is derived when the value is built and never recomputed at
// sign time. Build a new value to change any part of it.
type Credentials struct {
	consumerKey       string
	consumerSecret    string
	accessToken       string
	accessTokenSecret string
	signingKey        string
}

// NewCredentials returns Credentials with the signing key derived from the
// consumer secret and the access token secret.
func NewCredentials(consumerKey, consumerSecret, accessToken, accessTokenSecret string) Credentials {
	return Credentials{
		consumerKey:       consumerKey,
		consumerSecret:    consumerSecret,
		accessToken:       accessToken,
		accessTokenSecret: accessTokenSecret,
		signingKey:        SigningKey(consumerSecret, accessTokenSecret),
	}
}

// SigningKey joins the consumer secret and token secret with a literal "&".
func SigningKey(consumerSecret, accessTokenSecret string) string {
	return strings.Join([]string{consumerSecret, accessTokenSecret}, "&")
}

// ConsumerKey identifies the consumer to the service provider.
func (c Credentials) ConsumerKey() string { return c.consumerKey }

// AccessToken is the token the consumer acts with on behalf of the user.
func (c Credentials) AccessToken() string { return c.accessToken }

// SigningKey returns the HMAC key derived at construction.
func (c Credentials) SigningKey() string { return c.signingKey }

// Valid reports whether the credentials can sign a request.
func (c Credentials) Valid() bool {
	return c.consumerKey != "" && c.accessToken != "" && c.signingKey != ""
}

// A Signer signs messages to create signed OAuth1 Requests.
type Signer interface {
	// Name returns the name of the signing method.
	Name() string
	// Sign signs the message using the given secret key.
	Sign(key string, message string) (string, error)
}

// HMACSigner signs messages with an HMAC SHA1 digest and returns the
// base64 encoded digest.
type HMACSigner struct{}

// Name returns the HMAC-SHA1 method.
func (HMACSigner) Name() string {
	return hmacSHA1
}

// Sign calculates the HMAC-SHA1 digest of the message keyed by key.
func (HMACSigner) Sign(key, message string) (string, error) {
	return hmacSign(key, message, sha1.New, sha1.Size)
}

func hmacSign(key, message string, algo func() hash.Hash, size int) (string, error) {
	mac := hmac.New(algo, []byte(key))
	if _, err := mac.Write([]byte(message)); err != nil {
		return "", &SignatureError{Op: "hmac", Err: err}
	}
	digest := mac.Sum(nil)
	if len(digest) != size {
		return "", &SignatureError{Op: "hmac", Err: fmt.Errorf("digest is %d bytes, want %d", len(digest), size)}
	}
	// ceil(n/3)*4
	out := make([]byte, base64.StdEncoding.EncodedLen(len(digest)))
	base64.StdEncoding.Encode(out, digest)
	return string(out), nil
}
