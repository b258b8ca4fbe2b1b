package auth

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// AuthorizationHeader formats the OAuth Authorization header value. The
// signature must already be percent encoded, as returned by Sign. The field
// order is fixed.
func AuthorizationHeader(timestamp uint64, signature string, creds Credentials, nonce string) string {
	var b strings.Builder
	b.WriteString(authorizationPrefix)
	writeField(&b, oauthConsumerKeyParam, creds.consumerKey)
	b.WriteByte(',')
	writeField(&b, oauthTokenParam, creds.accessToken)
	b.WriteByte(',')
	writeField(&b, oauthSignatureMethodParam, hmacSHA1)
	b.WriteByte(',')
	writeField(&b, oauthTimestampParam, formatEpoch(timestamp))
	b.WriteByte(',')
	writeField(&b, oauthNonceParam, nonce)
	b.WriteByte(',')
	writeField(&b, oauthVersionParam, defaultOauthVersion)
	b.WriteByte(',')
	writeField(&b, "oauth_signature", signature)
	return b.String()
}

func writeField(b *strings.Builder, key, value string) {
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(value)
	b.WriteByte('"')
}

// BearerToken returns a static source for an app-only bearer token used for
// read-only calls, or nil if token is empty.
func BearerToken(token string) oauth2.TokenSource {
	if token == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// BearerHeader formats the Authorization header value for the current token
// of ts. It returns "" if there is no source or the token is empty or expired.
func BearerHeader(ts oauth2.TokenSource) (string, error) {
	if ts == nil {
		return "", nil
	}
	t, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("auth: bearer token: %w", err)
	}
	if !t.Valid() {
		return "", nil
	}
	return t.Type() + " " + t.AccessToken, nil
}
