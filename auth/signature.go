package auth

import (
	"strconv"
	"strings"
)

// SignatureBase combines the uppercase request method, the percent encoded
// URL, and the percent encoded canonical parameter string.
// The parameters are sorted in place.
func SignatureBase(method, url string, params *Params) string {
	params.Sort()
	baseParts := []string{strings.ToUpper(method), PercentEncode(url), PercentEncode(params.CanonicalString())}
	return strings.Join(baseParts, "&")
}

// OAuthParams returns the six fixed protocol parameters in their canonical
// order, excluding oauth_signature.
func OAuthParams(creds Credentials, nonce string, timestamp uint64) *Params {
	p := new(Params)
	p.Add(oauthConsumerKeyParam, creds.consumerKey)
	p.Add(oauthNonceParam, nonce)
	p.Add(oauthSignatureMethodParam, hmacSHA1)
	p.Add(oauthTimestampParam, strconv.FormatUint(timestamp, 10))
	p.Add(oauthTokenParam, creds.accessToken)
	p.Add(oauthVersionParam, defaultOauthVersion)
	return p
}

// Sign returns the percent encoded HMAC-SHA1 signature of a request. The
// query and body parameters are raw "&" joined key=value lists and may be
// empty.
func Sign(method, url string, timestamp uint64, queryParams, bodyParams string, creds Credentials, nonce string) (string, error) {
	return SignWith(HMACSigner{}, method, url, timestamp, queryParams, bodyParams, creds, nonce)
}

// SignWith is Sign with a custom Signer.
func SignWith(s Signer, method, url string, timestamp uint64, queryParams, bodyParams string, creds Credentials, nonce string) (string, error) {
	if !creds.Valid() {
		return "", &SignatureError{Op: "sign", Err: ErrMissingKey}
	}
	params := OAuthParams(creds, nonce, timestamp)
	params.AddRaw(queryParams)
	params.AddRaw(bodyParams)
	base := SignatureBase(method, url, params)
	signature, err := s.Sign(creds.signingKey, base)
	if err != nil {
		return "", err
	}
	return PercentEncode(signature), nil
}
