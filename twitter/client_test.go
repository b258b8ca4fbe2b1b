package twitter

import (
	"bufio"
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goTweetRelay/auth"
	"goTweetRelay/httpdriver"
	"goTweetRelay/httpdriver/drivertest"
	"goTweetRelay/logging/logtest"
)

const (
	testNonce     = "kYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgm"
	testTimestamp = 1318622958
)

type staticNoncer string

func (n staticNoncer) Nonce() string { return string(n) }

type sequenceNoncer struct{ n int }

func (s *sequenceNoncer) Nonce() string {
	s.n++
	return strings.Repeat(string(rune('A'+s.n)), auth.NonceLength)
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func testCredentials() auth.Credentials {
	return auth.NewCredentials(
		"xvz1evFS4wEEPTGEFPHBog",
		"kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw",
		"370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
		"LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE",
	)
}

func newTestClient(t *testing.T, responses ...string) (*Client, []*drivertest.Conn, *logtest.Logger) {
	t.Helper()
	var conns []*drivertest.Conn
	for _, r := range responses {
		conns = append(conns, drivertest.NewConn(r))
	}
	log := logtest.NewLogger()
	driver := httpdriver.New(drivertest.NewDialer(conns...), nil, log, nil)
	c := New(driver,
		WithCredentials(testCredentials()),
		WithBearerToken("AAAA-bearer"),
		WithNoncer(staticNoncer(testNonce)),
		WithClock(fixedClock(time.Unix(testTimestamp, 0))),
		WithLogger(log, nil),
	)
	return c, conns, log
}

// sentRequest parses what the client wrote to a connection.
func sentRequest(t *testing.T, conn *drivertest.Conn) (*http.Request, string) {
	t.Helper()
	req, err := http.ReadRequest(bufio.NewReader(strings.NewReader(conn.Written())))
	require.NoError(t, err)
	body, err := ioutil.ReadAll(req.Body)
	require.NoError(t, err)
	return req, string(body)
}

func TestAuthorize(t *testing.T) {
	c, _, _ := newTestClient(t)
	got, err := c.Authorize("POST", "https://api.twitter.com/2/tweets", "", "")
	require.NoError(t, err)
	assert.Contains(t, got, `oauth_signature="FeAe4jj29EAYQ79fXqZ20UfhF7M%3D"`)
	assert.Contains(t, got, `oauth_nonce="`+testNonce+`"`)
	assert.True(t, strings.HasPrefix(got, `OAuth oauth_consumer_key="xvz1evFS4wEEPTGEFPHBog",`))
}

func TestAuthorizeRefreshesNonce(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.noncer = &sequenceNoncer{}
	a, err := c.Authorize("POST", "https://api.twitter.com/2/tweets", "", "")
	require.NoError(t, err)
	nonceA := c.nonce
	b, err := c.Authorize("POST", "https://api.twitter.com/2/tweets", "", "")
	require.NoError(t, err)
	assert.NotEqual(t, nonceA, c.nonce)
	assert.NotEqual(t, a, b)
}

func TestAuthorizeUnsynchronisedClock(t *testing.T) {
	c, _, log := newTestClient(t)
	c.clock = fixedClock(time.Time{})
	got, err := c.Authorize("POST", "https://api.twitter.com/2/tweets", "", "")
	require.NoError(t, err)
	assert.Contains(t, got, `oauth_timestamp="0"`)
	assert.Contains(t, log.String(), "Failed to obtain time")
}

func TestSetCredentials(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.nonce = testNonce
	before, err := c.Sign("POST", "https://api.twitter.com/2/tweets", testTimestamp, "", "")
	require.NoError(t, err)
	assert.Equal(t, "FeAe4jj29EAYQ79fXqZ20UfhF7M%3D", before)

	c.SetCredentials("xvz1evFS4wEEPTGEFPHBog", "other", "370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb", "secret")
	assert.Equal(t, "other&secret", c.creds.SigningKey())
	after, err := c.Sign("POST", "https://api.twitter.com/2/tweets", testTimestamp, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestSignWithoutCredentials(t *testing.T) {
	driver := httpdriver.New(drivertest.NewDialer(), nil, nil, nil)
	c := New(driver)
	_, err := c.PostTweet(context.Background(), "hi", "")
	var se *auth.SignatureError
	assert.True(t, errors.As(err, &se))
}

func TestRequest(t *testing.T) {
	c, conns, _ := newTestClient(t, "HTTP/1.1 200 OK\r\n\r\n")
	code, err := c.Request(context.Background(), &httpdriver.Request{Method: "GET", Path: "/2/users/me"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, code)
	req, _ := sentRequest(t, conns[0])
	assert.Equal(t, "api.twitter.com", req.Host)
}
