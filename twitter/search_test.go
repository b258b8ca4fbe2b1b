package twitter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const searchResponseBody = `{
	"data": [
		{"id": "101", "author_id": "1", "text": "first"},
		{"id": "102", "author_id": "2", "text": "second"},
		{"id": "103", "author_id": "1", "text": "third"}
	],
	"includes": {"users": [
		{"id": "1", "name": "Brian", "username": "witnessmenow"},
		{"id": "2", "name": "Ada", "username": "ada"}
	]},
	"meta": {"result_count": 3, "newest_id": "103"}
}`

func TestSearchTweets(t *testing.T) {
	c, conns, _ := newTestClient(t, "HTTP/1.1 200 OK\r\n\r\n"+searchResponseBody)

	var got []SearchResult
	var totals []int
	count, err := c.SearchTweets(context.Background(), func(r SearchResult, index, total int) bool {
		assert.Equal(t, len(got), index)
		got = append(got, r)
		totals = append(totals, total)
		return true
	}, "esp32 #arduino", true, "100")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []int{3, 3, 3}, totals)
	assert.Equal(t, []SearchResult{
		{AuthorID: "1", TweetID: "101", Text: "first", Name: "Brian", Username: "witnessmenow"},
		{AuthorID: "2", TweetID: "102", Text: "second", Name: "Ada", Username: "ada"},
		{AuthorID: "1", TweetID: "103", Text: "third", Name: "Brian", Username: "witnessmenow"},
	}, got)

	req, _ := sentRequest(t, conns[0])
	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/2/tweets/search/recent?max_results=10&query=esp32%20%23arduino&expansions=author_id&user.fields=username&since_id=100", req.RequestURI)
	assert.Equal(t, "Bearer AAAA-bearer", req.Header.Get("Authorization"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
}

func TestSearchTweetsStopsEarly(t *testing.T) {
	c, conns, _ := newTestClient(t, "HTTP/1.1 200 OK\r\n\r\n"+searchResponseBody)

	calls := 0
	count, err := c.SearchTweets(context.Background(), func(r SearchResult, index, total int) bool {
		calls++
		return false
	}, "esp32", false, "")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 3, count)
	assert.True(t, conns[0].Closed())
}

func TestSearchTweetsWithoutUsernames(t *testing.T) {
	c, conns, _ := newTestClient(t, "HTTP/1.1 200 OK\r\n\r\n"+searchResponseBody)

	var first SearchResult
	_, err := c.SearchTweets(context.Background(), func(r SearchResult, index, total int) bool {
		first = r
		return false
	}, "esp32", false, "")
	require.NoError(t, err)
	assert.Empty(t, first.Username)

	req, _ := sentRequest(t, conns[0])
	assert.Equal(t, "/2/tweets/search/recent?max_results=10&query=esp32", req.RequestURI)
}

func TestSearchTweetsShortData(t *testing.T) {
	c, _, log := newTestClient(t, "HTTP/1.1 200 OK\r\n\r\n"+`{"data":[{"id":"1","author_id":"9","text":"x"}],"meta":{"result_count":2}}`)

	calls := 0
	count, err := c.SearchTweets(context.Background(), func(SearchResult, int, int) bool {
		calls++
		return true
	}, "x", true, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, calls)
	assert.Contains(t, log.String(), "declared 2 results but returned 1")
}

func TestSearchTweetsNoResults(t *testing.T) {
	c, _, _ := newTestClient(t, "HTTP/1.1 200 OK\r\n\r\n"+`{"meta":{"result_count":0}}`)
	count, err := c.SearchTweets(context.Background(), func(SearchResult, int, int) bool {
		t.Fatal("unexpected callback")
		return true
	}, "nothing", true, "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSearchTweetsErrors(t *testing.T) {
	c, _, _ := newTestClient(t, "HTTP/1.1 429 Too Many Requests\r\n\r\n{\"title\":\"Too Many Requests\"}", "HTTP/1.1 200 OK\r\n\r\n[")

	_, err := c.SearchTweets(context.Background(), nil, "x", false, "")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 429, se.Code)

	_, err = c.SearchTweets(context.Background(), nil, "x", false, "")
	var de *DecodeError
	assert.True(t, errors.As(err, &de))
}

func TestSearchTweetsNoBearerToken(t *testing.T) {
	c, _, _ := newTestClient(t)
	c.SetBearerToken("")
	_, err := c.SearchTweets(context.Background(), nil, "x", false, "")
	assert.Equal(t, ErrNoBearerToken, err)
}

type tokenSourceFunc func() (*oauth2.Token, error)

func (f tokenSourceFunc) Token() (*oauth2.Token, error) { return f() }

func TestSearchTweetsTokenSource(t *testing.T) {
	c, conns, _ := newTestClient(t, "HTTP/1.1 200 OK\r\n\r\n"+searchResponseBody)
	fetched := 0
	WithTokenSource(oauth2.ReuseTokenSource(nil, tokenSourceFunc(func() (*oauth2.Token, error) {
		fetched++
		return &oauth2.Token{AccessToken: "fresh", TokenType: "bearer", Expiry: time.Now().Add(time.Hour)}, nil
	})))(c)

	_, err := c.SearchTweets(context.Background(), nil, "x", false, "")
	require.NoError(t, err)
	assert.Equal(t, 1, fetched)
	req, _ := sentRequest(t, conns[0])
	assert.Equal(t, "Bearer fresh", req.Header.Get("Authorization"))
}

func TestSearchTweetsExpiredToken(t *testing.T) {
	c, _, _ := newTestClient(t)
	WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(-time.Hour)}))(c)
	_, err := c.SearchTweets(context.Background(), nil, "x", false, "")
	assert.Equal(t, ErrNoBearerToken, err)
}

func TestSearchTweetsTokenSourceFails(t *testing.T) {
	c, _, log := newTestClient(t)
	failed := errors.New("token endpoint down")
	WithTokenSource(tokenSourceFunc(func() (*oauth2.Token, error) { return nil, failed }))(c)
	_, err := c.SearchTweets(context.Background(), nil, "x", false, "")
	assert.True(t, errors.Is(err, failed))
	assert.Contains(t, log.String(), "Failed to obtain bearer token")
}
