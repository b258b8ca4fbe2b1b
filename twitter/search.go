package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"goTweetRelay/auth"
)

// SearchResult is one tweet of a search. Name and Username are only set when
// usernames were requested.
type SearchResult struct {
	AuthorID string
	TweetID  string
	Text     string
	Name     string
	Username string
}

// SearchFunc receives each result in order with its index and the total
// declared by the server. Returning false stops the iteration.
type SearchFunc func(result SearchResult, index, total int) bool

type searchResponse struct {
	Data []struct {
		ID       string `json:"id"`
		AuthorID string `json:"author_id"`
		Text     string `json:"text"`
	} `json:"data"`
	Includes struct {
		Users []searchUser `json:"users"`
	} `json:"includes"`
	Meta struct {
		ResultCount int `json:"result_count"`
	} `json:"meta"`
}

type searchUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func searchPath(query string, includeUsername bool, sinceID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s?max_results=%d&query=%s", searchEndpoint, searchMaxResults, auth.PercentEncode(query))
	if includeUsername {
		b.WriteString("&expansions=author_id&user.fields=username")
	}
	if sinceID != "" {
		b.WriteString("&since_id=")
		b.WriteString(auth.PercentEncode(sinceID))
	}
	return b.String()
}

// SearchTweets searches recent tweets with the bearer token and calls fn for
// each result. It returns the result count declared by the server, even when
// fn stops the iteration early.
func (c *Client) SearchTweets(ctx context.Context, fn SearchFunc, query string, includeUsername bool, sinceID string) (int, error) {
	authorization, err := auth.BearerHeader(c.bearer)
	if err != nil {
		c.log.Printf("Failed to obtain bearer token: %v", err)
		return 0, err
	}
	if authorization == "" {
		return 0, ErrNoBearerToken
	}
	path := searchPath(query, includeUsername, sinceID)
	c.debug.Printf("%s", path)

	var total int
	status, err := c.driver.Get(ctx, c.host, path, authorization, jsonContentType, func(status int, r io.Reader) error {
		if status != http.StatusOK {
			return c.parseError(status, r)
		}
		var resp searchResponse
		if err := json.NewDecoder(r).Decode(&resp); err != nil {
			c.log.Printf("Decoding search response failed: %v", err)
			return &DecodeError{Err: err}
		}
		total = resp.Meta.ResultCount
		c.each(&resp, includeUsername, fn)
		return nil
	})
	c.debug.Printf("status Code: %d", status)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (c *Client) each(resp *searchResponse, includeUsername bool, fn SearchFunc) {
	users := make(map[string]searchUser, len(resp.Includes.Users))
	for _, u := range resp.Includes.Users {
		users[u.ID] = u
	}
	total := resp.Meta.ResultCount
	for i := 0; i < total; i++ {
		if i >= len(resp.Data) {
			c.log.Printf("Search declared %d results but returned %d", total, len(resp.Data))
			return
		}
		d := resp.Data[i]
		result := SearchResult{
			AuthorID: d.AuthorID,
			TweetID:  d.ID,
			Text:     d.Text,
		}
		if includeUsername {
			if u, ok := users[d.AuthorID]; ok {
				result.Name = u.Name
				result.Username = u.Username
			}
		}
		if fn != nil && !fn(result, i, total) {
			return
		}
	}
}
