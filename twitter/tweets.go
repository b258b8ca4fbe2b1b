package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"goTweetRelay/httpdriver"
)

type tweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

func tweetBody(text, inReplyTo string) (string, error) {
	t := tweetRequest{Text: text}
	if inReplyTo != "" {
		t.Reply = &tweetReply{InReplyToTweetID: inReplyTo}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// PostTweet posts text, as a reply when inReplyTo is not empty, and returns
// the new tweet id. Every call creates a new tweet.
func (c *Client) PostTweet(ctx context.Context, text, inReplyTo string) (string, error) {
	body, err := tweetBody(text, inReplyTo)
	if err != nil {
		return "", err
	}
	c.debug.Printf("body: %s", body)
	authorization, err := c.Authorize(http.MethodPost, c.url(tweetsEndpoint), "", "")
	if err != nil {
		return "", err
	}
	var id string
	status, err := c.driver.Post(ctx, c.host, tweetsEndpoint, authorization, body, jsonContentType, func(status int, r io.Reader) error {
		if !httpdriver.IsSuccess(status, http.StatusOK, http.StatusCreated) {
			return c.parseError(status, r)
		}
		var resp tweetResponse
		if err := json.NewDecoder(r).Decode(&resp); err != nil {
			c.log.Printf("Decoding tweet response failed: %v", err)
			return &DecodeError{Err: err}
		}
		if resp.Data.ID == "" {
			return &DecodeError{Err: errors.New("missing data.id")}
		}
		id = resp.Data.ID
		return nil
	})
	c.debug.Printf("status Code: %d", status)
	if err != nil {
		return "", err
	}
	c.LastTweetID = id
	return id, nil
}
