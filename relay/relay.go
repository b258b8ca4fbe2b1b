// Package relay handles SQS batches of tweet requests in a Lambda.
package relay

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go/service/sqs"

	"goTweetRelay/httpdriver"
	"goTweetRelay/logging"
	"goTweetRelay/tweet"
	"goTweetRelay/twitter"
)

// Twitter is the part of *twitter.Client the relay uses.
type Twitter interface {
	PostTweet(ctx context.Context, text, inReplyTo string) (string, error)
	SearchTweets(ctx context.Context, fn twitter.SearchFunc, query string, includeUsername bool, sinceID string) (int, error)
}

// Queue forwards results and deletes handled input, see sqssrv.TweetsQueue.
type Queue interface {
	Send(ctx context.Context, msgs []*sqs.SendMessageInput, delmsg *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
}

// Handler processes SQS events.
type Handler struct {
	Twitter     Twitter
	Queue       Queue
	InputQueue  string
	OutputQueue string
	// Retries is the number of trys before fail.
	Retries int
	Log     logging.Logger
	// Wait sleeps before retry n, waitABit when nil.
	Wait func(n int)
}

//RandMs (attempt) => Math.round(((2 ** (attempt - 1)) * 64) + (Math.random() * 100))
func RandMs(n int) int64 {
	x := float64(n) - 1
	ms := math.Pow(2, x)*64 + float64(rand.Intn(100-0+1)+1)
	return int64(math.Round(ms))
}

func (h *Handler) waitABit(n int) {
	if h.Wait != nil {
		h.Wait(n)
		return
	}
	ms := RandMs(n)
	h.log().Printf("Waiting for %dms...", ms)
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

func (h *Handler) log() logging.Logger {
	if h.Log == nil {
		return logging.Discard
	}
	return h.Log
}

// Handle Handles AWS SQS Messages in a Lambda. It stops at the first
// message that fails, leaving it and the rest of the batch on the queue.
func (h *Handler) Handle(ctx context.Context, event events.SQSEvent) (string, error) {
	var msgID string
	for _, sqsmsg := range event.Records {
		msgID = sqsmsg.MessageId
		msg := tweet.Message{
			MessageID:     sqsmsg.MessageId,
			MessageBody:   sqsmsg.Body,
			ReceiptHandle: sqsmsg.ReceiptHandle,
		}
		if err := msg.Init(); err != nil {
			return msgID, fmt.Errorf("message %s: %w", msgID, err)
		}
		results, err := h.process(ctx, &msg)
		if err != nil {
			return msgID, fmt.Errorf("message %s: %w", msgID, err)
		}
		out := make([]*sqs.SendMessageInput, 0, len(results))
		for i := range results {
			m, err := results[i].SqsMsg(h.OutputQueue)
			if err != nil {
				return msgID, err
			}
			out = append(out, m)
		}
		if _, err := h.Queue.Send(ctx, out, msg.SqsDelMsg(h.InputQueue)); err != nil {
			return msgID, err
		}
		h.log().Printf("Sent %d results for %s and deleted it Successfully!", len(out), msgID)
	}
	return msgID, nil
}

func (h *Handler) process(ctx context.Context, msg *tweet.Message) ([]tweet.Result, error) {
	var results []tweet.Result
	err := h.retry(msg.Action, func() error {
		results = results[:0]
		switch msg.Action {
		case tweet.ActionSearch:
			_, err := h.Twitter.SearchTweets(ctx, func(r twitter.SearchResult, index, total int) bool {
				results = append(results, tweet.Result{
					Action:   tweet.ActionSearch,
					TweetID:  r.TweetID,
					Query:    msg.Query,
					AuthorID: r.AuthorID,
					Name:     r.Name,
					Username: r.Username,
					Text:     r.Text,
					Index:    index,
					Total:    total,
					SourceID: msg.MessageID,
				})
				return true
			}, msg.Query, msg.IncludeUsername, msg.SinceID)
			return err
		default:
			id, err := h.Twitter.PostTweet(ctx, msg.Text, msg.InReplyTo)
			if err != nil {
				return err
			}
			results = append(results, tweet.Result{
				Action:    tweet.ActionTweet,
				TweetID:   id,
				InReplyTo: msg.InReplyTo,
				Text:      msg.Text,
				SourceID:  msg.MessageID,
			})
			return nil
		}
	})
	return results, err
}

// retry runs fn until it succeeds, fails for good, or Retries is used up.
func (h *Handler) retry(action string, fn func() error) error {
	retries := h.Retries
	if retries < 1 {
		retries = 1
	}
	var err error
	for n := 1; n <= retries; n++ {
		if err = fn(); err == nil {
			return nil
		}
		if !Retryable(action, err) {
			return err
		}
		h.log().Printf("Attempt %d of %d failed: %v", n, retries, err)
		if n < retries {
			h.waitABit(n)
		}
	}
	return fmt.Errorf("failed to %s after %d trys: %w", action, retries, err)
}

// Retryable reports whether err may pass on another attempt. A tweet is only
// retried when the request cannot have reached the API or the API asked for
// a retry, so a tweet is not posted twice.
func Retryable(action string, err error) bool {
	var se *twitter.StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= http.StatusInternalServerError
	}
	if errors.Is(err, httpdriver.ErrConnect) {
		return true
	}
	if action != tweet.ActionSearch {
		return false
	}
	return errors.Is(err, httpdriver.ErrSend) ||
		errors.Is(err, httpdriver.ErrMalformedStatusLine) ||
		errors.Is(err, httpdriver.ErrInvalidResponse)
}
