package sqssrv

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
)

// TweetsQueue forwards relay results and removes processed input messages.
type TweetsQueue struct {
	srv sqsiface.SQSAPI
}

// New returns a TweetsQueue over an existing SQS client.
func New(srv sqsiface.SQSAPI) *TweetsQueue {
	return &TweetsQueue{srv: srv}
}

// GetSrv return a TweetsQueue with a new session in region.
func GetSrv(region string) (*TweetsQueue, error) {
	awsSession, err := session.NewSession(&aws.Config{
		Region: aws.String(region)},
	)
	if err != nil {
		return nil, err
	}
	return New(sqs.New(awsSession)), nil
}

// Send sends each sqs message and then removes delmsg from its queue. The
// input is left in place if any send fails so it is redelivered.
func (c *TweetsQueue) Send(ctx context.Context, msgs []*sqs.SendMessageInput, delmsg *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	for _, msg := range msgs {
		if _, err := c.srv.SendMessageWithContext(ctx, msg); err != nil {
			return nil, err
		}
	}
	return c.srv.DeleteMessageWithContext(ctx, delmsg)
}
