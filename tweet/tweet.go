package tweet

import (
	json "encoding/json"
	"errors"
	"sort"

	"github.com/fatih/structs"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
)

// Actions a Message can ask for.
const (
	ActionTweet  = "tweet"
	ActionSearch = "search"
)

// sqs allows at most 10 attributes per message.
const maxMsgAttrs = 10

//Message is one request pulled from the input queue.
type Message struct {
	// "tweet" when empty
	Action          string `json:"action,omitempty"`
	Text            string `json:"text,omitempty"`
	InReplyTo       string `json:"in_reply_to,omitempty"`
	Query           string `json:"query,omitempty"`
	IncludeUsername bool   `json:"include_username,omitempty"`
	SinceID         string `json:"since_id,omitempty"`
	// SQS Attributes
	MessageID     string `json:"-"`
	MessageBody   string `json:"-"`
	ReceiptHandle string `json:"-"`
}

// Init assign Message fields from the Json MessageBody and checks them.
func (x *Message) Init() error {
	if err := json.Unmarshal([]byte(x.MessageBody), x); err != nil {
		return err
	}
	if x.Action == "" {
		x.Action = ActionTweet
	}
	switch x.Action {
	case ActionTweet:
		if x.Text == "" {
			return errors.New("tweet: message has no text")
		}
	case ActionSearch:
		if x.Query == "" {
			return errors.New("tweet: search has no query")
		}
	default:
		return errors.New("tweet: unknown action " + x.Action)
	}
	return nil
}

// SqsDelMsg remove msg for processed message
func (x *Message) SqsDelMsg(inputQueue string) *sqs.DeleteMessageInput {
	return &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(inputQueue),
		ReceiptHandle: aws.String(x.ReceiptHandle),
	}
}

// Result is a posted tweet or a search hit forwarded to the output queue.
type Result struct {
	Action    string `json:"action"`
	TweetID   string `json:"tweet_id"`
	InReplyTo string `json:"in_reply_to,omitempty"`
	Query     string `json:"query,omitempty"`
	AuthorID  string `json:"author_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Username  string `json:"username,omitempty"`
	Text      string `json:"text,omitempty"`
	// Index and Total place a search hit in its result set.
	Index int `json:"index,omitempty"`
	Total int `json:"total,omitempty"`
	// SourceID is the id of the input message.
	SourceID string `json:"source_id"`
}

// ToJdoc return json string
func (x *Result) ToJdoc() (string, error) {
	jdoc, err := json.Marshal(x)
	if err != nil {
		return "", err
	}
	return string(jdoc), nil
}

//ToMap return map['string']interface{} of Result
func (x *Result) ToMap() map[string]interface{} {
	return structs.Map(x)
}

// SqsMsgAttr return the non-empty string fields of the Result, except Text,
// as message attributes.
func (x *Result) SqsMsgAttr() map[string]*sqs.MessageAttributeValue {
	fields := x.ToMap()
	delete(fields, "Text")
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok && s != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > maxMsgAttrs {
		keys = keys[:maxMsgAttrs]
	}
	attrs := make(map[string]*sqs.MessageAttributeValue, len(keys))
	for _, k := range keys {
		attrs[k] = &sqs.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(fields[k].(string)),
		}
	}
	return attrs
}

// SqsMsg return message to put into SQS.
func (x *Result) SqsMsg(outputQueue string) (*sqs.SendMessageInput, error) {
	jdoc, err := x.ToJdoc()
	if err != nil {
		return nil, err
	}
	return &sqs.SendMessageInput{
		QueueUrl:          aws.String(outputQueue),
		MessageAttributes: x.SqsMsgAttr(),
		MessageBody:       aws.String(jdoc),
	}, nil
}
