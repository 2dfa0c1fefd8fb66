package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

// SQSAPI is the subset of the SQS client used by SQSPublisher.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends each message with one SendMessage call to a fixed queue URL.
type SQSPublisher struct {
	client   SQSAPI
	queueURL string
	log      *zap.SugaredLogger
}

var ErrEmptyQueueURL = errors.New("queue url is required")

func NewSQSPublisher(client SQSAPI, queueURL string, log *zap.SugaredLogger) (*SQSPublisher, error) {
	if queueURL == "" {
		return nil, ErrEmptyQueueURL
	}
	return &SQSPublisher{
		client:   client,
		queueURL: queueURL,
		log:      log,
	}, nil
}

// Publish sends msg.Body as the message body. Attributes are sent as String
// message attributes; Key is ignored since standard queues are unordered.
func (p *SQSPublisher) Publish(ctx context.Context, msg Msg) (string, error) {
	in := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(msg.Body)),
	}
	if len(msg.Attributes) > 0 {
		in.MessageAttributes = make(map[string]types.MessageAttributeValue, len(msg.Attributes))
		for k, v := range msg.Attributes {
			in.MessageAttributes[k] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(v),
			}
		}
	}

	out, err := p.client.SendMessage(ctx, in)
	if err != nil {
		return "", fmt.Errorf("failed to send message to %s: %w", p.queueURL, err)
	}

	id := aws.ToString(out.MessageId)
	p.log.Debugw("message sent",
		"queueURL", p.queueURL,
		"messageID", id,
		"md5OfBody", aws.ToString(out.MD5OfMessageBody),
	)
	return id, nil
}

// Close is a no-op; the SQS client holds no resources that need releasing.
func (p *SQSPublisher) Close(context.Context) {}
