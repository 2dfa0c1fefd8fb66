package publisher

import (
	"context"
	"time"

	"github.com/ava-labs/file-publisher/pkg/message"
	"github.com/ava-labs/file-publisher/pkg/metrics"
	"github.com/ava-labs/file-publisher/pkg/queue"
	"go.uber.org/zap"
)

// QueueFilePublisher sends a file as one QueueMessage.
type QueueFilePublisher struct {
	queue   queue.QueuePublisher
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
	policy  FailurePolicy
}

// NewQueueFilePublisher returns a publisher with DefaultQueuePolicy unless
// overridden. m may be nil.
func NewQueueFilePublisher(q queue.QueuePublisher, m *metrics.Metrics, log *zap.SugaredLogger, opts ...Option) *QueueFilePublisher {
	policy, _ := buildOptions(DefaultQueuePolicy, opts)
	return &QueueFilePublisher{
		queue:   q,
		metrics: m,
		log:     log,
		policy:  policy,
	}
}

func (p *QueueFilePublisher) Policy() FailurePolicy {
	return p.policy
}

// Publish reads path, builds a QueueMessage named path and sends it in one
// call. On success the transport's message ID is logged.
//
// Every failure, whether reading, encoding or sending, is logged and then
// handled according to the publisher's policy.
func (p *QueueFilePublisher) Publish(ctx context.Context, path string) error {
	if path == "" {
		p.metrics.IncReadError(metrics.PublisherQueue)
		return p.policy.Handle(p.log, "fail send message", ErrEmptyPath)
	}

	msg, err := message.ReadQueueMessage(path)
	if err != nil {
		p.metrics.IncReadError(metrics.PublisherQueue)
		return p.policy.Handle(p.log, "fail send message", err, "file", path)
	}

	body, err := msg.Marshal()
	if err != nil {
		p.metrics.IncReadError(metrics.PublisherQueue)
		return p.policy.Handle(p.log, "fail send message", err, "file", path)
	}
	p.metrics.ObservePayloadSize(metrics.PublisherQueue, len(body))

	start := time.Now()
	id, err := p.queue.Publish(ctx, queue.Msg{
		Body: body,
		Key:  []byte(path),
	})
	p.metrics.RecordPublish(metrics.PublisherQueue, err, time.Since(start).Seconds())
	if err != nil {
		return p.policy.Handle(p.log, "fail send message", err, "file", path)
	}

	p.log.Infow("message sent", "file", path, "messageID", id)
	return nil
}
