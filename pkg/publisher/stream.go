package publisher

import (
	"context"
	"time"

	"github.com/ava-labs/file-publisher/pkg/message"
	"github.com/ava-labs/file-publisher/pkg/metrics"
	"github.com/ava-labs/file-publisher/pkg/stream"
	"go.uber.org/zap"
)

// StreamFilePublisher appends a file as one newline-terminated StreamRecord.
type StreamFilePublisher struct {
	stream  stream.StreamPublisher
	metrics *metrics.Metrics
	log     *zap.SugaredLogger
	policy  FailurePolicy
	clock   func() time.Time
}

// NewStreamFilePublisher returns a publisher with DefaultStreamPolicy unless
// overridden. m may be nil.
func NewStreamFilePublisher(s stream.StreamPublisher, m *metrics.Metrics, log *zap.SugaredLogger, opts ...Option) *StreamFilePublisher {
	policy, clock := buildOptions(DefaultStreamPolicy, opts)
	return &StreamFilePublisher{
		stream:  s,
		metrics: m,
		log:     log,
		policy:  policy,
		clock:   clock,
	}
}

func (p *StreamFilePublisher) Policy() FailurePolicy {
	return p.policy
}

// Publish reads path as text, stamps a StreamRecord with the current time and
// puts it in one call. On success the full transport response is logged.
//
// Every failure is logged and then handled according to the publisher's
// policy; with the default Fatal policy it is returned to the caller.
func (p *StreamFilePublisher) Publish(ctx context.Context, path string) error {
	if path == "" {
		p.metrics.IncReadError(metrics.PublisherStream)
		return p.policy.Handle(p.log, "put record failed", ErrEmptyPath)
	}

	rec, err := message.ReadStreamRecord(path, p.clock)
	if err != nil {
		p.metrics.IncReadError(metrics.PublisherStream)
		return p.policy.Handle(p.log, "put record failed", err, "file", path)
	}

	data, err := rec.Marshal()
	if err != nil {
		p.metrics.IncReadError(metrics.PublisherStream)
		return p.policy.Handle(p.log, "put record failed", err, "file", path)
	}
	p.metrics.ObservePayloadSize(metrics.PublisherStream, len(data))

	start := time.Now()
	res, err := p.stream.Put(ctx, stream.Record{Data: data})
	p.metrics.RecordPublish(metrics.PublisherStream, err, time.Since(start).Seconds())
	if err != nil {
		return p.policy.Handle(p.log, "put record failed", err, "file", path, "createdAt", rec.CreatedAt)
	}

	p.log.Infow("done",
		"file", path,
		"createdAt", rec.CreatedAt,
		"recordID", res.RecordID,
		"encrypted", res.Encrypted,
	)
	return nil
}
