package queue

import "context"

// Msg represents a queue message.
//
// Body contains the message payload.
// Key is used for partitioning when supported by the backend.
// Attributes contains additional string metadata.
type Msg struct {
	Body       []byte
	Key        []byte
	Attributes map[string]string
}

type QueuePublisher interface {
	// Publish sends a message to the underlying queue and returns the
	// identifier assigned to it by the transport.
	//
	// Publish performs a single attempt. Implementations block until the
	// transport acknowledges the message or the context is canceled.
	Publish(ctx context.Context, message Msg) (string, error)

	// Close stops the publisher and releases all resources.
	//
	// Implementations may block while flushing in-flight messages. Canceling
	// the context may result in message loss depending on the implementation.
	Close(ctx context.Context)
}

const (
	BackendSQS   = "sqs"
	BackendKafka = "kafka"
)
