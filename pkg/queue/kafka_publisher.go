package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"
)

// KafkaPublisher is a synchronous Kafka producer implementation of QueuePublisher.
//
// Publish blocks until a delivery confirmation is received from Kafka.
// Background goroutines are used to process Kafka producer events and logs.
//
// Close MUST be called at least once to stop background goroutines and flush
// all in-flight messages.
type KafkaPublisher struct {
	producer   *kafka.Producer
	topic      string
	log        *zap.SugaredLogger
	errCh      chan error
	eventsDone chan struct{}
	logsDone   chan struct{}
	closedCh   chan struct{}
	once       sync.Once
}

const (
	flushTimeoutMs           = 10000
	queueFullErrorRetryDelay = time.Second
)

var ErrEmptyTopic = errors.New("kafka topic is required")

// NewKafkaPublisher creates a Kafka-backed QueuePublisher that writes every
// message to topic.
//
// The provided context controls the lifetime of background goroutines.
// Canceling the context signals the publisher to stop processing events.
//
// Callers must call Close to flush messages and release resources.
func NewKafkaPublisher(ctx context.Context, conf *kafka.ConfigMap, topic string, log *zap.SugaredLogger) (*KafkaPublisher, error) {
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	logsChEnabled, err := conf.Get("go.logs.channel.enable", false)
	if err != nil {
		return nil, fmt.Errorf("failed to get go.logs.channel.enable: %w", err)
	}

	p, err := kafka.NewProducer(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	kq := KafkaPublisher{
		producer:   p,
		topic:      topic,
		log:        log,
		eventsDone: make(chan struct{}),
		logsDone:   make(chan struct{}),
		errCh:      make(chan error, 1),
		closedCh:   make(chan struct{}),
	}

	if logsChEnabled.(bool) {
		go kq.printKafkaLogs(ctx)
	} else {
		close(kq.logsDone)
	}

	go kq.monitorProducerEvents(ctx)

	return &kq, nil
}

// Publish synchronously publishes a message to Kafka and returns its
// position formatted as topic[partition]@offset.
//
// Publish blocks until either a delivery receipt is received from Kafka
// or the provided context is canceled. If the local producer queue is full,
// Publish waits for it to drain before handing the message over.
//
// If the context is canceled before delivery confirmation, Publish returns
// ctx.Err(). The message MAY still be delivered after Publish returns.
func (q *KafkaPublisher) Publish(ctx context.Context, msg Msg) (string, error) {
	deliveryCh := make(chan kafka.Event, 1)

	kMsg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &q.topic,
			Partition: kafka.PartitionAny,
		},
		Value:   msg.Body,
		Key:     msg.Key,
		Headers: toKafkaHeaders(msg.Attributes),
	}

	if err := q.produce(ctx, kMsg, deliveryCh); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-q.errCh:
		return "", fmt.Errorf("kafka publisher failed: %w", err)
	case e := <-deliveryCh:
		return handleDeliveryEvent(q.log, e)
	}
}

// Close stops background goroutines and flushes all pending messages.
//
// If the context is canceled, Close aborts the flush and closes the producer.
// Callers should be aware that canceling the context may result in message loss.
//
// Calling Close multiple times does nothing.
func (q *KafkaPublisher) Close(ctx context.Context) {
	q.once.Do(func() {
		q.log.Debug("closing kafka publisher")

		// Signal the monitor or logs goroutines to stop.
		close(q.closedCh)

		// Wait for the monitor or logs goroutines to stop.
		<-q.eventsDone
		<-q.logsDone

		for q.producer.Flush(flushTimeoutMs) > 0 {
			q.log.Warn("producer queue not flushed, retrying")
			select {
			case <-ctx.Done():
				q.log.Warn("context done, stopping producer flush")
				q.producer.Close()
				return
			default:
			}
		}

		q.producer.Close()
		q.log.Debug("kafka publisher closed")
	})
}

func (q *KafkaPublisher) printKafkaLogs(ctx context.Context) {
	defer close(q.logsDone)
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closedCh:
			return
		case log, ok := <-q.producer.Logs():
			if !ok {
				return
			}
			q.log.Debugf("level: %d tag: %s message: %s ", log.Level, log.Tag, log.Message)
		}
	}
}

// produce hands msg to the local producer queue.
//
// A full local queue is not a delivery failure, so produce waits and tries
// again. Every other error is returned as is.
func (q *KafkaPublisher) produce(
	ctx context.Context,
	msg *kafka.Message,
	deliveryCh chan kafka.Event,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := q.producer.Produce(msg, deliveryCh)
		if err == nil {
			return nil
		}

		var kafkaErr kafka.Error
		if !errors.As(err, &kafkaErr) {
			return fmt.Errorf("failed to produce: %w", err)
		}

		switch kafkaErr.Code() {
		case kafka.ErrQueueFull:
			q.log.Warnf("producer queue full, waiting %s", queueFullErrorRetryDelay)
			time.Sleep(queueFullErrorRetryDelay)
			continue
		case kafka.ErrBrokerNotAvailable:
			return fmt.Errorf("broker not available: %w", err)
		case kafka.ErrInvalidMsgSize, kafka.ErrMsgSizeTooLarge:
			return fmt.Errorf("invalid message size: %w", err)
		case kafka.ErrInvalidMsg:
			return fmt.Errorf("invalid message: %w", err)
		case kafka.ErrUnknownTopicOrPart:
			return fmt.Errorf("unknown topic or partition: %w", err)
		case kafka.ErrAuthentication:
			return fmt.Errorf("authentication error: %w", err)
		default:
			return fmt.Errorf("failed to produce: %w", err)
		}
	}
}

func (q *KafkaPublisher) monitorProducerEvents(ctx context.Context) {
	defer close(q.eventsDone)
	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closedCh:
			return
		case ev, ok := <-q.producer.Events():
			if !ok {
				q.reportFatal(errors.New("kafka producer event channel closed"))
				return
			}

			switch e := ev.(type) {
			case kafka.Error:
				if e.IsFatal() || e.Code() == kafka.ErrAllBrokersDown {
					q.reportFatal(fmt.Errorf("fatal err or ErrAllBrokersDown: %#x, %w", e.Code(), e))
					return
				}
				q.log.Warnf("ignoring kafka error: %#x, %v", e.Code(), e)
			default:
				q.log.Debugf("ignoring kafka event: %v", e)
			}
		}
	}
}

func (q *KafkaPublisher) reportFatal(err error) {
	select {
	case q.errCh <- err:
	default:
		q.log.Warnf("error channel is full, dropping: %v", err)
	}
}

func handleDeliveryEvent(log *zap.SugaredLogger, ev kafka.Event) (string, error) {
	switch e := ev.(type) {
	case *kafka.Message:
		if err := e.TopicPartition.Error; err != nil {
			return "", fmt.Errorf("delivery failed: %w", err)
		}

		id := messageID(e.TopicPartition)
		log.Debugf("delivered %s", id)
		return id, nil

	case kafka.Error:
		return "", fmt.Errorf(
			"kafka error: code=%d fatal=%t: %w",
			e.Code(),
			e.IsFatal(),
			e,
		)

	default:
		return "", fmt.Errorf("unexpected delivery event: %T", ev)
	}
}

func messageID(tp kafka.TopicPartition) string {
	topic := ""
	if tp.Topic != nil {
		topic = *tp.Topic
	}
	return fmt.Sprintf("%s[%d]@%d", topic, tp.Partition, int64(tp.Offset))
}

func toKafkaHeaders(attrs map[string]string) []kafka.Header {
	if len(attrs) == 0 {
		return nil
	}
	headers := make([]kafka.Header, 0, len(attrs))
	for k, v := range attrs {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}
