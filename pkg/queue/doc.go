// Package queue provides abstractions and implementations for publishing
// single messages to managed queues.
//
// Two backends are available: Amazon SQS, addressed by a queue URL, and Kafka,
// addressed by a topic. Both return the identifier the transport assigned to
// the message.
//
// All QueuePublisher implementations require Close to be called once the
// publisher is no longer needed.
package queue
