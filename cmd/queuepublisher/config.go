package main

import (
	"errors"
	"fmt"

	confluentKafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/urfave/cli/v2"

	"github.com/ava-labs/file-publisher/pkg/awsconfig"
	"github.com/ava-labs/file-publisher/pkg/queue"
)

const messageMaxBytes = 1048576 // 1MiB

// Config holds all configuration for the queuepublisher application
type Config struct {
	// Application settings
	Verbose bool
	File    string

	// Queue settings
	Backend  string
	QueueURL string

	// Kafka settings
	KafkaBrokers    string
	KafkaTopic      string
	KafkaClientID   string
	KafkaEnableLogs bool

	// Kafka topic settings, applied only when KafkaEnsureTopic is set
	KafkaEnsureTopic            bool
	KafkaTopicNumPartitions     int
	KafkaTopicReplicationFactor int

	// AWS settings
	AWS awsconfig.Config

	// Metrics settings
	Environment    string
	PushgatewayURL string
}

// KafkaProducerConfig builds a Kafka producer ConfigMap from the config
func (c *Config) KafkaProducerConfig() *confluentKafka.ConfigMap {
	return &confluentKafka.ConfigMap{
		"bootstrap.servers": c.KafkaBrokers,
		"client.id":         c.KafkaClientID,

		// Reliability: wait for all replicas to acknowledge
		"acks": "all",

		// A single message is sent per run, so there is nothing to batch
		"linger.ms": 0,

		// Go channel for logs (optional, enable for debugging)
		"go.logs.channel.enable": c.KafkaEnableLogs,
		"message.max.bytes":      messageMaxBytes,
	}
}

// KafkaTopicConfig returns the topic settings used by kafka-ensure-topic
func (c *Config) KafkaTopicConfig() queue.TopicConfig {
	return queue.TopicConfig{
		Name:              c.KafkaTopic,
		NumPartitions:     c.KafkaTopicNumPartitions,
		ReplicationFactor: c.KafkaTopicReplicationFactor,
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case queue.BackendSQS:
		if c.QueueURL == "" {
			return errors.New("queue-url is required for the sqs backend")
		}
	case queue.BackendKafka:
		if c.KafkaTopic == "" {
			return errors.New("kafka-topic is required for the kafka backend")
		}
		if c.KafkaBrokers == "" {
			return errors.New("kafka-brokers is required for the kafka backend")
		}
		if c.KafkaEnsureTopic {
			if err := c.KafkaTopicConfig().Validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown queue backend %q (expected %s or %s)", c.Backend, queue.BackendSQS, queue.BackendKafka)
	}
	return nil
}

// buildConfig builds a Config from CLI context flags and the AWS environment
func buildConfig(c *cli.Context) (*Config, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one FILE argument, got %d", c.NArg())
	}

	awsCfg, err := buildAWSConfig(c)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Verbose:         c.Bool("verbose"),
		File:            c.Args().First(),
		Backend:         c.String("queue-backend"),
		QueueURL:        c.String("queue-url"),
		KafkaBrokers:    c.String("kafka-brokers"),
		KafkaTopic:      c.String("kafka-topic"),
		KafkaClientID:   c.String("kafka-client-id"),
		KafkaEnableLogs: c.Bool("kafka-enable-logs"),

		KafkaEnsureTopic:            c.Bool("kafka-ensure-topic"),
		KafkaTopicNumPartitions:     c.Int("kafka-topic-num-partitions"),
		KafkaTopicReplicationFactor: c.Int("kafka-topic-replication-factor"),
		AWS:             awsCfg,
		Environment:     c.String("environment"),
		PushgatewayURL:  c.String("pushgateway-url"),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildAWSConfig loads AWS settings from the environment and applies flag overrides
func buildAWSConfig(c *cli.Context) (awsconfig.Config, error) {
	cfg, err := awsconfig.LoadEnv()
	if err != nil {
		return awsconfig.Config{}, err
	}
	if c.IsSet("region") {
		cfg.Region = c.String("region")
	}
	if c.IsSet("profile") {
		cfg.Profile = c.String("profile")
	}
	if c.IsSet("endpoint-url") {
		cfg.EndpointURL = c.String("endpoint-url")
	}
	if c.Bool("verbose") {
		cfg.LogRequests = true
	}
	return cfg, nil
}
