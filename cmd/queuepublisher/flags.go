package main

import (
	"github.com/urfave/cli/v2"

	"github.com/ava-labs/file-publisher/pkg/queue"
)

// runFlags returns all CLI flags for the queuepublisher command
func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable verbose logging, including AWS request logs",
			EnvVars: []string{"VERBOSE"},
			Value:   false,
		},
		&cli.StringFlag{
			Name:    "queue-backend",
			Aliases: []string{"b"},
			Usage:   "The queue backend to publish to (sqs or kafka)",
			EnvVars: []string{"QUEUE_BACKEND"},
			Value:   queue.BackendSQS,
		},
		&cli.StringFlag{
			Name:    "queue-url",
			Aliases: []string{"q"},
			Usage:   "The URL of the SQS queue (required for the sqs backend)",
			EnvVars: []string{"QUEUE_URL"},
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Usage:   "The Kafka brokers to use (comma-separated list, kafka backend)",
			EnvVars: []string{"KAFKA_BROKERS"},
			Value:   "localhost:9092",
		},
		&cli.StringFlag{
			Name:    "kafka-topic",
			Aliases: []string{"t"},
			Usage:   "The Kafka topic to publish to (required for the kafka backend)",
			EnvVars: []string{"KAFKA_TOPIC"},
		},
		&cli.StringFlag{
			Name:    "kafka-client-id",
			Usage:   "The Kafka client ID to use",
			EnvVars: []string{"KAFKA_CLIENT_ID"},
			Value:   appName,
		},
		&cli.BoolFlag{
			Name:    "kafka-ensure-topic",
			Usage:   "Create the Kafka topic (or grow its partitions) before publishing",
			EnvVars: []string{"KAFKA_ENSURE_TOPIC"},
			Value:   false,
		},
		&cli.IntFlag{
			Name:    "kafka-topic-num-partitions",
			Usage:   "The number of partitions to use for the Kafka topic (must be greater than 0)",
			EnvVars: []string{"KAFKA_TOPIC_NUM_PARTITIONS"},
			Value:   1,
		},
		&cli.IntFlag{
			Name:    "kafka-topic-replication-factor",
			Usage:   "The replication factor to use for the Kafka topic (must be greater than 0)",
			EnvVars: []string{"KAFKA_TOPIC_REPLICATION_FACTOR"},
			Value:   1,
		},
		&cli.BoolFlag{
			Name:    "kafka-enable-logs",
			Aliases: []string{"l"},
			Usage:   "Enable Kafka client logs",
			EnvVars: []string{"KAFKA_ENABLE_LOGS"},
			Value:   false,
		},
		&cli.StringFlag{
			Name:  "region",
			Usage: "AWS region, overrides AWS_REGION",
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "Shared-config profile used outside a hosted environment, overrides AWS_CREDENTIAL_PROFILE",
		},
		&cli.StringFlag{
			Name:  "endpoint-url",
			Usage: "Override the AWS endpoint (e.g. http://localhost:4566 for LocalStack), overrides AWS_ENDPOINT_URL",
		},
		&cli.StringFlag{
			Name:    "environment",
			Aliases: []string{"E"},
			Usage:   "Deployment environment for metrics labels (e.g., 'production', 'staging')",
			EnvVars: []string{"ENVIRONMENT"},
			Value:   "",
		},
		&cli.StringFlag{
			Name:    "pushgateway-url",
			Usage:   "Prometheus Pushgateway to push metrics to before exiting (disabled if empty)",
			EnvVars: []string{"PUSHGATEWAY_URL"},
			Value:   "",
		},
	}
}
