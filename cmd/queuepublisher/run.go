package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	confluentKafka "github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ava-labs/file-publisher/pkg/awsconfig"
	"github.com/ava-labs/file-publisher/pkg/metrics"
	"github.com/ava-labs/file-publisher/pkg/publisher"
	"github.com/ava-labs/file-publisher/pkg/queue"
	"github.com/ava-labs/file-publisher/pkg/utils"
)

const (
	flushTimeoutOnClose = 15 * time.Second
	pushTimeout         = 5 * time.Second
)

func run(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}

	sugar, err := utils.NewSugaredLogger(appName, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer sugar.Desugar().Sync() //nolint:errcheck // best-effort flush; ignore sync errors

	sugar.Debugw("config",
		"file", cfg.File,
		"backend", cfg.Backend,
		"queueURL", cfg.QueueURL,
		"kafkaBrokers", cfg.KafkaBrokers,
		"kafkaTopic", cfg.KafkaTopic,
		"region", cfg.AWS.Region,
		"endpointURL", cfg.AWS.EndpointURL,
		"environment", cfg.Environment,
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	m, err := metrics.NewWithLabels(registry, metrics.Labels{
		Environment: cfg.Environment,
		Region:      cfg.AWS.Region,
	})
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	if cfg.PushgatewayURL != "" {
		defer pushMetrics(sugar, cfg.PushgatewayURL, registry)
	}

	q, err := newQueuePublisher(ctx, cfg, sugar)
	if err != nil {
		m.RecordPublish(metrics.PublisherQueue, err, 0)
		return publisher.DefaultQueuePolicy.Handle(sugar, "fail send message", err, "file", cfg.File)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), flushTimeoutOnClose)
		defer cancel()
		q.Close(closeCtx)
	}()

	return publisher.NewQueueFilePublisher(q, m, sugar).Publish(ctx, cfg.File)
}

// newQueuePublisher creates the QueuePublisher for the configured backend.
// For SQS the credential strategy is resolved here, once.
func newQueuePublisher(ctx context.Context, cfg *Config, sugar *zap.SugaredLogger) (queue.QueuePublisher, error) {
	switch cfg.Backend {
	case queue.BackendKafka:
		if cfg.KafkaEnsureTopic {
			if err := ensureKafkaTopic(ctx, cfg, sugar); err != nil {
				return nil, err
			}
		}
		kp, err := queue.NewKafkaPublisher(ctx, cfg.KafkaProducerConfig(), cfg.KafkaTopic, sugar)
		if err != nil {
			return nil, err
		}
		return kp, nil

	case queue.BackendSQS:
		creds, err := cfg.AWS.Credentials(os.LookupEnv)
		if err != nil {
			return nil, fmt.Errorf("failed to select credentials: %w", err)
		}
		sugar.Debugw("aws credentials", "strategy", creds.String())

		awsCfg, err := awsconfig.Load(ctx, cfg.AWS, creds, sugar)
		if err != nil {
			return nil, err
		}
		sp, err := queue.NewSQSPublisher(sqs.NewFromConfig(awsCfg), cfg.QueueURL, sugar)
		if err != nil {
			return nil, err
		}
		return sp, nil

	default:
		return nil, fmt.Errorf("unknown queue backend %q", cfg.Backend)
	}
}

func ensureKafkaTopic(ctx context.Context, cfg *Config, sugar *zap.SugaredLogger) error {
	admin, err := confluentKafka.NewAdminClient(&confluentKafka.ConfigMap{"bootstrap.servers": cfg.KafkaBrokers})
	if err != nil {
		return fmt.Errorf("failed to create kafka admin client: %w", err)
	}
	defer admin.Close()

	if err := queue.EnsureTopic(ctx, admin, cfg.KafkaTopicConfig(), sugar); err != nil {
		return fmt.Errorf("failed to ensure kafka topic exists: %w", err)
	}
	return nil
}

func pushMetrics(sugar *zap.SugaredLogger, url string, g prometheus.Gatherer) {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()

	grouping := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		grouping["instance"] = host
	}
	if err := metrics.Push(ctx, url, appName, g, grouping); err != nil {
		sugar.Warnw("failed to push metrics", "error", err)
	}
}
