package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ava-labs/file-publisher/pkg/awsconfig"
	"github.com/ava-labs/file-publisher/pkg/metrics"
	"github.com/ava-labs/file-publisher/pkg/publisher"
	"github.com/ava-labs/file-publisher/pkg/stream"
	"github.com/ava-labs/file-publisher/pkg/utils"
)

const pushTimeout = 5 * time.Second

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
		"streamName", cfg.StreamName,
		"region", cfg.AWS.Region,
		"endpointURL", cfg.AWS.EndpointURL,
		"environment", cfg.Environment,
	)

	// Credentials are decided once, before any client exists.
	creds, err := cfg.AWS.Credentials(os.LookupEnv)
	if err != nil {
		return fmt.Errorf("failed to select credentials: %w", err)
	}
	sugar.Debugw("aws credentials", "strategy", creds.String())

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

	awsCfg, err := awsconfig.Load(ctx, cfg.AWS, creds, sugar)
	if err != nil {
		m.RecordPublish(metrics.PublisherStream, err, 0)
		return publisher.DefaultStreamPolicy.Handle(sugar, "put record failed", err, "file", cfg.File)
	}

	fp, err := stream.NewFirehosePublisher(firehose.NewFromConfig(awsCfg), cfg.StreamName, sugar)
	if err != nil {
		return fmt.Errorf("failed to create firehose publisher: %w", err)
	}

	return publisher.NewStreamFilePublisher(fp, m, sugar).Publish(ctx, cfg.File)
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
