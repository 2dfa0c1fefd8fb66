// Package awsconfig builds AWS SDK configuration for the publishers.
//
// Credential sourcing is decided once, up front, by SelectStrategy: inside a
// hosted runtime the SDK's ambient credential chain is used as is, anywhere
// else a named shared-config profile is required.
package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Config holds the AWS settings shared by both publishers.
type Config struct {
	Region          string `env:"AWS_REGION"             envDefault:"us-east-1"`        // Region of the queue and delivery stream
	HostedEnvMarker string `env:"HOSTED_ENV_MARKER"      envDefault:"LAMBDA_TASK_ROOT"` // Env var whose presence means credentials are ambient
	Profile         string `env:"AWS_CREDENTIAL_PROFILE" envDefault:"default"`          // Shared-config profile used outside a hosted runtime
	EndpointURL     string `env:"AWS_ENDPOINT_URL"`                                     // Overrides service endpoints, e.g. for LocalStack
	LogRequests     bool   `env:"AWS_LOG_REQUESTS"       envDefault:"false"`            // Log every SDK request and response
}

// LoadEnv loads the AWS settings from environment variables.
func LoadEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse aws config: %w", err)
	}
	return cfg, nil
}

// Credentials resolves the credential strategy for this process using lookup
// to read the hosted runtime marker.
func (c Config) Credentials(lookup LookupFunc) (Credentials, error) {
	return SelectStrategy(lookup, c.HostedEnvMarker, c.Profile)
}

// Load builds an aws.Config for cfg using the already selected credentials.
// When cfg.LogRequests is set, SDK request logs are written to log.
func Load(ctx context.Context, cfg Config, creds Credentials, log *zap.SugaredLogger) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}

	if creds.Strategy == StrategyProfile {
		opts = append(opts, config.WithSharedConfigProfile(creds.Profile))
	}

	if cfg.LogRequests && log != nil {
		opts = append(opts,
			config.WithLogger(NewLogger(log)),
			config.WithClientLogMode(aws.LogRequest|aws.LogResponse|aws.LogRetries),
		)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config (credentials: %s): %w", creds, err)
	}

	if cfg.EndpointURL != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.EndpointURL)
	}

	return awsCfg, nil
}
