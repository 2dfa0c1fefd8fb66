package main

import (
	"github.com/urfave/cli/v2"
)

// runFlags returns all CLI flags for the streampublisher command
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
			Name:     "stream-name",
			Aliases:  []string{"s"},
			Usage:    "The name of the delivery stream to put the record to",
			EnvVars:  []string{"STREAM_NAME"},
			Required: true,
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
