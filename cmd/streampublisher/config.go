package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ava-labs/file-publisher/pkg/awsconfig"
)

// Config holds all configuration for the streampublisher application
type Config struct {
	Verbose    bool
	File       string
	StreamName string

	AWS awsconfig.Config

	// Metrics settings
	Environment    string
	PushgatewayURL string
}

// buildConfig builds a Config from CLI context flags and the AWS environment
func buildConfig(c *cli.Context) (*Config, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one FILE argument, got %d", c.NArg())
	}

	awsCfg, err := awsconfig.LoadEnv()
	if err != nil {
		return nil, err
	}
	if c.IsSet("region") {
		awsCfg.Region = c.String("region")
	}
	if c.IsSet("profile") {
		awsCfg.Profile = c.String("profile")
	}
	if c.IsSet("endpoint-url") {
		awsCfg.EndpointURL = c.String("endpoint-url")
	}
	if c.Bool("verbose") {
		awsCfg.LogRequests = true
	}

	return &Config{
		Verbose:        c.Bool("verbose"),
		File:           c.Args().First(),
		StreamName:     c.String("stream-name"),
		AWS:            awsCfg,
		Environment:    c.String("environment"),
		PushgatewayURL: c.String("pushgateway-url"),
	}, nil
}
