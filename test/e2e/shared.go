//go:build e2e

package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/file-publisher/pkg/awsconfig"
	"github.com/ava-labs/file-publisher/pkg/utils"
)

func getEnvStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadLocalAWS builds an aws.Config pointed at the LocalStack endpoint started
// by Docker Compose. The run is treated as hosted so static test credentials
// from the environment are used.
func loadLocalAWS(t *testing.T, ctx context.Context) aws.Config {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", getEnvStr("AWS_ACCESS_KEY_ID", "test"))
	t.Setenv("AWS_SECRET_ACCESS_KEY", getEnvStr("AWS_SECRET_ACCESS_KEY", "test"))

	cfg := awsconfig.Config{
		Region:          getEnvStr("AWS_REGION", "us-east-1"),
		HostedEnvMarker: awsconfig.DefaultHostedEnvMarker,
		EndpointURL:     getEnvStr("AWS_ENDPOINT_URL", "http://localhost:4566"),
	}
	creds, err := cfg.Credentials(func(string) (string, bool) { return "e2e", true })
	require.NoError(t, err)

	log, err := utils.NewSugaredLogger("e2e", true)
	require.NoError(t, err)

	awsCfg, err := awsconfig.Load(ctx, cfg, creds, log)
	require.NoError(t, err)
	return awsCfg
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}
