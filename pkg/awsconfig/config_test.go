package awsconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// isolateAWSEnv points the SDK at empty shared config files and clears
// settings inherited from the developer's shell.
func isolateAWSEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	for _, key := range []string{
		"AWS_PROFILE",
		"AWS_ACCESS_KEY_ID",
		"AWS_SECRET_ACCESS_KEY",
		"AWS_SESSION_TOKEN",
		"AWS_ENDPOINT_URL",
		"AWS_REGION",
		"HOSTED_ENV_MARKER",
		"AWS_CREDENTIAL_PROFILE",
		"AWS_LOG_REQUESTS",
	} {
		unsetenv(t, key)
	}
	return dir
}

// unsetenv removes key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadEnv_Defaults(t *testing.T) {
	isolateAWSEnv(t)

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Region:          "us-east-1",
		HostedEnvMarker: DefaultHostedEnvMarker,
		Profile:         "default",
	}, cfg)
}

func TestLoadEnv_Overrides(t *testing.T) {
	isolateAWSEnv(t)
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("HOSTED_ENV_MARKER", "K_SERVICE")
	t.Setenv("AWS_CREDENTIAL_PROFILE", "uploader")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:4566")
	t.Setenv("AWS_LOG_REQUESTS", "true")

	cfg, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, Config{
		Region:          "eu-west-1",
		HostedEnvMarker: "K_SERVICE",
		Profile:         "uploader",
		EndpointURL:     "http://localhost:4566",
		LogRequests:     true,
	}, cfg)
}

func TestLoadEnv_InvalidBool(t *testing.T) {
	isolateAWSEnv(t)
	t.Setenv("AWS_LOG_REQUESTS", "not-a-bool")

	_, err := LoadEnv()
	require.Error(t, err)
}

func TestConfig_Credentials(t *testing.T) {
	cfg := Config{HostedEnvMarker: DefaultHostedEnvMarker, Profile: "uploader"}

	creds, err := cfg.Credentials(lookupFrom(map[string]string{"LAMBDA_TASK_ROOT": "/var/task"}))
	require.NoError(t, err)
	assert.Equal(t, StrategyAmbient, creds.Strategy)

	creds, err = cfg.Credentials(lookupFrom(nil))
	require.NoError(t, err)
	assert.Equal(t, Credentials{Strategy: StrategyProfile, Profile: "uploader"}, creds)
}

func TestLoad_Ambient(t *testing.T) {
	isolateAWSEnv(t)
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDAMBIENT")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	awsCfg, err := Load(t.Context(), Config{Region: "us-east-1"}, Credentials{Strategy: StrategyAmbient}, nil)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", awsCfg.Region)
	assert.Nil(t, awsCfg.BaseEndpoint)

	creds, err := awsCfg.Credentials.Retrieve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "AKIDAMBIENT", creds.AccessKeyID)
}

func TestLoad_Profile(t *testing.T) {
	dir := isolateAWSEnv(t)
	credsFile := "[uploader]\naws_access_key_id = AKIDPROFILE\naws_secret_access_key = secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials"), []byte(credsFile), 0o600))

	awsCfg, err := Load(
		t.Context(),
		Config{Region: "eu-west-1"},
		Credentials{Strategy: StrategyProfile, Profile: "uploader"},
		nil,
	)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", awsCfg.Region)

	creds, err := awsCfg.Credentials.Retrieve(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "AKIDPROFILE", creds.AccessKeyID)
}

func TestLoad_MissingProfile(t *testing.T) {
	isolateAWSEnv(t)

	_, err := Load(
		t.Context(),
		Config{Region: "us-east-1"},
		Credentials{Strategy: StrategyProfile, Profile: "does-not-exist"},
		nil,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile(does-not-exist)")
}

func TestLoad_EndpointAndLogging(t *testing.T) {
	isolateAWSEnv(t)
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	awsCfg, err := Load(
		t.Context(),
		Config{Region: "us-east-1", EndpointURL: "http://localhost:4566", LogRequests: true},
		Credentials{Strategy: StrategyAmbient},
		zaptest.NewLogger(t).Sugar(),
	)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4566", aws.ToString(awsCfg.BaseEndpoint))
	assert.True(t, awsCfg.ClientLogMode.IsRequest())
	assert.True(t, awsCfg.ClientLogMode.IsResponse())
	assert.IsType(t, &Logger{}, awsCfg.Logger)
}

func TestLogger_Logf(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLogger(zap.New(core).Sugar())

	l.Logf(logging.Debug, "request %s", "PutRecord")
	l.Logf(logging.Warn, "retrying %d", 1)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "request PutRecord", entries[0].Message)
	assert.Equal(t, "aws", entries[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "retrying 1", entries[1].Message)
}
