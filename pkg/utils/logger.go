package utils

import (
	"fmt"

	"go.uber.org/zap"
)

// NewSugaredLogger creates a sugared logger named after the command.
// If verbose is true, it uses the development config (console encoding, debug
// level), otherwise the production config (JSON, info level). Stack traces are
// only attached in verbose mode; a failed publish is an expected outcome.
func NewSugaredLogger(name string, verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = !verbose

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l.Named(name).Sugar(), nil
}
