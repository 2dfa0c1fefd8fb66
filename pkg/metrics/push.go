package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

var ErrEmptyJob = errors.New("pushgateway job name is required")

// Push sends everything gathered from g to the Pushgateway at url under job,
// replacing metrics previously pushed with the same grouping.
//
// The publishers exit right after their single call, so they are never
// scraped; pushing once at exit is the only way their metrics are kept.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer, grouping map[string]string) error {
	if job == "" {
		return ErrEmptyJob
	}

	p := push.New(url, job).Gatherer(g)
	for k, v := range grouping {
		if v == "" {
			continue
		}
		p = p.Grouping(k, v)
	}

	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
