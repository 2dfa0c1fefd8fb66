// Package publisher reads a local file, wraps it in its envelope and hands it
// to a transport in a single call.
//
// Each publisher carries a FailurePolicy. Queue publishing is best-effort and
// defaults to NonFatal; stream publishing must be visible to whatever invoked
// the process and defaults to Fatal.
package publisher

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// FailurePolicy decides what Publish does with a failure after logging it.
type FailurePolicy int

const (
	// NonFatal logs the failure and returns nil.
	NonFatal FailurePolicy = iota
	// Fatal logs the failure and returns it.
	Fatal
)

func (p FailurePolicy) String() string {
	switch p {
	case NonFatal:
		return "non-fatal"
	case Fatal:
		return "fatal"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// Default policies. Queue delivery is best-effort; a stream failure has to
// reach the orchestrator that started the process.
const (
	DefaultQueuePolicy  = NonFatal
	DefaultStreamPolicy = Fatal
)

var ErrEmptyPath = errors.New("file path is required")

// Handle logs err with msg and applies the policy.
func (p FailurePolicy) Handle(log *zap.SugaredLogger, msg string, err error, keysAndValues ...interface{}) error {
	kv := append(keysAndValues, "error", err, "policy", p.String())
	if p == Fatal {
		log.Errorw(msg, kv...)
		return fmt.Errorf("%s: %w", msg, err)
	}
	log.Warnw(msg, kv...)
	return nil
}

// Option configures a publisher.
type Option func(*options)

type options struct {
	policy *FailurePolicy
	clock  func() time.Time
}

// WithFailurePolicy overrides the publisher's default policy.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *options) {
		o.policy = &p
	}
}

// WithClock sets the clock used to stamp records. Only StreamFilePublisher
// reads a clock.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func buildOptions(defaultPolicy FailurePolicy, opts []Option) (FailurePolicy, func() time.Time) {
	o := options{clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	policy := defaultPolicy
	if o.policy != nil {
		policy = *o.policy
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	return policy, o.clock
}
