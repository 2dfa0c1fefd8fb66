package awsconfig

import (
	"errors"
	"fmt"
)

// DefaultHostedEnvMarker is set by AWS Lambda in every function environment.
const DefaultHostedEnvMarker = "LAMBDA_TASK_ROOT"

// Strategy identifies where credentials come from.
type Strategy int

const (
	// StrategyAmbient relies on credentials supplied by the hosted runtime.
	StrategyAmbient Strategy = iota
	// StrategyProfile reads credentials from a named shared-config profile.
	StrategyProfile
)

func (s Strategy) String() string {
	switch s {
	case StrategyAmbient:
		return "ambient"
	case StrategyProfile:
		return "profile"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Credentials is the outcome of SelectStrategy.
type Credentials struct {
	Strategy Strategy
	// Profile is empty for StrategyAmbient.
	Profile string
}

func (c Credentials) String() string {
	if c.Strategy == StrategyProfile {
		return fmt.Sprintf("%s(%s)", c.Strategy, c.Profile)
	}
	return c.Strategy.String()
}

var (
	ErrMissingProfile = errors.New("a credential profile is required outside a hosted environment")
	ErrMissingMarker  = errors.New("hosted environment marker name is required")
)

// SelectStrategy picks StrategyAmbient when the marker variable is set to a
// non-empty value and StrategyProfile with profile otherwise.
func SelectStrategy(lookup LookupFunc, marker, profile string) (Credentials, error) {
	if marker == "" {
		return Credentials{}, ErrMissingMarker
	}

	if v, ok := lookup(marker); ok && v != "" {
		return Credentials{Strategy: StrategyAmbient}, nil
	}

	if profile == "" {
		return Credentials{}, ErrMissingProfile
	}
	return Credentials{Strategy: StrategyProfile, Profile: profile}, nil
}
