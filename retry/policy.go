package retry

import (
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy is an immutable backoff configuration. MaxAttempts == 0 retries
// until the operation succeeds.
type Policy struct {
	MaxAttempts uint
	Factor      float64
	MinWait     time.Duration
	MaxWait     time.Duration
}

var (
	// Critical is used for order operations.
	Critical = Policy{
		MaxAttempts: 10,
		Factor:      1.2,
		MinWait:     10 * time.Second,
		MaxWait:     60 * time.Second,
	}

	// Forever suits idempotent reads where waiting beats giving up.
	// Never use it for calls that move funds.
	Forever = Policy{
		Factor:  1.2,
		MinWait: 10 * time.Second,
		MaxWait: 300 * time.Second,
	}
)

func (p Policy) Bounded() bool {
	return p.MaxAttempts > 0
}

// NewBackOff returns a fresh jitter-free schedule yielding
// min(MaxWait, MinWait*Factor^i) for the i-th wait.
func (p Policy) NewBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.MinWait
	b.RandomizationFactor = 0
	b.Multiplier = p.Factor
	b.MaxInterval = p.MaxWait
	b.Reset()
	return b
}

// Waits returns the first n waits of the schedule.
func (p Policy) Waits(n int) []time.Duration {
	b := p.NewBackOff()
	waits := make([]time.Duration, n)
	for i := range waits {
		waits[i] = b.NextBackOff()
	}
	return waits
}
