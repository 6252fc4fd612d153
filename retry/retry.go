package retry

import (
	"context"
	"fmt"
	"time"
)

// Sleep blocks for d or until ctx is done.
type Sleep func(ctx context.Context, d time.Duration) error

// Event describes a failed attempt.
type Event struct {
	Op      string
	Attempt uint
	Class   Class
	Err     error
	// Wait is the delay before the next attempt.
	Wait time.Duration
	// Final marks the attempt whose error is returned to the caller.
	Final bool
}

// ExhaustedError is returned once a bounded policy runs out of attempts.
type ExhaustedError struct {
	Op       string
	Attempts uint
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempts: %s", e.Op, e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

type Retrier struct {
	sleep             Sleep
	notify            func(Event)
	retryUnclassified bool
}

type Option func(r *Retrier)

func WithSleep(s Sleep) Option {
	return func(r *Retrier) { r.sleep = s }
}

// WithNotify installs a hook called after every failed attempt.
func WithNotify(fn func(Event)) Option {
	return func(r *Retrier) { r.notify = fn }
}

// WithRetryUnclassified makes errors outside the transient allow-list
// retryable too.
func WithRetryUnclassified(on bool) Option {
	return func(r *Retrier) { r.retryUnclassified = on }
}

func New(opts ...Option) *Retrier {
	r := &Retrier{
		sleep:  sleepTimer,
		notify: func(Event) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs op until it succeeds, the error is not retryable, the policy runs
// out of attempts or ctx is done. Every attempt re-invokes op itself, so op
// has to be safe to repeat.
func Do[T any](ctx context.Context, r *Retrier, name string, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var (
		zero T
		b    = p.NewBackOff()
	)

	for attempt := uint(1); ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%s: %w", name, err)
		}

		res, err := op(ctx)
		if err == nil {
			return res, nil
		}

		class := Classify(err)
		ev := Event{Op: name, Attempt: attempt, Class: class, Err: err}

		if class != ClassTransient && !r.retryUnclassified {
			ev.Final = true
			r.notify(ev)
			return zero, err
		}
		if p.Bounded() && attempt >= p.MaxAttempts {
			ev.Final = true
			r.notify(ev)
			return zero, &ExhaustedError{Op: name, Attempts: attempt, Err: err}
		}

		ev.Wait = b.NextBackOff()
		r.notify(ev)

		if err := r.sleep(ctx, ev.Wait); err != nil {
			return zero, fmt.Errorf("%s: interrupted after %d attempts: %w", name, attempt, err)
		}
	}
}

// Run is Do for operations without a result.
func Run(ctx context.Context, r *Retrier, name string, p Policy, op func(ctx context.Context) error) error {
	_, err := Do(ctx, r, name, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

func sleepTimer(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
